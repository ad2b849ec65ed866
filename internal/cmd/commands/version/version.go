package version

import (
	"github.com/hashicorp-forge/imeji/internal/cmd/base"
	"github.com/hashicorp-forge/imeji/internal/version"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Print the version"
}

func (c *Command) Help() string {
	return `Usage: imeji version

  Print the version of the imeji CLI.`
}

func (c *Command) Run(args []string) int {
	c.UI.Output("imeji " + version.Version)
	return 0
}
