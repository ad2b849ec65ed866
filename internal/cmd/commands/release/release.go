package release

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/imeji/internal/cmd/base"
	"github.com/hashicorp-forge/imeji/pkg/imeji"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Release a collection, album or profile"
}

func (c *Command) Help() string {
	return `Usage: imeji release [options] <kind> <id>

  Publish a collection, album or profile. A service in private mode
  refuses releases; with mode = "private" in the configuration that
  refusal is reported as success.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("release", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	args = f.Args()
	if len(args) != 2 {
		c.UI.Error("expected a kind and an id")
		c.UI.Error(c.Help())
		return 1
	}
	kind, id := args[0], args[1]

	ctx, cancel := c.Context()
	defer cancel()

	client, err := c.Client(ctx)
	if err != nil {
		return c.Error(err)
	}

	r, err := base.FetchResource(ctx, client, kind, id)
	if err != nil {
		return c.Error(err)
	}
	rel, ok := r.(imeji.Releasable)
	if !ok {
		return c.Error(fmt.Errorf("%s resources cannot be released", r.Kind()))
	}
	if err := rel.Release(ctx); err != nil {
		return c.Error(fmt.Errorf("error releasing %s %s: %w", kind, id, err))
	}

	c.UI.Info(fmt.Sprintf("Released %s %s", kind, id))
	return 0
}
