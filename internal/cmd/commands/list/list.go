package list

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/imeji/internal/cmd/base"
	"github.com/hashicorp-forge/imeji/pkg/imeji"
)

type Command struct {
	*base.Command

	flagQuery  string
	flagSize   int
	flagOffset int
}

func (c *Command) Synopsis() string {
	return "List resources"
}

func (c *Command) Help() string {
	return `Usage: imeji list [options] <kinds>

  List collections, items, albums or profiles. The output maps each
  identifier to the summary returned by the service.

  Example:
    imeji list -q 'title=Research' -size 20 collections` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagQuery, "q", "", "Search query.")
	f.IntVar(&c.flagSize, "size", 0, "Maximum number of results.")
	f.IntVar(&c.flagOffset, "offset", 0, "Number of results to skip.")
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	args = f.Args()
	if len(args) != 1 {
		c.UI.Error("expected a plural kind, e.g. collections")
		c.UI.Error(c.Help())
		return 1
	}
	name := args[0]

	params := imeji.Params{}
	if c.flagQuery != "" {
		params["q"] = c.flagQuery
	}
	if c.flagSize > 0 {
		params["size"] = c.flagSize
	}
	if c.flagOffset > 0 {
		params["offset"] = c.flagOffset
	}

	ctx, cancel := c.Context()
	defer cancel()

	client, err := c.Client(ctx)
	if err != nil {
		return c.Error(err)
	}

	d, err := client.Dispatch(name)
	if err != nil {
		return c.Error(err)
	}
	refs, err := d.List(ctx, params)
	if err != nil {
		return c.Error(fmt.Errorf("error listing %s: %w", name, err))
	}

	if page := client.Pagination(); page.TotalNumberOfResults > 0 {
		c.Log.Info("pagination",
			"total", page.TotalNumberOfResults,
			"returned", page.NumberOfResults,
			"offset", page.Offset,
			"size", page.Size,
		)
	}

	if err := c.OutputReferences(refs); err != nil {
		return c.Error(err)
	}
	return 0
}
