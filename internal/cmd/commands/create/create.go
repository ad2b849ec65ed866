package create

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/imeji/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Create a resource"
}

func (c *Command) Help() string {
	return `Usage: imeji create [options] <kind> [properties]

  Create a collection, item, album or profile. Properties are key=value
  pairs separated by semicolons. Values starting with { or [ are read as
  JSON. The property _file attaches a local file to an item.

  Examples:
    imeji create collection 'title=Research Data;description=Field work'
    imeji create item '_file=photo.png;collectionId=FKMxUpYdV9N2J4XG'` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("create", flag.ContinueOnError))
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
	if len(args) < 1 || len(args) > 2 {
		c.UI.Error("expected a kind and optional properties")
		c.UI.Error(c.Help())
		return 1
	}
	kind := args[0]

	var props string
	if len(args) == 2 {
		props = args[1]
	}
	fields, err := base.ParseProperties(props)
	if err != nil {
		return c.Error(err)
	}

	ctx, cancel := c.Context()
	defer cancel()

	client, err := c.Client(ctx)
	if err != nil {
		return c.Error(err)
	}

	r, err := client.Create(ctx, kind, fields)
	if err != nil {
		return c.Error(fmt.Errorf("error creating %s: %w", kind, err))
	}
	c.Log.Info("created resource", "kind", r.Kind(), "id", r.ID())

	if err := c.OutputResource(r); err != nil {
		return c.Error(err)
	}
	return 0
}

