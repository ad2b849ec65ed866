package discard

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/imeji/internal/cmd/base"
	"github.com/hashicorp-forge/imeji/pkg/imeji"
)

type Command struct {
	*base.Command

	flagComment string
}

func (c *Command) Synopsis() string {
	return "Discard a released collection, album or profile"
}

func (c *Command) Help() string {
	return `Usage: imeji discard [options] -comment=<text> <kind> <id>

  Withdraw a released collection, album or profile. The comment is
  recorded by the service as the reason.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("discard", flag.ContinueOnError))
	c.ClientFlags(f)
	f.StringVar(&c.flagComment, "comment", "", "(Required) Reason for discarding.")
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
	if c.flagComment == "" {
		c.UI.Error("comment flag is required")
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
	d, ok := r.(imeji.Discardable)
	if !ok {
		return c.Error(fmt.Errorf("%s resources cannot be discarded", r.Kind()))
	}
	if err := d.Discard(ctx, c.flagComment); err != nil {
		return c.Error(fmt.Errorf("error discarding %s %s: %w", kind, id, err))
	}

	c.UI.Info(fmt.Sprintf("Discarded %s %s", kind, id))
	return 0
}
