package delete

import (
	"flag"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp-forge/imeji/internal/cmd/base"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Delete resources"
}

func (c *Command) Help() string {
	return `Usage: imeji delete [options] <kind> <id> [<id>...]

  Delete one or more resources of the same kind. All ids are attempted;
  the command fails if any of them could not be deleted.

  Example:
    imeji delete item Wo1JI_oZNyrfxV_t rDp0F_9CMgz9aC2x` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("delete", flag.ContinueOnError))
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
	if len(args) < 2 {
		c.UI.Error("expected a kind and at least one id")
		c.UI.Error(c.Help())
		return 1
	}
	kind, ids := args[0], args[1:]

	ctx, cancel := c.Context()
	defer cancel()

	client, err := c.Client(ctx)
	if err != nil {
		return c.Error(err)
	}

	var result *multierror.Error
	for _, id := range ids {
		r, err := base.FetchResource(ctx, client, kind, id)
		if err == nil {
			err = client.Delete(ctx, r)
		}
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s %s: %w", kind, id, err))
			continue
		}
		c.UI.Info(fmt.Sprintf("Deleted %s %s", kind, id))
	}

	if err := result.ErrorOrNil(); err != nil {
		return c.Error(err)
	}
	return 0
}
