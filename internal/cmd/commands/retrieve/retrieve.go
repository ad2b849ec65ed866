package retrieve

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/imeji/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagBrowser bool
}

func (c *Command) Synopsis() string {
	return "Retrieve a resource"
}

func (c *Command) Help() string {
	return `Usage: imeji retrieve [options] <kind> <id>

  Fetch a collection, item, album or profile and print it.

  Example:
    imeji retrieve collection FKMxUpYdV9N2J4XG` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("retrieve", flag.ContinueOnError))
	c.ClientFlags(f)
	f.BoolVar(
		&c.flagBrowser, "browser", false,
		"Also open the resource in the imeji web interface.",
	)
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
		return c.Error(fmt.Errorf("error retrieving %s %s: %w", kind, id, err))
	}
	if err := c.OutputResource(r); err != nil {
		return c.Error(err)
	}

	if c.flagBrowser {
		u := WebURL(client.ServiceURL(), r)
		c.Log.Debug("opening browser", "url", u)
		if err := c.OpenURL(u); err != nil {
			return c.Error(fmt.Errorf("error opening browser: %w", err))
		}
	}
	return 0
}

// WebURL returns the address of the resource's page in the web interface.
func WebURL(serviceURL string, r interface {
	Name() string
	ID() string
}) string {
	return strings.TrimRight(serviceURL, "/") + "/" + r.Name() + "/" + r.ID()
}
