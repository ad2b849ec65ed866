package base

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/pkg/browser"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/imeji/internal/config"
	"github.com/hashicorp-forge/imeji/pkg/imeji"
)

// Command is the base of all imeji commands.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Fs is used for the configuration file and item attachments.
	Fs afero.Fs

	// HTTPClient is passed to the imeji client when set.
	HTTPClient *http.Client

	// OpenURL opens a URL in the user's browser.
	OpenURL func(url string) error

	flagService  string
	flagConfig   string
	flagFormat   string
	flagLogLevel string
}

// New returns a base command writing to ui.
func New(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log:     log,
		UI:      ui,
		Fs:      afero.NewOsFs(),
		OpenURL: browser.OpenURL,
	}
}

// ClientFlags registers the flags shared by commands talking to the service.
func (c *Command) ClientFlags(f *FlagSet) {
	f.StringVar(
		&c.flagService, "service", "",
		"URL of the imeji service. Overrides the configuration file and "+
			config.EnvServiceURL+".",
	)
	f.StringVar(
		&c.flagConfig, "config", "",
		"Path to the configuration file. Defaults to imeji/config.hcl in the "+
			"user configuration directory.",
	)
	f.StringVar(
		&c.flagFormat, "format", FormatJSON,
		"Output format: json or yaml.",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "",
		"Log level: trace, debug, info, warn or error. Defaults to "+
			"IMEJI_LOG_LEVEL or warn.",
	)
}

// Context returns a context canceled on interrupt.
func (c *Command) Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// Config loads the configuration file.
func (c *Command) Config() (*config.Config, error) {
	path := c.flagConfig
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return config.Load(c.Fs, path)
}

// Client loads the configuration and connects to the service.
func (c *Command) Client(ctx context.Context) (*imeji.Client, error) {
	if err := c.setLogLevel(); err != nil {
		return nil, err
	}
	if err := c.checkFormat(); err != nil {
		return nil, err
	}

	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.ClientOptions(c.flagService)
	if err != nil {
		return nil, err
	}
	opts.Logger = c.Log.Named("client")
	opts.Fs = c.Fs
	opts.HTTPClient = c.HTTPClient

	c.Log.Debug("connecting to imeji service",
		"url", opts.ServiceURL, "restricted", opts.Restricted, "config", cfg.Path())
	return imeji.New(ctx, opts)
}

func (c *Command) setLogLevel() error {
	level := c.flagLogLevel
	if level == "" {
		level = os.Getenv("IMEJI_LOG_LEVEL")
	}
	if level == "" {
		return nil
	}
	l := hclog.LevelFromString(level)
	if l == hclog.NoLevel {
		return fmt.Errorf("invalid log level %q", level)
	}
	c.Log.SetLevel(l)
	return nil
}

// Error reports err and returns the exit status for a failed command.
func (c *Command) Error(err error) int {
	msg := err.Error()
	if errors.Is(err, imeji.ErrServiceUnavailable) {
		msg += "\n\nCheck the service URL in the configuration file or pass -service."
	}
	c.UI.Error(strings.TrimSpace(msg))
	return 1
}

// FetchResource fetches the resource of the named kind. The kind must be
// singular, e.g. "collection".
func FetchResource(ctx context.Context, client *imeji.Client, kind, id string) (imeji.Resource, error) {
	d, err := client.Dispatch(kind)
	if err != nil {
		return nil, err
	}
	if d.IsList() {
		return nil, fmt.Errorf("%q is a list, use the singular %q", kind, d.Kind())
	}
	return d.Fetch(ctx, id)
}
