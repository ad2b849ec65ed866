package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/imeji/internal/cmd/base"
	"github.com/hashicorp-forge/imeji/internal/cmd/commands/create"
	deletecmd "github.com/hashicorp-forge/imeji/internal/cmd/commands/delete"
	"github.com/hashicorp-forge/imeji/internal/cmd/commands/discard"
	"github.com/hashicorp-forge/imeji/internal/cmd/commands/list"
	"github.com/hashicorp-forge/imeji/internal/cmd/commands/release"
	"github.com/hashicorp-forge/imeji/internal/cmd/commands/retrieve"
	"github.com/hashicorp-forge/imeji/internal/cmd/commands/version"
)

// Commands returns the command table of the CLI.
func Commands(log hclog.Logger, ui cli.Ui) map[string]cli.CommandFactory {
	return commands(base.New(log, ui))
}

func commands(b *base.Command) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"create": func() (cli.Command, error) {
			return &create.Command{Command: b}, nil
		},
		"retrieve": func() (cli.Command, error) {
			return &retrieve.Command{Command: b}, nil
		},
		"list": func() (cli.Command, error) {
			return &list.Command{Command: b}, nil
		},
		"delete": func() (cli.Command, error) {
			return &deletecmd.Command{Command: b}, nil
		},
		"release": func() (cli.Command, error) {
			return &release.Command{Command: b}, nil
		},
		"discard": func() (cli.Command, error) {
			return &discard.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
