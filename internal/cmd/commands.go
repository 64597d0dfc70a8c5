package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/nylas/nylas-ruby-sub000/internal/cmd/base"
	"github.com/nylas/nylas-ruby-sub000/internal/cmd/commands/authorize"
	"github.com/nylas/nylas-ruby-sub000/internal/cmd/commands/deltas"
	"github.com/nylas/nylas-ruby-sub000/internal/cmd/commands/resource"
	"github.com/nylas/nylas-ruby-sub000/internal/cmd/commands/version"
)

// Commands is the mapping of all available commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.New(log, ui)

	Commands = map[string]cli.CommandFactory{
		"list": func() (cli.Command, error) {
			return &resource.ListCommand{Command: b}, nil
		},
		"show": func() (cli.Command, error) {
			return &resource.ShowCommand{Command: b}, nil
		},
		"count": func() (cli.Command, error) {
			return &resource.CountCommand{Command: b}, nil
		},
		"delete": func() (cli.Command, error) {
			return &resource.DeleteCommand{Command: b}, nil
		},
		"deltas": func() (cli.Command, error) {
			return &deltas.Command{Command: b}, nil
		},
		"authorize": func() (cli.Command, error) {
			return &authorize.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
