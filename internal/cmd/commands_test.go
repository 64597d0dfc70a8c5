package cmd

import (
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsHaveHelp(t *testing.T) {
	initCommands(hclog.NewNullLogger(), cli.NewMockUi())

	for _, name := range []string{"list", "show", "count", "delete", "deltas", "authorize", "version"} {
		t.Run(name, func(t *testing.T) {
			factory, ok := Commands[name]
			require.True(t, ok)

			c, err := factory()
			require.NoError(t, err)
			assert.NotEmpty(t, c.Synopsis())
			assert.Contains(t, c.Help(), "Usage: nylas "+name)
		})
	}
}
