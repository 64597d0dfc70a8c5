// Package base holds what every CLI command shares: logger, UI, flag
// handling and the steps that turn a config file into a service.
package base

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/nylas/nylas-ruby-sub000/internal/config"
	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
	"github.com/nylas/nylas-ruby-sub000/pkg/nylas"
)

// Command is embedded by every command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
	Fs  afero.Fs

	// NewExecutor builds the executor commands talk to. Tests replace it.
	NewExecutor func(*api.Config) (model.Executor, error)
}

// New returns a command base using the OS filesystem.
func New(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log: log,
		UI:  ui,
		Fs:  afero.NewOsFs(),
		NewExecutor: func(cfg *api.Config) (model.Executor, error) {
			return api.NewClient(cfg)
		},
	}
}

// FlagSet wraps a flag.FlagSet with help rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help renders the flag defaults for a command's help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n\n")
	f.SetOutput(&buf)
	f.PrintDefaults()
	return strings.TrimRight(buf.String(), "\n")
}

// ClientFlags are the flags shared by commands that call the API.
type ClientFlags struct {
	Config  string
	Retries int
}

// Register adds the client flags to f.
func (c *ClientFlags) Register(f *FlagSet) {
	f.StringVar(&c.Config, "config", "", "Path to an HCL config file.")
	f.IntVar(&c.Retries, "retries", 0,
		"Retry throttled, unavailable and timed out requests this many times.")
}

// LoadConfig reads the config file, if any, and the environment.
func (c *Command) LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(c.Fs, path)
	if err != nil {
		return nil, err
	}
	if level := hclog.LevelFromString(cfg.LogLevel); level != hclog.NoLevel {
		c.Log.SetLevel(level)
	}
	return cfg, nil
}

// Service loads configuration and returns a service bound to a new client.
func (c *Command) Service(flags ClientFlags) (*nylas.Service, error) {
	cfg, err := c.LoadConfig(flags.Config)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	apiCfg, err := cfg.APIConfig()
	if err != nil {
		return nil, err
	}
	apiCfg.Logger = c.Log

	exec, err := c.NewExecutor(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("error creating API client: %w", err)
	}
	return nylas.NewService(exec, c.Log), nil
}

// Retry runs op, retrying transient API errors with exponential backoff up
// to retries times.
func (c *Command) Retry(ctx context.Context, retries int, op func() error) error {
	if retries <= 0 {
		return op()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 10 * time.Second

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !api.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		c.Log.Warn("retrying after transient error", "attempt", attempt, "error", err)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(retries)), ctx))
}

// Fail reports err and returns the exit code for it.
func (c *Command) Fail(msg string, err error) int {
	c.UI.Error(fmt.Sprintf("%s: %v", msg, err))
	if errors.Is(err, api.ErrResourceNotFound) {
		return 2
	}
	return 1
}
