package deltas

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/nylas/nylas-ruby-sub000/internal/cmd/base"
	"github.com/nylas/nylas-ruby-sub000/pkg/collection"
)

type Command struct {
	*base.Command

	client      base.ClientFlags
	flagCursor  string
	flagInclude string
	flagExclude string
	flagFormat  string
}

func (c *Command) Synopsis() string {
	return "Print changes since a cursor"
}

func (c *Command) Help() string {
	return `Usage: nylas deltas [options]

  Without -cursor, prints the latest cursor for the account. With -cursor,
  prints the changes since that cursor under "deltas" and the cursor to
  resume from under "cursor".` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("deltas", flag.ContinueOnError))
	c.client.Register(f)
	f.StringVar(&c.flagCursor, "cursor", "", "Cursor to read changes from.")
	f.StringVar(&c.flagInclude, "include", "", "Comma separated object types to include.")
	f.StringVar(&c.flagExclude, "exclude", "", "Comma separated object types to exclude.")
	f.StringVar(&c.flagFormat, "format", base.FormatJSON, "Output format: json or yaml.")
	return f
}

func (c *Command) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	svc, err := c.Service(c.client)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	var opts []collection.FeedOption
	if c.flagInclude != "" {
		opts = append(opts, collection.IncludeTypes(splitList(c.flagInclude)...))
	}
	if c.flagExclude != "" {
		opts = append(opts, collection.ExcludeTypes(splitList(c.flagExclude)...))
	}
	feed := svc.Deltas(opts...)
	ctx := context.Background()

	if c.flagCursor == "" {
		var cursor string
		err := c.Retry(ctx, c.client.Retries, func() error {
			cursor, err = feed.LatestCursor(ctx)
			return err
		})
		if err != nil {
			return c.Fail("error fetching latest cursor", err)
		}
		c.UI.Output(cursor)
		return 0
	}

	changes := []any{}
	stream := feed.Stream(c.flagCursor)
	for d, err := range stream.All(ctx) {
		if err != nil {
			return c.Fail("error reading deltas", err)
		}
		changes = append(changes, map[string]any{
			"id":         d.ID,
			"object":     d.Object,
			"event":      d.Event,
			"cursor":     d.Cursor,
			"attributes": d.Attributes,
		})
	}

	out := map[string]any{
		"cursor": stream.Cursor(),
		"deltas": changes,
	}
	if err := c.Output(c.flagFormat, out); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	c.Log.Debug("caught up", "changes", len(changes), "cursor", stream.Cursor())
	return 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
