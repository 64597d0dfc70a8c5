package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/nylas/nylas-ruby-sub000/internal/cmd/base"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
)

type ShowCommand struct {
	*base.Command

	client     base.ClientFlags
	flagFormat string
}

func (c *ShowCommand) Synopsis() string {
	return "Show one record"
}

func (c *ShowCommand) Help() string {
	return `Usage: nylas show [options] <resource> <id>

  Fetches a single record by id.` +
		c.Flags().Help()
}

func (c *ShowCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("show", flag.ContinueOnError))
	c.client.Register(f)
	f.StringVar(&c.flagFormat, "format", base.FormatJSON, "Output format: json or yaml.")
	return f
}

func (c *ShowCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if flags.NArg() != 2 {
		c.UI.Error("a resource name and an id are required")
		return 1
	}
	name, id := flags.Arg(0), flags.Arg(1)

	svc, err := c.Service(c.client)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	coll, err := svc.Collection(name)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx := context.Background()
	var rec *model.Record
	err = c.Retry(ctx, c.client.Retries, func() error {
		rec, err = coll.Find(ctx, id)
		return err
	})
	if err != nil {
		return c.Fail(fmt.Sprintf("error fetching %s %s", name, id), err)
	}

	out, err := rec.Serialize()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if err := c.Output(c.flagFormat, out); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
