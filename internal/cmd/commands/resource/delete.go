package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/nylas/nylas-ruby-sub000/internal/cmd/base"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
)

type DeleteCommand struct {
	*base.Command

	client base.ClientFlags
}

func (c *DeleteCommand) Synopsis() string {
	return "Delete one record"
}

func (c *DeleteCommand) Help() string {
	return `Usage: nylas delete [options] <resource> <id>

  Deletes a record. Resources that cannot be deleted, such as messages,
  fail before any request is sent.` +
		c.Flags().Help()
}

func (c *DeleteCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("delete", flag.ContinueOnError))
	c.client.Register(f)
	return f
}

func (c *DeleteCommand) Run(args []string) int {
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
	err = c.Retry(ctx, c.client.Retries, func() error {
		return coll.Destroy(ctx, model.ID(id))
	})
	if err != nil {
		return c.Fail(fmt.Sprintf("error deleting %s %s", name, id), err)
	}

	c.UI.Info(fmt.Sprintf("Deleted %s %s", name, id))
	return 0
}
