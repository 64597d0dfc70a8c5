package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/nylas/nylas-ruby-sub000/internal/cmd/base"
)

type CountCommand struct {
	*base.Command

	client    base.ClientFlags
	flagWhere base.KeyValues
}

func (c *CountCommand) Synopsis() string {
	return "Count the records of a resource"
}

func (c *CountCommand) Help() string {
	return `Usage: nylas count [options] <resource>

  Prints the number of matching records as reported by the server.` +
		c.Flags().Help()
}

func (c *CountCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("count", flag.ContinueOnError))
	c.client.Register(f)
	if c.flagWhere == nil {
		c.flagWhere = base.KeyValues{}
	}
	f.Var(c.flagWhere, "where", "Filter as key=value. May be repeated.")
	return f
}

func (c *CountCommand) Run(args []string) int {
	flags := c.Flags()
	if err := flags.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if flags.NArg() != 1 {
		c.UI.Error("exactly one resource name is required")
		return 1
	}

	svc, err := c.Service(c.client)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	coll, err := svc.Collection(flags.Arg(0))
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if len(c.flagWhere) > 0 {
		if coll, err = coll.Where(c.flagWhere); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	ctx := context.Background()
	var n int
	err = c.Retry(ctx, c.client.Retries, func() error {
		n, err = coll.Count(ctx)
		return err
	})
	if err != nil {
		return c.Fail("error counting "+flags.Arg(0), err)
	}

	c.UI.Output(fmt.Sprint(n))
	return 0
}
