package resource

import (
	"context"
	"flag"
	"fmt"

	"github.com/nylas/nylas-ruby-sub000/internal/cmd/base"
	"github.com/nylas/nylas-ruby-sub000/pkg/collection"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
)

type ListCommand struct {
	*base.Command

	client      base.ClientFlags
	flagLimit   int
	flagOffset  int
	flagPerPage int
	flagWhere   base.KeyValues
	flagSearch  string
	flagView    string
	flagFormat  string
}

func (c *ListCommand) Synopsis() string {
	return "List the records of a resource"
}

func (c *ListCommand) Help() string {
	return `Usage: nylas list [options] <resource>

  Lists records of a resource such as events, messages or threads. Every
  page is read before the records are printed as one document; -limit
  bounds the total.` +
		c.Flags().Help()
}

func (c *ListCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))
	c.client.Register(f)

	if c.flagWhere == nil {
		c.flagWhere = base.KeyValues{}
	}
	f.IntVar(&c.flagLimit, "limit", -1, "Maximum number of records. Negative means no limit.")
	f.IntVar(&c.flagOffset, "offset", 0, "Number of records to skip.")
	f.IntVar(&c.flagPerPage, "per-page", 100, "Records requested per page.")
	f.Var(c.flagWhere, "where", "Filter as key=value. May be repeated.")
	f.StringVar(&c.flagSearch, "search", "", "Free-text search query.")
	f.StringVar(&c.flagView, "view", "", "Response view, e.g. expanded.")
	f.StringVar(&c.flagFormat, "format", base.FormatJSON, "Output format: json or yaml.")

	return f
}

func (c *ListCommand) Run(args []string) int {
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

	coll, err = c.refine(coll)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	ctx := context.Background()
	var records []*model.Record
	err = c.Retry(ctx, c.client.Retries, func() error {
		records, err = coll.Collect(ctx)
		return err
	})
	if err != nil {
		return c.Fail("error listing "+flags.Arg(0), err)
	}

	out, err := base.Records(records)
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

func (c *ListCommand) refine(coll *collection.Collection) (*collection.Collection, error) {
	var err error
	if len(c.flagWhere) > 0 {
		if coll, err = coll.Where(c.flagWhere); err != nil {
			return nil, err
		}
	}
	if c.flagSearch != "" {
		if coll, err = coll.Search(c.flagSearch); err != nil {
			return nil, err
		}
	}
	coll = coll.Limit(c.flagLimit)
	if c.flagView != "" {
		coll = coll.View(c.flagView)
	}
	return coll.Offset(c.flagOffset).PerPage(c.flagPerPage), nil
}
