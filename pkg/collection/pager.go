package collection

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"github.com/hashicorp/go-hclog"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
	"github.com/nylas/nylas-ruby-sub000/pkg/query"
)

// pager fetches one page per call. done reports that no further call
// should be made.
type pager interface {
	next(ctx context.Context) (items []any, done bool, err error)
}

// iterate drains a fresh pager lazily on every range, converting each raw
// item. The first error ends the sequence.
func iterate[T any](ctx context.Context, newPager func() pager, convert func(any) (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		p := newPager()
		for {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			items, done, err := p.next(ctx)
			if err != nil {
				yield(zero, err)
				return
			}
			for _, raw := range items {
				item, err := convert(raw)
				if err != nil {
					yield(zero, err)
					return
				}
				if !yield(item, nil) {
					return
				}
			}
			if done {
				return
			}
		}
	}
}

// offsetPager pages through a list endpoint by offset.
type offsetPager struct {
	exec        model.Executor
	path        string
	constraints query.Constraints
	fetched     int
	logger      hclog.Logger
}

func (p *offsetPager) next(ctx context.Context) ([]any, bool, error) {
	size := p.constraints.PerPage()
	limit, hasLimit := p.constraints.Limit()
	if hasLimit {
		remaining := limit - p.fetched
		if remaining <= 0 {
			return nil, true, nil
		}
		size = min(remaining, size)
	}

	q := p.constraints.Query()
	q["limit"] = size

	p.logger.Debug("fetching page", "path", p.path, "offset", p.constraints.Offset(), "limit", size)

	resp, err := p.exec.Execute(ctx, api.Request{
		Method: http.MethodGet,
		Path:   p.path,
		Query:  q,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to list %s: %w", p.path, err)
	}

	var items []any
	switch v := resp.(type) {
	case nil:
	case []any:
		items = v
	default:
		return nil, false, fmt.Errorf("%w: expected a list from %s, got %T",
			api.ErrUnexpectedResponse, p.path, resp)
	}
	if len(items) > size {
		items = items[:size]
	}

	p.fetched += len(items)
	p.constraints = p.constraints.NextPage()

	done := len(items) < size || (hasLimit && p.fetched >= limit)
	return items, done, nil
}
