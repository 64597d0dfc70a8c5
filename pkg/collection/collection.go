package collection

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"sort"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/mapstructure"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
	"github.com/nylas/nylas-ruby-sub000/pkg/query"
)

// Option configures a Collection.
type Option func(*Collection)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Collection) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithConstraints sets the starting constraints.
func WithConstraints(q query.Constraints) Option {
	return func(c *Collection) {
		c.constraints = q
	}
}

// Collection is a query over one resource. It owns no records; every call
// that reads goes to the server. Methods that refine the query return a new
// Collection and never modify the receiver.
type Collection struct {
	schema      *model.Schema
	exec        model.Executor
	constraints query.Constraints
	logger      hclog.Logger
}

// New returns a collection over every record of schema.
func New(schema *model.Schema, exec model.Executor, opts ...Option) *Collection {
	c := &Collection{
		schema:      schema,
		exec:        exec,
		constraints: query.New(),
		logger:      hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named(schema.Name())
	return c
}

func (c *Collection) with(q query.Constraints) *Collection {
	dup := *c
	dup.constraints = q
	return &dup
}

// Schema returns the resource schema.
func (c *Collection) Schema() *model.Schema { return c.schema }

// Constraints returns the current constraints.
func (c *Collection) Constraints() query.Constraints { return c.constraints }

// Where returns a collection narrowed by filters.
func (c *Collection) Where(filters map[string]any) (*Collection, error) {
	if !c.schema.Capabilities().Filterable {
		return nil, c.schema.CapabilityError(model.ErrNotFilterable)
	}
	return c.with(c.constraints.Where(filters)), nil
}

// Search returns a collection that lists through the resource's search
// endpoint.
func (c *Collection) Search(q string) (*Collection, error) {
	if !c.schema.Capabilities().Searchable {
		return nil, c.schema.CapabilityError(model.ErrNotSearchable)
	}
	return c.with(c.constraints.WithSearch(q)), nil
}

// Limit caps the number of records fetched. A negative n removes the cap.
func (c *Collection) Limit(n int) *Collection {
	if n < 0 {
		return c.with(c.constraints.WithoutLimit())
	}
	return c.with(c.constraints.WithLimit(n))
}

// Offset skips the first n records.
func (c *Collection) Offset(n int) *Collection {
	return c.with(c.constraints.WithOffset(n))
}

// PerPage sets the page size.
func (c *Collection) PerPage(n int) *Collection {
	return c.with(c.constraints.WithPerPage(n))
}

// View sets the response view.
func (c *Collection) View(view string) *Collection {
	return c.with(c.constraints.WithView(view))
}

func (c *Collection) listPath() string {
	if c.constraints.Search() != "" {
		return c.schema.Path() + "/search"
	}
	return c.schema.Path()
}

// Build returns an unsaved record with attrs set.
func (c *Collection) Build(attrs map[string]any) (*model.Record, error) {
	rec := c.schema.New(c.exec)

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := rec.Set(k, attrs[k]); err != nil {
			return nil, err
		}
	}
	return rec, nil
}

// Create builds a record from attrs and saves it.
func (c *Collection) Create(ctx context.Context, attrs map[string]any) (*model.Record, error) {
	if !c.schema.Capabilities().Creatable {
		return nil, c.schema.CapabilityError(model.ErrNotCreatable)
	}
	rec, err := c.Build(attrs)
	if err != nil {
		return nil, err
	}
	if err := rec.Save(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

// Find fetches one record by id.
func (c *Collection) Find(ctx context.Context, id string) (*model.Record, error) {
	if !c.schema.Capabilities().Showable {
		return nil, c.schema.CapabilityError(model.ErrNotShowable)
	}

	q := map[string]any{}
	if view := c.constraints.View(); view != "" {
		q["view"] = view
	}
	resp, err := c.exec.Execute(ctx, api.Request{
		Method: http.MethodGet,
		Path:   c.schema.ResourcePath(id),
		Query:  q,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find %s %s: %w", c.schema.Name(), id, err)
	}
	return c.schema.FromJSON(resp, c.exec)
}

// Destroy deletes the resource identified by item.
func (c *Collection) Destroy(ctx context.Context, item model.HasIdentity) error {
	if !c.schema.Capabilities().Destroyable {
		return c.schema.CapabilityError(model.ErrNotDestroyable)
	}
	id := ""
	if item != nil {
		id = item.ID()
	}
	if id == "" {
		return fmt.Errorf("%s: %w", c.schema.Name(), model.ErrMissingID)
	}

	_, err := c.exec.Execute(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   c.schema.ResourcePath(id),
	})
	if err != nil {
		return fmt.Errorf("failed to destroy %s %s: %w", c.schema.Name(), id, err)
	}
	return nil
}

func (c *Collection) pager() pager {
	return &offsetPager{
		exec:        c.exec,
		path:        c.listPath(),
		constraints: c.constraints,
		logger:      c.logger,
	}
}

// All returns every matching record, fetching one page at a time as the
// sequence is consumed.
func (c *Collection) All(ctx context.Context) iter.Seq2[*model.Record, error] {
	if !c.schema.Capabilities().Listable {
		err := c.schema.CapabilityError(model.ErrNotListable)
		return func(yield func(*model.Record, error) bool) {
			yield(nil, err)
		}
	}
	if err := c.constraints.Validate(); err != nil {
		return func(yield func(*model.Record, error) bool) {
			yield(nil, err)
		}
	}

	return iterate(ctx, c.pager, func(raw any) (*model.Record, error) {
		return c.schema.FromJSON(raw, c.exec)
	})
}

// Each calls fn for every matching record and stops at the first error.
func (c *Collection) Each(ctx context.Context, fn func(*model.Record) error) error {
	for rec, err := range c.All(ctx) {
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
	}
	return nil
}

// Collect returns every matching record.
func (c *Collection) Collect(ctx context.Context) ([]*model.Record, error) {
	var out []*model.Record
	err := c.Each(ctx, func(rec *model.Record) error {
		out = append(out, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// First returns the first matching record, or nil when there is none.
func (c *Collection) First(ctx context.Context) (*model.Record, error) {
	for rec, err := range c.Limit(1).All(ctx) {
		return rec, err
	}
	return nil, nil
}

// Count returns the number of matching records as reported by the server.
func (c *Collection) Count(ctx context.Context) (int, error) {
	if !c.schema.Capabilities().Listable {
		return 0, c.schema.CapabilityError(model.ErrNotListable)
	}

	q := c.constraints.Filters()
	q["view"] = query.ViewCount
	if s := c.constraints.Search(); s != "" {
		q["q"] = s
	}
	resp, err := c.exec.Execute(ctx, api.Request{
		Method: http.MethodGet,
		Path:   c.listPath(),
		Query:  q,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", c.schema.Name(), err)
	}

	var body struct {
		Count *int `mapstructure:"count"`
	}
	if err := mapstructure.WeakDecode(resp, &body); err != nil || body.Count == nil {
		return 0, fmt.Errorf("%w: no count in %s response", api.ErrUnexpectedResponse, c.schema.Name())
	}
	return *body.Count, nil
}

// IDs returns the ids of every matching record without fetching the records.
func (c *Collection) IDs(ctx context.Context) ([]string, error) {
	if !c.schema.Capabilities().Listable {
		return nil, c.schema.CapabilityError(model.ErrNotListable)
	}

	var ids []string
	for id, err := range iterate(ctx, c.View(query.ViewIDs).pager, asID) {
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func asID(raw any) (string, error) {
	var id string
	if err := mapstructure.WeakDecode(raw, &id); err != nil {
		return "", fmt.Errorf("%w: invalid id %v", api.ErrUnexpectedResponse, raw)
	}
	return id, nil
}
