package collection

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/mapstructure"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
)

// Delta is one change reported by the delta endpoint.
type Delta struct {
	ID     string `mapstructure:"id"`
	Object string `mapstructure:"object"`
	Event  string `mapstructure:"event"`
	Cursor string `mapstructure:"cursor"`

	// Attributes is the raw changed object.
	Attributes map[string]any `mapstructure:"attributes"`

	// Record is Attributes decoded through the schema registered for
	// Object. It is nil for unknown objects and for deletions.
	Record *model.Record `mapstructure:"-"`
}

type deltaPage struct {
	CursorStart string `mapstructure:"cursor_start"`
	CursorEnd   string `mapstructure:"cursor_end"`
	Deltas      []any  `mapstructure:"deltas"`
}

// FeedOption configures a Feed.
type FeedOption func(*Feed)

// IncludeTypes restricts the feed to the given object types.
func IncludeTypes(objects ...string) FeedOption {
	return func(f *Feed) {
		f.include = append(f.include, objects...)
	}
}

// ExcludeTypes drops the given object types from the feed.
func ExcludeTypes(objects ...string) FeedOption {
	return func(f *Feed) {
		f.exclude = append(f.exclude, objects...)
	}
}

// ExpandedView requests expanded objects in delta attributes.
func ExpandedView() FeedOption {
	return func(f *Feed) {
		f.view = "expanded"
	}
}

// WithFeedLogger sets the logger.
func WithFeedLogger(logger hclog.Logger) FeedOption {
	return func(f *Feed) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Feed follows the account's change cursor.
type Feed struct {
	exec    model.Executor
	schemas map[string]*model.Schema
	include []string
	exclude []string
	view    string
	logger  hclog.Logger
}

// NewFeed returns a feed that decodes delta attributes through schemas,
// keyed by schema name.
func NewFeed(exec model.Executor, schemas []*model.Schema, opts ...FeedOption) *Feed {
	f := &Feed{
		exec:    exec,
		schemas: make(map[string]*model.Schema, len(schemas)),
		logger:  hclog.NewNullLogger(),
	}
	for _, s := range schemas {
		f.schemas[s.Name()] = s
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.Named("delta")
	return f
}

// LatestCursor returns the cursor marking the account's current state.
func (f *Feed) LatestCursor(ctx context.Context) (string, error) {
	resp, err := f.exec.Execute(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/delta/latest_cursor",
	})
	if err != nil {
		return "", fmt.Errorf("failed to get latest cursor: %w", err)
	}

	var body struct {
		Cursor string `mapstructure:"cursor"`
	}
	if err := mapstructure.Decode(resp, &body); err != nil || body.Cursor == "" {
		return "", fmt.Errorf("%w: no cursor in latest_cursor response", api.ErrUnexpectedResponse)
	}
	return body.Cursor, nil
}

// Since returns every change after cursor. Pages are requested until the
// server reports that the end cursor equals the start cursor.
func (f *Feed) Since(ctx context.Context, cursor string) iter.Seq2[*Delta, error] {
	return f.Stream(cursor).All(ctx)
}

// Stream returns a DeltaStream reading changes after cursor.
func (f *Feed) Stream(cursor string) *DeltaStream {
	return &DeltaStream{feed: f, start: cursor, cursor: cursor}
}

// DeltaStream reads changes after a cursor and remembers the cursor to
// resume from. It is not safe for concurrent use.
type DeltaStream struct {
	feed   *Feed
	start  string
	cursor string
}

// All yields every change after the stream's starting cursor. Each range
// starts over from that cursor.
func (s *DeltaStream) All(ctx context.Context) iter.Seq2[*Delta, error] {
	return iterate(ctx, func() pager {
		s.cursor = s.start
		return &cursorPager{stream: s}
	}, s.feed.decode)
}

// Cursor returns the end cursor of the last page fetched, or the starting
// cursor when nothing has been fetched. After a full range it is the
// cursor to resume from, even when the last pages carried no deltas.
func (s *DeltaStream) Cursor() string {
	return s.cursor
}

func (f *Feed) decode(raw any) (*Delta, error) {
	var d Delta
	if err := mapstructure.Decode(raw, &d); err != nil {
		return nil, fmt.Errorf("%w: invalid delta: %v", api.ErrUnexpectedResponse, err)
	}

	schema, ok := f.schemas[d.Object]
	if !ok || d.Attributes == nil {
		return &d, nil
	}
	rec, err := schema.FromJSON(d.Attributes, f.exec)
	if err != nil {
		return nil, fmt.Errorf("delta %s: %w", d.ID, err)
	}
	d.Record = rec
	return &d, nil
}

type cursorPager struct {
	stream *DeltaStream
}

func (p *cursorPager) next(ctx context.Context) ([]any, bool, error) {
	f := p.stream.feed
	cursor := p.stream.cursor
	q := map[string]any{"cursor": cursor}
	if len(f.include) > 0 {
		q["include_types"] = strings.Join(f.include, ",")
	}
	if len(f.exclude) > 0 {
		q["exclude_types"] = strings.Join(f.exclude, ",")
	}
	if f.view != "" {
		q["view"] = f.view
	}

	f.logger.Debug("fetching deltas", "cursor", cursor)

	resp, err := f.exec.Execute(ctx, api.Request{
		Method: http.MethodGet,
		Path:   "/delta",
		Query:  q,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch deltas: %w", err)
	}

	var page deltaPage
	if err := mapstructure.Decode(resp, &page); err != nil {
		return nil, false, fmt.Errorf("%w: invalid delta page: %v", api.ErrUnexpectedResponse, err)
	}
	if page.CursorEnd == "" {
		return nil, false, fmt.Errorf("%w: delta page has no cursor_end", api.ErrUnexpectedResponse)
	}

	done := page.CursorEnd == page.CursorStart
	p.stream.cursor = page.CursorEnd
	return page.Deltas, done, nil
}
