package collection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
	"github.com/nylas/nylas-ruby-sub000/pkg/types"
)

var fullCapabilities = model.Capabilities{
	Creatable:   true,
	Listable:    true,
	Filterable:  true,
	Showable:    true,
	Updatable:   true,
	Destroyable: true,
	Searchable:  true,
}

func eventSchema(caps model.Capabilities) *model.Schema {
	return model.NewSchema("event", types.NewRegistry(),
		model.WithPath("/events"), model.WithCapabilities(caps)).MustDefine(
		model.Attribute{Name: "id", Type: types.String, ReadOnly: true},
		model.Attribute{Name: "title", Type: types.String},
		model.Attribute{Name: "calendar_id", Type: types.String},
	)
}

// eventServer serves total events from /events and records every request.
type eventServer struct {
	mu       sync.Mutex
	total    int
	requests []*url.URL
}

func (s *eventServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL)
	s.mu.Unlock()

	q := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/events/missing":
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"type":"invalid_request_error","message":"Couldn't find event missing"}`)
		return
	case r.URL.Path == "/events/evt_7":
		_, _ = io.WriteString(w, `{"id":"evt_7","title":"Event 7"}`)
		return
	case q.Get("view") == "count":
		fmt.Fprintf(w, `{"count":%d}`, s.total)
		return
	}

	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	end := min(offset+limit, s.total)

	_, _ = io.WriteString(w, "[")
	for i := offset; i < end; i++ {
		if i > offset {
			_, _ = io.WriteString(w, ",")
		}
		if q.Get("view") == "ids" {
			fmt.Fprintf(w, `"evt_%d"`, i)
		} else {
			fmt.Fprintf(w, `{"id":"evt_%d","title":"Event %d","unused":true}`, i, i)
		}
	}
	_, _ = io.WriteString(w, "]")
}

func (s *eventServer) calls() []*url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*url.URL(nil), s.requests...)
}

func newEvents(t *testing.T, total int, caps model.Capabilities) (*Collection, *eventServer) {
	t.Helper()

	srv := &eventServer{total: total}
	server := httptest.NewServer(srv)
	t.Cleanup(server.Close)

	client, err := api.NewClient(&api.Config{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Logger:  hclog.NewNullLogger(),
	})
	require.NoError(t, err)

	return New(eventSchema(caps), client), srv
}

func TestCollection_AllPagesByOffset(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		limit     int
		want      int
		wantPages []string
	}{
		{"short last page", 150, -1, 150, []string{"0:100", "100:100"}},
		{"exact multiple needs a confirming request", 200, -1, 200, []string{"0:100", "100:100", "200:100"}},
		{"empty", 0, -1, 0, []string{"0:100"}},
		{"limit shrinks the last request", 500, 120, 120, []string{"0:100", "100:20"}},
		{"limit below page size", 500, 5, 5, []string{"0:5"}},
		{"zero limit fetches nothing", 500, 0, 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, srv := newEvents(t, tt.total, fullCapabilities)
			if tt.limit >= 0 {
				events = events.Limit(tt.limit)
			}

			records, err := events.Collect(context.Background())
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
			if tt.want > 0 {
				assert.Equal(t, "evt_0", records[0].ID())
				assert.Equal(t, fmt.Sprintf("evt_%d", tt.want-1), records[tt.want-1].ID())
			}

			var pages []string
			for _, u := range srv.calls() {
				pages = append(pages, u.Query().Get("offset")+":"+u.Query().Get("limit"))
			}
			assert.Equal(t, tt.wantPages, pages)
		})
	}
}

func TestCollection_NegativeLimitRemovesCap(t *testing.T) {
	events, srv := newEvents(t, 150, fullCapabilities)

	records, err := events.Limit(10).Limit(-1).Collect(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 150)
	assert.Len(t, srv.calls(), 2)
}

func TestCollection_AllStopsWhenConsumerBreaks(t *testing.T) {
	events, srv := newEvents(t, 1000, fullCapabilities)

	seen := 0
	for rec, err := range events.All(context.Background()) {
		require.NoError(t, err)
		require.NotNil(t, rec)
		seen++
		if seen == 5 {
			break
		}
	}

	assert.Equal(t, 5, seen)
	assert.Len(t, srv.calls(), 1)
}

func TestCollection_AllIsRestartable(t *testing.T) {
	events, srv := newEvents(t, 30, fullCapabilities)
	seq := events.All(context.Background())

	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}

	assert.Equal(t, 30, count())
	assert.Equal(t, 30, count())
	assert.Len(t, srv.calls(), 2)
}

func TestCollection_WhereDoesNotAlias(t *testing.T) {
	events, srv := newEvents(t, 1, fullCapabilities)

	base, err := events.Where(map[string]any{"calendar_id": "cal_1"})
	require.NoError(t, err)
	titled, err := base.Where(map[string]any{"title": "Standup"})
	require.NoError(t, err)

	_, err = base.Collect(context.Background())
	require.NoError(t, err)
	_, err = titled.Collect(context.Background())
	require.NoError(t, err)

	calls := srv.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "cal_1", calls[0].Query().Get("calendar_id"))
	assert.Empty(t, calls[0].Query().Get("title"))
	assert.Equal(t, "Standup", calls[1].Query().Get("title"))
	assert.Empty(t, events.Constraints().Filters())
}

func TestCollection_Find(t *testing.T) {
	events, _ := newEvents(t, 0, fullCapabilities)

	rec, err := events.Find(context.Background(), "evt_7")
	require.NoError(t, err)
	assert.Equal(t, "Event 7", rec.GetString("title"))

	_, err = events.Find(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrResourceNotFound))

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Couldn't find event missing", apiErr.Message)
}

func TestCollection_SearchUsesSearchEndpoint(t *testing.T) {
	events, srv := newEvents(t, 3, fullCapabilities)

	found, err := events.Search("quarterly review")
	require.NoError(t, err)
	_, err = found.Collect(context.Background())
	require.NoError(t, err)

	calls := srv.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/events/search", calls[0].Path)
	assert.Equal(t, "quarterly review", calls[0].Query().Get("q"))
}

func TestCollection_CountAndIDs(t *testing.T) {
	events, srv := newEvents(t, 42, fullCapabilities)

	n, err := events.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	ids, err := events.PerPage(40).IDs(context.Background())
	require.NoError(t, err)
	require.Len(t, ids, 42)
	assert.Equal(t, "evt_41", ids[41])

	calls := srv.calls()
	require.Len(t, calls, 3)
	assert.Equal(t, "count", calls[0].Query().Get("view"))
	assert.Equal(t, "ids", calls[1].Query().Get("view"))
}

func TestCollection_First(t *testing.T) {
	events, srv := newEvents(t, 10, fullCapabilities)
	rec, err := events.First(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "evt_0", rec.ID())
	assert.Equal(t, "1", srv.calls()[0].Query().Get("limit"))

	empty, _ := newEvents(t, 0, fullCapabilities)
	rec, err = empty.First(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCollection_CapabilitiesCheckedBeforeRequest(t *testing.T) {
	events, srv := newEvents(t, 10, model.Capabilities{})
	ctx := context.Background()

	_, err := events.Where(map[string]any{"title": "x"})
	assert.True(t, errors.Is(err, model.ErrNotFilterable))

	_, err = events.Search("x")
	assert.True(t, errors.Is(err, model.ErrNotSearchable))

	_, err = events.Create(ctx, map[string]any{"title": "x"})
	assert.True(t, errors.Is(err, model.ErrNotCreatable))

	_, err = events.Find(ctx, "evt_1")
	assert.True(t, errors.Is(err, model.ErrNotShowable))

	err = events.Destroy(ctx, model.ID("evt_1"))
	assert.True(t, errors.Is(err, model.ErrNotDestroyable))

	_, err = events.Count(ctx)
	assert.True(t, errors.Is(err, model.ErrNotListable))

	for _, err := range events.All(ctx) {
		assert.True(t, errors.Is(err, model.ErrNotListable))
	}

	assert.Empty(t, srv.calls())
}

func TestCollection_Destroy(t *testing.T) {
	events, srv := newEvents(t, 0, fullCapabilities)

	err := events.Destroy(context.Background(), nil)
	assert.True(t, errors.Is(err, model.ErrMissingID))
	assert.Empty(t, srv.calls())
}

func TestCollection_Build(t *testing.T) {
	events, srv := newEvents(t, 0, fullCapabilities)

	rec, err := events.Build(map[string]any{"title": "Draft agenda", "calendar_id": "cal_1"})
	require.NoError(t, err)
	assert.Empty(t, rec.ID())
	assert.True(t, rec.Dirty())
	assert.Equal(t, "cal_1", rec.GetString("calendar_id"))

	_, err = events.Build(map[string]any{"id": "evt_1"})
	assert.True(t, errors.Is(err, model.ErrReadOnly))
	assert.Empty(t, srv.calls())
}
