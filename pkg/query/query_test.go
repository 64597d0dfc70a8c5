package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraints_Defaults(t *testing.T) {
	c := New()

	_, hasLimit := c.Limit()
	assert.False(t, hasLimit)
	assert.Equal(t, 0, c.Offset())
	assert.Equal(t, DefaultPerPage, c.PerPage())
	assert.Empty(t, c.Filters())
	assert.Equal(t, map[string]any{"offset": 0, "limit": 100}, c.Query())
}

func TestConstraints_WhereDoesNotAlias(t *testing.T) {
	base := New().Where(map[string]any{"calendar_id": "cal_1"})
	busy := base.Where(map[string]any{"busy": true})
	other := base.Where(map[string]any{"calendar_id": "cal_2"})

	assert.Equal(t, map[string]any{"calendar_id": "cal_1"}, base.Filters())
	assert.Equal(t, map[string]any{"calendar_id": "cal_1", "busy": true}, busy.Filters())
	assert.Equal(t, map[string]any{"calendar_id": "cal_2"}, other.Filters())
}

func TestConstraints_CallerMutationDoesNotLeak(t *testing.T) {
	filters := map[string]any{"in": []any{"inbox"}}
	c := New().Where(filters)

	filters["in"] = []any{"trash"}
	c.Filters()["in"] = "changed"

	assert.Equal(t, []any{"inbox"}, c.Filters()["in"])
}

func TestConstraints_SettersReturnCopies(t *testing.T) {
	base := New()
	limited := base.WithLimit(5).WithOffset(10).WithPerPage(20).WithView(ViewCount)

	n, ok := limited.Limit()
	assert.True(t, ok)
	assert.Equal(t, 5, n)
	assert.Equal(t, 10, limited.Offset())
	assert.Equal(t, 20, limited.PerPage())
	assert.Equal(t, ViewCount, limited.View())

	_, ok = base.Limit()
	assert.False(t, ok)
	assert.Equal(t, 0, base.Offset())
	assert.Empty(t, base.View())

	_, ok = limited.WithoutLimit().Limit()
	assert.False(t, ok)
}

func TestConstraints_NextPage(t *testing.T) {
	c := New().WithPerPage(50).WithOffset(25)
	next := c.NextPage()

	assert.Equal(t, 25, c.Offset())
	assert.Equal(t, 75, next.Offset())
}

func TestConstraints_Merge(t *testing.T) {
	a := New().Where(map[string]any{"a": 1, "shared": "a"}).WithLimit(10)
	b := New().Where(map[string]any{"b": 2, "shared": "b"}).WithView(ViewIDs)

	merged := a.Merge(b)
	assert.Equal(t, map[string]any{"a": 1, "b": 2, "shared": "b"}, merged.Filters())
	n, ok := merged.Limit()
	assert.True(t, ok)
	assert.Equal(t, 10, n)
	assert.Equal(t, ViewIDs, merged.View())
}

func TestConstraints_Query(t *testing.T) {
	q := New().
		Where(map[string]any{"busy": true}).
		WithOffset(200).
		WithView(ViewExpanded).
		WithSearch("quarterly").
		Query()

	assert.Equal(t, map[string]any{
		"busy":   true,
		"offset": 200,
		"limit":  100,
		"view":   "expanded",
		"q":      "quarterly",
	}, q)
}

func TestConstraints_Validate(t *testing.T) {
	require.NoError(t, New().WithLimit(0).Validate())

	err := New().WithOffset(-1).WithView("everything").Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset")
	assert.Contains(t, err.Error(), "view")
}
