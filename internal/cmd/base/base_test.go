package base

import (
	"context"
	"errors"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
)

func TestRender(t *testing.T) {
	v := map[string]any{"id": "evt_1", "size": int64(5), "busy": true}

	out, err := Render(FormatJSON, v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"evt_1","size":5,"busy":true}`, out)

	out, err = Render(FormatYAML, v)
	require.NoError(t, err)
	assert.Equal(t, "busy: true\nid: evt_1\nsize: 5", out)

	_, err = Render("xml", v)
	assert.ErrorContains(t, err, "unknown format")
}

func TestKeyValues(t *testing.T) {
	kv := KeyValues{}
	require.NoError(t, kv.Set("calendar_id=cal_1"))
	require.NoError(t, kv.Set("busy=true"))
	require.NoError(t, kv.Set("title=a=b"))

	assert.Equal(t, KeyValues{"calendar_id": "cal_1", "busy": true, "title": "a=b"}, kv)
	assert.Error(t, kv.Set("nokey"))
	assert.Error(t, kv.Set("=value"))
}

func TestRetry(t *testing.T) {
	c := New(hclog.NewNullLogger(), cli.NewMockUi())
	ctx := context.Background()

	t.Run("transient errors are retried", func(t *testing.T) {
		attempts := 0
		err := c.Retry(ctx, 3, func() error {
			attempts++
			if attempts < 3 {
				return &api.Error{StatusCode: 503, Kind: api.ErrServiceUnavailable}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("other errors are not", func(t *testing.T) {
		attempts := 0
		err := c.Retry(ctx, 3, func() error {
			attempts++
			return &api.Error{StatusCode: 404, Kind: api.ErrResourceNotFound}
		})
		assert.True(t, errors.Is(err, api.ErrResourceNotFound))
		assert.Equal(t, 1, attempts)
	})

	t.Run("zero retries runs once", func(t *testing.T) {
		attempts := 0
		err := c.Retry(ctx, 0, func() error {
			attempts++
			return &api.Error{StatusCode: 503, Kind: api.ErrServiceUnavailable}
		})
		assert.True(t, errors.Is(err, api.ErrServiceUnavailable))
		assert.Equal(t, 1, attempts)
	})
}
