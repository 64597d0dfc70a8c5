package model

import (
	"context"
	"testing"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/types"
)

// recordingExecutor records every request and replays queued responses.
type recordingExecutor struct {
	requests  []api.Request
	responses []any
	err       error
}

func (e *recordingExecutor) Execute(_ context.Context, req api.Request) (any, error) {
	e.requests = append(e.requests, req)
	if e.err != nil {
		return nil, e.err
	}
	if len(e.responses) == 0 {
		return nil, nil
	}
	resp := e.responses[0]
	e.responses = e.responses[1:]
	return resp, nil
}

var allCapabilities = Capabilities{
	Creatable:   true,
	Listable:    true,
	Filterable:  true,
	Showable:    true,
	Updatable:   true,
	Destroyable: true,
	Searchable:  true,
}

// eventSchema builds a small event resource with a nested participant type.
func eventSchema(t *testing.T, caps Capabilities) *Schema {
	t.Helper()

	reg := types.NewRegistry()
	participant := NewSchema("participant", reg).MustDefine(
		Attribute{Name: "name", Type: types.String},
		Attribute{Name: "email", Type: types.String},
		Attribute{Name: "status", Type: types.String},
	)
	reg.MustRegister("participant", participant.Caster())

	return NewSchema("event", reg, WithPath("/events"), WithCapabilities(caps)).MustDefine(
		Attribute{Name: "id", Type: types.String, ReadOnly: true},
		Attribute{Name: "account_id", Type: types.String, ReadOnly: true},
		Attribute{Name: "title", Type: types.String},
		Attribute{Name: "busy", Type: types.Boolean},
		Attribute{Name: "when", Type: types.Hash},
		Attribute{Name: "participants", Type: "participant", Many: true},
		Attribute{Name: "organizer", Type: "participant"},
		Attribute{Name: "metadata", Type: types.Hash, Default: map[string]any{}},
		Attribute{Name: "created_at", Type: types.UnixTimestamp, ReadOnly: true},
		Attribute{Name: "notify_participants", Type: types.Boolean, ExcludeOn: []Operation{OpUpdate}},
	)
}
