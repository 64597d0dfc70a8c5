package model

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
)

// Record is one instance of a schema. It owns its State and keeps a
// reference to the executor used to persist it.
//
// A Record is not safe for concurrent use; callers that mutate the same
// record from several goroutines must serialize access themselves.
type Record struct {
	schema *Schema
	state  *State
	exec   Executor
}

// Schema returns the record's schema.
func (r *Record) Schema() *Schema { return r.schema }

// State returns the record's attribute state.
func (r *Record) State() *State { return r.state }

// Bind sets the executor used by Save, Update, Destroy and Reload.
func (r *Record) Bind(exec Executor) { r.exec = exec }

// ID returns the server identifier, or "" for unsaved records.
func (r *Record) ID() string {
	if r == nil {
		return ""
	}
	return r.GetString("id")
}

// Equal reports whether both records are the same persisted resource.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.ID() == "" || other.ID() == "" {
		return r == other
	}
	return r.schema.name == other.schema.name && r.ID() == other.ID()
}

// Get returns the current value of a declared attribute.
func (r *Record) Get(name string) any {
	return r.state.Read(name)
}

// Set casts value through the attribute's caster and records it as a local
// edit.
func (r *Record) Set(name string, value any) error {
	attr, ok := r.schema.Attribute(name)
	if !ok {
		return &MissingFieldError{Model: r.schema.name, Field: name}
	}
	if attr.ReadOnly {
		return fmt.Errorf("%s.%s: %w", r.schema.name, attr.Name, ErrReadOnly)
	}
	return r.set(attr, value)
}

func (r *Record) set(attr Attribute, value any) error {
	native, err := r.cast(attr, value)
	if err != nil {
		return err
	}
	r.state.Write(attr.Name, native)
	return nil
}

func (r *Record) cast(attr Attribute, value any) (any, error) {
	c, err := r.schema.caster(attr)
	if err != nil {
		return nil, err
	}
	native, err := c.Cast(value)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", r.schema.name, attr.Name, err)
	}
	return native, nil
}

// Dirty reports whether the record has unsaved edits.
func (r *Record) Dirty() bool {
	return r.state.Dirty()
}

// ChangedAttributes returns the values edited attributes had when the
// record was last synced.
func (r *Record) ChangedAttributes() map[string]any {
	return r.state.ChangedAttributes()
}

// Serialize returns the wire form of every attribute that holds a value.
// It is used when the record is nested inside another payload.
func (r *Record) Serialize() (any, error) {
	return r.payload(func(Attribute) bool { return true })
}

// Payload returns the wire form of the attributes sent on op. Read-only
// attributes and attributes excluded on op are left out.
func (r *Record) Payload(op Operation) (map[string]any, error) {
	return r.payload(func(attr Attribute) bool {
		return !attr.ReadOnly && !attr.ExcludedOn(op)
	})
}

func (r *Record) payload(include func(Attribute) bool) (map[string]any, error) {
	out := make(map[string]any, len(r.schema.attributes))
	for _, attr := range r.schema.attributes {
		if !include(attr) {
			continue
		}
		v := r.state.Read(attr.Name)
		if v == nil {
			continue
		}
		wire, err := r.serialize(attr, v)
		if err != nil {
			return nil, err
		}
		out[attr.Name] = wire
	}
	return out, nil
}

// AsJSON returns the wire form of the edited attributes only, minus
// read-only attributes, attributes excluded on update and except.
func (r *Record) AsJSON(except ...string) (map[string]any, error) {
	skip := make(map[string]struct{}, len(except))
	for _, k := range except {
		skip[normalizeKey(k)] = struct{}{}
	}

	out := make(map[string]any)
	for _, key := range r.state.ChangedKeys() {
		if _, ok := skip[key]; ok {
			continue
		}
		attr, ok := r.schema.Attribute(key)
		if !ok || attr.ReadOnly || attr.ExcludedOn(OpUpdate) {
			continue
		}
		wire, err := r.serialize(attr, r.state.Read(key))
		if err != nil {
			return nil, err
		}
		out[attr.Name] = wire
	}
	return out, nil
}

func (r *Record) serialize(attr Attribute, v any) (any, error) {
	c, err := r.schema.caster(attr)
	if err != nil {
		return nil, err
	}
	wire, err := c.Serialize(v)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", r.schema.name, attr.Name, err)
	}
	return wire, nil
}

// MarshalJSON encodes the record's wire form.
func (r *Record) MarshalJSON() ([]byte, error) {
	v, err := r.Serialize()
	if err != nil {
		return nil, err
	}
	return api.JSON.Marshal(v)
}

// Save creates the record when it has no id and updates it otherwise. An
// update sends only the edited attributes; a create sends every settable
// attribute.
func (r *Record) Save(ctx context.Context) error {
	if id := r.ID(); id != "" {
		if !r.schema.caps.Updatable {
			return r.schema.CapabilityError(ErrNotUpdatable)
		}
		payload, err := r.AsJSON()
		if err != nil {
			return err
		}
		return r.dispatch(ctx, http.MethodPut, r.schema.ResourcePath(id), payload)
	}

	if !r.schema.caps.Creatable {
		return r.schema.CapabilityError(ErrNotCreatable)
	}
	payload, err := r.Payload(OpCreate)
	if err != nil {
		return err
	}
	return r.dispatch(ctx, http.MethodPost, r.schema.path, payload)
}

// Update sets attrs and sends only those attributes. Every key must be a
// declared, writable attribute; otherwise nothing is changed or sent.
func (r *Record) Update(ctx context.Context, attrs map[string]any) error {
	if !r.schema.caps.Updatable {
		return r.schema.CapabilityError(ErrNotUpdatable)
	}
	id := r.ID()
	if id == "" {
		return fmt.Errorf("%s: %w", r.schema.name, ErrMissingID)
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	declared := make([]Attribute, 0, len(keys))
	for _, k := range keys {
		attr, ok := r.schema.Attribute(k)
		if !ok {
			return &MissingFieldError{Model: r.schema.name, Field: k}
		}
		if attr.ReadOnly {
			return fmt.Errorf("%s.%s: %w", r.schema.name, attr.Name, ErrReadOnly)
		}
		declared = append(declared, attr)
	}

	// Nothing is written until every value casts and serializes.
	natives := make([]any, len(declared))
	payload := make(map[string]any, len(declared))
	for i, attr := range declared {
		native, err := r.cast(attr, attrs[keys[i]])
		if err != nil {
			return err
		}
		wire, err := r.serialize(attr, native)
		if err != nil {
			return err
		}
		natives[i] = native
		payload[attr.Name] = wire
	}
	for i, attr := range declared {
		r.state.Write(attr.Name, natives[i])
	}

	return r.dispatch(ctx, http.MethodPut, r.schema.ResourcePath(id), payload)
}

// Destroy deletes the record on the server.
func (r *Record) Destroy(ctx context.Context) error {
	if !r.schema.caps.Destroyable {
		return r.schema.CapabilityError(ErrNotDestroyable)
	}
	id := r.ID()
	if id == "" {
		return fmt.Errorf("%s: %w", r.schema.name, ErrMissingID)
	}
	if r.exec == nil {
		return ErrNoExecutor
	}

	_, err := r.exec.Execute(ctx, api.Request{
		Method: http.MethodDelete,
		Path:   r.schema.ResourcePath(id),
	})
	if err != nil {
		return fmt.Errorf("failed to destroy %s %s: %w", r.schema.name, id, err)
	}
	return nil
}

// Reload replaces the record's state with the server's current copy.
// Unsaved edits are discarded.
func (r *Record) Reload(ctx context.Context) error {
	if !r.schema.caps.Showable {
		return r.schema.CapabilityError(ErrNotShowable)
	}
	id := r.ID()
	if id == "" {
		return fmt.Errorf("%s: %w", r.schema.name, ErrMissingID)
	}
	if r.exec == nil {
		return ErrNoExecutor
	}

	resp, err := r.exec.Execute(ctx, api.Request{
		Method: http.MethodGet,
		Path:   r.schema.ResourcePath(id),
	})
	if err != nil {
		return fmt.Errorf("failed to reload %s %s: %w", r.schema.name, id, err)
	}
	fresh, err := r.schema.FromJSON(resp, r.exec)
	if err != nil {
		return err
	}
	r.state = fresh.state
	return nil
}

func (r *Record) dispatch(ctx context.Context, method, path string, payload map[string]any) error {
	if r.exec == nil {
		return ErrNoExecutor
	}

	resp, err := r.exec.Execute(ctx, api.Request{
		Method:  method,
		Path:    path,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", r.schema.name, err)
	}

	body, ok := resp.(map[string]any)
	if !ok {
		r.state.Merge(nil)
		return nil
	}
	values, err := r.schema.castPayload(body, false)
	if err != nil {
		return fmt.Errorf("%s: %w", r.schema.name, err)
	}
	r.state.Merge(values)
	return nil
}
