package model

import (
	"fmt"
	"sort"
)

// Serializable values are serialized recursively by State.AsJSON.
type Serializable interface {
	Serialize() (any, error)
}

// State holds the attribute values of one record.
//
// starting holds the last values synced with the server and changed holds
// local edits that have not been persisted. previous records, for every key
// touched since the last sync, the starting value it had before the first
// edit. Keys are normalized so "startTime" and "start_time" are the same
// attribute.
//
// State is not safe for concurrent use.
type State struct {
	starting map[string]any
	changed  map[string]any
	previous map[string]any
}

// NewState returns an empty state.
func NewState() *State {
	return newState(nil)
}

func newState(values map[string]any) *State {
	s := &State{
		starting: make(map[string]any, len(values)),
		changed:  make(map[string]any),
		previous: make(map[string]any),
	}
	for k, v := range values {
		s.starting[normalizeKey(k)] = v
	}
	return s
}

// Read returns the changed value for key if there is one, otherwise the
// starting value.
func (s *State) Read(key string) any {
	v, _ := s.Lookup(key)
	return v
}

// Lookup is like Read but also reports whether the key holds a value.
func (s *State) Lookup(key string) (any, bool) {
	k := normalizeKey(key)
	if v, ok := s.changed[k]; ok {
		return v, true
	}
	v, ok := s.starting[k]
	return v, ok
}

// Write records a local edit.
func (s *State) Write(key string, value any) {
	k := normalizeKey(key)
	if _, touched := s.previous[k]; !touched {
		s.previous[k] = s.starting[k]
	}
	s.changed[k] = value
}

// Changed reports whether key has been written since the last sync.
func (s *State) Changed(key string) bool {
	_, ok := s.changed[normalizeKey(key)]
	return ok
}

// Dirty reports whether any key has been written since the last sync.
func (s *State) Dirty() bool {
	return len(s.changed) > 0
}

// ChangedKeys returns the written keys in sorted order.
func (s *State) ChangedKeys() []string {
	keys := make([]string, 0, len(s.changed))
	for k := range s.changed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ChangedAttributes returns the value each written key had before it was
// first written.
func (s *State) ChangedAttributes() map[string]any {
	out := make(map[string]any, len(s.previous))
	for k, v := range s.previous {
		out[k] = v
	}
	return out
}

// AsJSON returns the written keys and their current values. Keys that only
// exist in the starting values are never included. Serializable values and
// slices of them are serialized recursively.
func (s *State) AsJSON(except ...string) (map[string]any, error) {
	skip := make(map[string]struct{}, len(except))
	for _, k := range except {
		skip[normalizeKey(k)] = struct{}{}
	}

	out := make(map[string]any, len(s.changed))
	for k, v := range s.changed {
		if _, ok := skip[k]; ok {
			continue
		}
		sv, err := serializeValue(v)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize %q: %w", k, err)
		}
		out[k] = sv
	}
	return out, nil
}

// Merge folds a server payload into the starting values and forgets all
// local edits. Call it after a successful create or update.
func (s *State) Merge(payload map[string]any) {
	for k, v := range s.changed {
		s.starting[k] = v
	}
	for k, v := range payload {
		s.starting[normalizeKey(k)] = v
	}
	s.changed = make(map[string]any)
	s.previous = make(map[string]any)
}

// Values returns every key with its current value.
func (s *State) Values() map[string]any {
	out := make(map[string]any, len(s.starting)+len(s.changed))
	for k, v := range s.starting {
		out[k] = v
	}
	for k, v := range s.changed {
		out[k] = v
	}
	return out
}

func serializeValue(v any) (any, error) {
	switch t := v.(type) {
	case Serializable:
		return t.Serialize()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			sv, err := serializeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = sv
		}
		return out, nil
	default:
		return v, nil
	}
}
