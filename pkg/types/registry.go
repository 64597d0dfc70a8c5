package types

import (
	"fmt"
)

// Registry maps type keys to casters.
//
// A Registry is populated while schemas are being declared and is read-only
// afterwards; it performs no locking.
type Registry struct {
	casters map[Key]Caster
	keys    []Key
}

// NewRegistry returns a registry holding the built-in casters, registered in
// a fixed order: string, boolean, float, integer, date, unix_timestamp, hash,
// array.
func NewRegistry() *Registry {
	r := &Registry{casters: make(map[Key]Caster)}
	for _, b := range builtins() {
		r.MustRegister(b.key, b.caster)
	}
	return r
}

// Register adds a caster under key. Registering the same key twice is an
// error.
func (r *Registry) Register(key Key, c Caster) error {
	if key == "" {
		return fmt.Errorf("type key is required")
	}
	if c == nil {
		return fmt.Errorf("caster for type %q is nil", key)
	}
	if _, exists := r.casters[key]; exists {
		return fmt.Errorf("type %q is already registered", key)
	}

	r.casters[key] = c
	r.keys = append(r.keys, key)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(key Key, c Caster) {
	if err := r.Register(key, c); err != nil {
		panic(err)
	}
}

// Resolve returns the caster registered under key.
func (r *Registry) Resolve(key Key) (Caster, error) {
	c, ok := r.casters[key]
	if !ok {
		return nil, &MissingTypeError{Key: key}
	}
	return c, nil
}

// Has reports whether key is registered.
func (r *Registry) Has(key Key) bool {
	_, ok := r.casters[key]
	return ok
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, len(r.keys))
	copy(keys, r.keys)
	return keys
}
