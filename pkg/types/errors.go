package types

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingType is wrapped by MissingTypeError.
	ErrMissingType = errors.New("missing type")

	// ErrTypeMismatch is wrapped by TypeError.
	ErrTypeMismatch = errors.New("type mismatch")
)

// MissingTypeError is returned when a key has no registered caster.
type MissingTypeError struct {
	Key Key
}

func (e *MissingTypeError) Error() string {
	return fmt.Sprintf("no caster registered for type %q", e.Key)
}

func (e *MissingTypeError) Unwrap() error {
	return ErrMissingType
}

// TypeError is returned when a value cannot be cast to, or serialized from,
// the requested type.
type TypeError struct {
	Type  Key
	Value any
	Err   error
}

func (e *TypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %T to %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot convert %T to %s", e.Value, e.Type)
}

func (e *TypeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTypeMismatch}
	}
	return []error{ErrTypeMismatch, e.Err}
}
