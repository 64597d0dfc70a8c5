package model

import (
	"errors"
	"fmt"
)

// Capability errors are returned before any request is issued.
var (
	ErrNotCreatable   = errors.New("model is not creatable")
	ErrNotUpdatable   = errors.New("model is not updatable")
	ErrNotDestroyable = errors.New("model is not destroyable")
	ErrNotFilterable  = errors.New("model is not filterable")
	ErrNotListable    = errors.New("model is not listable")
	ErrNotShowable    = errors.New("model is not showable")
	ErrNotSearchable  = errors.New("model is not searchable")
)

var (
	// ErrMissingField is wrapped by MissingFieldError.
	ErrMissingField = errors.New("missing field")

	// ErrReadOnly is returned when setting a read-only attribute.
	ErrReadOnly = errors.New("attribute is read-only")

	// ErrMissingID is returned by operations that need a persisted record.
	ErrMissingID = errors.New("record has no id")

	// ErrNoExecutor is returned when a record is not bound to a client.
	ErrNoExecutor = errors.New("record is not bound to a client")
)

// CapabilityError reports an operation the schema does not support.
type CapabilityError struct {
	Model string
	Err   error
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Model, e.Err)
}

func (e *CapabilityError) Unwrap() error {
	return e.Err
}

// MissingFieldError names an attribute the schema does not declare.
type MissingFieldError struct {
	Model string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s has no attribute %q", e.Model, e.Field)
}

func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}
