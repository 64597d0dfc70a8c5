package model

import (
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/copystructure"

	"github.com/nylas/nylas-ruby-sub000/pkg/types"
)

// Operation identifies a write path an attribute can be excluded from.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
)

// Attribute describes one declared field of a schema.
type Attribute struct {
	// Name is the wire key, e.g. "calendar_id".
	Name string

	// Type is the registry key of the attribute's caster.
	Type types.Key

	// ReadOnly attributes are loaded from the server but never sent back.
	ReadOnly bool

	// Default is copied into records when the attribute is absent or null.
	Default any

	// Many marks a list of Type values.
	Many bool

	// ExcludeOn lists the write operations that omit this attribute.
	ExcludeOn []Operation
}

// ExcludedOn reports whether the attribute is omitted from op payloads.
func (a Attribute) ExcludedOn(op Operation) bool {
	return slices.Contains(a.ExcludeOn, op)
}

func (a Attribute) key() string {
	return normalizeKey(a.Name)
}

func (a Attribute) clone() Attribute {
	dup := a
	dup.ExcludeOn = slices.Clone(a.ExcludeOn)
	dup.Default = copyValue(a.Default)
	return dup
}

// normalizeKey maps "startTime", "StartTime" and "start_time" to the same
// state key.
func normalizeKey(name string) string {
	return strcase.ToSnake(strings.TrimSpace(name))
}

func copyValue(v any) any {
	if v == nil {
		return nil
	}
	dup, err := copystructure.Copy(v)
	if err != nil {
		return v
	}
	return dup
}
