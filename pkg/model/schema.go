package model

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/types"
)

// Executor sends a request and returns the parsed response body.
// *api.Client implements it.
type Executor interface {
	Execute(ctx context.Context, req api.Request) (any, error)
}

// Capabilities declares which operations the remote resource supports.
// They are checked locally before any request is issued.
type Capabilities struct {
	Creatable   bool
	Listable    bool
	Filterable  bool
	Showable    bool
	Updatable   bool
	Destroyable bool
	Searchable  bool
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithPath sets the collection path, e.g. "/events".
func WithPath(path string) SchemaOption {
	return func(s *Schema) {
		s.path = "/" + strings.Trim(path, "/")
	}
}

// WithCapabilities sets the supported operations.
func WithCapabilities(c Capabilities) SchemaOption {
	return func(s *Schema) {
		s.caps = c
	}
}

// Schema is the declaration of one resource: its ordered attributes, the
// registry their types resolve against, its path and its capabilities.
type Schema struct {
	name       string
	path       string
	registry   *types.Registry
	caps       Capabilities
	attributes []Attribute
	index      map[string]int
}

// NewSchema returns a schema with no attributes. Nested schemas that are
// never fetched on their own need neither a path nor capabilities.
func NewSchema(name string, registry *types.Registry, opts ...SchemaOption) *Schema {
	s := &Schema{
		name:     name,
		registry: registry,
		index:    make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Define appends attributes. Every attribute must have a unique name and a
// type known to the registry.
func (s *Schema) Define(attrs ...Attribute) error {
	var result *multierror.Error
	for _, attr := range attrs {
		if attr.Name == "" {
			result = multierror.Append(result, fmt.Errorf("%s: attribute name is required", s.name))
			continue
		}
		if _, exists := s.index[attr.key()]; exists {
			result = multierror.Append(result,
				fmt.Errorf("%s: attribute %q is already defined", s.name, attr.Name))
			continue
		}
		if _, err := s.registry.Resolve(attr.Type); err != nil {
			result = multierror.Append(result,
				fmt.Errorf("%s: attribute %q: %w", s.name, attr.Name, err))
			continue
		}

		s.index[attr.key()] = len(s.attributes)
		s.attributes = append(s.attributes, attr.clone())
	}
	return result.ErrorOrNil()
}

// MustDefine is like Define but panics on error.
func (s *Schema) MustDefine(attrs ...Attribute) *Schema {
	if err := s.Define(attrs...); err != nil {
		panic(err)
	}
	return s
}

// Inherit returns a new schema starting from a deep copy of s. Defining
// attributes on the child never affects s.
func (s *Schema) Inherit(name string, opts ...SchemaOption) *Schema {
	child := &Schema{
		name:       name,
		path:       s.path,
		registry:   s.registry,
		caps:       s.caps,
		attributes: make([]Attribute, len(s.attributes)),
		index:      make(map[string]int, len(s.index)),
	}
	for i, attr := range s.attributes {
		child.attributes[i] = attr.clone()
	}
	for k, i := range s.index {
		child.index[k] = i
	}
	for _, opt := range opts {
		opt(child)
	}
	return child
}

// Name returns the object name, e.g. "event".
func (s *Schema) Name() string { return s.name }

// Path returns the collection path, e.g. "/events".
func (s *Schema) Path() string { return s.path }

// Capabilities returns the supported operations.
func (s *Schema) Capabilities() Capabilities { return s.caps }

// Registry returns the registry attribute types resolve against.
func (s *Schema) Registry() *types.Registry { return s.registry }

// ResourcePath returns the path of a single resource.
func (s *Schema) ResourcePath(id string) string {
	return s.path + "/" + url.PathEscape(id)
}

// Attributes returns a copy of the declared attributes in declaration order.
func (s *Schema) Attributes() []Attribute {
	out := make([]Attribute, len(s.attributes))
	for i, attr := range s.attributes {
		out[i] = attr.clone()
	}
	return out
}

// Attribute looks up a declared attribute by (normalized) name.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	i, ok := s.index[normalizeKey(name)]
	if !ok {
		return Attribute{}, false
	}
	return s.attributes[i], true
}

// CapabilityError returns the error reported when op is not supported.
func (s *Schema) CapabilityError(sentinel error) error {
	return &CapabilityError{Model: s.name, Err: sentinel}
}

func (s *Schema) caster(attr Attribute) (types.Caster, error) {
	c, err := s.registry.Resolve(attr.Type)
	if err != nil {
		return nil, err
	}
	if attr.Many {
		return types.List(c), nil
	}
	return c, nil
}

// New returns an unsaved record holding only default values.
func (s *Schema) New(exec Executor) *Record {
	values, _ := s.castPayload(nil, true)
	return &Record{schema: s, state: newState(values), exec: exec}
}

// FromJSON builds a record from a server payload. raw may be encoded JSON
// ([]byte, string) or an already decoded map[string]any. Wire keys that are
// not declared are ignored. Attribute cast failures are collected and
// returned together.
func (s *Schema) FromJSON(raw any, exec Executor) (*Record, error) {
	payload, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}

	values, err := s.castPayload(payload, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return &Record{schema: s, state: newState(values), exec: exec}, nil
}

// castPayload casts the declared attributes found in payload. With
// withDefaults set, absent attributes receive their default, or the cast of
// nil when there is none.
func (s *Schema) castPayload(payload map[string]any, withDefaults bool) (map[string]any, error) {
	wire := make(map[string]any, len(payload))
	for k, v := range payload {
		wire[normalizeKey(k)] = v
	}

	var result *multierror.Error
	values := make(map[string]any, len(s.attributes))
	for _, attr := range s.attributes {
		raw, present := wire[attr.key()]
		if !present && !withDefaults {
			continue
		}
		if raw == nil && attr.Default != nil {
			values[attr.key()] = copyValue(attr.Default)
			continue
		}

		c, err := s.caster(attr)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		native, err := c.Cast(raw)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("attribute %q: %w", attr.Name, err))
			continue
		}
		values[attr.key()] = native
	}
	return values, result.ErrorOrNil()
}

// Caster returns a caster that turns nested objects into records of this
// schema, so the schema can be registered as an attribute type of another.
func (s *Schema) Caster() types.Caster {
	return &nestedCaster{schema: s}
}

type nestedCaster struct {
	schema *Schema
}

// Cast returns an empty record for nil, returns records of the same schema
// unchanged and projects maps onto the declared attributes.
func (c *nestedCaster) Cast(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return c.schema.New(nil), nil
	case *Record:
		if v.schema.name != c.schema.name {
			return nil, &types.TypeError{Type: types.Key(c.schema.name), Value: raw}
		}
		return v, nil
	case map[string]any:
		return c.schema.FromJSON(v, nil)
	default:
		return nil, &types.TypeError{Type: types.Key(c.schema.name), Value: raw}
	}
}

func (c *nestedCaster) Serialize(native any) (any, error) {
	switch v := native.(type) {
	case nil:
		return nil, nil
	case *Record:
		return v.Serialize()
	case map[string]any:
		return v, nil
	default:
		return nil, &types.TypeError{Type: types.Key(c.schema.name), Value: native}
	}
}

func decodeObject(raw any) (map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case []byte:
		return unmarshalObject(v)
	case string:
		return unmarshalObject([]byte(v))
	default:
		return nil, fmt.Errorf("expected a JSON object, got %T", raw)
	}
}

func unmarshalObject(data []byte) (map[string]any, error) {
	var obj map[string]any
	if err := api.JSON.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", api.ErrJSONParse, err)
	}
	return obj, nil
}
