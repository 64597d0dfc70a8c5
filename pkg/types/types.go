// Package types converts attribute values between their wire (JSON) form and
// the native Go values held by model records.
//
// Every caster lives in an explicit Registry. Schemas resolve the caster for
// each declared attribute through the registry they were built with, so the
// set of known types is fixed when the schemas are constructed.
package types

// Key names a registered caster, e.g. "string" or "unix_timestamp".
type Key string

// Built-in caster keys registered by NewRegistry.
const (
	String        Key = "string"
	Boolean       Key = "boolean"
	Float         Key = "float"
	Integer       Key = "integer"
	Date          Key = "date"
	UnixTimestamp Key = "unix_timestamp"
	Hash          Key = "hash"
	Array         Key = "array"
)

// Caster converts a single value in both directions.
//
// Cast turns a decoded wire value (string, bool, json.Number, map[string]any,
// []any or nil) into its native representation. Serialize turns a native
// value back into something encodable as JSON.
type Caster interface {
	Cast(raw any) (any, error)
	Serialize(native any) (any, error)
}

// CasterFuncs adapts a pair of functions to the Caster interface.
type CasterFuncs struct {
	CastFunc      func(raw any) (any, error)
	SerializeFunc func(native any) (any, error)
}

// Cast implements Caster.
func (f CasterFuncs) Cast(raw any) (any, error) {
	if f.CastFunc == nil {
		return raw, nil
	}
	return f.CastFunc(raw)
}

// Serialize implements Caster.
func (f CasterFuncs) Serialize(native any) (any, error) {
	if f.SerializeFunc == nil {
		return native, nil
	}
	return f.SerializeFunc(native)
}
