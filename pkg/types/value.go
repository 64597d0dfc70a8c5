package types

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mitchellh/copystructure"
	"github.com/mitchellh/mapstructure"
)

// DateLayout is the wire layout of date attributes.
const DateLayout = "2006-01-02"

type builtin struct {
	key    Key
	caster Caster
}

func builtins() []builtin {
	return []builtin{
		{String, CasterFuncs{CastFunc: castString}},
		{Boolean, CasterFuncs{CastFunc: castBoolean}},
		{Float, CasterFuncs{CastFunc: castFloat}},
		{Integer, CasterFuncs{CastFunc: castInteger}},
		{Date, CasterFuncs{CastFunc: castDate, SerializeFunc: serializeDate}},
		{UnixTimestamp, CasterFuncs{CastFunc: castTimestamp, SerializeFunc: serializeTimestamp}},
		{Hash, CasterFuncs{CastFunc: castHash, SerializeFunc: castHash}},
		{Array, CasterFuncs{CastFunc: castArray, SerializeFunc: castArray}},
	}
}

// castBoolean is strict: only the boolean true casts to true. Strings such as
// "true" and numbers such as 1 cast to false.
func castBoolean(raw any) (any, error) {
	b, ok := raw.(bool)
	return ok && b, nil
}

func castString(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	if isComposite(raw) {
		return nil, &TypeError{Type: String, Value: raw}
	}

	var s string
	if err := mapstructure.WeakDecode(raw, &s); err != nil {
		return nil, &TypeError{Type: String, Value: raw, Err: err}
	}
	return s, nil
}

func castInteger(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case int:
		return v, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, &TypeError{Type: Integer, Value: raw, Err: err}
		}
		return int(math.Trunc(f)), nil
	}
	if isComposite(raw) {
		return nil, &TypeError{Type: Integer, Value: raw}
	}

	var n int
	if err := mapstructure.WeakDecode(raw, &n); err != nil {
		return nil, &TypeError{Type: Integer, Value: raw, Err: err}
	}
	return n, nil
}

func castFloat(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		return v, nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, &TypeError{Type: Float, Value: raw, Err: err}
		}
		return f, nil
	}
	if isComposite(raw) {
		return nil, &TypeError{Type: Float, Value: raw}
	}

	var f float64
	if err := mapstructure.WeakDecode(raw, &f); err != nil {
		return nil, &TypeError{Type: Float, Value: raw, Err: err}
	}
	return f, nil
}

// castDate parses a calendar date. The time of day is discarded.
func castDate(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return truncateDay(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		t, err := dateparse.ParseIn(v, time.UTC)
		if err != nil {
			return nil, &TypeError{Type: Date, Value: raw, Err: err}
		}
		return truncateDay(t), nil
	default:
		return nil, &TypeError{Type: Date, Value: raw}
	}
}

func serializeDate(native any) (any, error) {
	switch v := native.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.Format(DateLayout), nil
	case string:
		return v, nil
	default:
		return nil, &TypeError{Type: Date, Value: native}
	}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// castTimestamp reads epoch seconds.
func castTimestamp(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v, nil
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return time.Unix(n, 0).UTC(), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, &TypeError{Type: UnixTimestamp, Value: raw, Err: err}
		}
		return time.Unix(int64(f), 0).UTC(), nil
	}
	if isComposite(raw) {
		return nil, &TypeError{Type: UnixTimestamp, Value: raw}
	}

	var n int64
	if err := mapstructure.WeakDecode(raw, &n); err != nil {
		return nil, &TypeError{Type: UnixTimestamp, Value: raw, Err: err}
	}
	return time.Unix(n, 0).UTC(), nil
}

// serializeTimestamp emits whole epoch seconds; sub-second precision is lost.
func serializeTimestamp(native any) (any, error) {
	switch v := native.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.Unix(), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return nil, &TypeError{Type: UnixTimestamp, Value: native}
	}
}

func castHash(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		dup, err := copystructure.Copy(v)
		if err != nil {
			return nil, &TypeError{Type: Hash, Value: raw, Err: err}
		}
		return dup, nil
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return m, nil
	default:
		return nil, &TypeError{Type: Hash, Value: raw}
	}
}

func castArray(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := toSlice(raw)
	if !ok {
		return nil, &TypeError{Type: Array, Value: raw}
	}
	dup, err := copystructure.Copy(items)
	if err != nil {
		return nil, &TypeError{Type: Array, Value: raw, Err: err}
	}
	return dup, nil
}

func isComposite(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// toSlice converts any slice or array value to []any.
func toSlice(v any) ([]any, bool) {
	if items, ok := v.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// List wraps a caster so it applies element-wise over an ordered sequence.
func List(inner Caster) Caster {
	return &listCaster{inner: inner}
}

type listCaster struct {
	inner Caster
}

func (l *listCaster) Cast(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := toSlice(raw)
	if !ok {
		return nil, &TypeError{Type: "list", Value: raw}
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		v, err := l.inner.Cast(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (l *listCaster) Serialize(native any) (any, error) {
	if native == nil {
		return nil, nil
	}
	items, ok := toSlice(native)
	if !ok {
		return nil, &TypeError{Type: "list", Value: native}
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		v, err := l.inner.Serialize(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
