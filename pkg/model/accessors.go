package model

import (
	"time"
)

// The typed accessors below return the zero value when the attribute is
// unset or holds a value of another type.

func (r *Record) GetString(name string) string {
	s, _ := r.state.Read(name).(string)
	return s
}

func (r *Record) GetBool(name string) bool {
	b, _ := r.state.Read(name).(bool)
	return b
}

func (r *Record) GetInt(name string) int {
	n, _ := r.state.Read(name).(int)
	return n
}

func (r *Record) GetFloat(name string) float64 {
	f, _ := r.state.Read(name).(float64)
	return f
}

func (r *Record) GetTime(name string) time.Time {
	t, _ := r.state.Read(name).(time.Time)
	return t
}

func (r *Record) GetMap(name string) map[string]any {
	m, _ := r.state.Read(name).(map[string]any)
	return m
}

func (r *Record) GetStrings(name string) []string {
	switch v := r.state.Read(name).(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// GetRecord returns a nested record attribute.
func (r *Record) GetRecord(name string) *Record {
	nested, _ := r.state.Read(name).(*Record)
	return nested
}

// GetRecords returns a list-of-nested-records attribute.
func (r *Record) GetRecords(name string) []*Record {
	items, _ := r.state.Read(name).([]any)
	out := make([]*Record, 0, len(items))
	for _, item := range items {
		if nested, ok := item.(*Record); ok {
			out = append(out, nested)
		}
	}
	return out
}
