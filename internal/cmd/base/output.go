package base

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nylas/nylas-ruby-sub000/pkg/api"
	"github.com/nylas/nylas-ruby-sub000/pkg/model"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Render encodes v in format.
func Render(format string, v any) (string, error) {
	data, err := api.JSON.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("error encoding output: %w", err)
	}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		return string(data), nil
	case FormatYAML:
		// JSON is valid YAML; decoding it first gives plain YAML numbers.
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return "", fmt.Errorf("error encoding output: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return "", fmt.Errorf("error encoding output: %w", err)
		}
		return strings.TrimRight(string(out), "\n"), nil
	default:
		return "", fmt.Errorf("unknown format %q, expected json or yaml", format)
	}
}

// Output writes v to the UI in format.
func (c *Command) Output(format string, v any) error {
	out, err := Render(format, v)
	if err != nil {
		return err
	}
	c.UI.Output(out)
	return nil
}

// Records returns the wire form of records for output.
func Records(records []*model.Record) ([]any, error) {
	out := make([]any, 0, len(records))
	for _, r := range records {
		v, err := r.Serialize()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// KeyValues is a repeatable key=value flag.
type KeyValues map[string]any

func (kv KeyValues) String() string {
	parts := make([]string, 0, len(kv))
	for k, v := range kv {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

// Set parses one key=value pair. "true" and "false" become booleans.
func (kv KeyValues) Set(s string) error {
	k, v, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("expected key=value, got %q", s)
	}
	k = strings.TrimSpace(k)
	switch v {
	case "true":
		kv[k] = true
	case "false":
		kv[k] = false
	default:
		kv[k] = v
	}
	return nil
}
