package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Keys name flags. Nested mappings join their keys with "-", and
// underscores may stand for hyphens, so these are equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Command line flags override configuration values.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse YAML configuration: %w", err)
	}

	values := make(config)
	values.flatten("", doc)

	return values, nil
}

// config implements [kong.Resolver] over flattened flag values.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		name := strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			name = prefix + "-" + name
		}

		if sub, ok := value.(map[string]any); ok {
			c.flatten(name, sub)

			continue
		}

		c[name] = scalar(value)
	}
}

// scalar converts numbers to the text kong parses them from.
func scalar(v any) any {
	switch v := v.(type) {
	case int, int64, uint64, float64:
		return fmt.Sprint(v)
	case []any:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = scalar(item)
		}

		return items
	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	return c[flag.Name], nil
}
