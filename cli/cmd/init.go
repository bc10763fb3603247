package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/fala/log"
	"github.com/ardnew/fala/profile"
)

// Init writes a configuration file holding the current flag values.
type Init struct {
	Force bool `help:"Overwrite an existing configuration file." short:"f"`
}

// ignoredFlags are flag name prefixes never written to the configuration.
var ignoredFlags = []string{"help", "version", profile.Tag}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) error {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(errors.New("no command line context"))
	}

	path := ktx.Model.Vars()[ConfigIdentifier]
	fail := ErrWriteConfig.With(slog.String("file", path))

	if _, err := os.Stat(path); err == nil && !i.Force {
		return fail.Wrap(ErrFileExists)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fail.Wrap(err)
	}

	data, err := yaml.MarshalContext(ctx, flagValues(ktx), yaml.Indent(2))
	if err != nil {
		return fail.Wrap(err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fail.Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", path))

	return nil
}

// flagValues returns the value of every global flag that has a value,
// keyed by flag name.
func flagValues(ktx *kong.Context) yaml.MapSlice {
	var values yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(ignoredFlags, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if v := configValue(ktx.FlagValue(flag)); v != nil {
			values = append(values, yaml.MapItem{Key: flag.Name, Value: v})
		}
	}

	slices.SortFunc(values, func(a, b yaml.MapItem) int {
		return strings.Compare(a.Key.(string), b.Key.(string))
	})

	return values
}

// configValue converts a flag value to its configuration form: scalars are
// kept, stringers become text and empty values are dropped.
func configValue(v any) any {
	switch v := v.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}

		return v
	case bool, int, int64, uint, uint64, float64:
		return v
	case []string:
		if len(v) == 0 {
			return nil
		}

		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
