package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
)

type initCLI struct {
	LogLevel string `default:"info"`
	Pretty   bool   `default:"true"`
	PprofDir string `default:"/tmp"`

	Init Init `cmd:""`
}

func initContext(t *testing.T, path string, args ...string) context.Context {
	t.Helper()

	var cli initCLI

	parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: path})
	if err != nil {
		t.Fatal(err)
	}

	ktx, err := parser.Parse(append([]string{"init"}, args...))
	if err != nil {
		t.Fatal(err)
	}

	return WithContext(t.Context(), ktx)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	if err := (&Init{}).Run(initContext(t, path, "--log-level=debug")); err != nil {
		t.Fatalf("init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}

	want := map[string]any{"log-level": "debug", "pretty": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestInit_Exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("pretty: false\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	err := (&Init{}).Run(initContext(t, path))
	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, ErrFileExists) {
		t.Errorf("got error %v, want %v", err, ErrFileExists)
	}

	if err := (&Init{Force: true}).Run(initContext(t, path, "--force")); err != nil {
		t.Errorf("forced init: %v", err)
	}
}

func TestInit_NoContext(t *testing.T) {
	if err := (&Init{}).Run(t.Context()); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("got error %v, want %v", err, ErrWriteConfig)
	}
}
