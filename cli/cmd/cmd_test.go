package cmd

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}

func readSources(t *testing.T, s Sources, stdin string) string {
	t.Helper()

	r, done, err := s.open(strings.NewReader(stdin))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer done()

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	return string(data)
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.fala", "mostra 1.")
	b := writeFile(t, dir, "b.fala", "mostra 2.")

	link := filepath.Join(dir, "link.fala")
	if err := os.Symlink(a, link); err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(mustGetwd(t), a)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		files []string
		want  string
	}{
		{"none reads stdin", nil, "in"},
		{"dash reads stdin", []string{"-"}, "in"},
		{"single file", []string{a}, "mostra 1.\n"},
		{"files in order", []string{b, a}, "mostra 2.\nmostra 1.\n"},
		{"stdin last", []string{"-", a}, "mostra 1.\nin"},
		{"duplicate path", []string{a, a}, "mostra 1.\n"},
		{"relative duplicate", []string{a, rel}, "mostra 1.\n"},
		{"symlink duplicate", []string{link, a}, "mostra 1.\n"},
		{"repeated dash", []string{"-", b, "-"}, "mostra 2.\nin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readSources(t, Sources{Files: tt.files}, "in")
			if got != tt.want {
				t.Errorf("read %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSources_Missing(t *testing.T) {
	s := Sources{Files: []string{filepath.Join(t.TempDir(), "absent.fala")}}

	if _, _, err := s.open(strings.NewReader("")); !errors.Is(err, ErrOpenSource) {
		t.Errorf("got error %v, want %v", err, ErrOpenSource)
	}
}

func TestError(t *testing.T) {
	cause := errors.New("disk full")
	err := ErrWriteConfig.Wrap(cause)

	if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, cause) {
		t.Errorf("%v does not match its sentinel and cause", err)
	}

	if errors.Is(err, ErrWatch) {
		t.Errorf("%v matches an unrelated sentinel", err)
	}

	if got, want := err.Error(), "write configuration file: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func mustGetwd(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	return wd
}
