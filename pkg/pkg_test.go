package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "fala" {
		t.Errorf("Name = %q, want %q", Name, "fala")
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version != want {
		t.Errorf("Version = %q, want %q", Version, want)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("Author is empty")
	}

	for i, a := range Author {
		if a.Name == "" && a.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestUserDir(t *testing.T) {
	want := t.TempDir()

	got := userDir(func() (string, error) { return want, nil }, ".hidden")
	if got != want {
		t.Errorf("userDir = %q, want %q", got, want)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got = userDir(func() (string, error) { return "", os.ErrNotExist }, ".hidden")
	if want := filepath.Join(home, ".hidden"); got != want {
		t.Errorf("userDir fallback = %q, want %q", got, want)
	}
}

func TestPrefix(t *testing.T) {
	if p := Prefix(); p == "" || strings.HasPrefix(p, ".") {
		t.Errorf("Prefix = %q", p)
	}
}
