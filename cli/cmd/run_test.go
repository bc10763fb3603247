package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ardnew/fala/lang/eval"
	"github.com/ardnew/fala/lang/lower"
)

func newRun(stdin string, files ...string) (*Run, *bytes.Buffer, *bytes.Buffer) {
	var out, diag bytes.Buffer

	return &Run{
		Sources:  Sources{Files: files},
		MaxDepth: eval.DefaultMaxDepth,
		MaxRange: lower.DefaultMaxRange,
		streams:  streams{stdin: strings.NewReader(stdin), stdout: &out, stderr: &diag},
	}, &out, &diag
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "soma.fala", "bota leia em n. mostra \"oi\", n.")

	r, out, _ := newRun("Ana\n", prog)

	if err := r.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.String() != "oi Ana\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestRun_Diagnostics(t *testing.T) {
	src := "int x é 1. x é 2,5. mostra x."

	r, out, diag := newRun(src)
	if err := r.Run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.String() != "2.5\n" {
		t.Errorf("output = %q", out.String())
	}

	if !strings.Contains(diag.String(), "type conflict") {
		t.Errorf("diagnostics = %q", diag.String())
	}

	r, out, _ = newRun(src)
	r.Strict = true

	if err := r.Run(t.Context()); !errors.Is(err, ErrDiagnostics) {
		t.Errorf("got error %v, want %v", err, ErrDiagnostics)
	}

	if out.Len() != 0 {
		t.Errorf("strict run produced output %q", out.String())
	}
}

func TestRun_RuntimeError(t *testing.T) {
	r, _, _ := newRun("lista v é 0 a 2. mostra v[9].")

	if err := r.Run(t.Context()); !errors.Is(err, eval.ErrIndex) {
		t.Errorf("got error %v, want %v", err, eval.ErrIndex)
	}
}

func TestRun_WatchStdin(t *testing.T) {
	r, _, _ := newRun("mostra 1.")
	r.Watch = true

	if err := r.Run(t.Context()); !errors.Is(err, ErrWatch) {
		t.Errorf("got error %v, want %v", err, ErrWatch)
	}
}

// syncBuffer is a bytes.Buffer safe for one writer and one reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestRun_Watch(t *testing.T) {
	dir := t.TempDir()
	prog := writeFile(t, dir, "laço.fala", "mostra 1.")

	var out, diag syncBuffer

	r := &Run{
		Sources:  Sources{Files: []string{prog}},
		Watch:    true,
		MaxDepth: eval.DefaultMaxDepth,
		MaxRange: lower.DefaultMaxRange,
		streams:  streams{stdin: strings.NewReader(""), stdout: &out, stderr: &diag},
	}

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)

	go func() { done <- r.Run(ctx) }()

	waitFor := func(want string) {
		t.Helper()

		deadline := time.Now().Add(5 * time.Second)
		for !strings.Contains(out.String(), want) {
			if time.Now().After(deadline) {
				cancel()
				t.Fatalf("timed out waiting for %q; output %q", want, out.String())
			}

			time.Sleep(10 * time.Millisecond)
		}
	}

	waitFor("1\n")

	if err := os.WriteFile(prog, []byte("mostra 2."), 0o600); err != nil {
		t.Fatal(err)
	}

	waitFor("2\n")
	cancel()

	if err := <-done; err != nil {
		t.Errorf("watch returned %v", err)
	}

	if !strings.Contains(diag.String(), "waiting for changes") {
		t.Errorf("stderr = %q", diag.String())
	}
}
