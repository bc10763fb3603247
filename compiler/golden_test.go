package compiler

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/fala/internal/mdtest"
	"github.com/ardnew/fala/lang/eval"
)

const goldenGlob = "../testdata/*.md"

func TestGolden(t *testing.T) {
	files, err := filepath.Glob(goldenGlob)
	if err != nil {
		t.Fatal(err)
	}

	if len(files) == 0 {
		t.Fatalf("no golden files match %s", goldenGlob)
	}

	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}

		cases, err := mdtest.Extract(data)
		if err != nil {
			t.Fatalf("%s: %v", file, err)
		}

		name := strings.TrimSuffix(filepath.Base(file), ".md")

		t.Run(name, func(t *testing.T) {
			for _, c := range cases {
				t.Run(c.Name, func(t *testing.T) {
					t.Logf("%s:%d", file, c.Line)
					runCase(t, c)
				})
			}
		})
	}
}

func runCase(t *testing.T, c mdtest.Case) {
	t.Helper()

	wantErr, expectErr := c.Assertion(mdtest.FenceError)

	res, err := Compile(t.Context(), c.Source)
	if err != nil {
		if !expectErr {
			t.Fatalf("compile error: %v", err)
		}

		checkError(t, wantErr, err)

		return
	}

	if a, ok := c.Assertion(mdtest.FenceDiagnostics); ok {
		var got []string
		for _, d := range res.Diagnostics() {
			got = append(got, d.Kind.String()+": "+d.Message)
		}

		if diff := cmp.Diff(lines(a.Content), got); diff != "" {
			t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
		}
	}

	if a, ok := c.Assertion(mdtest.FenceIR); ok {
		got := strings.TrimRight(res.Module.String(), "\n")
		if diff := cmp.Diff(a.Content, got); diff != "" {
			t.Errorf("IR mismatch (-want +got):\n%s", diff)
		}
	}

	wantOut, expectOut := c.Assertion(mdtest.FenceOutput)
	if !expectOut && !expectErr {
		return
	}

	var out strings.Builder

	err = res.Run(t.Context(),
		eval.WithStdout(&out),
		eval.WithStdin(strings.NewReader(c.Input)))

	switch {
	case expectErr:
		checkError(t, wantErr, err)
	case err != nil:
		t.Fatalf("run error: %v", err)
	}

	if expectOut {
		got := strings.TrimRight(out.String(), "\n")
		if diff := cmp.Diff(wantOut.Content, got); diff != "" {
			t.Errorf("output mismatch (-want +got):\n%s", diff)
		}
	}
}

func checkError(t *testing.T, want mdtest.Assertion, err error) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error containing %q", want.Content)
	}

	if !strings.Contains(err.Error(), want.Content) {
		t.Errorf("error = %q, want it to contain %q", err, want.Content)
	}
}

// lines splits s into lines, returning nil for empty content.
func lines(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, "\n")
}
