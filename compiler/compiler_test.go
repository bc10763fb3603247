package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/check"
	"github.com/ardnew/fala/lang/eval"
	"github.com/ardnew/fala/lang/lower"
)

func TestCompile(t *testing.T) {
	res, err := Compile(t.Context(), "int x é 2.\nmostra x vezes 3.")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	if n := len(res.Diagnostics()); n != 0 {
		t.Errorf("got %d diagnostics: %v", n, res.Check.Err())
	}

	want := "Assign(Name(x), Constant(2))\n" +
		"Expr(Call(print, [BinOp(Name(x), Mult, Constant(3))]))\n"
	if got := res.Module.String(); got != want {
		t.Errorf("IR mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}

	var out strings.Builder
	if err := res.Run(t.Context(), eval.WithStdout(&out)); err != nil {
		t.Fatalf("run error: %v", err)
	}

	if got := out.String(); got != "6\n" {
		t.Errorf("output = %q, want %q", got, "6\n")
	}
}

func TestCompile_DiagnosticsDoNotStop(t *testing.T) {
	var diag strings.Builder

	res, err := Compile(t.Context(), `int x. x é 1,5. mostra y.`, WithDiagnostics(&diag))
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	want := []string{"assignment has a type conflict: int - real", "y is undefined"}

	got := make([]string, len(res.Diagnostics()))
	for i, d := range res.Diagnostics() {
		got[i] = d.Message
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}

	if diag.String() != strings.Join(want, "\n")+"\n" {
		t.Errorf("diagnostic output = %q", diag.String())
	}

	if res.Module == nil || len(res.Module.Body) != 2 {
		t.Errorf("module = %v", res.Module)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"illegal character", `mostra 1 $ 2.`, lang.ErrIllegalToken},
		{"illegal number", `mostra 1,2,3.`, lang.ErrIllegalToken},
		{"syntax", `mostra 1`, lang.ErrSyntax},
		{"unsupported construct", `x é incrementa y.`, lower.ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(t.Context(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCompile_Globals(t *testing.T) {
	first, err := Compile(t.Context(), `int x é 1.`)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	second, err := Compile(t.Context(), `x é 2,5.`, WithGlobals(first.Check.Globals))
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	ds := second.Diagnostics()
	if len(ds) != 1 || ds[0].Kind != check.TypeConflict {
		t.Errorf("diagnostics = %v", ds)
	}
}

func TestCompileReader(t *testing.T) {
	res, err := CompileReader(t.Context(), strings.NewReader("lista v é 0 a 2."), WithMaxRange(1))
	if !errors.Is(err, lower.ErrUnsupported) {
		t.Fatalf("got error %v, want %v", err, lower.ErrUnsupported)
	}

	if res == nil || res.Program == nil {
		t.Error("analysis products should survive a lowering failure")
	}
}
