package lower

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/check"
	"github.com/ardnew/fala/lang/ir"
)

func lower(t *testing.T, src string, opts ...Option) (*ir.Module, error) {
	t.Helper()

	prog, err := lang.ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return Lower(context.Background(), prog, opts...)
}

func TestLower(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "declare and print",
			input: "int x, x é 5.\nmostra x.",
			want: []string{
				"Assign(Name(x), Constant(5))",
				"Expr(Call(print, [Name(x)]))",
			},
		},
		{
			name:  "literal range is half open",
			input: `lista x é 1 a 4.`,
			want:  []string{"Assign(Name(x), List([Constant(1), Constant(2), Constant(3)]))"},
		},
		{
			name:  "parenthesized range bounds",
			input: `lista x é (2) a (3).`,
			want:  []string{"Assign(Name(x), List([Constant(2)]))"},
		},
		{
			name:  "empty range",
			input: `lista x é 4 a 1.`,
			want:  []string{"Assign(Name(x), List([]))"},
		},
		{
			name:  "non-literal range is dropped",
			input: `int n é 3. lista x é 1 a n, y é 0 a 1.`,
			want: []string{
				"Assign(Name(n), Constant(3))",
				"Assign(Name(y), List([Constant(0)]))",
			},
		},
		{
			name:  "operators",
			input: `r é (p mais b) vezes c dividido por d menos f na 2.`,
			want:  []string{"Assign(Name(r), BinOp(BinOp(BinOp(BinOp(Name(p), Add, Name(b)), Mult, Name(c)), Div, Name(d)), Sub, BinOp(Name(f), Pow, Constant(2))))"},
		},
		{
			name:  "logic and comparisons",
			input: `ok é não p é menor ou igual a 1 ou b é diferente "x".`,
			want:  []string{`Assign(Name(ok), BoolOp(Or, [UnaryOp(Not, Compare(Name(p), LtE, Constant(1))), Compare(Name(b), NotEq, Constant("x"))]))`},
		},
		{
			name:  "increment and decrement",
			input: `incrementa i. decrementa (j).`,
			want: []string{
				"AugAssign(Name(i), Add, Constant(1))",
				"AugAssign(Name(j), Sub, Constant(1))",
			},
		},
		{
			name:  "indexing",
			input: `v[i mais 1] é v[0].`,
			want:  []string{"Assign(Subscript(Name(v), BinOp(Name(i), Add, Constant(1)), Store), Subscript(Name(v), Constant(0), Load))"},
		},
		{
			name:  "put and read",
			input: `bota leia "nome? " em nome.`,
			want:  []string{`Assign(Name(nome), Call(read, [Constant("nome? ")]))`},
		},
		{
			name:  "literal kinds",
			input: `mostra 1, 2,5, "t", verdadeiro, falso.`,
			want:  []string{`Expr(Call(print, [Constant(1), Constant(2.5), Constant("t"), Constant(true), Constant(false)]))`},
		},
		{
			name:  "end of conditional",
			input: `se p então mostra 1. e deu.`,
			want:  []string{"If(Name(p), [Expr(Call(print, [Constant(1)]))], [])"},
		},
		{
			name:  "else if",
			input: `se p então mostra 1. senão se b então mostra 2. e deu.`,
			want:  []string{"If(Name(p), [Expr(Call(print, [Constant(1)]))], [If(Name(b), [Expr(Call(print, [Constant(2)]))], [])])"},
		},
		{
			name:  "otherwise block",
			input: `se p então mostra 1. tá bom então mostra 2. mostra 3. e deu.`,
			want:  []string{"If(Name(p), [Expr(Call(print, [Constant(1)]))], [Expr(Call(print, [Constant(2)])); Expr(Call(print, [Constant(3)]))])"},
		},
		{
			name:  "loops",
			input: "enquanto i é menor que 3 faça incrementa i. e deu.\npara x em v faça mostra x. e deu.",
			want: []string{
				"While(Compare(Name(i), Lt, Constant(3)), [AugAssign(Name(i), Add, Constant(1))])",
				"For(Name(x), Name(v), [Expr(Call(print, [Name(x)]))])",
			},
		},
		{
			name:  "function",
			input: `define soma com int p, int b como retorna p mais b. e deu. mostra soma com 1, 2.`,
			want: []string{
				"FunctionDef(soma, [p, b], [Return(BinOp(Name(p), Add, Name(b)))])",
				"Expr(Call(print, [Call(soma, [Constant(1), Constant(2)])]))",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := lower(t, tt.input)
			if err != nil {
				t.Fatalf("lower error: %v", err)
			}

			var got []string
			for _, s := range mod.Body {
				got = append(got, ir.Dump(s))
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("IR mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLower_Contexts(t *testing.T) {
	mod, err := lower(t, `x é 1. para c em x faça mostra c. e deu.`)
	if err != nil {
		t.Fatalf("lower error: %v", err)
	}

	assign := mod.Body[0].(*ir.Assign)
	if assign.Target.(*ir.Name).Ctx != ir.Store {
		t.Error("assignment target should be a store")
	}

	loop := mod.Body[1].(*ir.For)
	if loop.Target.Ctx != ir.Store || loop.Iter.(*ir.Name).Ctx != ir.Load {
		t.Errorf("loop contexts = %v, %v", loop.Target.Ctx, loop.Iter.(*ir.Name).Ctx)
	}
}

func TestLower_Unsupported(t *testing.T) {
	tests := []struct {
		name  string
		input string
		what  string
	}{
		{"increment as a value", `x é incrementa y.`, "incrementa used as a value"},
		{"increment inside arithmetic", `incrementa x mais 1.`, "incrementa used as a value"},
		{"increment of an expression", `incrementa (x mais 1).`, "incrementa of an expression"},
		{"increment of a power", `decrementa x na 2.`, "decrementa of an expression"},
		{"branch after otherwise", `se p então mostra 1. tá bom então mostra 2. senão se b então mostra 3. e deu.`, "continuation after an unconditional branch"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mod, err := lower(t, tt.input)
			if err == nil {
				t.Fatalf("expected error, got:\n%s", mod)
			}

			if !errors.Is(err, ErrUnsupported) {
				t.Errorf("expected ErrUnsupported, got %v", err)
			}

			if !strings.Contains(err.Error(), tt.what) {
				t.Errorf("error %q does not mention %q", err, tt.what)
			}
		})
	}
}

func TestLower_MaxRange(t *testing.T) {
	_, err := lower(t, `lista x é 0 a 100.`, WithMaxRange(10))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	mod, err := lower(t, `lista x é 0 a 10.`, WithMaxRange(10))
	if err != nil {
		t.Fatalf("lower error: %v", err)
	}

	if n := len(mod.Body[0].(*ir.Assign).Value.(*ir.List).Elts); n != 10 {
		t.Errorf("got %d elements, want 10", n)
	}
}

// Lowering proceeds over a tree that analysis rejected.
func TestLower_AfterDiagnostics(t *testing.T) {
	prog, err := lang.ParseString(context.Background(), `mostra livre é maior que 3.`)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if res := check.Analyze(context.Background(), prog); res.OK() {
		t.Fatal("expected diagnostics")
	}

	mod, err := Lower(context.Background(), prog)
	if err != nil {
		t.Fatalf("lower error: %v", err)
	}

	want := "Expr(Call(print, [Compare(Name(livre), Gt, Constant(3))]))\n"
	if got := mod.String(); got != want {
		t.Errorf("IR = %q, want %q", got, want)
	}
}

func TestLower_Builder(t *testing.T) {
	b := lang.NewBuilder()

	prog := b.Program(
		b.Declare(lang.TypeList, b.Bind("v", b.Range(b.Int(0), b.Int(2)))),
		b.IndexAssign("v", b.Int(1), b.Real(0.5)),
	)

	mod, err := Lower(context.Background(), prog)
	if err != nil {
		t.Fatalf("lower error: %v", err)
	}

	want := "Assign(Name(v), List([Constant(0), Constant(1)]))\n" +
		"Assign(Subscript(Name(v), Constant(1), Store), Constant(0.5))\n"
	if got := mod.String(); got != want {
		t.Errorf("IR mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}
}
