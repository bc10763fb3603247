package eval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/ir"
	"github.com/ardnew/fala/lang/lower"
)

func module(t *testing.T, src string) *ir.Module {
	t.Helper()

	prog, err := lang.ParseString(t.Context(), src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	mod, err := lower.Lower(t.Context(), prog)
	if err != nil {
		t.Fatalf("lower %q: %v", src, err)
	}

	return mod
}

func run(t *testing.T, src, stdin string, opts ...Option) (string, error) {
	t.Helper()

	var out strings.Builder

	opts = append([]Option{WithStdout(&out), WithStdin(strings.NewReader(stdin))}, opts...)
	err := Run(t.Context(), module(t, src), opts...)

	return out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		input string
		stdin string
		want  string
	}{
		{
			name:  "declare and print",
			input: `int x é 5. mostra x.`,
			want:  "5\n",
		},
		{
			name:  "division is real",
			input: `mostra 7 dividido por 2, 4 dividido por 2.`,
			want:  "3.5 2.0\n",
		},
		{
			name:  "integer power",
			input: `mostra 2 na 10.`,
			want:  "1024\n",
		},
		{
			name:  "real power",
			input: `mostra 2 na 0,5, 1 mais 2,5.`,
			want:  "1.4142135623730951 3.5\n",
		},
		{
			name:  "booleans",
			input: `mostra 1 é menor que 2, verdadeiro e falso, não falso.`,
			want:  "verdadeiro falso verdadeiro\n",
		},
		{
			name:  "mixed equality",
			input: `mostra 1 é igual a 1,0, "a" é diferente "b".`,
			want:  "verdadeiro verdadeiro\n",
		},
		{
			name:  "texts",
			input: `mostra "olá", 'mundo'.`,
			want:  "olá mundo\n",
		},
		{
			name:  "list element assignment",
			input: `lista v é 0 a 3. v[1] é "x". mostra v.`,
			want:  "[0, \"x\", 2]\n",
		},
		{
			name:  "index read",
			input: `lista v é 5 a 8. mostra v[2], v[0 menos 1].`,
			want:  "7 7\n",
		},
		{
			name:  "text index",
			input: `texto t é "ação". mostra t[1].`,
			want:  "ç\n",
		},
		{
			name:  "for over list",
			input: `lista v é 1 a 4. int s é 0. para x em v faça s é s mais x. e deu. mostra s.`,
			want:  "6\n",
		},
		{
			name:  "for over text",
			input: `texto t é "abc". para c em t faça mostra c. e deu.`,
			want:  "a\nb\nc\n",
		},
		{
			name:  "while",
			input: `int i é 0. enquanto i é menor que 3 faça mostra i. incrementa i. e deu.`,
			want:  "0\n1\n2\n",
		},
		{
			name:  "increment and decrement",
			input: `int i é 1. incrementa i. incrementa i. decrementa i. mostra i.`,
			want:  "2\n",
		},
		{
			name:  "otherwise branch",
			input: `int x é 2. se x é maior que 3 então mostra "grande". tá bom então mostra "pequeno". e deu.`,
			want:  "pequeno\n",
		},
		{
			name:  "else if chain",
			input: `int x é 3. se x é igual a 1 então mostra 1. senão se x é igual a 3 então mostra 3. e deu.`,
			want:  "3\n",
		},
		{
			name: "recursion",
			input: `define fat com int n como
  se n é menor que 2 então retorna 1. e deu.
  retorna n vezes fat com n menos 1.
e deu.
mostra fat com 5.`,
			want: "120\n",
		},
		{
			name:  "globals visible in functions",
			input: `int g é 10. define f com int p como retorna p mais g. e deu. mostra f com 1.`,
			want:  "11\n",
		},
		{
			name:  "function without return",
			input: `define f com int p como mostra p. e deu. mostra f com 1.`,
			want:  "1\nnada\n",
		},
		{
			name:  "read",
			input: `bota leia "nome? " em nome. mostra "oi", nome.`,
			stdin: "Ana\r\n",
			want:  "nome? oi Ana\n",
		},
		{
			name:  "read without newline",
			input: `bota leia em x. mostra x.`,
			stdin: "fim",
			want:  "fim\n",
		},
		{
			name:  "top level return ends the program",
			input: `mostra 1. retorna 0. mostra 2.`,
			want:  "1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.input, tt.stdin)
			if err != nil {
				t.Fatalf("run error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"undefined name", `mostra x.`, ErrUndefinedName},
		{"undefined function", `mostra f com 1.`, ErrUndefinedFunction},
		{"arity", `define f com int p como retorna p. e deu. mostra f com 1, 2.`, ErrArity},
		{"not iterable", `int n é 3. para x em n faça mostra x. e deu.`, ErrNotIterable},
		{"index out of range", `lista v é 0 a 2. mostra v[5].`, ErrIndex},
		{"store out of range", `lista v é 0 a 2. v[2] é 1.`, ErrIndex},
		{"store into text", `texto t é "ab". t[0] é "c".`, ErrType},
		{"condition type", `se 1 então mostra 1. e deu.`, ErrType},
		{"operand types", `mostra "a" menos 1.`, ErrRuntime},
		{"power of text", `mostra "a" na 2.`, ErrType},
		{"locals do not leak", `define f com int p como b é p. retorna b. e deu. mostra f com 1. mostra b.`, ErrUndefinedName},
		{"end of input", `bota leia em x.`, lang.ErrReadInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.input, "")
			if !errors.Is(err, tt.want) {
				t.Errorf("got error %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRun_MaxDepth(t *testing.T) {
	src := `define f com int n como retorna f com n mais 1. e deu. mostra f com 0.`

	_, err := run(t, src, "", WithMaxDepth(10))
	if !errors.Is(err, ErrMaxDepth) {
		t.Fatalf("got error %v, want %v", err, ErrMaxDepth)
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	mod := module(t, `enquanto verdadeiro faça int x é 1. e deu.`)

	err := Run(ctx, mod, WithStdout(&strings.Builder{}))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got error %v, want %v", err, context.Canceled)
	}
}

func TestInterpreter_Session(t *testing.T) {
	var out strings.Builder

	in := New(WithStdout(&out))

	for _, src := range []string{
		`int x é 2.`,
		`define cubo com int n como retorna n na 3. e deu.`,
		`mostra cubo com x.`,
	} {
		if err := in.Run(t.Context(), module(t, src)); err != nil {
			t.Fatalf("run %q: %v", src, err)
		}
	}

	if got := out.String(); got != "8\n" {
		t.Errorf("output = %q, want %q", got, "8\n")
	}

	if diff := cmp.Diff(map[string]any{"x": 2}, in.Globals()); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"cubo"}, in.Functions()); diff != "" {
		t.Errorf("functions mismatch (-want +got):\n%s", diff)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "nada"},
		{true, "verdadeiro"},
		{int64(3), "3"},
		{2.0, "2.0"},
		{-0.5, "-0.5"},
		{"sem aspas", "sem aspas"},
		{[]any{1, "a", false, []any{}}, `[1, "a", falso, []]`},
	}

	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPowHelper(t *testing.T) {
	tests := []struct {
		base, exp any
		want      any
	}{
		{3, 4, 81},
		{2, 0, 1},
		{2, -1, 0.5},
		{4.0, 0.5, 2.0},
		{int64(2), 3, 8},
	}

	for _, tt := range tests {
		got, err := powHelper(tt.base, tt.exp)
		if err != nil {
			t.Fatalf("pow(%v, %v): %v", tt.base, tt.exp, err)
		}

		if got != tt.want {
			t.Errorf("pow(%v, %v) = %#v, want %#v", tt.base, tt.exp, got, tt.want)
		}
	}
}
