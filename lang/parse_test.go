package lang

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/fala/lang/lexer"
)

func outline(t *testing.T, prog *Program) string {
	t.Helper()

	var buf strings.Builder
	if err := prog.FormatTree(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format tree: %v", err)
	}

	return buf.String()
}

func mustParse(t *testing.T, src string) *Program {
	t.Helper()

	prog, err := ParseString(context.Background(), src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return prog
}

func TestParseString_StatementCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"single", `mostra 1.`, 1},
		{"several", "int x é 1.\nx é x mais 1.\nmostra x.", 3},
		{"nested bodies count once", "enquanto x faça mostra x. mostra 2. e deu.", 1},
		{"comment", "# nada\nmostra 1. # fim\n", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			if got := len(prog.Stmts); got != tt.want {
				t.Errorf("got %d statements, want %d", got, tt.want)
			}
		})
	}
}

func TestParseString_Tree(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "multiplication binds tighter than addition",
			input: `x é 2 mais 3 vezes 4.`,
			want: `program
  assign
    name x
    binary mais
      int 2
      binary vezes
        int 3
        int 4
`,
		},
		{
			name:  "exponent is left associative",
			input: `mostra 2 na 3 na 2.`,
			want: `program
  expression
    builtin mostra
      binary na
        binary na
          int 2
          int 3
        int 2
`,
		},
		{
			name:  "division phrase",
			input: `mostra 4 dividido por 2 menos 1.`,
			want: `program
  expression
    builtin mostra
      binary menos
        binary dividido por
          int 4
          int 2
        int 1
`,
		},
		{
			name:  "comparison at statement start is an expression",
			input: `x é maior ou igual a 3 e não y.`,
			want: `program
  expression
    logical e
      compare é maior ou igual a
        name x
        int 3
      not
        name y
`,
		},
		{
			name:  "negation covers the comparison",
			input: `não p é b.`,
			want: `program
  expression
    not
      compare é igual a
        name p
        name b
`,
		},
		{
			name:  "not equal phrases",
			input: `p é diferente b ou p é não igual a b.`,
			want: `program
  expression
    logical ou
      compare é diferente
        name p
        name b
      compare é diferente
        name p
        name b
`,
		},
		{
			name:  "indexed assignment",
			input: `v[1] é 5.`,
			want: `program
  index_assign
    name v
    int 1
    int 5
`,
		},
		{
			name:  "index compared at statement start",
			input: `v[1] é igual a 5.`,
			want: `program
  expression
    compare é igual a
      index
        name v
        int 1
      int 5
`,
		},
		{
			name:  "increment binds tighter than addition",
			input: `incrementa x na 2 mais 1.`,
			want: `program
  expression
    binary mais
      step incrementa
        binary na
          name x
          int 2
      int 1
`,
		},
		{
			name:  "declaration with range sugar",
			input: `int p, b é 1, c é 1 a 4.`,
			want: `program
  declaration int
    binding
      name p
    binding
      name b
      int 1
    binding
      name c
      range
        int 1
        int 4
`,
		},
		{
			name:  "literals",
			input: `mostra "oi", 'ela disse "oi"', 2,5, verdadeiro, falso.`,
			want: `program
  expression
    builtin mostra
      text "oi"
      text 'ela disse "oi"'
      real 2,5
      bool verdadeiro
      bool falso
`,
		},
		{
			name:  "conditional chain",
			input: "se x é maior que 1 então mostra x. senão se x é 1 então mostra 0. tá bom então mostra 2. e deu.",
			want: `program
  if
    compare é maior que
      name x
      int 1
    expression
      builtin mostra
        name x
    else_if
      if
        compare é igual a
          name x
          int 1
        expression
          builtin mostra
            int 0
        else_block
          expression
            builtin mostra
              int 2
          end_if
`,
		},
		{
			name:  "function definition",
			input: `define soma com int p, int b como retorna p mais b. e deu.`,
			want: `program
  function
    name soma
    param int
      name p
    param int
      name b
    return
      binary mais
        name p
        name b
`,
		},
		{
			name:  "call arguments",
			input: `mostra soma com 1, (dobro com 2).`,
			want: `program
  expression
    builtin mostra
      call
        name soma
        int 1
        paren
          call
            name dobro
            int 2
`,
		},
		{
			name:  "loops and put",
			input: "enquanto i é menor que 3 faça bota i mais 1 em i. e deu.\npara x em v faça mostra x. e deu.",
			want: `program
  while
    compare é menor que
      name i
      int 3
    put
      name i
      binary mais
        name i
        int 1
  for_each
    name x
    name v
    expression
      builtin mostra
        name x
`,
		},
		{
			name:  "read without arguments",
			input: `nome é leia.`,
			want: `program
  assign
    name nome
    builtin leia
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outline(t, mustParse(t, tt.input))

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseString_Positions(t *testing.T) {
	prog := mustParse(t, "int x.\n  mostra x mais 1.")

	if got, want := prog.Stmts[1].Pos(), (Position{Line: 2, Column: 3}); got != want {
		t.Errorf("statement position = %v, want %v", got, want)
	}

	call := prog.Stmts[1].(*ExprStmt).X.(*BuiltinCall)
	sum := call.Args[0].(*Binary)

	if got, want := sum.OpPos, (Position{Line: 2, Column: 12}); got != want {
		t.Errorf("operator position = %v, want %v", got, want)
	}
}

func TestParseString_SyntaxError(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		pos      Position
		expected string
	}{
		{"empty", "", Position{Line: 1, Column: 1}, "statement"},
		{"missing value", "x é.", Position{Line: 1, Column: 4}, "expression"},
		{"missing terminator", "mostra 1", Position{Line: 1, Column: 9}, "."},
		{"unterminated conditional", "se x então mostra x.", Position{Line: 1, Column: 21}, "e deu"},
		{"declaration without name", "int 5.", Position{Line: 1, Column: 5}, "identifier"},
		{"incomplete comparison", "mostra p é maior b.", Position{Line: 1, Column: 18}, "que"},
		{"missing por", "mostra 4 dividido 2.", Position{Line: 1, Column: 19}, "por"},
		{"empty body", "enquanto x faça e deu.", Position{Line: 1, Column: 17}, "expression"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := ParseString(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected error, got tree:\n%s", outline(t, prog))
			}

			if prog != nil {
				t.Error("expected no tree on syntax error")
			}

			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("expected ErrSyntax, got %v", err)
			}

			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("expected *SyntaxError, got %T", err)
			}

			if se.Pos != tt.pos {
				t.Errorf("position = %v, want %v", se.Pos, tt.pos)
			}

			found := false

			for _, e := range se.Expected {
				if e == tt.expected {
					found = true
				}
			}

			if !found {
				t.Errorf("expected alternatives %q do not include %q", se.Expected, tt.expected)
			}
		})
	}
}

func TestSyntaxError_Message(t *testing.T) {
	_, err := ParseString(context.Background(), "x é.")
	if err == nil {
		t.Fatal("expected error")
	}

	msg := err.Error()

	want := `syntax error at line 1, column 4: unexpected ".", expected "expression"`
	if !strings.HasPrefix(msg, want) {
		t.Errorf("message %q does not start with %q", msg, want)
	}

	lines := strings.Split(msg, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected message, snippet and caret lines, got %q", lines)
	}

	if lines[1] != "  1 | x é." {
		t.Errorf("snippet = %q", lines[1])
	}

	if lines[2] != strings.Repeat(" ", 9)+"^" {
		t.Errorf("caret = %q", lines[2])
	}
}

func TestParseString_IllegalToken(t *testing.T) {
	_, err := ParseString(context.Background(), "x é 1,2,3 mais $.")
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrIllegalToken) {
		t.Errorf("expected ErrIllegalToken, got %v", err)
	}

	var list lexer.ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("expected lexer.ErrorList, got %T", err)
	}

	if len(list) != 2 {
		t.Errorf("got %d lexer errors, want 2: %v", len(list), list)
	}
}

func TestParseReader(t *testing.T) {
	prog, err := ParseReader(context.Background(), strings.NewReader("mostra 1."))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if prog.Source() != "mostra 1." {
		t.Errorf("source = %q", prog.Source())
	}
}
