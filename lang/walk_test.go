package lang

import (
	"bytes"
	"slices"
	"testing"
)

func TestInspect(t *testing.T) {
	prog := mustParse(t, `
int total é 0.
para x em v faça
  total é total mais x.
e deu.
mostra total.`)

	var names []string

	Inspect(prog, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}

		return true
	})

	want := []string{"total", "x", "v", "total", "total", "x", "total"}
	if !slices.Equal(names, want) {
		t.Errorf("names = %q, want %q", names, want)
	}
}

func TestInspect_Prune(t *testing.T) {
	prog := mustParse(t, `define f como mostra p. e deu. mostra b.`)

	var names []string

	Inspect(prog, func(n Node) bool {
		if _, ok := n.(*FuncDef); ok {
			return false
		}

		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}

		return true
	})

	if !slices.Equal(names, []string{"b"}) {
		t.Errorf("names = %q, want [b]", names)
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()

	prog := b.Program(
		b.Declare(TypeInt, b.Bind("x", b.Int(2)), b.Bind("v", nil)),
		b.Func("dobro", []*Param{b.Param(TypeInt, "n")},
			b.Return(b.Binary(OpMul, b.Ident("n"), b.Int(2))),
		),
		b.If(
			b.Compare(CmpGt, b.Ident("x"), b.Int(1)),
			b.ElseBlock(b.Expr(b.Print(b.Text("pequeno")))),
			b.Expr(b.Print(b.Call("dobro", b.Ident("x")))),
		),
	)

	var buf bytes.Buffer
	if err := prog.Format(t.Context(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	want := `int x é 2, v.
define dobro com int n como
  retorna n vezes 2.
e deu.
se x é maior que 1 então
  mostra dobro com x.
tá bom então
  mostra "pequeno".
e deu.
`
	if got := buf.String(); got != want {
		t.Errorf("format mismatch:\nwant:\n%s\ngot:\n%s", want, got)
	}

	reparsed := mustParse(t, want)
	if len(reparsed.Stmts) != len(prog.Stmts) {
		t.Errorf("reparsed %d statements, want %d", len(reparsed.Stmts), len(prog.Stmts))
	}
}
