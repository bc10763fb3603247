package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormat_Source(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
		want   string
	}{
		{
			name:   "single line",
			input:  `real x é 1,5, y.`,
			indent: 0,
			want:   "real x é 1,5, y.\n",
		},
		{
			name:   "bare comparison is spelled out",
			input:  `mostra p é q.`,
			indent: 0,
			want:   "mostra p é igual a q.\n",
		},
		{
			name:   "conditional on one line",
			input:  "se x\nentão mostra x.\ne deu.",
			indent: 0,
			want:   "se x então mostra x. e deu.\n",
		},
		{
			name:   "indented loop",
			input:  `enquanto i é menor que 3 faça incrementa i. e deu.`,
			indent: 2,
			want:   "enquanto i é menor que 3 faça\n  incrementa i.\ne deu.\n",
		},
		{
			name:   "function",
			input:  `define f com int p, real q como retorna (p mais q). e deu. mostra f com 1, 2.`,
			indent: 4,
			want:   "define f com int p, real q como\n    retorna (p mais q).\ne deu.\nmostra f com 1, 2.\n",
		},
		{
			name:   "put and range",
			input:  `lista v é 1 a 3. bota 0 em v.`,
			indent: 2,
			want:   "lista v é 1 a 3.\nbota 0 em v.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := mustParse(t, tt.input)

			var buf bytes.Buffer
			if err := prog.Format(context.Background(), &buf, tt.indent); err != nil {
				t.Fatalf("format error: %v", err)
			}

			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("format mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	inputs := []string{
		`int x é 2 mais 3 vezes 4, y, z é 1 a 10.`,
		`se x é maior ou igual a 1 e não y então mostra x. senão se x é diferente 2 então mostra 'b'. tá bom então mostra "c". e deu.`,
		`define fat com int n como se n é menor que 2 então retorna 1. e deu. retorna n vezes (fat com n menos 1). e deu.`,
		`para c em v faça v[0] é c na 2. e deu.`,
		`nome é leia "nome: ". mostra nome, decrementa k.`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first := mustParse(t, input)

			for _, indent := range []int{0, 2} {
				var buf bytes.Buffer
				if err := first.Format(context.Background(), &buf, indent); err != nil {
					t.Fatalf("format error: %v", err)
				}

				second := mustParse(t, buf.String())

				if diff := cmp.Diff(outline(t, first), outline(t, second)); diff != "" {
					t.Errorf("indent %d: reparsed tree differs (-first +second):\n%s", indent, diff)
				}
			}
		})
	}
}

func TestFormatJSON(t *testing.T) {
	prog := mustParse(t, `x é 1 mais 2.`)

	var buf bytes.Buffer
	if err := prog.FormatJSON(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if got["kind"] != "program" {
		t.Errorf("kind = %v", got["kind"])
	}

	stmts, ok := got["statements"].([]any)
	if !ok || len(stmts) != 1 {
		t.Fatalf("statements = %v", got["statements"])
	}

	assign := stmts[0].(map[string]any)
	if assign["kind"] != "assign" || assign["target"] != "x" {
		t.Errorf("statement = %v", assign)
	}

	value := assign["value"].(map[string]any)
	if value["op"] != "mais" || value["pos"] != "1:5" {
		t.Errorf("value = %v", value)
	}
}

func TestFormatYAML(t *testing.T) {
	prog := mustParse(t, `mostra "oi".`)

	var buf bytes.Buffer
	if err := prog.FormatYAML(context.Background(), &buf, 2); err != nil {
		t.Fatalf("format error: %v", err)
	}

	out := buf.String()

	for _, want := range []string{"kind: program", "kind: builtin", "name: mostra", "value: oi"} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTree_InferredType(t *testing.T) {
	prog := mustParse(t, `mostra 1 mais 2.`)

	sum := prog.Stmts[0].(*ExprStmt).X.(*BuiltinCall).Args[0].(*Binary)
	sum.SetInferredType(TypeInt)

	got := outline(t, prog)
	if !strings.Contains(got, "binary mais : int\n") {
		t.Errorf("outline does not show the inferred type:\n%s", got)
	}
}

func TestFormatReal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1.5, "1,5"},
		{2, "2,0"},
		{0.125, "0,125"},
	}

	for _, tt := range tests {
		if got := FormatReal(tt.in); got != tt.want {
			t.Errorf("FormatReal(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
