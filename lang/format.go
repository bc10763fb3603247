package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program as fala source. Bodies are indented by indent
// spaces per level; an indent of zero writes every statement on one line.
// Parenthesized expressions keep their parentheses, so formatting a parsed
// program and parsing the result yields an equivalent tree.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	pr := &printer{indent: indent}
	pr.stmts(p.Stmts, 0)

	if indent == 0 {
		pr.buf.WriteByte('\n')
	}

	_, err := io.WriteString(w, pr.buf.String())

	return err
}

// FormatTree writes an indented outline of the tree, one node per line.
// Inferred types, when present, follow the node label.
func (p *Program) FormatTree(_ context.Context, w io.Writer, indent int) error {
	if indent <= 0 {
		indent = 2
	}

	var buf strings.Builder

	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		buf.WriteString(strings.Repeat(" ", depth*indent))
		buf.WriteString(KindOf(n))

		if label := nodeLabel(n); label != "" {
			buf.WriteByte(' ')
			buf.WriteString(label)
		}

		if t, ok := n.(Typed); ok && t.InferredType().Known() {
			buf.WriteString(" : ")
			buf.WriteString(t.InferredType().String())
		}

		buf.WriteByte('\n')

		for _, c := range Children(n) {
			walk(c, depth+1)
		}
	}
	walk(p, 0)

	_, err := io.WriteString(w, buf.String())

	return err
}

// FormatJSON writes the program as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return ErrEncode.Wrap(err)
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the program as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return ErrEncode.Wrap(err)
	}

	_, err = w.Write(yamlData)

	return err
}

// nodeLabel returns the scalar payload shown beside a node in the outline.
func nodeLabel(n Node) string {
	switch n := n.(type) {
	case *Declaration:
		return n.Type.Keyword()
	case *Param:
		return n.Type.Keyword()
	case *Ident:
		return n.Name
	case *IntLit, *RealLit, *TextLit, *BoolLit:
		return formatExpr(n.(Expr))
	case *Binary:
		return n.Op.String()
	case *Compare:
		return n.Op.String()
	case *Logical:
		return n.Op.String()
	case *Step:
		return n.Op.String()
	case *BuiltinCall:
		return n.Fn.String()
	}

	return ""
}

// FormatExpr returns the source text of x.
func FormatExpr(x Expr) string { return formatExpr(x) }

func formatExpr(x Expr) string {
	var pr printer
	pr.expr(x)

	return pr.buf.String()
}

type printer struct {
	buf    strings.Builder
	indent int
}

// newline starts a line at the given depth, or separates with a space when
// printing on a single line.
func (pr *printer) newline(depth int) {
	if pr.indent == 0 {
		if pr.buf.Len() > 0 {
			pr.buf.WriteByte(' ')
		}

		return
	}

	if pr.buf.Len() > 0 {
		pr.buf.WriteByte('\n')
	}

	pr.buf.WriteString(strings.Repeat(" ", depth*pr.indent))
}

func (pr *printer) stmts(list []Stmt, depth int) {
	for _, s := range list {
		pr.newline(depth)
		pr.stmt(s, depth)
		pr.buf.WriteByte('.')
	}

	if depth == 0 && pr.indent > 0 {
		pr.buf.WriteByte('\n')
	}
}

func (pr *printer) words(words ...string) {
	for i, word := range words {
		if i > 0 {
			pr.buf.WriteByte(' ')
		}

		pr.buf.WriteString(word)
	}
}

func (pr *printer) stmt(s Stmt, depth int) {
	switch s := s.(type) {
	case *Declaration:
		pr.words(s.Type.Keyword(), "")

		for i, b := range s.Bindings {
			if i > 0 {
				pr.buf.WriteString(", ")
			}

			pr.buf.WriteString(b.Name.Name)

			if r, ok := b.Value.(*Range); ok {
				pr.words("", "é", "")
				pr.expr(r.Low)
				pr.words("", "a", "")
				pr.expr(r.High)
			} else if b.Value != nil {
				pr.words("", "é", "")
				pr.expr(b.Value)
			}
		}

	case *Assign:
		if s.Put {
			pr.words("bota", "")
			pr.expr(s.Value)
			pr.words("", "em", s.Target.Name)

			return
		}

		pr.words(s.Target.Name, "é", "")
		pr.expr(s.Value)

	case *IndexAssign:
		pr.buf.WriteString(s.Target.Name + "[")
		pr.expr(s.Index)
		pr.words("]", "é", "")
		pr.expr(s.Value)

	case *ExprStmt:
		pr.expr(s.X)

	case *If:
		pr.ifChain(s, depth)

	case *While:
		pr.words("enquanto", "")
		pr.expr(s.Cond)
		pr.words("", "faça")
		pr.block(s.Body, depth)

	case *ForEach:
		pr.words("para", s.Var.Name, "em", s.Seq.Name, "faça")
		pr.block(s.Body, depth)

	case *FuncDef:
		pr.words("define", s.Name.Name)

		for i, p := range s.Params {
			sep := ","
			if i == 0 {
				sep = " com"
			}

			pr.buf.WriteString(sep)
			pr.words("", p.Type.Keyword(), p.Name.Name)
		}

		pr.words("", "como")
		pr.block(s.Body, depth)

	case *Return:
		pr.words("retorna", "")
		pr.expr(s.Value)
	}
}

// block writes an indented body followed by "e deu" at depth.
func (pr *printer) block(body []Stmt, depth int) {
	pr.stmts(body, depth+1)
	pr.newline(depth)
	pr.words("e", "deu")
}

func (pr *printer) ifChain(s *If, depth int) {
	pr.words("se", "")
	pr.expr(s.Cond)
	pr.words("", "então")
	pr.stmts(s.Body, depth+1)
	pr.elseClause(s.Else, depth)
}

func (pr *printer) elseClause(c ElseClause, depth int) {
	pr.newline(depth)

	switch c := c.(type) {
	case *ElseIf:
		pr.words("senão", "")
		pr.ifChain(c.If, depth)
	case *ElseBlock:
		pr.words("tá", "bom", "então")
		pr.stmts(c.Body, depth+1)
		pr.elseClause(c.Next, depth)
	default:
		pr.words("e", "deu")
	}
}

func (pr *printer) exprs(list []Expr) {
	for i, x := range list {
		if i > 0 {
			pr.buf.WriteString(", ")
		}

		pr.expr(x)
	}
}

func (pr *printer) binary(x Expr, op string, y Expr) {
	pr.expr(x)
	pr.words("", op, "")
	pr.expr(y)
}

func (pr *printer) expr(x Expr) {
	switch x := x.(type) {
	case *Ident:
		pr.buf.WriteString(x.Name)
	case *IntLit:
		pr.buf.WriteString(strconv.FormatInt(x.Value, 10))
	case *RealLit:
		pr.buf.WriteString(FormatReal(x.Value))
	case *TextLit:
		pr.buf.WriteString(quoteText(x.Value))
	case *BoolLit:
		if x.Value {
			pr.buf.WriteString("verdadeiro")
		} else {
			pr.buf.WriteString("falso")
		}
	case *Paren:
		pr.buf.WriteByte('(')
		pr.expr(x.X)
		pr.buf.WriteByte(')')
	case *Binary:
		pr.binary(x.X, x.Op.String(), x.Y)
	case *Compare:
		pr.binary(x.X, x.Op.String(), x.Y)
	case *Logical:
		pr.binary(x.X, x.Op.String(), x.Y)
	case *Not:
		pr.words("não", "")
		pr.expr(x.X)
	case *Step:
		pr.words(x.Op.String(), "")
		pr.expr(x.X)
	case *Index:
		pr.buf.WriteString(x.Name.Name + "[")
		pr.expr(x.Index)
		pr.buf.WriteByte(']')
	case *Call:
		pr.words(x.Name.Name, "com", "")
		pr.exprs(x.Args)
	case *BuiltinCall:
		pr.buf.WriteString(x.Fn.String())

		if len(x.Args) > 0 {
			pr.buf.WriteByte(' ')
			pr.exprs(x.Args)
		}
	case *Range:
		pr.binary(x.Low, "a", x.High)
	}
}

// FormatReal renders v with a decimal comma and at least one fractional
// digit, the way real literals are written in source.
func FormatReal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	return strings.Replace(s, ".", ",", 1)
}

func quoteText(s string) string {
	if strings.Contains(s, `"`) {
		return "'" + s + "'"
	}

	return `"` + s + `"`
}
