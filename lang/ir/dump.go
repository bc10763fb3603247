package ir

import (
	"strconv"
	"strings"
)

// String returns [Dump] of each top-level statement, one per line.
func (m *Module) String() string {
	var buf strings.Builder

	for _, s := range m.Body {
		buf.WriteString(Dump(s))
		buf.WriteByte('\n')
	}

	return buf.String()
}

// Dump renders n as a compact constructor expression, for example
// "Assign(Name(x), Constant(5))". Statement lists are bracketed and
// separated by "; ".
func Dump(n Node) string {
	var d dumper
	d.node(n)

	return d.String()
}

type dumper struct {
	strings.Builder
}

func (d *dumper) call(head string, args ...func()) {
	d.WriteString(head)
	d.WriteByte('(')

	for i, arg := range args {
		if i > 0 {
			d.WriteString(", ")
		}

		arg()
	}

	d.WriteByte(')')
}

func (d *dumper) text(s string) func() {
	return func() { d.WriteString(s) }
}

func (d *dumper) sub(n Node) func() {
	return func() { d.node(n) }
}

func (d *dumper) stmts(list []Stmt) func() {
	return func() {
		d.WriteByte('[')

		for i, s := range list {
			if i > 0 {
				d.WriteString("; ")
			}

			d.node(s)
		}

		d.WriteByte(']')
	}
}

func (d *dumper) exprs(list []Expr) func() {
	return func() {
		d.WriteByte('[')

		for i, x := range list {
			if i > 0 {
				d.WriteString(", ")
			}

			d.node(x)
		}

		d.WriteByte(']')
	}
}

func (d *dumper) node(n Node) {
	switch n := n.(type) {
	case *Module:
		d.call("Module", d.stmts(n.Body))
	case *Assign:
		d.call("Assign", d.sub(n.Target), d.sub(n.Value))
	case *AugAssign:
		d.call("AugAssign", d.sub(n.Target), d.text(n.Op.String()), d.sub(n.Value))
	case *ExprStmt:
		d.call("Expr", d.sub(n.Value))
	case *If:
		d.call("If", d.sub(n.Test), d.stmts(n.Body), d.stmts(n.Else))
	case *While:
		d.call("While", d.sub(n.Test), d.stmts(n.Body))
	case *For:
		d.call("For", d.sub(n.Target), d.sub(n.Iter), d.stmts(n.Body))
	case *FunctionDef:
		d.call("FunctionDef", d.text(n.Name),
			d.text("["+strings.Join(n.Params, ", ")+"]"), d.stmts(n.Body))
	case *Return:
		d.call("Return", d.sub(n.Value))
	case *BinOp:
		d.call("BinOp", d.sub(n.Left), d.text(n.Op.String()), d.sub(n.Right))
	case *UnaryOp:
		d.call("UnaryOp", d.text(n.Op.String()), d.sub(n.Operand))
	case *BoolOp:
		d.call("BoolOp", d.text(n.Op.String()), d.exprs(n.Values))
	case *Compare:
		d.call("Compare", d.sub(n.Left), d.text(n.Op.String()), d.sub(n.Right))
	case *Call:
		d.call("Call", d.text(n.Func), d.exprs(n.Args))
	case *List:
		d.call("List", d.exprs(n.Elts))
	case *Subscript:
		d.call("Subscript", d.sub(n.Value), d.sub(n.Index), d.text(n.Ctx.String()))
	case *Name:
		d.call("Name", d.text(n.ID))
	case *Constant:
		d.call("Constant", d.text(FormatConstant(n.Value)))
	case nil:
		d.WriteString("nil")
	default:
		d.WriteString("?")
	}
}

// FormatConstant renders a constant value: integers and reals in decimal
// (reals always with a fractional part), text quoted, booleans as true or
// false.
func FormatConstant(v any) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".NI") {
			s += ".0"
		}

		return s
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		return "?"
	}
}
