package eval

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/ir"
)

// Helper functions visible to compiled expressions.
const (
	callFunc  = "__call"
	printFunc = "__print"
	readFunc  = "__read"
	powFunc   = "__pow"
	indexFunc = "__index"
)

// compiled is an expression ready to run, with the variables it reads.
type compiled struct {
	source  string
	names   []string
	program *vm.Program
}

func (in *Interpreter) eval(x ir.Expr) (any, error) {
	return in.evalAs(x, x)
}

// evalAs evaluates x, caching its compiled form under key.
func (in *Interpreter) evalAs(key ir.Node, x ir.Expr) (any, error) {
	c, err := in.compile(key, x)
	if err != nil {
		return nil, err
	}

	env := make(map[string]any, len(c.names))

	for _, name := range c.names {
		v, ok := in.load(name)
		if !ok {
			return nil, ErrUndefinedName.
				Wrap(fmt.Errorf("%s is undefined", name)).
				With(slog.String("name", name))
		}

		env[name] = v
	}

	out, err := vm.Run(c.program, env)
	if err != nil {
		return nil, runError(err, c.source)
	}

	return out, nil
}

// runError unwraps the failure of a helper function so that it surfaces
// unchanged, and wraps any other virtual machine failure in [ErrRuntime].
func runError(err error, source string) error {
	if le := (*lang.Error)(nil); errors.As(err, &le) {
		return le
	}

	msg := err.Error()
	if fe := (*file.Error)(nil); errors.As(err, &fe) {
		msg = fe.Message
	}

	return ErrRuntime.Wrap(errors.New(msg)).With(slog.String("source", source))
}

func (in *Interpreter) compile(key ir.Node, x ir.Expr) (*compiled, error) {
	if c, ok := in.cache[key]; ok {
		return c, nil
	}

	r := renderer{seen: make(map[string]bool)}
	r.expr(x)

	if r.err != nil {
		return nil, r.err
	}

	source := r.String()

	program, err := expr.Compile(source,
		expr.Function(callFunc, in.callHelper),
		expr.Function(printFunc, in.printHelper),
		expr.Function(readFunc, in.readHelper),
		expr.Function(powFunc, powHelper),
		expr.Function(indexFunc, indexHelper),
		expr.Patch(powPatcher{}),
	)
	if err != nil {
		return nil, ErrRuntime.Wrap(err).With(slog.String("source", source))
	}

	in.logger.TraceContext(in.ctx, "compile expression", slog.String("source", source))

	c := &compiled{source: source, names: r.names, program: program}
	in.cache[key] = c

	return c, nil
}

// powPatcher rewrites the power operator into a call of the pow helper,
// which keeps integer powers integral.
type powPatcher struct{}

// Visit implements ast.Visitor for powPatcher.
func (powPatcher) Visit(node *ast.Node) {
	bin, ok := (*node).(*ast.BinaryNode)
	if !ok || (bin.Operator != "**" && bin.Operator != "^") {
		return
	}

	ast.Patch(node, &ast.CallNode{
		Callee:    &ast.IdentifierNode{Value: powFunc},
		Arguments: []ast.Node{bin.Left, bin.Right},
	})
}

var (
	binaryOps = [...]string{ir.Add: "+", ir.Sub: "-", ir.Mult: "*", ir.Div: "/", ir.Pow: "**"}
	boolOps   = [...]string{ir.And: " and ", ir.Or: " or "}
	cmpOps    = [...]string{ir.Eq: "==", ir.NotEq: "!=", ir.Lt: "<", ir.LtE: "<=", ir.Gt: ">", ir.GtE: ">="}
)

// renderer writes an IR expression as fully parenthesized expr-lang
// source. Variables are read through $env so that no name of the program
// can collide with an expr keyword or builtin.
type renderer struct {
	strings.Builder

	names []string
	seen  map[string]bool
	err   error
}

func (r *renderer) expr(x ir.Expr) {
	switch x := x.(type) {
	case *ir.Name:
		if !r.seen[x.ID] {
			r.seen[x.ID] = true
			r.names = append(r.names, x.ID)
		}

		r.WriteString(`$env[`)
		r.WriteString(strconv.Quote(x.ID))
		r.WriteString(`]`)
	case *ir.Constant:
		if x.Value == nil {
			r.WriteString("nil")
		} else {
			r.WriteString(ir.FormatConstant(x.Value))
		}
	case *ir.BinOp:
		r.infix(binaryOps[x.Op], x.Left, x.Right)
	case *ir.Compare:
		r.infix(cmpOps[x.Op], x.Left, x.Right)
	case *ir.BoolOp:
		r.WriteByte('(')

		for i, v := range x.Values {
			if i > 0 {
				r.WriteString(boolOps[x.Op])
			}

			r.expr(v)
		}

		r.WriteByte(')')
	case *ir.UnaryOp:
		r.WriteString("(not ")
		r.expr(x.Operand)
		r.WriteByte(')')
	case *ir.Call:
		switch x.Func {
		case ir.Print:
			r.call(printFunc, "", x.Args)
		case ir.Read:
			r.call(readFunc, "", x.Args)
		default:
			r.call(callFunc, strconv.Quote(x.Func), x.Args)
		}
	case *ir.List:
		r.WriteByte('[')
		r.list(x.Elts)
		r.WriteByte(']')
	case *ir.Subscript:
		r.call(indexFunc, "", []ir.Expr{x.Value, x.Index})
	default:
		if r.err == nil {
			r.err = ErrRuntime.Wrap(fmt.Errorf("cannot evaluate %s", ir.Dump(x)))
		}
	}
}

func (r *renderer) infix(op string, left, right ir.Expr) {
	r.WriteByte('(')
	r.expr(left)
	r.WriteByte(' ')
	r.WriteString(op)
	r.WriteByte(' ')
	r.expr(right)
	r.WriteByte(')')
}

// call writes fn applied to an optional leading literal and args.
func (r *renderer) call(fn, lead string, args []ir.Expr) {
	r.WriteString(fn)
	r.WriteByte('(')
	r.WriteString(lead)

	if lead != "" && len(args) > 0 {
		r.WriteString(", ")
	}

	r.list(args)
	r.WriteByte(')')
}

func (r *renderer) list(xs []ir.Expr) {
	for i, x := range xs {
		if i > 0 {
			r.WriteString(", ")
		}

		r.expr(x)
	}
}
