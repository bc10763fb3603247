// Package lower rewrites a parse tree into the executable IR of package ir.
//
// Lowering does not consult diagnostics: a tree that failed analysis is
// lowered all the same. Every parse tree construct has a lowering, with one
// silent exception: a range binding whose bounds are not integer literals
// is dropped. Constructs with no IR form fail with [ErrUnsupported].
package lower

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/ir"
	"github.com/ardnew/fala/log"
)

// ErrUnsupported reports a construct that has no IR form.
var ErrUnsupported = lang.NewError("unsupported construct")

// DefaultMaxRange is the largest number of elements a range binding may
// expand to.
const DefaultMaxRange = 1 << 16

// Option configures lowering.
type Option func(*lowerer)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(l *lowerer) { l.logger = logger }
}

// WithMaxRange limits the number of elements a range binding may expand
// to. Values below one keep the default.
func WithMaxRange(n int) Option {
	return func(l *lowerer) {
		if n > 0 {
			l.maxRange = n
		}
	}
}

type lowerer struct {
	ctx      context.Context
	logger   log.Logger
	maxRange int
}

// Lower translates prog into an [ir.Module].
func Lower(ctx context.Context, prog *lang.Program, opts ...Option) (*ir.Module, error) {
	l := &lowerer{ctx: ctx, maxRange: DefaultMaxRange}

	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}

	body, err := l.stmts(prog.Stmts)
	if err != nil {
		l.logger.DebugContext(ctx, "lowering failed", slog.Any("error", err))

		return nil, err
	}

	l.logger.TraceContext(ctx, "lowering complete", slog.Int("statements", len(body)))

	return &ir.Module{Body: body}, nil
}

func unsupported(n lang.Node, what string) error {
	return ErrUnsupported.
		Wrap(fmt.Errorf("%s at %s", what, n.Pos())).
		With(slog.String("node", lang.KindOf(n)), slog.String("pos", n.Pos().String()))
}

// stmts lowers a statement sequence into one flat list.
func (l *lowerer) stmts(list []lang.Stmt) ([]ir.Stmt, error) {
	var out []ir.Stmt

	for _, s := range list {
		lowered, err := l.stmt(s)
		if err != nil {
			return nil, err
		}

		out = append(out, lowered...)
	}

	return out, nil
}

func store(id *lang.Ident) *ir.Name { return &ir.Name{ID: id.Name, Ctx: ir.Store} }

func (l *lowerer) stmt(s lang.Stmt) ([]ir.Stmt, error) {
	switch s := s.(type) {
	case *lang.Declaration:
		return l.declaration(s)

	case *lang.Assign:
		value, err := l.expr(s.Value)
		if err != nil {
			return nil, err
		}

		return []ir.Stmt{&ir.Assign{Target: store(s.Target), Value: value}}, nil

	case *lang.IndexAssign:
		index, err := l.expr(s.Index)
		if err != nil {
			return nil, err
		}

		value, err := l.expr(s.Value)
		if err != nil {
			return nil, err
		}

		target := &ir.Subscript{Value: &ir.Name{ID: s.Target.Name}, Index: index, Ctx: ir.Store}

		return []ir.Stmt{&ir.Assign{Target: target, Value: value}}, nil

	case *lang.ExprStmt:
		if step, ok := unparen(s.X).(*lang.Step); ok {
			return l.step(step)
		}

		value, err := l.expr(s.X)
		if err != nil {
			return nil, err
		}

		return []ir.Stmt{&ir.ExprStmt{Value: value}}, nil

	case *lang.If:
		stmt, err := l.conditional(s)
		if err != nil {
			return nil, err
		}

		return []ir.Stmt{stmt}, nil

	case *lang.While:
		test, err := l.expr(s.Cond)
		if err != nil {
			return nil, err
		}

		body, err := l.stmts(s.Body)
		if err != nil {
			return nil, err
		}

		return []ir.Stmt{&ir.While{Test: test, Body: body}}, nil

	case *lang.ForEach:
		body, err := l.stmts(s.Body)
		if err != nil {
			return nil, err
		}

		return []ir.Stmt{&ir.For{
			Target: store(s.Var),
			Iter:   &ir.Name{ID: s.Seq.Name},
			Body:   body,
		}}, nil

	case *lang.FuncDef:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = p.Name.Name
		}

		body, err := l.stmts(s.Body)
		if err != nil {
			return nil, err
		}

		return []ir.Stmt{&ir.FunctionDef{Name: s.Name.Name, Params: params, Body: body}}, nil

	case *lang.Return:
		value, err := l.expr(s.Value)
		if err != nil {
			return nil, err
		}

		return []ir.Stmt{&ir.Return{Value: value}}, nil
	}

	return nil, unsupported(s, "statement "+lang.KindOf(s))
}

func (l *lowerer) declaration(d *lang.Declaration) ([]ir.Stmt, error) {
	var out []ir.Stmt

	for _, b := range d.Bindings {
		if b.Value == nil {
			continue
		}

		var (
			value ir.Expr
			err   error
		)

		if r, ok := b.Value.(*lang.Range); ok {
			if value, err = l.rangeList(r); err != nil {
				return nil, err
			}

			if value == nil {
				l.logger.TraceContext(l.ctx, "range binding dropped",
					slog.String("name", b.Name.Name),
					slog.String("pos", b.Pos().String()),
				)

				continue
			}
		} else if value, err = l.expr(b.Value); err != nil {
			return nil, err
		}

		out = append(out, &ir.Assign{Target: store(b.Name), Value: value})
	}

	return out, nil
}

// rangeList expands "a a b" with integer literal bounds into the list
// [a, a+1, ..., b-1]. It returns nil when a bound is not a literal.
func (l *lowerer) rangeList(r *lang.Range) (ir.Expr, error) {
	low, ok := unparen(r.Low).(*lang.IntLit)
	if !ok {
		return nil, nil
	}

	high, ok := unparen(r.High).(*lang.IntLit)
	if !ok {
		return nil, nil
	}

	list := &ir.List{Elts: []ir.Expr{}}

	if low.Value >= high.Value {
		return list, nil
	}

	if n := high.Value - low.Value; n < 0 || n > int64(l.maxRange) {
		return nil, unsupported(r, fmt.Sprintf("range of more than %d elements", l.maxRange))
	}

	for v := low.Value; v < high.Value; v++ {
		list.Elts = append(list.Elts, &ir.Constant{Value: v})
	}

	return list, nil
}

// step lowers a statement-level increment or decrement of a name.
func (l *lowerer) step(s *lang.Step) ([]ir.Stmt, error) {
	id, ok := unparen(s.X).(*lang.Ident)
	if !ok {
		return nil, unsupported(s, s.Op.String()+" of an expression")
	}

	op := ir.Add
	if s.Op == lang.OpDec {
		op = ir.Sub
	}

	return []ir.Stmt{&ir.AugAssign{
		Target: store(id),
		Op:     op,
		Value:  &ir.Constant{Value: int64(1)},
	}}, nil
}

func (l *lowerer) conditional(s *lang.If) (*ir.If, error) {
	test, err := l.expr(s.Cond)
	if err != nil {
		return nil, err
	}

	body, err := l.stmts(s.Body)
	if err != nil {
		return nil, err
	}

	els, err := l.elseClause(s.Else)
	if err != nil {
		return nil, err
	}

	return &ir.If{Test: test, Body: body, Else: els}, nil
}

func (l *lowerer) elseClause(c lang.ElseClause) ([]ir.Stmt, error) {
	switch c := c.(type) {
	case nil, *lang.EndIf:
		return nil, nil

	case *lang.ElseIf:
		nested, err := l.conditional(c.If)
		if err != nil {
			return nil, err
		}

		return []ir.Stmt{nested}, nil

	case *lang.ElseBlock:
		if _, ok := c.Next.(*lang.EndIf); c.Next != nil && !ok {
			return nil, unsupported(c.Next, "continuation after an unconditional branch")
		}

		return l.stmts(c.Body)
	}

	return nil, unsupported(c, "conditional continuation")
}

func (l *lowerer) exprs(list []lang.Expr) ([]ir.Expr, error) {
	out := make([]ir.Expr, len(list))

	for i, x := range list {
		lowered, err := l.expr(x)
		if err != nil {
			return nil, err
		}

		out[i] = lowered
	}

	return out, nil
}

var (
	arithOps = map[lang.ArithOp]ir.BinaryOp{
		lang.OpAdd: ir.Add,
		lang.OpSub: ir.Sub,
		lang.OpMul: ir.Mult,
		lang.OpDiv: ir.Div,
		lang.OpPow: ir.Pow,
	}

	cmpOps = map[lang.ComparisonKind]ir.CmpOp{
		lang.CmpEq:    ir.Eq,
		lang.CmpNotEq: ir.NotEq,
		lang.CmpLt:    ir.Lt,
		lang.CmpLtE:   ir.LtE,
		lang.CmpGt:    ir.Gt,
		lang.CmpGtE:   ir.GtE,
	}

	boolOps = map[lang.LogicalOp]ir.BoolOperator{
		lang.OpAnd: ir.And,
		lang.OpOr:  ir.Or,
	}

	builtins = map[lang.Builtin]string{
		lang.BuiltinPrint: ir.Print,
		lang.BuiltinRead:  ir.Read,
	}
)

func (l *lowerer) expr(x lang.Expr) (ir.Expr, error) {
	switch x := x.(type) {
	case *lang.Ident:
		return &ir.Name{ID: x.Name}, nil
	case *lang.IntLit:
		return &ir.Constant{Value: x.Value}, nil
	case *lang.RealLit:
		return &ir.Constant{Value: x.Value}, nil
	case *lang.TextLit:
		return &ir.Constant{Value: x.Value}, nil
	case *lang.BoolLit:
		return &ir.Constant{Value: x.Value}, nil

	case *lang.Paren:
		return l.expr(x.X)

	case *lang.Binary:
		left, right, err := l.pair(x.X, x.Y)
		if err != nil {
			return nil, err
		}

		return &ir.BinOp{Left: left, Op: arithOps[x.Op], Right: right}, nil

	case *lang.Compare:
		left, right, err := l.pair(x.X, x.Y)
		if err != nil {
			return nil, err
		}

		return &ir.Compare{Left: left, Op: cmpOps[x.Op], Right: right}, nil

	case *lang.Logical:
		left, right, err := l.pair(x.X, x.Y)
		if err != nil {
			return nil, err
		}

		return &ir.BoolOp{Op: boolOps[x.Op], Values: []ir.Expr{left, right}}, nil

	case *lang.Not:
		operand, err := l.expr(x.X)
		if err != nil {
			return nil, err
		}

		return &ir.UnaryOp{Op: ir.Not, Operand: operand}, nil

	case *lang.Step:
		return nil, unsupported(x, x.Op.String()+" used as a value")

	case *lang.Index:
		index, err := l.expr(x.Index)
		if err != nil {
			return nil, err
		}

		return &ir.Subscript{Value: &ir.Name{ID: x.Name.Name}, Index: index, Ctx: ir.Load}, nil

	case *lang.Call:
		args, err := l.exprs(x.Args)
		if err != nil {
			return nil, err
		}

		return &ir.Call{Func: x.Name.Name, Args: args}, nil

	case *lang.BuiltinCall:
		args, err := l.exprs(x.Args)
		if err != nil {
			return nil, err
		}

		return &ir.Call{Func: builtins[x.Fn], Args: args}, nil

	case *lang.Range:
		return nil, unsupported(x, "range outside a declaration")
	}

	return nil, unsupported(x, "expression "+lang.KindOf(x))
}

func (l *lowerer) pair(x, y lang.Expr) (ir.Expr, ir.Expr, error) {
	left, err := l.expr(x)
	if err != nil {
		return nil, nil, err
	}

	right, err := l.expr(y)
	if err != nil {
		return nil, nil, err
	}

	return left, right, nil
}

func unparen(x lang.Expr) lang.Expr {
	for {
		p, ok := x.(*lang.Paren)
		if !ok {
			return x
		}

		x = p.X
	}
}
