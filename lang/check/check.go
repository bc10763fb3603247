// Package check performs scope resolution and type inference over a parse
// tree.
//
// Analysis is advisory. It never stops early: every violation becomes a
// [Diagnostic] and traversal continues, so a tree with diagnostics can still
// be lowered and run.
package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/log"
)

// Result holds the outcome of one analysis.
type Result struct {
	// Diagnostics lists every violation in traversal order.
	Diagnostics []Diagnostic

	// Globals maps each name bound in the outermost frame to its type when
	// analysis finished.
	Globals map[string]lang.Type
}

// OK reports whether no diagnostics were produced.
func (r *Result) OK() bool { return len(r.Diagnostics) == 0 }

// Err joins the diagnostics into one error, or returns nil.
func (r *Result) Err() error {
	errs := make([]error, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		errs[i] = d
	}

	return errors.Join(errs...)
}

// Option configures an analysis.
type Option func(*analyzer)

// WithOutput writes the message of each diagnostic as one line to w.
func WithOutput(w io.Writer) Option {
	return func(a *analyzer) { a.out = w }
}

// WithLogger sets the logger used for debug and trace output.
func WithLogger(logger log.Logger) Option {
	return func(a *analyzer) { a.logger = logger }
}

// WithSuggestions enables or disables the closest-name suggestion attached
// to undefined-name diagnostics. Suggestions are enabled by default.
func WithSuggestions(enable bool) Option {
	return func(a *analyzer) { a.suggest = enable }
}

// WithGlobals predeclares names in the outermost frame, as left by a
// previous [Result] of the same session.
func WithGlobals(globals map[string]lang.Type) Option {
	return func(a *analyzer) {
		for _, name := range slices.Sorted(maps.Keys(globals)) {
			a.scope.Bind(name, globals[name])
		}
	}
}

type analyzer struct {
	ctx     context.Context
	scope   *Scope
	diags   []Diagnostic
	out     io.Writer
	logger  log.Logger
	suggest bool
}

// Analyze walks prog, annotating operation nodes with their inferred types.
// Each call owns a fresh [Scope].
func Analyze(ctx context.Context, prog *lang.Program, opts ...Option) *Result {
	a := &analyzer{ctx: ctx, scope: NewScope(), suggest: true}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	a.stmts(prog.Stmts)

	a.logger.TraceContext(ctx, "analysis complete",
		slog.Int("diagnostics", len(a.diags)),
		slog.Int("globals", len(a.scope.Globals())),
	)

	return &Result{Diagnostics: a.diags, Globals: a.scope.Globals()}
}

func (a *analyzer) report(d Diagnostic) {
	a.diags = append(a.diags, d)

	a.logger.DebugContext(a.ctx, "diagnostic", slog.Any("diagnostic", d))

	if a.out != nil {
		_, _ = io.WriteString(a.out, d.Message+"\n")
	}
}

// undefined reports name, suggesting the visible name that best matches it.
func (a *analyzer) undefined(id *lang.Ident) {
	d := undefined(id.Pos(), id.Name)

	if a.suggest {
		if matches := fuzzy.Find(id.Name, a.scope.Names()); len(matches) > 0 {
			d.Suggestion = matches[0].Str
		}
	}

	a.report(d)
}

// body analyzes stmts inside a new frame.
func (a *analyzer) body(stmts []lang.Stmt, bind func()) {
	a.scope.Push()
	defer a.scope.Pop()

	if bind != nil {
		bind()
	}

	a.stmts(stmts)
}

func (a *analyzer) stmts(stmts []lang.Stmt) {
	for _, s := range stmts {
		a.stmt(s)
	}
}

func (a *analyzer) stmt(s lang.Stmt) {
	switch s := s.(type) {
	case *lang.Declaration:
		for _, b := range s.Bindings {
			a.declare(s.Type, b)
		}

	case *lang.Assign:
		t := a.expr(s.Value)

		have, ok := a.scope.Lookup(s.Target.Name)
		switch {
		case !ok:
			a.undefined(s.Target)
			a.scope.Bind(s.Target.Name, t)
		case have.Known() && t.Known() && have != t:
			a.report(conflict(s.Pos(), have, t))
		}

	case *lang.IndexAssign:
		a.expr(s.Target)
		a.expr(s.Index)
		a.expr(s.Value)

	case *lang.ExprStmt:
		a.expr(s.X)

	case *lang.If:
		a.conditional(s)

	case *lang.While:
		a.condition(s.Cond)
		a.body(s.Body, nil)

	case *lang.ForEach:
		a.expr(s.Seq)
		a.body(s.Body, func() { a.scope.Bind(s.Var.Name, lang.TypeUnknown) })

	case *lang.FuncDef:
		a.scope.Bind(s.Name.Name, lang.TypeUnknown)
		a.body(s.Body, func() {
			for _, p := range s.Params {
				a.scope.Bind(p.Name.Name, p.Type)
			}
		})

	case *lang.Return:
		a.expr(s.Value)
	}
}

// declare binds one declaration item. A scalar value is checked against the
// declared type; an int value may initialize a real.
func (a *analyzer) declare(declared lang.Type, b *lang.Binding) {
	if b.Value != nil {
		t := a.expr(b.Value)

		_, isRange := b.Value.(*lang.Range)

		scalar := declared != lang.TypeList && !isRange
		widened := declared == lang.TypeReal && t == lang.TypeInt

		if scalar && t.Known() && t != declared && !widened {
			a.report(conflict(b.Pos(), declared, t))
		}
	}

	a.scope.Bind(b.Name.Name, declared)
}

func (a *analyzer) conditional(s *lang.If) {
	a.condition(s.Cond)
	a.body(s.Body, nil)

	for c := s.Else; c != nil; {
		switch e := c.(type) {
		case *lang.ElseIf:
			a.conditional(e.If)

			return
		case *lang.ElseBlock:
			a.body(e.Body, nil)
			c = e.Next
		default:
			return
		}
	}
}

func (a *analyzer) condition(x lang.Expr) {
	if t := a.expr(x); t.Known() && t != lang.TypeBool {
		a.report(badCondition(x.Pos(), t))
	}
}

// expr resolves the type of x, annotating operation nodes on the way.
func (a *analyzer) expr(x lang.Expr) lang.Type {
	switch x := x.(type) {
	case *lang.Ident:
		t, ok := a.scope.Lookup(x.Name)
		if !ok {
			a.undefined(x)
		}

		return t

	case *lang.IntLit:
		return lang.TypeInt
	case *lang.RealLit:
		return lang.TypeReal
	case *lang.TextLit:
		return lang.TypeText
	case *lang.BoolLit:
		return lang.TypeBool

	case *lang.Paren:
		return a.expr(x.X)

	case *lang.Binary:
		return a.annotate(x, a.arith(x))

	case *lang.Compare:
		return a.annotate(x, a.compare(x))

	case *lang.Logical:
		return a.annotate(x, a.require(x.OpPos, x.Op, lang.TypeBool, a.expr(x.X), a.expr(x.Y)))

	case *lang.Not:
		return a.annotate(x, a.require(x.NotPos, opNot, lang.TypeBool, a.expr(x.X)))

	case *lang.Step:
		return a.annotate(x, a.require(x.OpPos, x.Op, lang.TypeInt, a.expr(x.X)))

	case *lang.Index:
		a.expr(x.Name)
		a.expr(x.Index)

		return lang.TypeUnknown

	case *lang.Call:
		a.expr(x.Name)

		for _, arg := range x.Args {
			a.expr(arg)
		}

		return lang.TypeUnknown

	case *lang.BuiltinCall:
		for _, arg := range x.Args {
			a.expr(arg)
		}

		if x.Fn == lang.BuiltinRead {
			return lang.TypeText
		}

		return lang.TypeUnknown

	case *lang.Range:
		a.expr(x.Low)
		a.expr(x.High)

		return lang.TypeList
	}

	return lang.TypeUnknown
}

func (a *analyzer) annotate(x lang.Typed, t lang.Type) lang.Type {
	x.SetInferredType(t)

	return t
}

func (a *analyzer) arith(x *lang.Binary) lang.Type {
	tx, ty := a.expr(x.X), a.expr(x.Y)

	for _, t := range []lang.Type{tx, ty} {
		if t.Known() && !t.Numeric() {
			a.report(unsupported(x.OpPos, x.Op, t))

			return lang.TypeUnknown
		}
	}

	switch {
	case !tx.Known() || !ty.Known():
		return lang.TypeUnknown
	case x.Op == lang.OpDiv:
		return lang.TypeReal
	case tx == lang.TypeReal || ty == lang.TypeReal:
		return lang.TypeReal
	default:
		return lang.TypeInt
	}
}

func (a *analyzer) compare(x *lang.Compare) lang.Type {
	tx, ty := a.expr(x.X), a.expr(x.Y)

	switch {
	case tx.Numeric() && ty.Numeric():
		return lang.TypeBool
	case !x.Op.Ordered() && tx.Known() && tx == ty:
		return lang.TypeBool
	}

	// An operand the relation cannot accept: any non-numeric type for an
	// ordering, or a type that differs from a known numeric partner.
	for _, t := range []lang.Type{tx, ty} {
		if t.Known() && !t.Numeric() && (x.Op.Ordered() || (tx.Known() && ty.Known())) {
			a.report(unsupported(x.OpPos, x.Op, t))

			break
		}
	}

	return lang.TypeUnknown
}

type opName string

func (o opName) String() string { return string(o) }

const opNot opName = "não"

// require yields want when every operand has type want. A known operand of
// any other type is reported.
func (a *analyzer) require(pos lang.Position, op fmt.Stringer, want lang.Type, operands ...lang.Type) lang.Type {
	result := want

	for _, t := range operands {
		switch {
		case !t.Known():
			result = lang.TypeUnknown
		case t != want:
			a.report(unsupported(pos, op, t))

			return lang.TypeUnknown
		}
	}

	return result
}
