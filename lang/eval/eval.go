// Package eval executes IR modules.
//
// Statements are interpreted directly. Expressions are rendered to
// expr-lang source, compiled once per IR node and run on the expr virtual
// machine; variables reach the machine through its environment map and the
// built-in calls through helper functions bound at compile time.
//
// Values are Go ints, float64 reals, strings, bools and []any lists. Lists
// are shared by reference, so an element assignment is visible through every
// name bound to the same list.
package eval

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"slices"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/ir"
	"github.com/ardnew/fala/log"
)

// Runtime errors (sentinel values).
var (
	ErrRuntime           = lang.NewError("runtime error")
	ErrUndefinedName     = lang.NewError("undefined name")
	ErrUndefinedFunction = lang.NewError("undefined function")
	ErrArity             = lang.NewError("wrong number of arguments")
	ErrNotIterable       = lang.NewError("value is not iterable")
	ErrIndex             = lang.NewError("index out of range")
	ErrType              = lang.NewError("type mismatch")
	ErrMaxDepth          = lang.NewError("maximum call depth exceeded")
)

// DefaultMaxDepth is the default limit on nested user function calls.
const DefaultMaxDepth = 1000

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithStdout sets the writer receiving print output and read prompts.
func WithStdout(w io.Writer) Option {
	return func(in *Interpreter) { in.stdout = w }
}

// WithStdin sets the reader consumed by read.
func WithStdin(r io.Reader) Option {
	return func(in *Interpreter) { in.stdin = bufio.NewReader(r) }
}

// WithLogger sets the logger used for debug and trace output.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) { in.logger = logger }
}

// WithMaxDepth limits the number of nested user function calls. Values
// below one keep the default.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}

// Interpreter holds the state of one execution session. Globals and
// function definitions persist across calls to [Interpreter.Run], so a
// session may execute a program one module at a time.
//
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	ctx      context.Context
	stdout   io.Writer
	stdin    *bufio.Reader
	logger   log.Logger
	maxDepth int

	globals map[string]any
	locals  []map[string]any
	funcs   map[string]*ir.FunctionDef
	cache   map[ir.Node]*compiled
}

// New returns an Interpreter with empty globals.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		ctx:      context.Background(),
		stdout:   os.Stdout,
		maxDepth: DefaultMaxDepth,
		globals:  make(map[string]any),
		funcs:    make(map[string]*ir.FunctionDef),
		cache:    make(map[ir.Node]*compiled),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(in)
		}
	}

	if in.stdin == nil {
		in.stdin = bufio.NewReader(os.Stdin)
	}

	return in
}

// Run executes mod with a fresh [Interpreter].
func Run(ctx context.Context, mod *ir.Module, opts ...Option) error {
	return New(opts...).Run(ctx, mod)
}

// Run executes the statements of mod in order. A return at the top level
// ends the module without error.
func (in *Interpreter) Run(ctx context.Context, mod *ir.Module) error {
	in.ctx = ctx
	in.locals = in.locals[:0]

	in.logger.TraceContext(ctx, "run start", slog.Int("statements", len(mod.Body)))

	err := in.exec(mod.Body)
	if ret := (*returnSignal)(nil); errors.As(err, &ret) {
		err = nil
	}

	if err != nil {
		in.logger.DebugContext(ctx, "run failed", slog.Any("error", err))

		return err
	}

	in.logger.TraceContext(ctx, "run complete")

	return nil
}

// Globals returns a copy of the global variables.
func (in *Interpreter) Globals() map[string]any {
	return maps.Clone(in.globals)
}

// Functions returns the names of the defined functions in sorted order.
func (in *Interpreter) Functions() []string {
	return slices.Sorted(maps.Keys(in.funcs))
}

// returnSignal unwinds a function body up to its call.
type returnSignal struct {
	value any
}

func (*returnSignal) Error() string { return "return outside of a function" }

func (in *Interpreter) exec(list []ir.Stmt) error {
	for _, s := range list {
		if err := in.stmt(s); err != nil {
			return err
		}
	}

	return nil
}

func (in *Interpreter) stmt(s ir.Stmt) error {
	switch s := s.(type) {
	case *ir.Assign:
		v, err := in.eval(s.Value)
		if err != nil {
			return err
		}

		switch t := s.Target.(type) {
		case *ir.Name:
			in.store(t.ID, v)

			return nil
		case *ir.Subscript:
			return in.storeIndex(t, v)
		default:
			return ErrRuntime.Wrap(fmt.Errorf("cannot assign to %s", ir.Dump(s.Target)))
		}

	case *ir.AugAssign:
		v, err := in.evalAs(s, &ir.BinOp{
			Left:  &ir.Name{ID: s.Target.ID},
			Op:    s.Op,
			Right: s.Value,
		})
		if err != nil {
			return err
		}

		in.store(s.Target.ID, v)

		return nil

	case *ir.ExprStmt:
		_, err := in.eval(s.Value)

		return err

	case *ir.If:
		ok, err := in.cond(s.Test)
		if err != nil {
			return err
		}

		if ok {
			return in.exec(s.Body)
		}

		return in.exec(s.Else)

	case *ir.While:
		for {
			if err := in.ctx.Err(); err != nil {
				return ErrRuntime.Wrap(err)
			}

			ok, err := in.cond(s.Test)
			if err != nil || !ok {
				return err
			}

			if err := in.exec(s.Body); err != nil {
				return err
			}
		}

	case *ir.For:
		seq, err := in.eval(s.Iter)
		if err != nil {
			return err
		}

		items, err := iterate(seq)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := in.ctx.Err(); err != nil {
				return ErrRuntime.Wrap(err)
			}

			in.store(s.Target.ID, item)

			if err := in.exec(s.Body); err != nil {
				return err
			}
		}

		return nil

	case *ir.FunctionDef:
		in.funcs[s.Name] = s

		return nil

	case *ir.Return:
		v, err := in.eval(s.Value)
		if err != nil {
			return err
		}

		return &returnSignal{value: v}

	default:
		return ErrRuntime.Wrap(fmt.Errorf("unknown statement %T", s))
	}
}

// cond evaluates a test that must produce a bool.
func (in *Interpreter) cond(x ir.Expr) (bool, error) {
	v, err := in.eval(x)
	if err != nil {
		return false, err
	}

	b, ok := v.(bool)
	if !ok {
		return false, ErrType.Wrap(fmt.Errorf("condition is %s, not bool", TypeName(v)))
	}

	return b, nil
}

// frame returns the variables written by assignments: the innermost call's
// locals, or the globals outside of any call.
func (in *Interpreter) frame() map[string]any {
	if n := len(in.locals); n > 0 {
		return in.locals[n-1]
	}

	return in.globals
}

func (in *Interpreter) store(name string, v any) {
	in.frame()[name] = v
}

func (in *Interpreter) load(name string) (any, bool) {
	if n := len(in.locals); n > 0 {
		if v, ok := in.locals[n-1][name]; ok {
			return v, true
		}
	}

	v, ok := in.globals[name]

	return v, ok
}

func (in *Interpreter) storeIndex(t *ir.Subscript, v any) error {
	name, ok := t.Value.(*ir.Name)
	if !ok {
		return ErrRuntime.Wrap(fmt.Errorf("cannot assign to an element of %s", ir.Dump(t.Value)))
	}

	seq, ok := in.load(name.ID)
	if !ok {
		return ErrUndefinedName.With(slog.String("name", name.ID))
	}

	list, ok := seq.([]any)
	if !ok {
		return ErrType.Wrap(fmt.Errorf("cannot assign to an element of %s", TypeName(seq)))
	}

	idx, err := in.eval(t.Index)
	if err != nil {
		return err
	}

	i, err := position(idx, len(list))
	if err != nil {
		return err
	}

	list[i] = v

	return nil
}

// call invokes the user function name in a new locals frame.
func (in *Interpreter) call(name string, args []any) (any, error) {
	fn, ok := in.funcs[name]
	if !ok {
		return nil, ErrUndefinedFunction.With(slog.String("name", name))
	}

	if len(args) != len(fn.Params) {
		return nil, ErrArity.With(
			slog.String("name", name),
			slog.Int("expected", len(fn.Params)),
			slog.Int("got", len(args)),
		)
	}

	if len(in.locals) >= in.maxDepth {
		return nil, ErrMaxDepth.With(slog.String("name", name), slog.Int("depth", len(in.locals)))
	}

	if err := in.ctx.Err(); err != nil {
		return nil, ErrRuntime.Wrap(err)
	}

	frame := make(map[string]any, len(args))
	for i, p := range fn.Params {
		frame[p] = args[i]
	}

	in.locals = append(in.locals, frame)
	defer func() { in.locals = in.locals[:len(in.locals)-1] }()

	in.logger.TraceContext(in.ctx, "call",
		slog.String("name", name),
		slog.Int("depth", len(in.locals)))

	err := in.exec(fn.Body)
	if ret := (*returnSignal)(nil); errors.As(err, &ret) {
		return ret.value, nil
	}

	return nil, err
}
