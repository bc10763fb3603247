// Package compiler runs the fala front-end in one call: it parses a source
// unit, analyzes the tree and lowers it to IR.
//
// Lexer and syntax errors stop the pipeline. Semantic diagnostics never
// do: they are collected in the [Result] and the tree is lowered anyway, so
// callers decide whether diagnostics are fatal.
package compiler

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/check"
	"github.com/ardnew/fala/lang/eval"
	"github.com/ardnew/fala/lang/ir"
	"github.com/ardnew/fala/lang/lower"
	"github.com/ardnew/fala/log"
)

// Result holds the products of every stage of one compilation.
type Result struct {
	Program *lang.Program
	Check   *check.Result
	Module  *ir.Module
}

// Diagnostics returns the semantic diagnostics of the compilation.
func (r *Result) Diagnostics() []check.Diagnostic {
	if r == nil || r.Check == nil {
		return nil
	}

	return r.Check.Diagnostics
}

// Run executes the lowered module with a fresh interpreter.
func (r *Result) Run(ctx context.Context, opts ...eval.Option) error {
	return eval.Run(ctx, r.Module, opts...)
}

type config struct {
	logger   log.Logger
	diag     io.Writer
	globals  map[string]lang.Type
	suggest  bool
	maxRange int
}

// Option configures a compilation.
type Option func(*config)

// WithLogger sets the logger handed to every stage.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithDiagnostics writes each diagnostic message as one line to w.
func WithDiagnostics(w io.Writer) Option {
	return func(c *config) { c.diag = w }
}

// WithGlobals predeclares global names and their types, as left by the
// previous compilation of an interactive session.
func WithGlobals(globals map[string]lang.Type) Option {
	return func(c *config) { c.globals = globals }
}

// WithSuggestions enables or disables closest-name suggestions on
// undefined-name diagnostics.
func WithSuggestions(enable bool) Option {
	return func(c *config) { c.suggest = enable }
}

// WithMaxRange limits the number of elements a range binding may expand to.
func WithMaxRange(n int) Option {
	return func(c *config) { c.maxRange = n }
}

func makeConfig(opts ...Option) config {
	c := config{suggest: true, maxRange: lower.DefaultMaxRange}

	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	return c
}

// Compile parses, analyzes and lowers src.
func Compile(ctx context.Context, src string, opts ...Option) (*Result, error) {
	c := makeConfig(opts...)

	prog, err := lang.ParseString(ctx, src, lang.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	return c.compile(ctx, prog)
}

// CompileReader reads all of r and compiles it.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	c := makeConfig(opts...)

	prog, err := lang.ParseReader(ctx, r, lang.WithLogger(c.logger))
	if err != nil {
		return nil, err
	}

	return c.compile(ctx, prog)
}

func (c config) compile(ctx context.Context, prog *lang.Program) (*Result, error) {
	checkOpts := []check.Option{
		check.WithLogger(c.logger),
		check.WithSuggestions(c.suggest),
		check.WithGlobals(c.globals),
	}
	if c.diag != nil {
		checkOpts = append(checkOpts, check.WithOutput(c.diag))
	}

	res := &Result{
		Program: prog,
		Check:   check.Analyze(ctx, prog, checkOpts...),
	}

	mod, err := lower.Lower(ctx, prog,
		lower.WithLogger(c.logger),
		lower.WithMaxRange(c.maxRange))
	if err != nil {
		return res, err
	}

	res.Module = mod

	c.logger.TraceContext(ctx, "compile complete",
		slog.Int("statements", len(prog.Stmts)),
		slog.Int("diagnostics", len(res.Check.Diagnostics)))

	return res, nil
}
