package repl

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/fala/compiler"
	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/check"
	"github.com/ardnew/fala/lang/eval"
	"github.com/ardnew/fala/log"
)

// Outcome is what executing one source unit produced.
type Outcome struct {
	Output      string
	Diagnostics []check.Diagnostic
}

// Session executes source units one at a time against shared state: names
// and functions defined by one unit are visible to the next.
type Session struct {
	logger  log.Logger
	interp  *eval.Interpreter
	output  bytes.Buffer
	globals map[string]lang.Type
	funcs   map[string]*lang.FuncDef
	source  []string
}

// NewSession returns an empty session. Input for leia is read from stdin;
// a nil stdin is empty.
func NewSession(stdin io.Reader, logger log.Logger) *Session {
	if stdin == nil {
		stdin = strings.NewReader("")
	}

	s := &Session{
		logger:  logger,
		globals: make(map[string]lang.Type),
		funcs:   make(map[string]*lang.FuncDef),
	}

	s.interp = eval.New(
		eval.WithStdout(&s.output),
		eval.WithStdin(stdin),
		eval.WithLogger(logger),
	)

	return s
}

// Exec compiles and runs src. A missing final terminator is supplied.
// Diagnostics do not prevent execution.
func (s *Session) Exec(ctx context.Context, src string) (Outcome, error) {
	src = strings.TrimSpace(src)
	if !strings.HasSuffix(src, ".") {
		src += "."
	}

	res, err := compiler.Compile(ctx, src,
		compiler.WithLogger(s.logger),
		compiler.WithGlobals(s.globals))

	var out Outcome
	if res != nil {
		out.Diagnostics = res.Diagnostics()
	}

	if err != nil {
		return out, err
	}

	s.globals = res.Check.Globals

	for _, st := range res.Program.Stmts {
		if def, ok := st.(*lang.FuncDef); ok {
			s.funcs[def.Name.Name] = def
		}
	}

	s.output.Reset()
	err = s.interp.Run(ctx, res.Module)
	out.Output = s.output.String()

	if err == nil {
		s.source = append(s.source, src)
	}

	s.logger.TraceContext(ctx, "session exec",
		slog.Int("diagnostics", len(out.Diagnostics)),
		slog.Bool("ok", err == nil))

	return out, err
}

// Names returns every global variable and function name, sorted.
func (s *Session) Names() []string {
	names := slices.Collect(maps.Keys(s.globals))
	names = append(names, slices.Collect(maps.Keys(s.funcs))...)

	slices.Sort(names)

	return slices.Compact(names)
}

// Type returns the analyzed type of a global variable.
func (s *Session) Type(name string) (lang.Type, bool) {
	t, ok := s.globals[name]

	return t, ok
}

// Value returns the current value of a global variable.
func (s *Session) Value(name string) (any, bool) {
	v, ok := s.interp.Globals()[name]

	return v, ok
}

// Function returns the definition of a user function.
func (s *Session) Function(name string) (*lang.FuncDef, bool) {
	def, ok := s.funcs[name]

	return def, ok
}

// Source returns every unit executed without error, one per line.
func (s *Session) Source() string {
	if len(s.source) == 0 {
		return ""
	}

	return strings.Join(s.source, "\n") + "\n"
}
