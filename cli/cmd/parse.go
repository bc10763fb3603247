package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/fala/compiler"
	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/log"
)

// Parse prints the parse tree of a program.
type Parse struct {
	Sources `embed:""`

	Format string `default:"text" enum:"text,source,json,yaml" help:"Output format: tree outline (text), formatted source, JSON or YAML." short:"F"`
	Indent int    `default:"2"                                  help:"Indent width. Zero selects compact JSON and flow-style YAML."   short:"i"`

	streams streams
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) error {
	r, done, err := p.open(p.streams.in())
	if err != nil {
		return err
	}
	defer done()

	prog, err := lang.ParseReader(ctx, r, lang.WithLogger(log.Default()))
	if err != nil {
		return err
	}

	w := p.streams.out()

	switch p.Format {
	case "source":
		err = prog.Format(ctx, w, p.Indent)
	case "json":
		err = prog.FormatJSON(ctx, w, p.Indent)
	case "yaml":
		err = prog.FormatYAML(ctx, w, p.Indent)
	default:
		err = prog.FormatTree(ctx, w, p.Indent)
	}

	if err != nil {
		return lang.WrapError(err).With(slog.String("format", p.Format))
	}

	return nil
}

// Lower prints the IR of a program.
type Lower struct {
	Sources `embed:""`

	Format   string `default:"text" enum:"text,json,yaml" help:"Output format: IR dump (text), JSON or YAML." short:"F"`
	Indent   int    `default:"2"                          help:"Indent width for JSON and YAML."             short:"i"`
	MaxRange int    `default:"${maxRange}"                help:"Largest list a range binding may expand to."`

	streams streams
}

// Run executes the lower command. Diagnostics are reported on standard
// error and do not prevent lowering.
func (l *Lower) Run(ctx context.Context) error {
	r, done, err := l.open(l.streams.in())
	if err != nil {
		return err
	}
	defer done()

	res, err := compiler.CompileReader(ctx, r,
		compiler.WithLogger(log.Default()),
		compiler.WithMaxRange(l.MaxRange))

	if res != nil {
		printDiagnostics(l.streams.err(), res.Diagnostics())
	}

	if err != nil {
		return err
	}

	w := l.streams.out()

	switch l.Format {
	case "json":
		err = res.Module.FormatJSON(ctx, w, l.Indent)
	case "yaml":
		err = res.Module.FormatYAML(ctx, w, l.Indent)
	default:
		_, err = w.Write([]byte(res.Module.String()))
	}

	if err != nil {
		return lang.WrapError(err).With(slog.String("format", l.Format))
	}

	return nil
}
