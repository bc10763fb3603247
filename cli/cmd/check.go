package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/lang/check"
	"github.com/ardnew/fala/log"
)

// Check analyzes a program and reports its semantic diagnostics.
type Check struct {
	Sources `embed:""`

	Strict  bool `help:"Exit with an error when any diagnostic is reported."`
	Suggest bool `default:"true" help:"Suggest the closest name for undefined names." negatable:""`

	streams streams
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) error {
	r, done, err := c.open(c.streams.in())
	if err != nil {
		return err
	}
	defer done()

	logger := log.Default()

	prog, err := lang.ParseReader(ctx, r, lang.WithLogger(logger))
	if err != nil {
		return err
	}

	res := check.Analyze(ctx, prog,
		check.WithLogger(logger),
		check.WithSuggestions(c.Suggest))

	printDiagnostics(c.streams.out(), res.Diagnostics)

	return strictness(c.Strict, res.Diagnostics)
}

// strictness returns ErrDiagnostics when strict is set and ds is not empty.
func strictness(strict bool, ds []check.Diagnostic) error {
	if !strict || len(ds) == 0 {
		return nil
	}

	return ErrDiagnostics.With(slog.Int("count", len(ds)))
}

// printDiagnostics writes one line per diagnostic, styled when w is a
// color terminal.
func printDiagnostics(w io.Writer, ds []check.Diagnostic) {
	if len(ds) == 0 {
		return
	}

	re := lipgloss.NewRenderer(w)
	posStyle := re.NewStyle().Bold(true)
	kindStyle := re.NewStyle().Foreground(lipgloss.Color("3"))
	hintStyle := re.NewStyle().Foreground(lipgloss.Color("8"))

	for _, d := range ds {
		line := kindStyle.Render(d.Kind.String()+":") + " " + d.Message

		if d.Pos.IsValid() {
			line = posStyle.Render(d.Pos.String()+":") + " " + line
		}

		if d.Suggestion != "" {
			line += " " + hintStyle.Render("(did you mean "+d.Suggestion+"?)")
		}

		fmt.Fprintln(w, line)
	}
}
