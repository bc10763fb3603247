package cmd

import (
	"context"
	"os"

	"github.com/ardnew/fala/cli/cmd/repl"
	"github.com/ardnew/fala/log"
)

// Repl starts the interactive loop.
type Repl struct {
	Preload string `arg:"" help:"Program to run before the first prompt." optional:"" type:"existingfile"`
	Input   string `help:"File read by leia. Standard input belongs to the terminal." type:"existingfile"`
	History bool   `default:"true" help:"Keep input history in the cache directory." negatable:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	cfg := repl.Config{Logger: log.Default()}

	if r.History {
		cfg.CacheDir = kongVar(ctx, CacheIdentifier)
	}

	if r.Preload != "" {
		f, err := os.Open(r.Preload)
		if err != nil {
			return ErrOpenSource.Wrap(err)
		}
		defer f.Close()

		cfg.Preload = f
	}

	if r.Input != "" {
		f, err := os.Open(r.Input)
		if err != nil {
			return ErrOpenSource.Wrap(err)
		}
		defer f.Close()

		cfg.Input = f
	}

	return repl.Run(ctx, cfg)
}
