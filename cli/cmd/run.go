package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/fala/compiler"
	"github.com/ardnew/fala/lang/eval"
	"github.com/ardnew/fala/log"
)

// watchDelay coalesces the burst of events a single save produces.
const watchDelay = 100 * time.Millisecond

// Run compiles and executes a program.
type Run struct {
	Sources `embed:""`

	Strict   bool `help:"Do not run a program with semantic diagnostics."`
	Watch    bool `help:"Run again whenever a source file changes."              short:"w"`
	MaxDepth int  `default:"${maxDepth}" help:"Maximum function call depth."`
	MaxRange int  `default:"${maxRange}" help:"Largest list a range binding may expand to."`

	streams streams
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) error {
	if !r.Watch {
		return r.once(ctx)
	}

	return r.watch(ctx)
}

// once compiles and runs the sources a single time. Diagnostics go to
// standard error.
func (r *Run) once(ctx context.Context) error {
	src, done, err := r.open(r.streams.in())
	if err != nil {
		return err
	}
	defer done()

	logger := log.Default()

	res, err := compiler.CompileReader(ctx, src,
		compiler.WithLogger(logger),
		compiler.WithMaxRange(r.MaxRange))

	if res != nil {
		printDiagnostics(r.streams.err(), res.Diagnostics())
	}

	if err != nil {
		return err
	}

	if err := strictness(r.Strict, res.Diagnostics()); err != nil {
		return err
	}

	return res.Run(ctx,
		eval.WithStdout(r.streams.out()),
		eval.WithStdin(r.streams.in()),
		eval.WithLogger(logger),
		eval.WithMaxDepth(r.MaxDepth))
}

// watch runs the program, then again after every change to a source file,
// until ctx is done. Failures of a run are reported and do not end the
// watch.
func (r *Run) watch(ctx context.Context) error {
	paths, err := r.files()
	if err != nil {
		return err
	}

	if len(paths) == 0 || slices.Contains(r.Files, stdinSource) {
		return ErrWatch.Wrap(errors.New("standard input cannot be watched"))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ErrWatch.Wrap(err)
	}
	defer watcher.Close()

	// Editors often replace files on save, so watch the directories.
	targets := make(map[string]bool, len(paths))

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return ErrWatch.With(slog.String("file", path)).Wrap(err)
		}

		targets[abs] = true

		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return ErrWatch.With(slog.String("file", path)).Wrap(err)
		}
	}

	r.report(ctx, r.once(ctx))

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !targets[filepath.Clean(ev.Name)] ||
				!ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}

			log.DebugContext(ctx, "source changed",
				slog.String("file", ev.Name),
				slog.String("op", ev.Op.String()))

			if timer == nil {
				timer = time.NewTimer(watchDelay)
			} else {
				timer.Reset(watchDelay)
			}

			trigger = timer.C

		case <-trigger:
			trigger = nil

			r.report(ctx, r.once(ctx))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.WarnContext(ctx, "watch error", slog.String("error", err.Error()))
		}
	}
}

// report prints the outcome of a watched run.
func (r *Run) report(ctx context.Context, err error) {
	if err != nil {
		fmt.Fprintf(r.streams.err(), "error: %v\n", err)
		log.DebugContext(ctx, "watched run failed", slog.Any("error", err))
	}

	fmt.Fprintf(r.streams.err(), "-- waiting for changes (%s) --\n",
		time.Now().Format(time.TimeOnly))
}
