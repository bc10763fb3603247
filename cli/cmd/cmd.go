package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
)

type contextKey struct{}

// WithContext returns a copy of ctx carrying ktx.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, _ := ctx.Value(contextKey{}).(*kong.Context)

	return ktx
}

// kongVar returns the kong variable name, or "" without a kong context.
func kongVar(ctx context.Context, name string) string {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ""
	}

	return ktx.Model.Vars()[name]
}

// streams are the standard streams of a command. The zero value uses the
// process streams.
type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (s streams) in() io.Reader {
	if s.stdin == nil {
		return os.Stdin
	}

	return s.stdin
}

func (s streams) out() io.Writer {
	if s.stdout == nil {
		return os.Stdout
	}

	return s.stdout
}

func (s streams) err() io.Writer {
	if s.stderr == nil {
		return os.Stderr
	}

	return s.stderr
}

// stdinSource names standard input on the command line.
const stdinSource = "-"

// Sources are the source file arguments shared by every command.
type Sources struct {
	Files []string `arg:"" help:"Source files, or '-' for standard input (default)." name:"file" optional:"" type:"path"`
}

// files returns the named files in order, dropping "-" and any path that
// refers to a file already listed.
func (s Sources) files() ([]string, error) {
	var (
		paths []string
		seen  []os.FileInfo
	)

next:
	for _, path := range s.Files {
		if path == stdinSource {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			return nil, ErrOpenSource.With(slog.String("file", path)).Wrap(err)
		}

		for _, prev := range seen {
			if os.SameFile(prev, info) {
				continue next
			}
		}

		seen = append(seen, info)
		paths = append(paths, path)
	}

	return paths, nil
}

// stdin reports whether standard input is one of the sources. It is when
// requested with "-" or when no file is named.
func (s Sources) stdin() bool {
	if len(s.Files) == 0 {
		return true
	}

	for _, path := range s.Files {
		if path == stdinSource {
			return true
		}
	}

	return false
}

// open returns a reader over every source, standard input last, with a
// line break after each file. The returned function closes the files.
func (s Sources) open(stdin io.Reader) (io.Reader, func(), error) {
	paths, err := s.files()
	if err != nil {
		return nil, nil, err
	}

	var (
		readers []io.Reader
		files   []*os.File
	)

	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			closeAll()

			return nil, nil, ErrOpenSource.With(slog.String("file", path)).Wrap(err)
		}

		files = append(files, f)
		readers = append(readers, f, strings.NewReader("\n"))
	}

	if s.stdin() {
		readers = append(readers, stdin)
	}

	return io.MultiReader(readers...), closeAll, nil
}
