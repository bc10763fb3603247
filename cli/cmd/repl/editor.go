package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/fala/lang"
	"github.com/ardnew/fala/log"
)

const defaultEditor = "vi"

// editSourceCommand implements [tea.ExecCommand]. It opens the session
// source in the user's editor and parses the result, offering to re-edit
// until the source is free of syntax errors.
type editSourceCommand struct {
	source  string
	ctxFunc func() context.Context
	logger  log.Logger
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer

	// edited is set when the user saved parseable, non-empty source.
	edited string
}

func (c *editSourceCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editSourceCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editSourceCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse loop. Declining to re-edit after a syntax
// error returns [ErrEditDeclined].
func (c *editSourceCommand) Run() error {
	ctx := c.ctxFunc()

	f, err := os.CreateTemp("", "fala-repl-*.fala")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	f.Close()

	content := c.source
	prompt := bufio.NewScanner(c.stdin)

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		_, parseErr := lang.ParseString(ctx, content, lang.WithLogger(c.logger))

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", parseErr == nil))

		if parseErr == nil {
			c.edited = content

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		if !prompt.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(prompt.Text())) {
		case "n", "no", "não", "nao":
			return ErrEditDeclined
		}
	}
}

// runEditor runs $EDITOR (or vi) on path and waits for it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout, stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
