package lang

import (
	"errors"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/ardnew/fala/lang/token"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax       = NewError("syntax error")
	ErrIllegalToken = NewError("illegal token")
	ErrReadInput    = NewError("failed to read input")
	ErrEncode       = NewError("failed to encode tree")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError converts err into an *Error, returning err itself when it
// already is one.
func WrapError(err error) *Error {
	if ee := (*Error)(nil); errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error joins the message and the wrapped cause with ": ", omitting
// whichever is empty.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from. Errors
// created by [Error.Wrap] and [Error.With] match their origin.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns the structured attributes attached with [Error.With].
func (e *Error) Attrs() []slog.Attr { return slices.Clone(e.attrs) }

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: append(slices.Clip(e.attrs), attrs...),
	}
}

// SyntaxError reports the first token that does not fit the grammar. No tree
// is produced for a source unit that has a syntax error.
type SyntaxError struct {
	Pos      Position
	Found    token.Token
	Expected []string
	Source   string
}

// Error formats the location and, when the source text is known, the
// offending line with a caret under the column.
func (e *SyntaxError) Error() string {
	var buf strings.Builder

	buf.WriteString("syntax error at line ")
	buf.WriteString(strconv.Itoa(e.Pos.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Pos.Column))
	buf.WriteString(": unexpected ")
	buf.WriteString(e.Found.String())

	if len(e.Expected) > 0 {
		buf.WriteString(", expected ")
		buf.WriteString(strings.Join(e.expected(), " or "))
	}

	if snippet := e.Snippet(); snippet != "" {
		buf.WriteString("\n")
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Unwrap returns [ErrSyntax].
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrSyntax.msg),
		slog.Int("line", e.Pos.Line),
		slog.Int("column", e.Pos.Column),
		slog.String("found", e.Found.String()),
		slog.Any("expected", e.expected()),
	)
}

func (e *SyntaxError) expected() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		exp = append(exp, strconv.Quote(s))
	}

	slices.Sort(exp)

	return slices.Compact(exp)
}

// Snippet returns the source line of the error followed by a caret marker,
// or "" when the source is unknown or the line is out of range.
func (e *SyntaxError) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Source == "" || e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(e.Pos.Line)

	var buf strings.Builder

	buf.WriteString("  ")
	buf.WriteString(num)
	buf.WriteString(" | ")
	buf.WriteString(lines[e.Pos.Line-1])
	buf.WriteByte('\n')

	// 2 leading spaces + " | " (3 chars).
	buf.WriteString(strings.Repeat(" ", len(num)+5))

	if e.Pos.Column > 1 {
		buf.WriteString(strings.Repeat(" ", e.Pos.Column-1))
	}

	buf.WriteString("^")

	return buf.String()
}
