// Package lexer converts fala source text into a token sequence.
//
// Reserved words are recognized by exact spelling, including their accented
// forms ("então", "não", "é", "tá"). Real literals use a decimal comma, so
// "1,5" is a single token; a run such as "1,2,3" is rejected rather than
// split. Comments start with '#' and run to the end of the line.
package lexer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/fala/lang/token"
)

// Error describes one illegal lexeme.
type Error struct {
	Pos    token.Position
	Text   string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d, column %d: %s %q", e.Pos.Line, e.Pos.Column, e.Reason, e.Text)
}

// ErrorList collects every illegal lexeme found in one source unit.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
	}
}

// Unwrap exposes each entry to [errors.Is] and [errors.As].
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}

	return errs
}

// Err returns l as an error, or nil when l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}

	return l
}

const (
	reasonChar   = "illegal character"
	reasonNumber = "illegal number"
	reasonString = "unterminated text"
)

// Lexer scans one source unit.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
	errs ErrorList
}

// New returns a Lexer positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Tokenize scans all of src. The returned slice always ends with an
// [token.EOF] token; illegal lexemes are skipped and reported together in
// the returned [ErrorList].
func Tokenize(src string) ([]token.Token, error) {
	l := New(src)

	var toks []token.Token

	for {
		tok := l.Next()
		toks = append(toks, tok)

		if tok.Kind == token.EOF {
			break
		}
	}

	return toks, l.Errors().Err()
}

// Errors returns the illegal lexemes seen so far.
func (l *Lexer) Errors() ErrorList { return l.errs }

// Next returns the next token, or [token.EOF] at the end of input.
func (l *Lexer) Next() token.Token {
	for {
		l.skipSpaceAndComments()

		if l.eof() {
			return token.Token{Kind: token.EOF, Pos: l.position()}
		}

		pos := l.position()
		r := l.peek()

		switch {
		case unicode.IsLetter(r):
			word := l.scanWhile(isWordRune)

			return token.Token{Kind: token.Lookup(word), Value: word, Pos: pos}

		case isDigit(r):
			if tok, ok := l.scanNumber(pos); ok {
				return tok
			}

		case r == '"' || r == '\'':
			if tok, ok := l.scanText(pos, r); ok {
				return tok
			}

		default:
			if kind, ok := punctuation[r]; ok {
				l.advance()

				return token.Token{Kind: kind, Value: string(r), Pos: pos}
			}

			l.advance()
			l.fail(pos, string(r), reasonChar)
		}
	}
}

var punctuation = map[rune]token.Kind{
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	',': token.Comma,
	'.': token.Period,
}

func (l *Lexer) scanNumber(pos token.Position) (token.Token, bool) {
	start := l.pos
	l.scanWhile(isDigit)

	kind := token.Int

	// A comma directly between digits is a decimal separator.
	for l.peek() == ',' && isDigit(l.peekAt(1)) {
		l.advance()
		l.scanWhile(isDigit)

		if kind == token.Real {
			kind = token.Invalid
		} else {
			kind = token.Real
		}
	}

	text := l.src[start:l.pos]

	switch kind {
	case token.Invalid:
		l.fail(pos, text, reasonNumber)

		return token.Token{}, false
	case token.Real:
		return token.Token{Kind: kind, Value: strings.Replace(text, ",", ".", 1), Pos: pos}, true
	default:
		return token.Token{Kind: kind, Value: text, Pos: pos}, true
	}
}

func (l *Lexer) scanText(pos token.Position, quote rune) (token.Token, bool) {
	l.advance()

	start := l.pos
	for !l.eof() && l.peek() != quote && l.peek() != '\n' {
		l.advance()
	}

	if l.peek() != quote {
		l.fail(pos, string(quote)+l.src[start:l.pos], reasonString)

		return token.Token{}, false
	}

	text := l.src[start:l.pos]
	l.advance()

	return token.Token{Kind: token.Text, Value: text, Pos: pos}, true
}

func (l *Lexer) skipSpaceAndComments() {
	for !l.eof() {
		switch r := l.peek(); {
		case r == '#':
			for !l.eof() && l.peek() != '\n' {
				l.advance()
			}
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			l.advance()
		default:
			return
		}
	}
}

func (l *Lexer) scanWhile(accept func(rune) bool) string {
	start := l.pos
	for !l.eof() && accept(l.peek()) {
		l.advance()
	}

	return l.src[start:l.pos]
}

func (l *Lexer) fail(pos token.Position, text, reason string) {
	l.errs = append(l.errs, &Error{Pos: pos, Text: text, Reason: reason})
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() rune { return l.peekAt(0) }

// peekAt returns the rune n runes ahead of the current position.
func (l *Lexer) peekAt(n int) rune {
	i := l.pos
	for ; n > 0 && i < len(l.src); n-- {
		_, size := utf8.DecodeRuneInString(l.src[i:])
		i += size
	}

	if i >= len(l.src) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(l.src[i:])

	return r
}

func (l *Lexer) advance() {
	if l.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) position() token.Position {
	return token.Position{Line: l.line, Column: l.col}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// IsIllegal reports whether err contains a lexer [Error].
func IsIllegal(err error) bool {
	var e *Error

	return errors.As(err, &e)
}
