package repl

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/fala/lang/token"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall represents a call detected before the cursor.
type functionCall struct {
	name     string // called function
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if the cursor is inside the argument list
}

// detectFunctionCall reports whether the cursor is inside the argument list
// of a call "name com args" in the statement being typed. With nested
// calls the innermost one wins. The header of a definition is not a call.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))
	text := input[:cursor]

	var (
		call  functionCall
		quote rune
		prev  string // previous word
		last  string // word before prev
	)

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}

		case r == '"' || r == '\'':
			quote = r

		case r == '.':
			call, prev, last = functionCall{}, "", ""

		case r == ',':
			// "1,5" is a real literal, not an argument separator.
			next, _ := utf8.DecodeRuneInString(text[i+size:])
			if call.inCall && !unicode.IsDigit(next) {
				call.argIndex++
			}

		case isWordRune(r):
			end := i
			for end < len(text) {
				r, n := utf8.DecodeRuneInString(text[end:])
				if !isWordRune(r) {
					break
				}

				end += n
			}

			word := text[i:end]

			if token.Lookup(word) == token.With &&
				prev != "" && token.Lookup(prev) == token.Ident &&
				token.Lookup(last) != token.Define {
				call = functionCall{name: prev, inCall: true}
			}

			last, prev = prev, word
			i = end

			continue
		}

		i += size
	}

	return call
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// getSignature returns the parameters of a session function, each spelled
// as in its definition ("int n"). ok is false for unknown functions.
func getSignature(s *Session, name string) (params []string, ok bool) {
	def, ok := s.Function(name)
	if !ok {
		return nil, false
	}

	params = make([]string, len(def.Params))
	for i, p := range def.Params {
		params[i] = p.Type.Keyword() + " " + p.Name.Name
	}

	return params, true
}

// renderSignatureHint renders "name com p1, p2" with the parameter at
// currentArgIdx highlighted.
func renderSignatureHint(name string, params []string, currentArgIdx int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))

	if len(params) == 0 {
		return b.String()
	}

	b.WriteString(signatureStyle.Render(" com "))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		if i == currentArgIdx {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	return b.String()
}
