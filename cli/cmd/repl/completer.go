package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/fala/lang/token"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "source", "clear", "quit"}

// isWordBoundary reports whether r separates words for completion: white
// space and the punctuation of the language.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '.', ',', '(', ')', '[', ']', '"', '\'':
		return true
	}

	return false
}

// wordBounds returns the word under the cursor and its byte offsets within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// byteOffset converts a cursor position counted in runes, as reported by
// the text input, to a byte offset into s.
func byteOffset(s string, runes int) int {
	for i := range s {
		if runes == 0 {
			return i
		}

		runes--
	}

	return len(s)
}

// insideText reports whether offset falls inside an open text literal.
func insideText(input string, offset int) bool {
	var quote rune

	for _, r := range input[:min(offset, len(input))] {
		switch {
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case r == quote:
			quote = 0
		}
	}

	return quote != 0
}

// candidates returns the completion vocabulary: the session's names
// followed by the reserved words.
func (m model) candidates() []string {
	names := m.session.Names()

	return append(slices.Clip(names), token.Keywords()...)
}

// computeMatches ranks the candidates against the word under the cursor.
// An empty word produces no matches so that the hint line stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := byteOffset(input, m.input.Position())

	word, wordStart, wordEnd := wordBounds(input, cursor)

	if word == "" || (m.mode == modeEval && insideText(input, wordStart)) {
		return nil, nil, wordStart, wordEnd
	}

	if m.mode == modeCtrl {
		candidates = ctrlCommands
	} else {
		candidates = m.candidates()
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, cut with an
// ellipsis to fit width. The selected candidate is highlighted while
// tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	room := width - lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += len(sep)
		}

		if i > 0 && used+w > room {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters in
// bold.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base := suggestionStyle
	if selected {
		base = selectedStyle
	}

	bold := base.Bold(true)

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(bold.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
