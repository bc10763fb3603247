// Package token defines the lexical vocabulary of the fala language.
package token

import (
	"strconv"
)

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	Invalid Kind = iota
	EOF

	Ident
	Int
	Real
	Text

	LParen
	RParen
	LBracket
	RBracket
	Comma
	Period

	keywordStart

	Add      // mais
	Sub      // menos
	Mul      // vezes
	Div      // dividido
	By       // por
	Inc      // incrementa
	Dec      // decrementa
	Pow      // na
	If       // se
	Then     // então
	Else     // senão
	For      // para
	Do       // faça
	While    // enquanto
	TypeInt  // int
	TypeReal // real
	TypeText // texto
	TypeList // lista
	Print    // mostra
	Read     // leia
	True     // verdadeiro
	False    // falso
	Define   // define
	With     // com
	As       // como
	Not      // não
	Is       // é
	Equal    // igual
	To       // a
	Diff     // diferente
	Less     // menor
	Than     // que
	Or       // ou
	Greater  // maior
	And      // e
	Done     // deu
	Return   // retorna
	Its      // tá
	Ok       // bom
	Put      // bota
	In       // em

	keywordEnd
)

var keywords = map[string]Kind{
	"mais":       Add,
	"menos":      Sub,
	"vezes":      Mul,
	"dividido":   Div,
	"por":        By,
	"incrementa": Inc,
	"decrementa": Dec,
	"na":         Pow,
	"se":         If,
	"então":      Then,
	"senão":      Else,
	"para":       For,
	"faça":       Do,
	"enquanto":   While,
	"int":        TypeInt,
	"real":       TypeReal,
	"texto":      TypeText,
	"lista":      TypeList,
	"mostra":     Print,
	"leia":       Read,
	"verdadeiro": True,
	"falso":      False,
	"define":     Define,
	"com":        With,
	"como":       As,
	"não":        Not,
	"é":          Is,
	"igual":      Equal,
	"a":          To,
	"diferente":  Diff,
	"menor":      Less,
	"que":        Than,
	"ou":         Or,
	"maior":      Greater,
	"e":          And,
	"deu":        Done,
	"retorna":    Return,
	"tá":         Its,
	"bom":        Ok,
	"bota":       Put,
	"em":         In,
}

var spelling = func() map[Kind]string {
	m := map[Kind]string{
		Invalid:  "invalid",
		EOF:      "end of input",
		Ident:    "identifier",
		Int:      "integer",
		Real:     "real",
		Text:     "text",
		LParen:   "(",
		RParen:   ")",
		LBracket: "[",
		RBracket: "]",
		Comma:    ",",
		Period:   ".",
	}

	for word, kind := range keywords {
		m[kind] = word
	}

	return m
}()

// Lookup maps a word to its keyword kind, or [Ident] when the word is not
// reserved.
func Lookup(word string) Kind {
	if kind, ok := keywords[word]; ok {
		return kind
	}

	return Ident
}

// Keywords returns every reserved word.
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}

	return words
}

// String returns the source spelling of keywords and punctuation, and a
// descriptive name for the other kinds.
func (k Kind) String() string {
	if s, ok := spelling[k]; ok {
		return s
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordStart && k < keywordEnd }

// IsType reports whether k is one of the declaration type keywords.
func (k Kind) IsType() bool {
	return k == TypeInt || k == TypeReal || k == TypeText || k == TypeList
}

// Position is a 1-based location in source text.
type Position struct {
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// IsValid reports whether p refers to a source location.
func (p Position) IsValid() bool { return p.Line > 0 }

// Token is a single lexeme. Value holds the literal text with string quotes
// removed; for keywords and punctuation it is the source spelling.
type Token struct {
	Kind  Kind
	Value string
	Pos   Position
}

// String renders the token for error messages.
func (t Token) String() string {
	switch t.Kind {
	case Ident, Int, Real:
		return t.Kind.String() + " " + strconv.Quote(t.Value)
	case Text:
		return "text " + strconv.Quote(t.Value)
	case EOF:
		return t.Kind.String()
	default:
		return strconv.Quote(t.Kind.String())
	}
}
