// Package lang defines the parse tree of the fala language and the parser
// that builds it.
//
// fala is a small imperative language whose statements read as Portuguese
// keyword phrases. Every statement ends with a period:
//
//	int n é 5.
//	define fatorial com int x como
//	  se x é menor ou igual a 1 então
//	    retorna 1.
//	  e deu.
//	  retorna x vezes (fatorial com x menos 1).
//	e deu.
//	mostra fatorial com n.
//
// # Grammar
//
// Informal EBNF, operators from loosest to tightest:
//
//	Program     → (Statement '.')+ EOF
//	Statement   → Declaration | Action
//	Declaration → Type Binding (',' Binding)*
//	Binding     → Ident ['é' Expr ['a' Expr]]
//	Action      → 'define' Ident ['com' Param (',' Param)*] 'como' Body 'e' 'deu'
//	            | 'se' Expr 'então' Body Else
//	            | 'enquanto' Expr 'faça' Body 'e' 'deu'
//	            | 'para' Ident 'em' Ident 'faça' Body 'e' 'deu'
//	            | 'bota' Expr 'em' Ident
//	            | 'retorna' Expr
//	            | Ident 'é' Expr
//	            | Ident '[' Expr ']' 'é' Expr
//	            | Expr
//	Else        → 'senão' 'se' Expr 'então' Body Else
//	            | 'tá' 'bom' 'então' Body Else
//	            | 'e' 'deu'
//	Body        → (Statement '.')+
//	Expr        → 'não' Expr | Expr ('e' | 'ou') Expr
//	            | Expr Comparison Expr
//	            | Expr ('mais' | 'menos') Expr
//	            | Expr ('vezes' | 'dividido' 'por') Expr
//	            | ('incrementa' | 'decrementa') Expr
//	            | Expr 'na' Expr
//	            | Primary
//	Primary     → Int | Real | Text | 'verdadeiro' | 'falso' | '(' Expr ')'
//	            | Ident | Ident '[' Expr ']' | Ident 'com' Args
//	            | ('mostra' | 'leia') [Args]
//
// A comparison phrase begins with 'é' and is resolved to a single
// [ComparisonKind] while parsing, e.g. "é maior ou igual a" is [CmpGtE].
//
// # Ambiguity
//
// "x é v" and "x[i] é v" at the start of a statement are assignments unless
// the word after 'é' continues a comparison phrase. Anywhere else, a bare
// 'é' is equality.
//
// # Output
//
// A [Program] can be written back as source with [Program.Format], as an
// indented tree with [Program.FormatTree], or as structured data with
// [Program.FormatJSON] and [Program.FormatYAML].
package lang
