package lang

import (
	"strconv"

	"github.com/ardnew/fala/lang/token"
)

// Position is a 1-based line and column in source text.
type Position = token.Position

// Type is the static type tag of a value.
type Type int

const (
	// TypeUnknown means the type could not be resolved. It is never
	// compared and never reported.
	TypeUnknown Type = iota
	TypeInt
	TypeReal
	TypeText
	TypeBool
	TypeList
)

var typeNames = [...]string{
	TypeUnknown: "unset",
	TypeInt:     "int",
	TypeReal:    "real",
	TypeText:    "text",
	TypeBool:    "bool",
	TypeList:    "list",
}

// String returns the diagnostic spelling of t.
func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}

	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Known reports whether t has been resolved.
func (t Type) Known() bool { return t != TypeUnknown }

// Numeric reports whether t is int or real.
func (t Type) Numeric() bool { return t == TypeInt || t == TypeReal }

// declaredTypes maps the declaration keywords to their types.
var declaredTypes = map[token.Kind]Type{
	token.TypeInt:  TypeInt,
	token.TypeReal: TypeReal,
	token.TypeText: TypeText,
	token.TypeList: TypeList,
}

// Keyword returns the declaration keyword that names t, or "" when t cannot
// be declared.
func (t Type) Keyword() string {
	for kind, typ := range declaredTypes {
		if typ == t {
			return kind.String()
		}
	}

	return ""
}

// ArithOp is a binary arithmetic operator.
type ArithOp int

const (
	OpAdd ArithOp = iota // mais
	OpSub                // menos
	OpMul                // vezes
	OpDiv                // dividido por
	OpPow                // na
)

var arithNames = [...]string{
	OpAdd: "mais",
	OpSub: "menos",
	OpMul: "vezes",
	OpDiv: "dividido por",
	OpPow: "na",
}

func (op ArithOp) String() string { return arithNames[op] }

// ComparisonKind is a relation assembled from a comparison phrase.
type ComparisonKind int

const (
	CmpEq    ComparisonKind = iota // é igual a
	CmpNotEq                       // é diferente
	CmpLt                          // é menor que
	CmpLtE                         // é menor ou igual a
	CmpGt                          // é maior que
	CmpGtE                         // é maior ou igual a
)

var comparisonNames = [...]string{
	CmpEq:    "é igual a",
	CmpNotEq: "é diferente",
	CmpLt:    "é menor que",
	CmpLtE:   "é menor ou igual a",
	CmpGt:    "é maior que",
	CmpGtE:   "é maior ou igual a",
}

func (k ComparisonKind) String() string { return comparisonNames[k] }

// Ordered reports whether k is one of the four ordering relations.
func (k ComparisonKind) Ordered() bool { return k >= CmpLt }

// LogicalOp is a binary boolean connective.
type LogicalOp int

const (
	OpAnd LogicalOp = iota // e
	OpOr                   // ou
)

func (op LogicalOp) String() string {
	if op == OpOr {
		return "ou"
	}

	return "e"
}

// StepOp is a prefix increment or decrement.
type StepOp int

const (
	OpInc StepOp = iota // incrementa
	OpDec               // decrementa
)

func (op StepOp) String() string {
	if op == OpDec {
		return "decrementa"
	}

	return "incrementa"
}

// Builtin identifies a built-in operation invoked by keyword.
type Builtin int

const (
	BuiltinPrint Builtin = iota // mostra
	BuiltinRead                 // leia
)

func (b Builtin) String() string {
	if b == BuiltinRead {
		return "leia"
	}

	return "mostra"
}
