// Package ir defines the executable intermediate representation produced by
// lowering a checked parse tree.
//
// The vocabulary is closed: every statement and expression type a runtime
// must handle is declared in this file. Operators carry no source spelling;
// names and literals are plain Go values.
package ir

import "fmt"

// Node is implemented by every IR node.
type Node interface {
	irNode()
}

// Stmt is an IR statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an IR expression.
type Expr interface {
	Node
	exprNode()
}

// Built-in call targets.
const (
	Print = "print"
	Read  = "read"
)

// BinaryOp is an arithmetic operator.
type BinaryOp int

const (
	Add BinaryOp = iota
	Sub
	Mult
	Div
	Pow
)

// BoolOperator is a boolean connective.
type BoolOperator int

const (
	And BoolOperator = iota
	Or
)

// UnaryOperator is a prefix operator.
type UnaryOperator int

const (
	Not UnaryOperator = iota
)

// CmpOp is a comparison relation.
type CmpOp int

const (
	Eq CmpOp = iota
	NotEq
	Lt
	LtE
	Gt
	GtE
)

// Context distinguishes reading a location from writing it.
type Context int

const (
	Load Context = iota
	Store
)

var (
	binaryNames = [...]string{Add: "Add", Sub: "Sub", Mult: "Mult", Div: "Div", Pow: "Pow"}
	boolNames   = [...]string{And: "And", Or: "Or"}
	unaryNames  = [...]string{Not: "Not"}
	cmpNames    = [...]string{Eq: "Eq", NotEq: "NotEq", Lt: "Lt", LtE: "LtE", Gt: "Gt", GtE: "GtE"}
	ctxNames    = [...]string{Load: "Load", Store: "Store"}
)

func name[T ~int](names []string, v T) string {
	if v >= 0 && int(v) < len(names) {
		return names[v]
	}

	return fmt.Sprintf("%T(%d)", v, int(v))
}

func (op BinaryOp) String() string      { return name(binaryNames[:], op) }
func (op BoolOperator) String() string  { return name(boolNames[:], op) }
func (op UnaryOperator) String() string { return name(unaryNames[:], op) }
func (op CmpOp) String() string         { return name(cmpNames[:], op) }
func (c Context) String() string        { return name(ctxNames[:], c) }

// Module is the root of a lowered program.
type Module struct {
	Body []Stmt
}

type (
	// Assign stores Value into Target, a [*Name] or a [*Subscript] in the
	// Store context.
	Assign struct {
		Target Expr
		Value  Expr
	}

	// AugAssign updates Target in place: Target = Target Op Value.
	AugAssign struct {
		Target *Name
		Op     BinaryOp
		Value  Expr
	}

	// ExprStmt evaluates Value and discards the result.
	ExprStmt struct {
		Value Expr
	}

	// If runs Body when Test holds and Else otherwise.
	If struct {
		Test Expr
		Body []Stmt
		Else []Stmt
	}

	// While runs Body while Test holds.
	While struct {
		Test Expr
		Body []Stmt
	}

	// For binds Target to each element of Iter and runs Body.
	For struct {
		Target *Name
		Iter   Expr
		Body   []Stmt
	}

	// FunctionDef defines a function of positional parameters.
	FunctionDef struct {
		Name   string
		Params []string
		Body   []Stmt
	}

	// Return leaves the current function with Value.
	Return struct {
		Value Expr
	}
)

type (
	// BinOp is an arithmetic operation.
	BinOp struct {
		Left  Expr
		Op    BinaryOp
		Right Expr
	}

	// UnaryOp is a prefix operation.
	UnaryOp struct {
		Op      UnaryOperator
		Operand Expr
	}

	// BoolOp is a short-circuiting boolean operation over two or more values.
	BoolOp struct {
		Op     BoolOperator
		Values []Expr
	}

	// Compare is a relation between two operands.
	Compare struct {
		Left  Expr
		Op    CmpOp
		Right Expr
	}

	// Call invokes a built-in or user function by name.
	Call struct {
		Func string
		Args []Expr
	}

	// List is a list display.
	List struct {
		Elts []Expr
	}

	// Subscript addresses element Index of Value.
	Subscript struct {
		Value Expr
		Index Expr
		Ctx   Context
	}

	// Name references a variable.
	Name struct {
		ID  string
		Ctx Context
	}

	// Constant is a literal: int64, float64, string or bool.
	Constant struct {
		Value any
	}
)

func (*Module) irNode()      {}
func (*Assign) irNode()      {}
func (*AugAssign) irNode()   {}
func (*ExprStmt) irNode()    {}
func (*If) irNode()          {}
func (*While) irNode()       {}
func (*For) irNode()         {}
func (*FunctionDef) irNode() {}
func (*Return) irNode()      {}
func (*BinOp) irNode()       {}
func (*UnaryOp) irNode()     {}
func (*BoolOp) irNode()      {}
func (*Compare) irNode()     {}
func (*Call) irNode()        {}
func (*List) irNode()        {}
func (*Subscript) irNode()   {}
func (*Name) irNode()        {}
func (*Constant) irNode()    {}

func (*Assign) stmtNode()      {}
func (*AugAssign) stmtNode()   {}
func (*ExprStmt) stmtNode()    {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*For) stmtNode()         {}
func (*FunctionDef) stmtNode() {}
func (*Return) stmtNode()      {}

func (*BinOp) exprNode()     {}
func (*UnaryOp) exprNode()   {}
func (*BoolOp) exprNode()    {}
func (*Compare) exprNode()   {}
func (*Call) exprNode()      {}
func (*List) exprNode()      {}
func (*Subscript) exprNode() {}
func (*Name) exprNode()      {}
func (*Constant) exprNode()  {}
