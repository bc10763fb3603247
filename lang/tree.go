package lang

import (
	"github.com/ardnew/fala/log"
)

// Node is implemented by every parse tree node.
type Node interface {
	Pos() Position
	node()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Typed is an expression carrying an inferred type annotation. The
// annotation is written only by semantic analysis.
type Typed interface {
	Expr
	InferredType() Type
	SetInferredType(Type)
}

// ElseClause is the continuation of a conditional: [*ElseIf], [*ElseBlock]
// or [*EndIf].
type ElseClause interface {
	Node
	elseNode()
}

type annotation struct {
	inferred Type
}

// InferredType returns the type recorded by semantic analysis.
func (a *annotation) InferredType() Type { return a.inferred }

// SetInferredType records t as the inferred type.
func (a *annotation) SetInferredType(t Type) { a.inferred = t }

// Program is the root of a parsed source unit.
type Program struct {
	Stmts []Stmt

	source string
	logger log.Logger
}

// Source returns the text the program was parsed from, if known.
func (p *Program) Source() string { return p.source }

// Pos returns the position of the first statement.
func (p *Program) Pos() Position {
	if len(p.Stmts) == 0 {
		return Position{}
	}

	return p.Stmts[0].Pos()
}

func (*Program) node() {}

type (
	// Declaration declares one or more names of the same type:
	//
	//	int x, y é 2, z é 1 a 10.
	Declaration struct {
		TypePos  Position
		Type     Type
		Bindings []*Binding
	}

	// Binding is one item of a declaration. Value is nil for a bare name and
	// a [*Range] for range sugar.
	Binding struct {
		Name  *Ident
		Value Expr
	}

	// Assign is "x é v" or, when Put is set, "bota v em x".
	Assign struct {
		StmtPos Position
		Target  *Ident
		Value   Expr
		Put     bool
	}

	// IndexAssign is "x[i] é v".
	IndexAssign struct {
		Target *Ident
		Index  Expr
		Value  Expr
	}

	// ExprStmt is an expression evaluated for its effect.
	ExprStmt struct {
		X Expr
	}

	// If is "se cond então body" followed by its continuation.
	If struct {
		IfPos Position
		Cond  Expr
		Body  []Stmt
		Else  ElseClause
	}

	// While is "enquanto cond faça body e deu".
	While struct {
		WhilePos Position
		Cond     Expr
		Body     []Stmt
	}

	// ForEach is "para v em seq faça body e deu".
	ForEach struct {
		ForPos Position
		Var    *Ident
		Seq    *Ident
		Body   []Stmt
	}

	// FuncDef is "define name [com params] como body e deu".
	FuncDef struct {
		DefinePos Position
		Name      *Ident
		Params    []*Param
		Body      []Stmt
	}

	// Param is a typed function parameter.
	Param struct {
		TypePos Position
		Type    Type
		Name    *Ident
	}

	// Return is "retorna v".
	Return struct {
		ReturnPos Position
		Value     Expr
	}
)

type (
	// ElseIf is "senão se ...".
	ElseIf struct {
		ElsePos Position
		If      *If
	}

	// ElseBlock is "tá bom então body" followed by another continuation.
	ElseBlock struct {
		ItsPos Position
		Body   []Stmt
		Next   ElseClause
	}

	// EndIf is the terminal "e deu".
	EndIf struct {
		AndPos Position
	}
)

type (
	// Ident is a name reference.
	Ident struct {
		NamePos Position
		Name    string
	}

	// IntLit is an integer literal.
	IntLit struct {
		ValuePos Position
		Value    int64
	}

	// RealLit is a real literal.
	RealLit struct {
		ValuePos Position
		Value    float64
	}

	// TextLit is a text literal.
	TextLit struct {
		ValuePos Position
		Value    string
	}

	// BoolLit is verdadeiro or falso.
	BoolLit struct {
		ValuePos Position
		Value    bool
	}

	// Paren is a parenthesized expression.
	Paren struct {
		Lparen Position
		X      Expr
	}

	// Binary is an arithmetic operation.
	Binary struct {
		annotation
		OpPos Position
		Op    ArithOp
		X, Y  Expr
	}

	// Compare is a relation between two operands.
	Compare struct {
		annotation
		OpPos Position
		Op    ComparisonKind
		X, Y  Expr
	}

	// Logical is "x e y" or "x ou y".
	Logical struct {
		annotation
		OpPos Position
		Op    LogicalOp
		X, Y  Expr
	}

	// Not is "não x".
	Not struct {
		annotation
		NotPos Position
		X      Expr
	}

	// Step is "incrementa x" or "decrementa x".
	Step struct {
		annotation
		OpPos Position
		Op    StepOp
		X     Expr
	}

	// Index is "x[i]".
	Index struct {
		Name  *Ident
		Index Expr
	}

	// Call is "f com a, b".
	Call struct {
		Name *Ident
		Args []Expr
	}

	// BuiltinCall is "mostra a, b" or "leia prompt".
	BuiltinCall struct {
		FnPos Position
		Fn    Builtin
		Args  []Expr
	}

	// Range is the "a a b" value of a declaration binding.
	Range struct {
		Low, High Expr
	}
)

func (s *Declaration) Pos() Position { return s.TypePos }
func (s *Binding) Pos() Position     { return s.Name.Pos() }
func (s *Assign) Pos() Position      { return s.StmtPos }
func (s *IndexAssign) Pos() Position { return s.Target.Pos() }
func (s *ExprStmt) Pos() Position    { return s.X.Pos() }
func (s *If) Pos() Position          { return s.IfPos }
func (s *While) Pos() Position       { return s.WhilePos }
func (s *ForEach) Pos() Position     { return s.ForPos }
func (s *FuncDef) Pos() Position     { return s.DefinePos }
func (s *Param) Pos() Position       { return s.TypePos }
func (s *Return) Pos() Position      { return s.ReturnPos }
func (c *ElseIf) Pos() Position      { return c.ElsePos }
func (c *ElseBlock) Pos() Position   { return c.ItsPos }
func (c *EndIf) Pos() Position       { return c.AndPos }
func (x *Ident) Pos() Position       { return x.NamePos }
func (x *IntLit) Pos() Position      { return x.ValuePos }
func (x *RealLit) Pos() Position     { return x.ValuePos }
func (x *TextLit) Pos() Position     { return x.ValuePos }
func (x *BoolLit) Pos() Position     { return x.ValuePos }
func (x *Paren) Pos() Position       { return x.Lparen }
func (x *Binary) Pos() Position      { return x.X.Pos() }
func (x *Compare) Pos() Position     { return x.X.Pos() }
func (x *Logical) Pos() Position     { return x.X.Pos() }
func (x *Not) Pos() Position         { return x.NotPos }
func (x *Step) Pos() Position        { return x.OpPos }
func (x *Index) Pos() Position       { return x.Name.Pos() }
func (x *Call) Pos() Position        { return x.Name.Pos() }
func (x *BuiltinCall) Pos() Position { return x.FnPos }
func (x *Range) Pos() Position       { return x.Low.Pos() }

func (*Declaration) node() {}
func (*Binding) node()     {}
func (*Assign) node()      {}
func (*IndexAssign) node() {}
func (*ExprStmt) node()    {}
func (*If) node()          {}
func (*While) node()       {}
func (*ForEach) node()     {}
func (*FuncDef) node()     {}
func (*Param) node()       {}
func (*Return) node()      {}
func (*ElseIf) node()      {}
func (*ElseBlock) node()   {}
func (*EndIf) node()       {}
func (*Ident) node()       {}
func (*IntLit) node()      {}
func (*RealLit) node()     {}
func (*TextLit) node()     {}
func (*BoolLit) node()     {}
func (*Paren) node()       {}
func (*Binary) node()      {}
func (*Compare) node()     {}
func (*Logical) node()     {}
func (*Not) node()         {}
func (*Step) node()        {}
func (*Index) node()       {}
func (*Call) node()        {}
func (*BuiltinCall) node() {}
func (*Range) node()       {}

func (*Declaration) stmtNode() {}
func (*Assign) stmtNode()      {}
func (*IndexAssign) stmtNode() {}
func (*ExprStmt) stmtNode()    {}
func (*If) stmtNode()          {}
func (*While) stmtNode()       {}
func (*ForEach) stmtNode()     {}
func (*FuncDef) stmtNode()     {}
func (*Return) stmtNode()      {}

func (*ElseIf) elseNode()    {}
func (*ElseBlock) elseNode() {}
func (*EndIf) elseNode()     {}

func (*Ident) exprNode()       {}
func (*IntLit) exprNode()      {}
func (*RealLit) exprNode()     {}
func (*TextLit) exprNode()     {}
func (*BoolLit) exprNode()     {}
func (*Paren) exprNode()       {}
func (*Binary) exprNode()      {}
func (*Compare) exprNode()     {}
func (*Logical) exprNode()     {}
func (*Not) exprNode()         {}
func (*Step) exprNode()        {}
func (*Index) exprNode()       {}
func (*Call) exprNode()        {}
func (*BuiltinCall) exprNode() {}
func (*Range) exprNode()       {}
