package lang

// Builder provides a programmatic API for constructing parse trees without
// parsing source text. Nodes built this way carry zero positions.
//
// Example:
//
//	b := lang.NewBuilder()
//	prog := b.Program(
//	    b.Declare(lang.TypeInt, b.Bind("x", b.Int(2))),
//	    b.Expr(b.Print(b.Binary(lang.OpMul, b.Ident("x"), b.Int(3)))),
//	)
type Builder struct{}

// NewBuilder creates a new parse tree builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Program creates a [Program] from statements.
func (b *Builder) Program(stmts ...Stmt) *Program {
	return &Program{Stmts: stmts}
}

// Declare creates a [Declaration] of typ.
func (b *Builder) Declare(typ Type, bindings ...*Binding) *Declaration {
	return &Declaration{Type: typ, Bindings: bindings}
}

// Bind creates a declaration [Binding]. value may be nil.
func (b *Builder) Bind(name string, value Expr) *Binding {
	return &Binding{Name: b.Ident(name), Value: value}
}

// Assign creates "name é value".
func (b *Builder) Assign(name string, value Expr) *Assign {
	return &Assign{Target: b.Ident(name), Value: value}
}

// Put creates "bota value em name".
func (b *Builder) Put(value Expr, name string) *Assign {
	return &Assign{Target: b.Ident(name), Value: value, Put: true}
}

// IndexAssign creates "name[index] é value".
func (b *Builder) IndexAssign(name string, index, value Expr) *IndexAssign {
	return &IndexAssign{Target: b.Ident(name), Index: index, Value: value}
}

// Expr creates an expression statement.
func (b *Builder) Expr(x Expr) *ExprStmt {
	return &ExprStmt{X: x}
}

// If creates a conditional. A nil continuation becomes [EndIf].
func (b *Builder) If(cond Expr, els ElseClause, body ...Stmt) *If {
	if els == nil {
		els = &EndIf{}
	}

	return &If{Cond: cond, Body: body, Else: els}
}

// ElseIf creates a "senão se" continuation.
func (b *Builder) ElseIf(nested *If) *ElseIf {
	return &ElseIf{If: nested}
}

// ElseBlock creates a "tá bom então" continuation ending in "e deu".
func (b *Builder) ElseBlock(body ...Stmt) *ElseBlock {
	return &ElseBlock{Body: body, Next: &EndIf{}}
}

// While creates a while loop.
func (b *Builder) While(cond Expr, body ...Stmt) *While {
	return &While{Cond: cond, Body: body}
}

// ForEach creates "para v em seq faça".
func (b *Builder) ForEach(v, seq string, body ...Stmt) *ForEach {
	return &ForEach{Var: b.Ident(v), Seq: b.Ident(seq), Body: body}
}

// Func creates a function definition.
func (b *Builder) Func(name string, params []*Param, body ...Stmt) *FuncDef {
	return &FuncDef{Name: b.Ident(name), Params: params, Body: body}
}

// Param creates a typed parameter.
func (b *Builder) Param(typ Type, name string) *Param {
	return &Param{Type: typ, Name: b.Ident(name)}
}

// Return creates "retorna value".
func (b *Builder) Return(value Expr) *Return {
	return &Return{Value: value}
}

// Ident creates a name reference.
func (b *Builder) Ident(name string) *Ident {
	return &Ident{Name: name}
}

// Int creates an integer literal.
func (b *Builder) Int(v int64) *IntLit { return &IntLit{Value: v} }

// Real creates a real literal.
func (b *Builder) Real(v float64) *RealLit { return &RealLit{Value: v} }

// Text creates a text literal.
func (b *Builder) Text(s string) *TextLit { return &TextLit{Value: s} }

// Bool creates a boolean literal.
func (b *Builder) Bool(v bool) *BoolLit { return &BoolLit{Value: v} }

// Paren wraps x in parentheses.
func (b *Builder) Paren(x Expr) *Paren { return &Paren{X: x} }

// Binary creates an arithmetic operation.
func (b *Builder) Binary(op ArithOp, x, y Expr) *Binary {
	return &Binary{Op: op, X: x, Y: y}
}

// Compare creates a comparison.
func (b *Builder) Compare(op ComparisonKind, x, y Expr) *Compare {
	return &Compare{Op: op, X: x, Y: y}
}

// Logical creates "x e y" or "x ou y".
func (b *Builder) Logical(op LogicalOp, x, y Expr) *Logical {
	return &Logical{Op: op, X: x, Y: y}
}

// Not creates "não x".
func (b *Builder) Not(x Expr) *Not { return &Not{X: x} }

// Step creates a prefix increment or decrement.
func (b *Builder) Step(op StepOp, x Expr) *Step {
	return &Step{Op: op, X: x}
}

// Index creates "name[index]".
func (b *Builder) Index(name string, index Expr) *Index {
	return &Index{Name: b.Ident(name), Index: index}
}

// Call creates "name com args".
func (b *Builder) Call(name string, args ...Expr) *Call {
	return &Call{Name: b.Ident(name), Args: args}
}

// Print creates "mostra args".
func (b *Builder) Print(args ...Expr) *BuiltinCall {
	return &BuiltinCall{Fn: BuiltinPrint, Args: args}
}

// Read creates "leia args".
func (b *Builder) Read(args ...Expr) *BuiltinCall {
	return &BuiltinCall{Fn: BuiltinRead, Args: args}
}

// Range creates the "low a high" range sugar.
func (b *Builder) Range(low, high Expr) *Range {
	return &Range{Low: low, High: high}
}
