package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts the program to native Go maps and slices. Every node becomes
// a map with a "kind" key (see [KindOf]) and a "pos" key.
func (p *Program) ToMap() map[string]any {
	return map[string]any{
		"kind":       KindOf(p),
		"statements": stmtsToNative(p.Stmts),
	}
}

// KindOf returns the tag naming the construct of n.
func KindOf(n Node) string {
	switch n := n.(type) {
	case *Program:
		return "program"
	case *Declaration:
		return "declaration"
	case *Binding:
		return "binding"
	case *Assign:
		if n.Put {
			return "put"
		}

		return "assign"
	case *IndexAssign:
		return "index_assign"
	case *ExprStmt:
		return "expression"
	case *If:
		return "if"
	case *ElseIf:
		return "else_if"
	case *ElseBlock:
		return "else_block"
	case *EndIf:
		return "end_if"
	case *While:
		return "while"
	case *ForEach:
		return "for_each"
	case *FuncDef:
		return "function"
	case *Param:
		return "param"
	case *Return:
		return "return"
	case *Ident:
		return "name"
	case *IntLit:
		return "int"
	case *RealLit:
		return "real"
	case *TextLit:
		return "text"
	case *BoolLit:
		return "bool"
	case *Paren:
		return "paren"
	case *Binary:
		return "binary"
	case *Compare:
		return "compare"
	case *Logical:
		return "logical"
	case *Not:
		return "not"
	case *Step:
		return "step"
	case *Index:
		return "index"
	case *Call:
		return "call"
	case *BuiltinCall:
		return "builtin"
	case *Range:
		return "range"
	default:
		return "unknown"
	}
}

// ToNative converts any node to its map form.
func ToNative(n Node) any {
	if n == nil || isNilNode(n) {
		return nil
	}

	m := map[string]any{
		"kind": KindOf(n),
		"pos":  n.Pos().String(),
	}

	if t, ok := n.(Typed); ok && t.InferredType().Known() {
		m["type"] = t.InferredType().String()
	}

	switch n := n.(type) {
	case *Program:
		return n.ToMap()
	case *Declaration:
		bindings := make([]any, len(n.Bindings))
		for i, b := range n.Bindings {
			bindings[i] = ToNative(b)
		}

		m["type"] = n.Type.String()
		m["bindings"] = bindings
	case *Binding:
		m["name"] = n.Name.Name
		if n.Value != nil {
			m["value"] = ToNative(n.Value)
		}
	case *Assign:
		m["target"] = n.Target.Name
		m["value"] = ToNative(n.Value)
	case *IndexAssign:
		m["target"] = n.Target.Name
		m["index"] = ToNative(n.Index)
		m["value"] = ToNative(n.Value)
	case *ExprStmt:
		m["x"] = ToNative(n.X)
	case *If:
		m["cond"] = ToNative(n.Cond)
		m["body"] = stmtsToNative(n.Body)
		m["else"] = ToNative(n.Else)
	case *ElseIf:
		m["if"] = ToNative(n.If)
	case *ElseBlock:
		m["body"] = stmtsToNative(n.Body)
		m["next"] = ToNative(n.Next)
	case *While:
		m["cond"] = ToNative(n.Cond)
		m["body"] = stmtsToNative(n.Body)
	case *ForEach:
		m["var"] = n.Var.Name
		m["seq"] = n.Seq.Name
		m["body"] = stmtsToNative(n.Body)
	case *FuncDef:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = ToNative(p)
		}

		m["name"] = n.Name.Name
		m["params"] = params
		m["body"] = stmtsToNative(n.Body)
	case *Param:
		m["type"] = n.Type.String()
		m["name"] = n.Name.Name
	case *Return:
		m["value"] = ToNative(n.Value)
	case *Ident:
		m["name"] = n.Name
	case *IntLit:
		m["value"] = n.Value
	case *RealLit:
		m["value"] = n.Value
	case *TextLit:
		m["value"] = n.Value
	case *BoolLit:
		m["value"] = n.Value
	case *Paren:
		m["x"] = ToNative(n.X)
	case *Binary:
		m["op"] = n.Op.String()
		m["x"], m["y"] = ToNative(n.X), ToNative(n.Y)
	case *Compare:
		m["op"] = n.Op.String()
		m["x"], m["y"] = ToNative(n.X), ToNative(n.Y)
	case *Logical:
		m["op"] = n.Op.String()
		m["x"], m["y"] = ToNative(n.X), ToNative(n.Y)
	case *Not:
		m["x"] = ToNative(n.X)
	case *Step:
		m["op"] = n.Op.String()
		m["x"] = ToNative(n.X)
	case *Index:
		m["name"] = n.Name.Name
		m["index"] = ToNative(n.Index)
	case *Call:
		m["name"] = n.Name.Name
		m["args"] = exprsToNative(n.Args)
	case *BuiltinCall:
		m["name"] = n.Fn.String()
		m["args"] = exprsToNative(n.Args)
	case *Range:
		m["low"], m["high"] = ToNative(n.Low), ToNative(n.High)
	}

	return m
}

func stmtsToNative(stmts []Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = ToNative(s)
	}

	return out
}

func exprsToNative(exprs []Expr) []any {
	out := make([]any, len(exprs))
	for i, x := range exprs {
		out[i] = ToNative(x)
	}

	return out
}
