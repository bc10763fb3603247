package lang

// Children returns the direct child nodes of n in source order. Absent
// optional children are omitted.
func Children(n Node) []Node {
	var out []Node

	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil && !isNilNode(c) {
				out = append(out, c)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Stmts {
			add(s)
		}
	case *Declaration:
		for _, b := range n.Bindings {
			add(b)
		}
	case *Binding:
		add(n.Name, n.Value)
	case *Assign:
		add(n.Target, n.Value)
	case *IndexAssign:
		add(n.Target, n.Index, n.Value)
	case *ExprStmt:
		add(n.X)
	case *If:
		add(n.Cond)

		for _, s := range n.Body {
			add(s)
		}

		add(n.Else)
	case *ElseIf:
		add(n.If)
	case *ElseBlock:
		for _, s := range n.Body {
			add(s)
		}

		add(n.Next)
	case *While:
		add(n.Cond)

		for _, s := range n.Body {
			add(s)
		}
	case *ForEach:
		add(n.Var, n.Seq)

		for _, s := range n.Body {
			add(s)
		}
	case *FuncDef:
		add(n.Name)

		for _, p := range n.Params {
			add(p)
		}

		for _, s := range n.Body {
			add(s)
		}
	case *Param:
		add(n.Name)
	case *Return:
		add(n.Value)
	case *Paren:
		add(n.X)
	case *Binary:
		add(n.X, n.Y)
	case *Compare:
		add(n.X, n.Y)
	case *Logical:
		add(n.X, n.Y)
	case *Not:
		add(n.X)
	case *Step:
		add(n.X)
	case *Index:
		add(n.Name, n.Index)
	case *Call:
		add(n.Name)

		for _, a := range n.Args {
			add(a)
		}
	case *BuiltinCall:
		for _, a := range n.Args {
			add(a)
		}
	case *Range:
		add(n.Low, n.High)
	}

	return out
}

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. Children are visited only while f returns true.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	for _, c := range Children(n) {
		Inspect(c, f)
	}
}

// isNilNode reports whether n is a typed nil pointer.
func isNilNode(n Node) bool {
	switch n := n.(type) {
	case *Ident:
		return n == nil
	case *If:
		return n == nil
	default:
		return false
	}
}
