package ir

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// MarshalJSON implements json.Marshaler for Module.
func (m *Module) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToMap())
}

// ToMap converts the module to native Go maps and slices. Every node
// becomes a map whose "kind" key names its type.
func (m *Module) ToMap() map[string]any {
	return ToNative(m).(map[string]any)
}

// FormatJSON writes the module as JSON to the writer.
func (m *Module) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(m, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(m)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the module as YAML to the writer.
func (m *Module) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, m.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// ToNative converts any IR node to its map form.
func ToNative(n Node) any {
	switch n := n.(type) {
	case *Module:
		return node("Module", "body", stmts(n.Body))
	case *Assign:
		return node("Assign", "target", ToNative(n.Target), "value", ToNative(n.Value))
	case *AugAssign:
		return node("AugAssign", "target", ToNative(n.Target), "op", n.Op.String(), "value", ToNative(n.Value))
	case *ExprStmt:
		return node("Expr", "value", ToNative(n.Value))
	case *If:
		return node("If", "test", ToNative(n.Test), "body", stmts(n.Body), "else", stmts(n.Else))
	case *While:
		return node("While", "test", ToNative(n.Test), "body", stmts(n.Body))
	case *For:
		return node("For", "target", ToNative(n.Target), "iter", ToNative(n.Iter), "body", stmts(n.Body))
	case *FunctionDef:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = p
		}

		return node("FunctionDef", "name", n.Name, "params", params, "body", stmts(n.Body))
	case *Return:
		return node("Return", "value", ToNative(n.Value))
	case *BinOp:
		return node("BinOp", "left", ToNative(n.Left), "op", n.Op.String(), "right", ToNative(n.Right))
	case *UnaryOp:
		return node("UnaryOp", "op", n.Op.String(), "operand", ToNative(n.Operand))
	case *BoolOp:
		return node("BoolOp", "op", n.Op.String(), "values", exprs(n.Values))
	case *Compare:
		return node("Compare", "left", ToNative(n.Left), "op", n.Op.String(), "right", ToNative(n.Right))
	case *Call:
		return node("Call", "func", n.Func, "args", exprs(n.Args))
	case *List:
		return node("List", "elts", exprs(n.Elts))
	case *Subscript:
		return node("Subscript", "value", ToNative(n.Value), "index", ToNative(n.Index), "ctx", n.Ctx.String())
	case *Name:
		return node("Name", "id", n.ID, "ctx", n.Ctx.String())
	case *Constant:
		return node("Constant", "value", n.Value)
	default:
		return nil
	}
}

// node builds a map from a kind and alternating keys and values.
func node(kind string, kv ...any) map[string]any {
	m := map[string]any{"kind": kind}

	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}

	return m
}

func stmts(list []Stmt) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = ToNative(s)
	}

	return out
}

func exprs(list []Expr) []any {
	out := make([]any, len(list))
	for i, x := range list {
		out[i] = ToNative(x)
	}

	return out
}
