package check

import (
	"fmt"
	"log/slog"

	"github.com/ardnew/fala/lang"
)

// Kind classifies a [Diagnostic].
type Kind int

const (
	// UndefinedName is a reference to a name with no active binding.
	UndefinedName Kind = iota + 1
	// TypeConflict is an assignment whose value type differs from the type
	// already bound to the name.
	TypeConflict
	// UnsupportedOperation is an operator applied to an operand type outside
	// its supported set.
	UnsupportedOperation
	// UnsupportedCondition is a conditional or loop test that is not bool.
	UnsupportedCondition
)

var kindNames = map[Kind]string{
	UndefinedName:        "undefined-name",
	TypeConflict:         "type-conflict",
	UnsupportedOperation: "unsupported-operation",
	UnsupportedCondition: "unsupported-condition",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic is one non-fatal semantic violation.
type Diagnostic struct {
	Kind    Kind
	Pos     lang.Position
	Message string

	// Suggestion is the closest visible name for an UndefinedName
	// diagnostic, if any.
	Suggestion string
}

// Error returns the message prefixed by its source position.
func (d Diagnostic) Error() string {
	if !d.Pos.IsValid() {
		return d.Message
	}

	return fmt.Sprintf("line %d, column %d: %s", d.Pos.Line, d.Pos.Column, d.Message)
}

// LogValue implements slog.LogValuer.
func (d Diagnostic) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", d.Kind.String()),
		slog.String("pos", d.Pos.String()),
		slog.String("message", d.Message),
	}

	if d.Suggestion != "" {
		attrs = append(attrs, slog.String("suggestion", d.Suggestion))
	}

	return slog.GroupValue(attrs...)
}

func undefined(pos lang.Position, name string) Diagnostic {
	return Diagnostic{
		Kind:    UndefinedName,
		Pos:     pos,
		Message: name + " is undefined",
	}
}

func conflict(pos lang.Position, have, want lang.Type) Diagnostic {
	return Diagnostic{
		Kind:    TypeConflict,
		Pos:     pos,
		Message: fmt.Sprintf("assignment has a type conflict: %s - %s", have, want),
	}
}

func unsupported(pos lang.Position, op fmt.Stringer, t lang.Type) Diagnostic {
	return Diagnostic{
		Kind:    UnsupportedOperation,
		Pos:     pos,
		Message: fmt.Sprintf("operation %s does not support type %s", op, t),
	}
}

func badCondition(pos lang.Position, t lang.Type) Diagnostic {
	return Diagnostic{
		Kind:    UnsupportedCondition,
		Pos:     pos,
		Message: fmt.Sprintf("condition does not accept type %s", t),
	}
}
