package interpreter

import (
	"fmt"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// Diagnostic is the renderable form of an error that escaped evaluation.
type Diagnostic struct {
	Kind    runtime.ErrorKind
	Message string
	Span    ast.Span
	HasSpan bool
}

func (d Diagnostic) String() string {
	prefix := d.Kind.String()
	if d.HasSpan {
		return fmt.Sprintf("%s at %s: %s", prefix, d.Span, d.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, d.Message)
}

// DescribeError extracts kind, message and location from err.
func DescribeError(err error) Diagnostic {
	span, ok := runtime.SpanOf(err)
	return Diagnostic{
		Kind:    runtime.KindOf(err),
		Message: runtime.MessageOf(err),
		Span:    span,
		HasSpan: ok,
	}
}
