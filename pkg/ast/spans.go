package ast

import "fmt"

// SetSpan annotates the node with the provided span.
func SetSpan(node Node, span Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(Span) }); ok {
		setter.setSpan(span)
	}
}

// WithSpan sets the span and returns the node, for use in builder chains.
func WithSpan[T Node](node T, startLine, startCol, endLine, endCol int) T {
	SetSpan(node, Span{
		Start: Position{Line: startLine, Column: startCol},
		End:   Position{Line: endLine, Column: endCol},
	})
	return node
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func (s Span) String() string {
	if s.IsZero() {
		return "<unknown>"
	}
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
