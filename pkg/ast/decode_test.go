package ast

import "testing"

const sampleJSON = `{
  "type": "Module",
  "body": [
    {
      "type": "AssignmentExpression",
      "operator": ":=",
      "target": {"type": "Identifier", "name": "x"},
      "value": {"type": "NumberLiteral", "value": 0.1, "span": {"start": {"line": 1, "column": 6}, "end": {"line": 1, "column": 9}}},
      "span": {"start": {"line": 1, "column": 1}, "end": {"line": 1, "column": 9}}
    },
    {
      "type": "LoopExpression",
      "label": "outer",
      "body": {"type": "BlockExpression", "body": [
        {"type": "BreakExpression", "label": {"type": "Identifier", "name": "outer"}}
      ]}
    },
    {
      "type": "MatchExpression",
      "arms": [
        {"pattern": {"type": "ValuePattern", "value": {"type": "BooleanLiteral", "value": true}},
         "body": {"type": "StringTemplate", "parts": ["x is ", {"expr": {"type": "Identifier", "name": "x"}}]}},
        {"pattern": {"type": "WildcardPattern"}, "body": {"type": "NilLiteral"}}
      ]
    },
    {"type": "ImportStatement", "module": "std", "item": "json", "alias": "j"}
  ]
}`

func TestParseJSONDecodesModule(t *testing.T) {
	mod, err := ParseJSON([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if len(mod.Body) != 4 {
		t.Fatalf("expected 4 statements, got %d", len(mod.Body))
	}
	assign, ok := mod.Body[0].(*AssignmentExpression)
	if !ok || assign.Operator != AssignmentDeclare {
		t.Fatalf("expected declaration, got %#v", mod.Body[0])
	}
	num, ok := assign.Value.(*NumberLiteral)
	if !ok || num.Value != "0.1" {
		t.Fatalf("expected exact number text 0.1, got %#v", assign.Value)
	}
	if got := num.Span().Start; got.Line != 1 || got.Column != 6 {
		t.Fatalf("unexpected number span %v", num.Span())
	}
	loop, ok := mod.Body[1].(*LoopExpression)
	if !ok || loop.Label == nil || loop.Label.Name != "outer" {
		t.Fatalf("expected labeled loop, got %#v", mod.Body[1])
	}
	brk, ok := loop.Body.Body[0].(*BreakExpression)
	if !ok || brk.Label == nil || brk.Label.Name != "outer" {
		t.Fatalf("expected labeled break, got %#v", loop.Body.Body[0])
	}
	match, ok := mod.Body[2].(*MatchExpression)
	if !ok || match.Subject != nil || len(match.Arms) != 2 {
		t.Fatalf("expected subject-less match with two arms, got %#v", mod.Body[2])
	}
	tmpl, ok := match.Arms[0].Body.(*StringTemplate)
	if !ok || len(tmpl.Parts) != 2 || tmpl.Parts[0].Text != "x is " || tmpl.Parts[1].Expr == nil {
		t.Fatalf("unexpected template %#v", match.Arms[0].Body)
	}
	imp, ok := mod.Body[3].(*ImportStatement)
	if !ok || imp.Module != "std" || imp.Item != "json" || imp.Alias == nil || imp.Alias.Name != "j" {
		t.Fatalf("unexpected import %#v", mod.Body[3])
	}
}

func TestParseYAMLDecodesModule(t *testing.T) {
	src := `
type: Module
body:
  - type: FunctionDefinition
    id: double
    params: [x]
    body:
      type: BinaryExpression
      operator: "*"
      left: {type: Identifier, name: x}
      right: {type: NumberLiteral, value: "2"}
  - type: BinaryExpression
    operator: "|"
    left:
      type: CallExpression
      callee: {type: Identifier, name: double}
      arguments: [{type: NumberLiteral, value: 3}]
    right: {type: Identifier, name: inc}
`
	mod, err := ParseYAML([]byte(src))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	def, ok := mod.Body[0].(*FunctionDefinition)
	if !ok || def.ID.Name != "double" || len(def.Params) != 1 || def.Params[0].Name != "x" {
		t.Fatalf("unexpected definition %#v", mod.Body[0])
	}
	pipe, ok := mod.Body[1].(*BinaryExpression)
	if !ok || pipe.Operator != OpPipe {
		t.Fatalf("expected pipe, got %#v", mod.Body[1])
	}
	call := pipe.Left.(*CallExpression)
	if lit := call.Arguments[0].(*NumberLiteral); lit.Value != "3" {
		t.Fatalf("expected argument 3, got %q", lit.Value)
	}
}

func TestDecodeRejectsUnknownNode(t *testing.T) {
	_, err := ParseJSON([]byte(`{"type": "Module", "body": [{"type": "Spaceship"}]}`))
	if err == nil {
		t.Fatalf("expected error for unknown node type")
	}
}

func TestPipeBuilderIsLeftAssociative(t *testing.T) {
	expr := Pipe(Call("a"), ID("b"), ID("c"))
	outer, ok := expr.(*BinaryExpression)
	if !ok || outer.Operator != OpPipe {
		t.Fatalf("expected pipe node, got %#v", expr)
	}
	if id, ok := outer.Right.(*Identifier); !ok || id.Name != "c" {
		t.Fatalf("expected last stage c, got %#v", outer.Right)
	}
	if _, ok := outer.Left.(*BinaryExpression); !ok {
		t.Fatalf("expected nested pipe on the left, got %#v", outer.Left)
	}
}

func TestWithSpanSetsPositions(t *testing.T) {
	id := WithSpan(ID("x"), 2, 3, 2, 4)
	if id.Span().Start.Line != 2 || id.Span().End.Column != 4 {
		t.Fatalf("unexpected span %v", id.Span())
	}
	if !(Span{}).IsZero() || id.Span().IsZero() {
		t.Fatalf("IsZero mismatch")
	}
	if got := id.Span().String(); got != "2:3-2:4" {
		t.Fatalf("unexpected span string %q", got)
	}
}
