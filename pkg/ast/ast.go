package ast

type NodeType string

const (
	NodeIdentifier            NodeType = "Identifier"
	NodeNumberLiteral         NodeType = "NumberLiteral"
	NodeStringLiteral         NodeType = "StringLiteral"
	NodeStringTemplate        NodeType = "StringTemplate"
	NodeBooleanLiteral        NodeType = "BooleanLiteral"
	NodeNilLiteral            NodeType = "NilLiteral"
	NodeListLiteral           NodeType = "ListLiteral"
	NodeMapLiteral            NodeType = "MapLiteral"
	NodeMapLiteralEntry       NodeType = "MapLiteralEntry"
	NodeTupleLiteral          NodeType = "TupleLiteral"
	NodeRegexLiteral          NodeType = "RegexLiteral"
	NodeShellCommand          NodeType = "ShellCommand"
	NodeFunctionParameter     NodeType = "FunctionParameter"
	NodeFunctionLiteral       NodeType = "FunctionLiteral"
	NodeGroupExpression       NodeType = "GroupExpression"
	NodeUnaryExpression       NodeType = "UnaryExpression"
	NodeBinaryExpression      NodeType = "BinaryExpression"
	NodeIndexExpression       NodeType = "IndexExpression"
	NodeSliceExpression       NodeType = "SliceExpression"
	NodeMapAccessExpression   NodeType = "MapAccessExpression"
	NodeMethodCallExpression  NodeType = "MethodCallExpression"
	NodeCallExpression        NodeType = "CallExpression"
	NodeAssignmentExpression  NodeType = "AssignmentExpression"
	NodePostfixExpression     NodeType = "PostfixExpression"
	NodeMatchArm              NodeType = "MatchArm"
	NodeMatchExpression       NodeType = "MatchExpression"
	NodeReturnExpression      NodeType = "ReturnExpression"
	NodeBreakExpression       NodeType = "BreakExpression"
	NodeContinueExpression    NodeType = "ContinueExpression"
	NodeBlockExpression       NodeType = "BlockExpression"
	NodeLoopExpression        NodeType = "LoopExpression"
	NodeLoopThroughExpression NodeType = "LoopThroughExpression"
	NodeFunctionDefinition    NodeType = "FunctionDefinition"
	NodeImportStatement       NodeType = "ImportStatement"
	NodeExportStatement       NodeType = "ExportStatement"
	NodeWildcardPattern       NodeType = "WildcardPattern"
	NodeValuePattern          NodeType = "ValuePattern"
	NodeTuplePattern          NodeType = "TuplePattern"
	NodeRegexPattern          NodeType = "RegexPattern"
	NodeModule                NodeType = "Module"
)

type Node interface {
	NodeType() NodeType
	Span() Span
	isNode()
}

type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s == Span{}
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	span Span
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() Span         { return n.span }
func (nodeImpl) isNode()              {}
func (n *nodeImpl) setSpan(span Span) { n.span = span }

// Marker interfaces.

type Expression interface {
	Node
	expressionNode()
	statementNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Pattern interface {
	Node
	patternNode()
}

type patternMarker struct{}

func (patternMarker) patternNode() {}

// Identifier

type Identifier struct {
	nodeImpl
	expressionMarker
	statementMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Literals

// NumberLiteral keeps the source text so the runtime can parse it as an exact decimal.
type NumberLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewNumberLiteral(text string) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: text}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

// TemplatePart is either literal text or an interpolated expression.
type TemplatePart struct {
	Text string     `json:"text,omitempty"`
	Expr Expression `json:"expr,omitempty"`
}

type StringTemplate struct {
	nodeImpl
	expressionMarker
	statementMarker

	Parts []TemplatePart `json:"parts"`
}

func NewStringTemplate(parts []TemplatePart) *StringTemplate {
	return &StringTemplate{nodeImpl: newNodeImpl(NodeStringTemplate), Parts: parts}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NilLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker
}

func NewNilLiteral() *NilLiteral {
	return &NilLiteral{nodeImpl: newNodeImpl(NodeNilLiteral)}
}

type ListLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

type MapLiteralEntry struct {
	nodeImpl

	Key   Expression `json:"key"`
	Value Expression `json:"value"`
}

func NewMapLiteralEntry(key, value Expression) *MapLiteralEntry {
	return &MapLiteralEntry{nodeImpl: newNodeImpl(NodeMapLiteralEntry), Key: key, Value: value}
}

type MapLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Entries []*MapLiteralEntry `json:"entries"`
}

func NewMapLiteral(entries []*MapLiteralEntry) *MapLiteral {
	return &MapLiteral{nodeImpl: newNodeImpl(NodeMapLiteral), Entries: entries}
}

type TupleLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Elements []Expression `json:"elements"`
}

func NewTupleLiteral(elements []Expression) *TupleLiteral {
	return &TupleLiteral{nodeImpl: newNodeImpl(NodeTupleLiteral), Elements: elements}
}

type RegexLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Pattern string `json:"pattern"`
}

func NewRegexLiteral(pattern string) *RegexLiteral {
	return &RegexLiteral{nodeImpl: newNodeImpl(NodeRegexLiteral), Pattern: pattern}
}

// ShellCommand is a back-tick command template.
type ShellCommand struct {
	nodeImpl
	expressionMarker
	statementMarker

	Parts []TemplatePart `json:"parts"`
}

func NewShellCommand(parts []TemplatePart) *ShellCommand {
	return &ShellCommand{nodeImpl: newNodeImpl(NodeShellCommand), Parts: parts}
}

// Functions

type FunctionParameter struct {
	nodeImpl

	Name    string     `json:"name"`
	Default Expression `json:"default,omitempty"`
}

func NewFunctionParameter(name string, def Expression) *FunctionParameter {
	return &FunctionParameter{nodeImpl: newNodeImpl(NodeFunctionParameter), Name: name, Default: def}
}

type FunctionLiteral struct {
	nodeImpl
	expressionMarker
	statementMarker

	Params []*FunctionParameter `json:"params"`
	Body   Statement            `json:"body"`
}

func NewFunctionLiteral(params []*FunctionParameter, body Statement) *FunctionLiteral {
	return &FunctionLiteral{nodeImpl: newNodeImpl(NodeFunctionLiteral), Params: params, Body: body}
}

type FunctionDefinition struct {
	nodeImpl
	statementMarker

	ID     *Identifier          `json:"id"`
	Params []*FunctionParameter `json:"params"`
	Body   Statement            `json:"body"`
}

func NewFunctionDefinition(id *Identifier, params []*FunctionParameter, body Statement) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body}
}

// Operators

type GroupExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Inner Expression `json:"inner"`
}

func NewGroupExpression(inner Expression) *GroupExpression {
	return &GroupExpression{nodeImpl: newNodeImpl(NodeGroupExpression), Inner: inner}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

const (
	OpPipe       = "|"
	OpApplyRight = "|>"
	OpApplyLeft  = "<|"
)

type BinaryExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// Access

type IndexExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

type SliceExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Start  Expression `json:"start,omitempty"`
	End    Expression `json:"end,omitempty"`
}

func NewSliceExpression(object, start, end Expression) *SliceExpression {
	return &SliceExpression{nodeImpl: newNodeImpl(NodeSliceExpression), Object: object, Start: start, End: end}
}

// MapAccessExpression is the `object:key` form.
type MapAccessExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Object Expression `json:"object"`
	Key    string     `json:"key"`
}

func NewMapAccessExpression(object Expression, key string) *MapAccessExpression {
	return &MapAccessExpression{nodeImpl: newNodeImpl(NodeMapAccessExpression), Object: object, Key: key}
}

// MethodCallExpression is the `receiver::method(args)` form.
type MethodCallExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Receiver  Expression   `json:"receiver"`
	Method    string       `json:"method"`
	Arguments []Expression `json:"arguments"`
}

func NewMethodCallExpression(receiver Expression, method string, args []Expression) *MethodCallExpression {
	return &MethodCallExpression{nodeImpl: newNodeImpl(NodeMethodCallExpression), Receiver: receiver, Method: method, Arguments: args}
}

type CallExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewCallExpression(callee Expression, args []Expression) *CallExpression {
	return &CallExpression{nodeImpl: newNodeImpl(NodeCallExpression), Callee: callee, Arguments: args}
}

// Assignment

type AssignmentOperator string

const (
	AssignmentDeclare AssignmentOperator = ":="
	AssignmentAssign  AssignmentOperator = "="
	AssignmentAdd     AssignmentOperator = "+="
	AssignmentSub     AssignmentOperator = "-="
	AssignmentMul     AssignmentOperator = "*="
	AssignmentDiv     AssignmentOperator = "/="
	AssignmentMod     AssignmentOperator = "%="
)

// BinaryOperator returns the arithmetic operator behind a compound assignment.
func (op AssignmentOperator) BinaryOperator() (string, bool) {
	switch op {
	case AssignmentAdd:
		return "+", true
	case AssignmentSub:
		return "-", true
	case AssignmentMul:
		return "*", true
	case AssignmentDiv:
		return "/", true
	case AssignmentMod:
		return "%", true
	default:
		return "", false
	}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator AssignmentOperator `json:"operator"`
	Target   Expression         `json:"target"`
	Value    Expression         `json:"value"`
}

func NewAssignmentExpression(operator AssignmentOperator, target, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Operator: operator, Target: target, Value: value}
}

type PostfixExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Operator string     `json:"operator"`
	Target   Expression `json:"target"`
}

func NewPostfixExpression(operator string, target Expression) *PostfixExpression {
	return &PostfixExpression{nodeImpl: newNodeImpl(NodePostfixExpression), Operator: operator, Target: target}
}

// Control flow

type MatchArm struct {
	nodeImpl

	Pattern Pattern    `json:"pattern"`
	Body    Expression `json:"body"`
}

func NewMatchArm(pattern Pattern, body Expression) *MatchArm {
	return &MatchArm{nodeImpl: newNodeImpl(NodeMatchArm), Pattern: pattern, Body: body}
}

// MatchExpression without a Subject is the conditional form: each arm pattern is a guard.
type MatchExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Subject Expression  `json:"subject,omitempty"`
	Arms    []*MatchArm `json:"arms"`
}

func NewMatchExpression(subject Expression, arms []*MatchArm) *MatchExpression {
	return &MatchExpression{nodeImpl: newNodeImpl(NodeMatchExpression), Subject: subject, Arms: arms}
}

type ReturnExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnExpression(value Expression) *ReturnExpression {
	return &ReturnExpression{nodeImpl: newNodeImpl(NodeReturnExpression), Value: value}
}

type BreakExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Label *Identifier `json:"label,omitempty"`
	Value Expression  `json:"value,omitempty"`
}

func NewBreakExpression(label *Identifier, value Expression) *BreakExpression {
	return &BreakExpression{nodeImpl: newNodeImpl(NodeBreakExpression), Label: label, Value: value}
}

type ContinueExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Label *Identifier `json:"label,omitempty"`
}

func NewContinueExpression(label *Identifier) *ContinueExpression {
	return &ContinueExpression{nodeImpl: newNodeImpl(NodeContinueExpression), Label: label}
}

type BlockExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlockExpression(body []Statement) *BlockExpression {
	return &BlockExpression{nodeImpl: newNodeImpl(NodeBlockExpression), Body: body}
}

type LoopExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Label *Identifier      `json:"label,omitempty"`
	Body  *BlockExpression `json:"body"`
}

func NewLoopExpression(label *Identifier, body *BlockExpression) *LoopExpression {
	return &LoopExpression{nodeImpl: newNodeImpl(NodeLoopExpression), Label: label, Body: body}
}

// LoopThroughExpression iterates a collection with zero, one or two bindings.
type LoopThroughExpression struct {
	nodeImpl
	expressionMarker
	statementMarker

	Label    *Identifier      `json:"label,omitempty"`
	Iterable Expression       `json:"iterable"`
	Bindings []*Identifier    `json:"bindings,omitempty"`
	Body     *BlockExpression `json:"body"`
}

func NewLoopThroughExpression(label *Identifier, iterable Expression, bindings []*Identifier, body *BlockExpression) *LoopThroughExpression {
	return &LoopThroughExpression{nodeImpl: newNodeImpl(NodeLoopThroughExpression), Label: label, Iterable: iterable, Bindings: bindings, Body: body}
}

// Modules

// ImportStatement covers `import a/b`, `import a:item` and `import a:item as alias`.
// Item may itself be a colon separated path into nested modules.
type ImportStatement struct {
	nodeImpl
	statementMarker

	Module string      `json:"module"`
	Item   string      `json:"item,omitempty"`
	Alias  *Identifier `json:"alias,omitempty"`
}

func NewImportStatement(module, item string, alias *Identifier) *ImportStatement {
	return &ImportStatement{nodeImpl: newNodeImpl(NodeImportStatement), Module: module, Item: item, Alias: alias}
}

// ExportStatement publishes the entries of a map expression from the current module.
type ExportStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value"`
}

func NewExportStatement(value Expression) *ExportStatement {
	return &ExportStatement{nodeImpl: newNodeImpl(NodeExportStatement), Value: value}
}

// Patterns

type WildcardPattern struct {
	nodeImpl
	patternMarker
}

func NewWildcardPattern() *WildcardPattern {
	return &WildcardPattern{nodeImpl: newNodeImpl(NodeWildcardPattern)}
}

// ValuePattern compares against an evaluated expression, or acts as a guard in
// subject-less matches.
type ValuePattern struct {
	nodeImpl
	patternMarker

	Value Expression `json:"value"`
}

func NewValuePattern(value Expression) *ValuePattern {
	return &ValuePattern{nodeImpl: newNodeImpl(NodeValuePattern), Value: value}
}

type TuplePattern struct {
	nodeImpl
	patternMarker

	Elements []Pattern `json:"elements"`
}

func NewTuplePattern(elements []Pattern) *TuplePattern {
	return &TuplePattern{nodeImpl: newNodeImpl(NodeTuplePattern), Elements: elements}
}

type RegexPattern struct {
	nodeImpl
	patternMarker

	Regex *RegexLiteral `json:"regex"`
}

func NewRegexPattern(regex *RegexLiteral) *RegexPattern {
	return &RegexPattern{nodeImpl: newNodeImpl(NodeRegexPattern), Regex: regex}
}

type Module struct {
	nodeImpl

	Body []Statement `json:"body"`
}

func NewModule(body []Statement) *Module {
	return &Module{nodeImpl: newNodeImpl(NodeModule), Body: body}
}
