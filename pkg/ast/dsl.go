package ast

import "strconv"

// Identifier and literal helpers.

func ID(name string) *Identifier {
	return NewIdentifier(name)
}

func Num(text string) *NumberLiteral {
	return NewNumberLiteral(text)
}

func Int(value int64) *NumberLiteral {
	return NewNumberLiteral(strconv.FormatInt(value, 10))
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Nil() *NilLiteral {
	return NewNilLiteral()
}

func List(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

func Tuple(elements ...Expression) *TupleLiteral {
	return NewTupleLiteral(elements)
}

func MapLit(entries ...*MapLiteralEntry) *MapLiteral {
	return NewMapLiteral(entries)
}

func Entry(key, value Expression) *MapLiteralEntry {
	return NewMapLiteralEntry(key, value)
}

func Re(pattern string) *RegexLiteral {
	return NewRegexLiteral(pattern)
}

// Template helpers.

func Text(text string) TemplatePart {
	return TemplatePart{Text: text}
}

func Interp(expr Expression) TemplatePart {
	return TemplatePart{Expr: expr}
}

func Tmpl(parts ...TemplatePart) *StringTemplate {
	return NewStringTemplate(parts)
}

func Sh(parts ...TemplatePart) *ShellCommand {
	return NewShellCommand(parts)
}

// Function helpers.

func Param(name string) *FunctionParameter {
	return NewFunctionParameter(name, nil)
}

func ParamDefault(name string, def Expression) *FunctionParameter {
	return NewFunctionParameter(name, def)
}

func Params(names ...string) []*FunctionParameter {
	out := make([]*FunctionParameter, 0, len(names))
	for _, name := range names {
		out = append(out, Param(name))
	}
	return out
}

func Fn(params []*FunctionParameter, body Statement) *FunctionLiteral {
	return NewFunctionLiteral(params, body)
}

func FnDef(name string, params []*FunctionParameter, body Statement) *FunctionDefinition {
	return NewFunctionDefinition(ID(name), params, body)
}

func Call(callee string, args ...Expression) *CallExpression {
	return NewCallExpression(ID(callee), args)
}

func CallExpr(callee Expression, args ...Expression) *CallExpression {
	return NewCallExpression(callee, args)
}

func Method(receiver Expression, name string, args ...Expression) *MethodCallExpression {
	return NewMethodCallExpression(receiver, name, args)
}

// Operator helpers.

func Group(inner Expression) *GroupExpression {
	return NewGroupExpression(inner)
}

func Un(op string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Bin(op string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

// Pipe folds stages into left-associative `|` nodes.
func Pipe(first Expression, rest ...Expression) Expression {
	out := first
	for _, stage := range rest {
		out = NewBinaryExpression(OpPipe, out, stage)
	}
	return out
}

func Index(object, index Expression) *IndexExpression {
	return NewIndexExpression(object, index)
}

func Slice(object, start, end Expression) *SliceExpression {
	return NewSliceExpression(object, start, end)
}

func Access(object Expression, key string) *MapAccessExpression {
	return NewMapAccessExpression(object, key)
}

// Assignment helpers.

func Assign(target Expression, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(AssignmentDeclare, target, value)
}

func Set(target Expression, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(AssignmentAssign, target, value)
}

func AssignOp(op AssignmentOperator, target, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(op, target, value)
}

func Inc(target Expression) *PostfixExpression {
	return NewPostfixExpression("++", target)
}

func Dec(target Expression) *PostfixExpression {
	return NewPostfixExpression("--", target)
}

// Control flow helpers.

func Block(stmts ...Statement) *BlockExpression {
	return NewBlockExpression(stmts)
}

func Match(subject Expression, arms ...*MatchArm) *MatchExpression {
	return NewMatchExpression(subject, arms)
}

func Arm(pattern Pattern, body Expression) *MatchArm {
	return NewMatchArm(pattern, body)
}

func Ret(value Expression) *ReturnExpression {
	return NewReturnExpression(value)
}

func Brk(label string, value Expression) *BreakExpression {
	return NewBreakExpression(optionalID(label), value)
}

func Cont(label string) *ContinueExpression {
	return NewContinueExpression(optionalID(label))
}

func Loop(label string, stmts ...Statement) *LoopExpression {
	return NewLoopExpression(optionalID(label), Block(stmts...))
}

func Through(label string, iterable Expression, bindings []string, stmts ...Statement) *LoopThroughExpression {
	ids := make([]*Identifier, 0, len(bindings))
	for _, name := range bindings {
		ids = append(ids, ID(name))
	}
	return NewLoopThroughExpression(optionalID(label), iterable, ids, Block(stmts...))
}

// Module helpers.

func Import(module string) *ImportStatement {
	return NewImportStatement(module, "", nil)
}

func ImportItem(module, item, alias string) *ImportStatement {
	return NewImportStatement(module, item, optionalID(alias))
}

func Export(value Expression) *ExportStatement {
	return NewExportStatement(value)
}

// Pattern helpers.

func Wild() *WildcardPattern {
	return NewWildcardPattern()
}

func Val(value Expression) *ValuePattern {
	return NewValuePattern(value)
}

func TuplePat(elements ...Pattern) *TuplePattern {
	return NewTuplePattern(elements)
}

func RePat(pattern string) *RegexPattern {
	return NewRegexPattern(Re(pattern))
}

func Mod(stmts ...Statement) *Module {
	return NewModule(stmts)
}

func optionalID(name string) *Identifier {
	if name == "" {
		return nil
	}
	return ID(name)
}
