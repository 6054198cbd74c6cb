package interpreter

import (
	"strings"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// evaluateExpression evaluates expr and annotates any genuine error with the
// node's span.
func (i *Interpreter) evaluateExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.dispatchExpression(expr, env)
	if err != nil {
		return nil, runtime.WithSpan(err, expr.Span())
	}
	return val, nil
}

func (i *Interpreter) dispatchExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := expr.(type) {
	case *ast.NumberLiteral:
		return runtime.ParseNumber(n.Value)
	case *ast.StringLiteral:
		return runtime.String(n.Value), nil
	case *ast.StringTemplate:
		text, err := i.renderTemplate(n.Parts, env)
		if err != nil {
			return nil, err
		}
		return runtime.String(text), nil
	case *ast.BooleanLiteral:
		return runtime.Bool(n.Value), nil
	case *ast.NilLiteral:
		return runtime.Nil, nil
	case *ast.ListLiteral:
		elements, err := i.evaluateExpressions(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return runtime.ListValue{Elements: elements}, nil
	case *ast.TupleLiteral:
		elements, err := i.evaluateExpressions(n.Elements, env)
		if err != nil {
			return nil, err
		}
		return runtime.TupleValue{Elements: elements}, nil
	case *ast.MapLiteral:
		return i.evaluateMapLiteral(n, env)
	case *ast.RegexLiteral:
		return runtime.CompileRegex(n.Pattern)
	case *ast.ShellCommand:
		return i.evaluateShellExpression(n, env)
	case *ast.Identifier:
		val, err := env.Get(n.Name)
		if err != nil {
			return nil, err
		}
		return i.forceModule(val)
	case *ast.FunctionLiteral:
		return &runtime.FunctionValue{Params: n.Params, Body: n.Body, Closure: env}, nil
	case *ast.GroupExpression:
		return i.evaluateExpression(n.Inner, env)
	case *ast.UnaryExpression:
		return i.evaluateUnaryExpression(n, env)
	case *ast.BinaryExpression:
		return i.evaluateBinaryExpression(n, env)
	case *ast.IndexExpression:
		return i.evaluateIndexExpression(n, env)
	case *ast.SliceExpression:
		return i.evaluateSliceExpression(n, env)
	case *ast.MapAccessExpression:
		return i.evaluateMapAccess(n, env)
	case *ast.MethodCallExpression:
		return i.evaluateMethodCall(n, env)
	case *ast.CallExpression:
		return i.evaluateCallExpression(n, env)
	case *ast.AssignmentExpression:
		return i.evaluateAssignment(n, env)
	case *ast.PostfixExpression:
		return i.evaluatePostfix(n, env)
	case *ast.MatchExpression:
		return i.evaluateMatchExpression(n, env)
	case *ast.ReturnExpression:
		return i.evaluateReturn(n, env)
	case *ast.BreakExpression:
		return i.evaluateBreak(n, env)
	case *ast.ContinueExpression:
		return i.evaluateContinue(n, env)
	case *ast.BlockExpression:
		return i.evaluateBlock(n, env)
	case *ast.LoopExpression:
		return i.evaluateLoopExpression(n, env)
	case *ast.LoopThroughExpression:
		return i.evaluateLoopThrough(n, env)
	default:
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "unsupported expression type: %s", expr.NodeType())
	}
}

func (i *Interpreter) evaluateExpressions(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	out := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := i.evaluateExpression(expr, env)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func (i *Interpreter) renderTemplate(parts []ast.TemplatePart, env *runtime.Environment) (string, error) {
	var b strings.Builder
	for _, part := range parts {
		if part.Expr == nil {
			b.WriteString(part.Text)
			continue
		}
		val, err := i.evaluateExpression(part.Expr, env)
		if err != nil {
			return "", err
		}
		b.WriteString(runtime.Stringify(val))
	}
	return b.String(), nil
}

func (i *Interpreter) evaluateMapLiteral(lit *ast.MapLiteral, env *runtime.Environment) (runtime.Value, error) {
	out := runtime.NewMap()
	for _, entry := range lit.Entries {
		keyVal, err := i.evaluateExpression(entry.Key, env)
		if err != nil {
			return nil, err
		}
		key, err := runtime.NewMapKey(keyVal)
		if err != nil {
			return nil, runtime.WithSpan(err, entry.Key.Span())
		}
		val, err := i.evaluateExpression(entry.Value, env)
		if err != nil {
			return nil, err
		}
		out.Set(key, val)
	}
	return out, nil
}

func (i *Interpreter) evaluateUnaryExpression(expr *ast.UnaryExpression, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case "-":
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeError, "cannot negate %s", runtime.TypeName(operand))
		}
		return runtime.NumberNeg(num), nil
	case "!":
		b, ok := operand.(runtime.BoolValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeError, "cannot apply '!' to %s", runtime.TypeName(operand))
		}
		return runtime.Bool(!b.Val), nil
	default:
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "unsupported unary operator %s", expr.Operator)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	switch expr.Operator {
	case "&&", "||":
		return i.evaluateLogical(expr, env)
	case ast.OpPipe:
		return i.evaluatePipe(expr, env)
	case ast.OpApplyRight, ast.OpApplyLeft:
		return i.evaluatePipeApply(expr, env)
	}
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	return applyBinaryOperator(expr.Operator, left, right)
}

func (i *Interpreter) evaluateLogical(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(runtime.BoolValue)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrTypeError, "left operand of '%s' must be boolean, got %s", expr.Operator, runtime.TypeName(left))
	}
	if expr.Operator == "&&" && !lb.Val {
		return lb, nil
	}
	if expr.Operator == "||" && lb.Val {
		return lb, nil
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(runtime.BoolValue)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrTypeError, "right operand of '%s' must be boolean, got %s", expr.Operator, runtime.TypeName(right))
	}
	return rb, nil
}
