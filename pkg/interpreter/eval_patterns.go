package interpreter

import (
	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// evaluateMatchExpression runs the first arm whose pattern accepts the subject.
// Without a subject each arm pattern is a boolean guard. No arm yields nil.
func (i *Interpreter) evaluateMatchExpression(expr *ast.MatchExpression, env *runtime.Environment) (runtime.Value, error) {
	if expr.Subject == nil {
		return i.evaluateConditionalMatch(expr, env)
	}
	subject, err := i.evaluateExpression(expr.Subject, env)
	if err != nil {
		return nil, err
	}
	for _, arm := range expr.Arms {
		ok, err := i.matchPattern(arm.Pattern, subject, env)
		if err != nil {
			return nil, runtime.WithSpan(err, arm.Span())
		}
		if ok {
			return i.evaluateArm(arm, env)
		}
	}
	return runtime.Nil, nil
}

func (i *Interpreter) evaluateConditionalMatch(expr *ast.MatchExpression, env *runtime.Environment) (runtime.Value, error) {
	for _, arm := range expr.Arms {
		switch p := arm.Pattern.(type) {
		case *ast.WildcardPattern:
			return i.evaluateArm(arm, env)
		case *ast.ValuePattern:
			guard, err := i.evaluateExpression(p.Value, env)
			if err != nil {
				return nil, err
			}
			b, ok := guard.(runtime.BoolValue)
			if !ok {
				return nil, runtime.WithSpan(runtime.Errorf(runtime.ErrTypeError, "match condition must be boolean, got %s", runtime.TypeName(guard)), p.Span())
			}
			if b.Val {
				return i.evaluateArm(arm, env)
			}
		default:
			return nil, runtime.WithSpan(runtime.Errorf(runtime.ErrInvalidOperation, "%s needs a match subject", arm.Pattern.NodeType()), arm.Span())
		}
	}
	return runtime.Nil, nil
}

func (i *Interpreter) evaluateArm(arm *ast.MatchArm, env *runtime.Environment) (runtime.Value, error) {
	if arm.Body == nil {
		return runtime.Nil, nil
	}
	return i.evaluateExpression(arm.Body, env)
}

func (i *Interpreter) matchPattern(pattern ast.Pattern, subject runtime.Value, env *runtime.Environment) (bool, error) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.ValuePattern:
		val, err := i.evaluateExpression(p.Value, env)
		if err != nil {
			return false, err
		}
		return runtime.ValuesEqual(val, subject), nil
	case *ast.TuplePattern:
		tuple, ok := subject.(runtime.TupleValue)
		if !ok || len(tuple.Elements) != len(p.Elements) {
			return false, nil
		}
		for idx, el := range p.Elements {
			matched, err := i.matchPattern(el, tuple.Elements[idx], env)
			if err != nil || !matched {
				return false, err
			}
		}
		return true, nil
	case *ast.RegexPattern:
		str, ok := subject.(runtime.StringValue)
		if !ok || p.Regex == nil {
			return false, nil
		}
		re, err := runtime.CompileRegex(p.Regex.Pattern)
		if err != nil {
			return false, err
		}
		return re.Re.MatchString(str.Val), nil
	default:
		return false, runtime.Errorf(runtime.ErrInvalidOperation, "unsupported pattern type: %s", pattern.NodeType())
	}
}
