package interpreter

import (
	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func (i *Interpreter) evaluateAssignment(expr *ast.AssignmentExpression, env *runtime.Environment) (runtime.Value, error) {
	if op, ok := expr.Operator.BinaryOperator(); ok {
		return i.evaluateCompoundAssignment(expr, op, env)
	}
	switch expr.Operator {
	case ast.AssignmentDeclare, ast.AssignmentAssign:
	default:
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "unsupported assignment operator %s", expr.Operator)
	}
	value, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	if fn, ok := value.(*runtime.FunctionValue); ok && fn.Name == "" {
		if _, literal := expr.Value.(*ast.FunctionLiteral); literal {
			if id, named := expr.Target.(*ast.Identifier); named {
				fn.Name = id.Name
			}
		}
	}
	if err := i.assignTo(expr.Target, value, env, expr.Operator); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interpreter) evaluateCompoundAssignment(expr *ast.AssignmentExpression, op string, env *runtime.Environment) (runtime.Value, error) {
	if !isAssignable(expr.Target) {
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "invalid target for %s", expr.Operator)
	}
	current, err := i.evaluateExpression(expr.Target, env)
	if err != nil {
		return nil, err
	}
	rhs, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	updated, err := applyBinaryOperator(op, current, rhs)
	if err != nil {
		return nil, err
	}
	if err := i.assignTo(expr.Target, updated, env, ast.AssignmentAssign); err != nil {
		return nil, err
	}
	return updated, nil
}

// evaluatePostfix applies ++ or -- and yields the value held before the update.
func (i *Interpreter) evaluatePostfix(expr *ast.PostfixExpression, env *runtime.Environment) (runtime.Value, error) {
	if !isAssignable(expr.Target) {
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "invalid target for %s", expr.Operator)
	}
	current, err := i.evaluateExpression(expr.Target, env)
	if err != nil {
		return nil, err
	}
	num, ok := current.(runtime.NumberValue)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrTypeError, "cannot apply '%s' to %s", expr.Operator, runtime.TypeName(current))
	}
	var updated runtime.NumberValue
	switch expr.Operator {
	case "++":
		updated, err = runtime.NumberAdd(num, runtime.Int(1))
	case "--":
		updated, err = runtime.NumberSub(num, runtime.Int(1))
	default:
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "unsupported postfix operator %s", expr.Operator)
	}
	if err != nil {
		return nil, err
	}
	if err := i.assignTo(expr.Target, updated, env, ast.AssignmentAssign); err != nil {
		return nil, err
	}
	return num, nil
}

func isAssignable(expr ast.Expression) bool {
	switch n := expr.(type) {
	case *ast.Identifier, *ast.IndexExpression, *ast.MapAccessExpression:
		return true
	case *ast.GroupExpression:
		return isAssignable(n.Inner)
	default:
		return false
	}
}

// assignTo stores value through target. Containers are copied before they
// change and the copy is written back through the container's own target, so
// other holders of the old list or map never observe the update.
func (i *Interpreter) assignTo(target ast.Expression, value runtime.Value, env *runtime.Environment, op ast.AssignmentOperator) error {
	switch t := target.(type) {
	case *ast.Identifier:
		if t.Name == "_" {
			return nil
		}
		if op == ast.AssignmentDeclare {
			env.Define(t.Name, value)
			return nil
		}
		env.SetExisting(t.Name, value)
		return nil
	case *ast.GroupExpression:
		return i.assignTo(t.Inner, value, env, op)
	case *ast.IndexExpression:
		container, err := i.evaluateExpression(t.Object, env)
		if err != nil {
			return err
		}
		index, err := i.evaluateExpression(t.Index, env)
		if err != nil {
			return err
		}
		updated, err := setIndex(container, index, value)
		if err != nil {
			return runtime.WithSpan(err, t.Span())
		}
		if updated == nil {
			return nil
		}
		return i.assignTo(t.Object, updated, env, ast.AssignmentAssign)
	case *ast.MapAccessExpression:
		container, err := i.evaluateUnforced(t.Object, env)
		if err != nil {
			return err
		}
		switch c := container.(type) {
		case *runtime.MapValue:
			clone := c.Clone()
			clone.SetString(t.Key, value)
			return i.assignTo(t.Object, clone, env, ast.AssignmentAssign)
		case runtime.EnvMapValue:
			envAssign(t.Key, value)
			return nil
		case runtime.ModuleValue:
			return runtime.WithSpan(runtime.Errorf(runtime.ErrInvalidOperation, "cannot assign into module '%s'", c.Path), t.Span())
		default:
			return runtime.WithSpan(runtime.Errorf(runtime.ErrTypeError, "cannot assign key '%s' on %s", t.Key, runtime.TypeName(container)), t.Span())
		}
	case *ast.TupleLiteral:
		return i.destructure(t.Elements, value, env, op, t.Span())
	case *ast.ListLiteral:
		return i.destructure(t.Elements, value, env, op, t.Span())
	default:
		return runtime.WithSpan(runtime.Errorf(runtime.ErrInvalidOperation, "invalid assignment target %s", target.NodeType()), target.Span())
	}
}

func (i *Interpreter) destructure(targets []ast.Expression, value runtime.Value, env *runtime.Environment, op ast.AssignmentOperator, span ast.Span) error {
	var elements []runtime.Value
	switch v := value.(type) {
	case runtime.TupleValue:
		elements = v.Elements
	case runtime.ListValue:
		elements = v.Elements
	default:
		return runtime.WithSpan(runtime.Errorf(runtime.ErrDestructuring, "cannot destructure %s", runtime.TypeName(value)), span)
	}
	if len(elements) != len(targets) {
		return runtime.WithSpan(runtime.Errorf(runtime.ErrDestructuring, "expected %d values to destructure, got %d", len(targets), len(elements)), span)
	}
	for idx, target := range targets {
		if err := i.assignTo(target, elements[idx], env, op); err != nil {
			return err
		}
	}
	return nil
}

// setIndex returns the replacement container, or nil when the write went
// straight to the process environment.
func setIndex(container, index, value runtime.Value) (runtime.Value, error) {
	switch c := container.(type) {
	case runtime.ListValue:
		pos, err := normalizeIndex(index, len(c.Elements))
		if err != nil {
			return nil, err
		}
		elements := append([]runtime.Value(nil), c.Elements...)
		elements[pos] = value
		return runtime.ListValue{Elements: elements}, nil
	case *runtime.MapValue:
		key, err := runtime.NewMapKey(index)
		if err != nil {
			return nil, err
		}
		clone := c.Clone()
		clone.Set(key, value)
		return clone, nil
	case runtime.EnvMapValue:
		name, ok := index.(runtime.StringValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeError, "environment variables are indexed by string, got %s", runtime.TypeName(index))
		}
		envAssign(name.Val, value)
		return nil, nil
	case runtime.TupleValue:
		return nil, runtime.Errorf(runtime.ErrTypeError, "tuples are immutable")
	case runtime.StringValue:
		return nil, runtime.Errorf(runtime.ErrTypeError, "strings are immutable")
	default:
		return nil, runtime.Errorf(runtime.ErrTypeError, "cannot index-assign into %s", runtime.TypeName(container))
	}
}

// envAssign writes through to the environment overlay; nil unsets.
func envAssign(name string, value runtime.Value) {
	if runtime.IsNil(value) {
		runtime.EnvUnset(name)
		return
	}
	runtime.EnvSet(name, runtime.Stringify(value))
}
