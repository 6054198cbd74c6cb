package interpreter

import (
	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func (i *Interpreter) evaluateIndexExpression(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	object, err = i.forceModule(object)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}
	return i.indexValue(object, index)
}

func (i *Interpreter) indexValue(object, index runtime.Value) (runtime.Value, error) {
	switch obj := object.(type) {
	case runtime.ListValue:
		pos, err := normalizeIndex(index, len(obj.Elements))
		if err != nil {
			return nil, err
		}
		return obj.Elements[pos], nil
	case runtime.TupleValue:
		pos, err := normalizeIndex(index, len(obj.Elements))
		if err != nil {
			return nil, err
		}
		return obj.Elements[pos], nil
	case runtime.StringValue:
		chars := []rune(obj.Val)
		pos, err := normalizeIndex(index, len(chars))
		if err != nil {
			return nil, err
		}
		return runtime.String(string(chars[pos])), nil
	case *runtime.MapValue:
		key, err := runtime.NewMapKey(index)
		if err != nil {
			return nil, err
		}
		val, ok := obj.Get(key)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrKeyNotFound, "key %s not found in map", runtime.Inspect(index))
		}
		return i.forceModule(val)
	case runtime.EnvMapValue:
		name, ok := index.(runtime.StringValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrTypeError, "environment variables are indexed by string, got %s", runtime.TypeName(index))
		}
		return envLookup(name.Val), nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeError, "cannot index into %s", runtime.TypeName(object))
	}
}

func envLookup(name string) runtime.Value {
	if val, ok := runtime.EnvGet(name); ok {
		return runtime.String(val)
	}
	return runtime.Nil
}

// normalizeIndex maps a possibly negative index onto [0, length).
func normalizeIndex(index runtime.Value, length int) (int, error) {
	num, ok := index.(runtime.NumberValue)
	if !ok {
		return 0, runtime.Errorf(runtime.ErrTypeError, "index must be a number, got %s", runtime.TypeName(index))
	}
	if !num.IsInteger() {
		return 0, runtime.Errorf(runtime.ErrTypeError, "index must be an integer, got %s", num.String())
	}
	n, ok := num.Int64()
	if !ok {
		// Integral but beyond int64: no sequence is that long.
		return 0, runtime.Errorf(runtime.ErrIndexOutOfBounds, "index %s out of bounds for length %d", num.String(), length)
	}
	pos := n
	if pos < 0 {
		pos += int64(length)
	}
	if pos < 0 || pos >= int64(length) {
		return 0, runtime.Errorf(runtime.ErrIndexOutOfBounds, "index %d out of bounds for length %d", n, length)
	}
	return int(pos), nil
}

func (i *Interpreter) evaluateSliceExpression(expr *ast.SliceExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	var length int
	switch obj := object.(type) {
	case runtime.ListValue:
		length = len(obj.Elements)
	case runtime.TupleValue:
		length = len(obj.Elements)
	case runtime.StringValue:
		length = len([]rune(obj.Val))
	default:
		return nil, runtime.Errorf(runtime.ErrTypeError, "cannot slice %s", runtime.TypeName(object))
	}
	start, err := i.sliceBound(expr.Start, env, length, 0)
	if err != nil {
		return nil, err
	}
	end, err := i.sliceBound(expr.End, env, length, length)
	if err != nil {
		return nil, err
	}
	if start > end {
		end = start
	}
	switch obj := object.(type) {
	case runtime.ListValue:
		return runtime.ListValue{Elements: append([]runtime.Value(nil), obj.Elements[start:end]...)}, nil
	case runtime.TupleValue:
		return runtime.TupleValue{Elements: append([]runtime.Value(nil), obj.Elements[start:end]...)}, nil
	default:
		chars := []rune(object.(runtime.StringValue).Val)
		return runtime.String(string(chars[start:end])), nil
	}
}

// sliceBound evaluates an optional bound, wrapping negatives and clamping to [0, length].
func (i *Interpreter) sliceBound(expr ast.Expression, env *runtime.Environment, length, fallback int) (int, error) {
	if expr == nil {
		return fallback, nil
	}
	val, err := i.evaluateExpression(expr, env)
	if err != nil {
		return 0, err
	}
	num, ok := val.(runtime.NumberValue)
	if !ok {
		return 0, runtime.WithSpan(runtime.Errorf(runtime.ErrTypeError, "slice bound must be a number, got %s", runtime.TypeName(val)), expr.Span())
	}
	if !num.IsInteger() {
		return 0, runtime.WithSpan(runtime.Errorf(runtime.ErrTypeError, "slice bound must be an integer, got %s", num.String()), expr.Span())
	}
	n, ok := num.Int64()
	if !ok {
		if num.Sign() < 0 {
			return 0, nil
		}
		return length, nil
	}
	if n < 0 {
		n += int64(length)
	}
	if n < 0 {
		n = 0
	}
	if n > int64(length) {
		n = int64(length)
	}
	return int(n), nil
}

func (i *Interpreter) evaluateMapAccess(expr *ast.MapAccessExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	object, err = i.forceModule(object)
	if err != nil {
		return nil, err
	}
	switch obj := object.(type) {
	case *runtime.MapValue:
		val, ok := obj.GetString(expr.Key)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrKeyNotFound, "key '%s' not found in map", expr.Key)
		}
		return i.forceModule(val)
	case runtime.EnvMapValue:
		return envLookup(expr.Key), nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeError, "cannot access key '%s' on %s", expr.Key, runtime.TypeName(object))
	}
}

func (i *Interpreter) evaluateMethodCall(expr *ast.MethodCallExpression, env *runtime.Environment) (runtime.Value, error) {
	raw, err := i.evaluateUnforced(expr.Receiver, env)
	if err != nil {
		return nil, err
	}
	receiver, err := i.forceModule(raw)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateExpressions(expr.Arguments, env)
	if err != nil {
		return nil, err
	}
	// Function entries of maps and modules shadow the builtin method table.
	if m, isMap := receiver.(*runtime.MapValue); isMap {
		if member, found := m.GetString(expr.Method); found {
			if fn, isFn := member.(*runtime.FunctionValue); isFn {
				return i.callFunction(fn, args, env, nil)
			}
		}
	}
	method, ok := i.methods[receiver.Kind()][expr.Method]
	if !ok {
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "%s has no method '%s'", runtime.TypeName(receiver), expr.Method)
	}
	result, updated, err := method(i.nativeContext(env), receiver, args)
	if err != nil {
		return nil, err
	}
	if updated != nil && isAssignable(expr.Receiver) {
		if _, wasModule := raw.(runtime.ModuleValue); !wasModule {
			if err := i.assignTo(expr.Receiver, updated, env, ast.AssignmentAssign); err != nil {
				return nil, err
			}
		}
	}
	if result == nil {
		return runtime.Nil, nil
	}
	return result, nil
}

func (i *Interpreter) evaluateCallExpression(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	callee, err := i.evaluateExpression(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateExpressions(expr.Arguments, env)
	if err != nil {
		return nil, err
	}
	return i.callFunction(callee, args, env, nil)
}

// evaluateUnforced is evaluateExpression except that an identifier bound to a
// module handle yields the handle itself, so callers can refuse to rebind it.
func (i *Interpreter) evaluateUnforced(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	if id, ok := expr.(*ast.Identifier); ok {
		val, err := env.Get(id.Name)
		if err != nil {
			return nil, runtime.WithSpan(err, id.Span())
		}
		return val, nil
	}
	return i.evaluateExpression(expr, env)
}
