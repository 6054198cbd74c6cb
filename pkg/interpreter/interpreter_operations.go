package interpreter

import (
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func applyBinaryOperator(op string, left, right runtime.Value) (runtime.Value, error) {
	switch op {
	case "==":
		return runtime.Bool(runtime.ValuesEqual(left, right)), nil
	case "!=":
		return runtime.Bool(!runtime.ValuesEqual(left, right)), nil
	case "<", "<=", ">", ">=":
		cmp, err := runtime.CompareValues(op, left, right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "<":
			return runtime.Bool(cmp < 0), nil
		case "<=":
			return runtime.Bool(cmp <= 0), nil
		case ">":
			return runtime.Bool(cmp > 0), nil
		default:
			return runtime.Bool(cmp >= 0), nil
		}
	case "+":
		switch l := left.(type) {
		case runtime.StringValue:
			if r, ok := right.(runtime.StringValue); ok {
				return runtime.String(l.Val + r.Val), nil
			}
		case runtime.ListValue:
			if r, ok := right.(runtime.ListValue); ok {
				elements := make([]runtime.Value, 0, len(l.Elements)+len(r.Elements))
				elements = append(elements, l.Elements...)
				elements = append(elements, r.Elements...)
				return runtime.ListValue{Elements: elements}, nil
			}
		}
		return applyArithmetic(op, left, right)
	case "-", "*", "/", "%", "**":
		return applyArithmetic(op, left, right)
	default:
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "unsupported binary operator %s", op)
	}
}

func applyArithmetic(op string, left, right runtime.Value) (runtime.Value, error) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtime.TypeMismatch(op, left, right)
	}
	switch op {
	case "+":
		return runtime.NumberAdd(l, r)
	case "-":
		return runtime.NumberSub(l, r)
	case "*":
		return runtime.NumberMul(l, r)
	case "/":
		return runtime.NumberDiv(l, r)
	case "%":
		return runtime.NumberRem(l, r)
	case "**":
		return runtime.NumberPow(l, r)
	default:
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "unsupported arithmetic operator %s", op)
	}
}
