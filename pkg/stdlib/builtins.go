package stdlib

import (
	"strings"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func coreBuiltins() map[string]runtime.NativeFunc {
	return map[string]runtime.NativeFunc{
		"print": func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.Nil, ctx.IO.Stdout.Write(joinArgs(args))
		},
		"println": func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.Nil, ctx.IO.Stdout.Write(joinArgs(args) + "\n")
		},
		"eprintln": func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			return runtime.Nil, ctx.IO.Stderr.Write(joinArgs(args) + "\n")
		},
		"len": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("len", args, 1, 1); err != nil {
				return nil, err
			}
			n, err := lengthOf("len", args[0])
			if err != nil {
				return nil, err
			}
			return runtime.Int(int64(n)), nil
		},
		"str": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("str", args, 1, 1); err != nil {
				return nil, err
			}
			return runtime.String(runtime.Stringify(args[0])), nil
		},
		"num": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("num", args, 1, 1); err != nil {
				return nil, err
			}
			switch v := args[0].(type) {
			case runtime.NumberValue:
				return v, nil
			case runtime.StringValue:
				return runtime.ParseNumber(strings.TrimSpace(v.Val))
			case runtime.BoolValue:
				if v.Val {
					return runtime.Int(1), nil
				}
				return runtime.Int(0), nil
			default:
				return nil, argTypeError("num", 0, "a string, number or boolean", args[0])
			}
		},
		"type_of": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("type_of", args, 1, 1); err != nil {
				return nil, err
			}
			return runtime.String(runtime.TypeName(args[0])), nil
		},
		"range": rangeBuiltin,
		"exit": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("exit", args, 0, 1); err != nil {
				return nil, err
			}
			code := int64(0)
			if len(args) == 1 {
				var err error
				if code, err = intArg("exit", args, 0); err != nil {
					return nil, err
				}
			}
			return nil, runtime.ExitError{Code: int(code)}
		},
	}
}

func joinArgs(args []runtime.Value) string {
	parts := make([]string, len(args))
	for idx, arg := range args {
		parts[idx] = runtime.Stringify(arg)
	}
	return strings.Join(parts, " ")
}

func lengthOf(name string, v runtime.Value) (int, error) {
	switch val := v.(type) {
	case runtime.StringValue:
		return len([]rune(val.Val)), nil
	case runtime.ListValue:
		return len(val.Elements), nil
	case runtime.TupleValue:
		return len(val.Elements), nil
	case *runtime.MapValue:
		return val.Len(), nil
	default:
		return 0, runtime.Errorf(runtime.ErrTypeError, "%s: %s has no length", name, runtime.TypeName(v))
	}
}

// rangeBuiltin returns the half open integer list [start, end) by step.
func rangeBuiltin(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
	if err := arity("range", args, 1, 3); err != nil {
		return nil, err
	}
	bounds := make([]int64, len(args))
	for idx := range args {
		v, err := intArg("range", args, idx)
		if err != nil {
			return nil, err
		}
		bounds[idx] = v
	}
	start, end, step := int64(0), bounds[0], int64(1)
	if len(bounds) >= 2 {
		start, end = bounds[0], bounds[1]
	}
	if len(bounds) == 3 {
		step = bounds[2]
	}
	if step == 0 {
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "range step must not be zero")
	}
	var out []runtime.Value
	for n := start; (step > 0 && n < end) || (step < 0 && n > end); n += step {
		out = append(out, runtime.Int(n))
	}
	return runtime.ListValue{Elements: out}, nil
}
