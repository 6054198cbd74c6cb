package stdlib

import (
	"strings"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

type pureMethod func(ctx *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error)

// pure adapts a method that never replaces its receiver.
func pure(fn pureMethod) runtime.NativeMethod {
	return func(ctx *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, runtime.Value, error) {
		val, err := fn(ctx, recv, args)
		return val, nil, err
	}
}

func installMethods(r Registrar) {
	for kind, methods := range map[runtime.Kind]map[string]runtime.NativeMethod{
		runtime.KindString: stringMethods(),
		runtime.KindList:   listMethods(),
		runtime.KindMap:    mapMethods(),
		runtime.KindTuple:  tupleMethods(),
		runtime.KindNumber: numberMethods(),
		runtime.KindStream: streamMethods(),
		runtime.KindRegex:  regexMethods(),
		runtime.KindEnvMap: envMethods(),
	} {
		for name, fn := range methods {
			r.RegisterMethod(kind, name, fn)
		}
	}
}

func stringMethods() map[string]runtime.NativeMethod {
	str := func(recv runtime.Value) string { return recv.(runtime.StringValue).Val }
	unary := func(name string, fn func(string) runtime.Value) runtime.NativeMethod {
		return pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity(name, args, 0, 0); err != nil {
				return nil, err
			}
			return fn(str(recv)), nil
		})
	}
	withString := func(name string, fn func(s, arg string) runtime.Value) runtime.NativeMethod {
		return pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity(name, args, 1, 1); err != nil {
				return nil, err
			}
			arg, err := stringArg(name, args, 0)
			if err != nil {
				return nil, err
			}
			return fn(str(recv), arg), nil
		})
	}
	return map[string]runtime.NativeMethod{
		"length": unary("length", func(s string) runtime.Value { return runtime.Int(int64(len([]rune(s)))) }),
		"upper":  unary("upper", func(s string) runtime.Value { return runtime.String(strings.ToUpper(s)) }),
		"lower":  unary("lower", func(s string) runtime.Value { return runtime.String(strings.ToLower(s)) }),
		"trim":   unary("trim", func(s string) runtime.Value { return runtime.String(strings.TrimSpace(s)) }),
		"lines": unary("lines", func(s string) runtime.Value {
			if s == "" {
				return runtime.ListValue{}
			}
			return stringList(strings.Split(strings.TrimSuffix(s, "\n"), "\n"))
		}),
		"chars": unary("chars", func(s string) runtime.Value {
			chars := []rune(s)
			out := make([]string, len(chars))
			for idx, ch := range chars {
				out[idx] = string(ch)
			}
			return stringList(out)
		}),
		"contains":    withString("contains", func(s, arg string) runtime.Value { return runtime.Bool(strings.Contains(s, arg)) }),
		"starts_with": withString("starts_with", func(s, arg string) runtime.Value { return runtime.Bool(strings.HasPrefix(s, arg)) }),
		"ends_with":   withString("ends_with", func(s, arg string) runtime.Value { return runtime.Bool(strings.HasSuffix(s, arg)) }),
		"split": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("split", args, 0, 1); err != nil {
				return nil, err
			}
			if len(args) == 0 {
				return stringList(strings.Fields(str(recv))), nil
			}
			sep, err := stringArg("split", args, 0)
			if err != nil {
				return nil, err
			}
			return stringList(strings.Split(str(recv), sep)), nil
		}),
		"replace": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("replace", args, 2, 2); err != nil {
				return nil, err
			}
			old, err := stringArg("replace", args, 0)
			if err != nil {
				return nil, err
			}
			repl, err := stringArg("replace", args, 1)
			if err != nil {
				return nil, err
			}
			return runtime.String(strings.ReplaceAll(str(recv), old, repl)), nil
		}),
	}
}

func tupleMethods() map[string]runtime.NativeMethod {
	return map[string]runtime.NativeMethod{
		"length": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("length", args, 0, 0); err != nil {
				return nil, err
			}
			return runtime.Int(int64(len(recv.(runtime.TupleValue).Elements))), nil
		}),
		"to_list": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("to_list", args, 0, 0); err != nil {
				return nil, err
			}
			return runtime.ListValue{Elements: append([]runtime.Value(nil), recv.(runtime.TupleValue).Elements...)}, nil
		}),
	}
}

func numberMethods() map[string]runtime.NativeMethod {
	unary := func(name string, fn func(runtime.NumberValue) runtime.Value) runtime.NativeMethod {
		return pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity(name, args, 0, 0); err != nil {
				return nil, err
			}
			return fn(recv.(runtime.NumberValue)), nil
		})
	}
	return map[string]runtime.NativeMethod{
		"floor":      unary("floor", func(n runtime.NumberValue) runtime.Value { return runtime.NumberFloor(n) }),
		"ceil":       unary("ceil", func(n runtime.NumberValue) runtime.Value { return runtime.NumberCeil(n) }),
		"round":      unary("round", func(n runtime.NumberValue) runtime.Value { return runtime.NumberRound(n) }),
		"abs":        unary("abs", func(n runtime.NumberValue) runtime.Value { return runtime.NumberAbs(n) }),
		"to_string":  unary("to_string", func(n runtime.NumberValue) runtime.Value { return runtime.String(n.String()) }),
		"is_integer": unary("is_integer", func(n runtime.NumberValue) runtime.Value { return runtime.Bool(n.IsInteger()) }),
	}
}

func regexMethods() map[string]runtime.NativeMethod {
	textMethod := func(name string, extra int, fn func(re *runtime.RegexValue, text string, args []runtime.Value) (runtime.Value, error)) runtime.NativeMethod {
		return pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity(name, args, 1+extra, 1+extra); err != nil {
				return nil, err
			}
			text, err := stringArg(name, args, 0)
			if err != nil {
				return nil, err
			}
			return fn(recv.(*runtime.RegexValue), text, args)
		})
	}
	return map[string]runtime.NativeMethod{
		"matches": textMethod("matches", 0, func(re *runtime.RegexValue, text string, _ []runtime.Value) (runtime.Value, error) {
			return runtime.Bool(re.Re.MatchString(text)), nil
		}),
		"find": textMethod("find", 0, func(re *runtime.RegexValue, text string, _ []runtime.Value) (runtime.Value, error) {
			loc := re.Re.FindStringIndex(text)
			if loc == nil {
				return runtime.Nil, nil
			}
			return runtime.String(text[loc[0]:loc[1]]), nil
		}),
		"find_all": textMethod("find_all", 0, func(re *runtime.RegexValue, text string, _ []runtime.Value) (runtime.Value, error) {
			return stringList(re.Re.FindAllString(text, -1)), nil
		}),
		"replace": textMethod("replace", 1, func(re *runtime.RegexValue, text string, args []runtime.Value) (runtime.Value, error) {
			repl, err := stringArg("replace", args, 1)
			if err != nil {
				return nil, err
			}
			return runtime.String(re.Re.ReplaceAllString(text, repl)), nil
		}),
	}
}

func envMethods() map[string]runtime.NativeMethod {
	return map[string]runtime.NativeMethod{
		"keys": pure(func(_ *runtime.NativeCallContext, _ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("keys", args, 0, 0); err != nil {
				return nil, err
			}
			return stringList(runtime.EnvNames()), nil
		}),
		"get": pure(func(_ *runtime.NativeCallContext, _ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("get", args, 1, 2); err != nil {
				return nil, err
			}
			name, err := stringArg("get", args, 0)
			if err != nil {
				return nil, err
			}
			if val, ok := runtime.EnvGet(name); ok {
				return runtime.String(val), nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return runtime.Nil, nil
		}),
		"set": pure(func(_ *runtime.NativeCallContext, _ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("set", args, 2, 2); err != nil {
				return nil, err
			}
			name, err := stringArg("set", args, 0)
			if err != nil {
				return nil, err
			}
			runtime.EnvSet(name, runtime.Stringify(args[1]))
			return runtime.Nil, nil
		}),
		"unset": pure(func(_ *runtime.NativeCallContext, _ runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("unset", args, 1, 1); err != nil {
				return nil, err
			}
			name, err := stringArg("unset", args, 0)
			if err != nil {
				return nil, err
			}
			runtime.EnvUnset(name)
			return runtime.Nil, nil
		}),
	}
}
