package stdlib

import (
	"sort"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func arity(name string, args []runtime.Value, min, max int) error {
	if len(args) >= min && len(args) <= max {
		return nil
	}
	if min == max {
		return runtime.Errorf(runtime.ErrArityMismatch, "%s expects %d argument(s), got %d", name, min, len(args))
	}
	return runtime.Errorf(runtime.ErrArityMismatch, "%s expects %d to %d arguments, got %d", name, min, max, len(args))
}

func argTypeError(name string, idx int, want string, got runtime.Value) error {
	return runtime.Errorf(runtime.ErrTypeError, "%s: argument %d must be %s, got %s", name, idx+1, want, runtime.TypeName(got))
}

func stringArg(name string, args []runtime.Value, idx int) (string, error) {
	s, ok := args[idx].(runtime.StringValue)
	if !ok {
		return "", argTypeError(name, idx, "a string", args[idx])
	}
	return s.Val, nil
}

func numberArg(name string, args []runtime.Value, idx int) (runtime.NumberValue, error) {
	n, ok := args[idx].(runtime.NumberValue)
	if !ok {
		return runtime.NumberValue{}, argTypeError(name, idx, "a number", args[idx])
	}
	return n, nil
}

func intArg(name string, args []runtime.Value, idx int) (int64, error) {
	n, err := numberArg(name, args, idx)
	if err != nil {
		return 0, err
	}
	v, ok := n.Int64()
	if !ok {
		return 0, runtime.Errorf(runtime.ErrTypeError, "%s: argument %d must be an integer, got %s", name, idx+1, n.String())
	}
	return v, nil
}

func listArg(name string, args []runtime.Value, idx int) (runtime.ListValue, error) {
	l, ok := args[idx].(runtime.ListValue)
	if !ok {
		return runtime.ListValue{}, argTypeError(name, idx, "a list", args[idx])
	}
	return l, nil
}

func mapArg(name string, args []runtime.Value, idx int) (*runtime.MapValue, error) {
	m, ok := args[idx].(*runtime.MapValue)
	if !ok {
		return nil, argTypeError(name, idx, "a map", args[idx])
	}
	return m, nil
}

func functionArg(name string, args []runtime.Value, idx int) (*runtime.FunctionValue, error) {
	fn, ok := args[idx].(*runtime.FunctionValue)
	if !ok {
		return nil, argTypeError(name, idx, "a function", args[idx])
	}
	return fn, nil
}

func regexArg(name string, args []runtime.Value, idx int) (*runtime.RegexValue, error) {
	switch v := args[idx].(type) {
	case *runtime.RegexValue:
		return v, nil
	case runtime.StringValue:
		return runtime.CompileRegex(v.Val)
	default:
		return nil, argTypeError(name, idx, "a regex or string", args[idx])
	}
}

func truthy(name string, v runtime.Value) (bool, error) {
	b, ok := v.(runtime.BoolValue)
	if !ok {
		return false, runtime.Errorf(runtime.ErrTypeError, "%s: predicate must return a boolean, got %s", name, runtime.TypeName(v))
	}
	return b.Val, nil
}

func stringList(values []string) runtime.ListValue {
	out := make([]runtime.Value, len(values))
	for idx, v := range values {
		out[idx] = runtime.String(v)
	}
	return runtime.ListValue{Elements: out}
}
