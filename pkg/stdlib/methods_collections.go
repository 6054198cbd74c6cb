package stdlib

import (
	"strings"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func listMethods() map[string]runtime.NativeMethod {
	elems := func(recv runtime.Value) []runtime.Value { return recv.(runtime.ListValue).Elements }
	return map[string]runtime.NativeMethod{
		"length": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("length", args, 0, 0); err != nil {
				return nil, err
			}
			return runtime.Int(int64(len(elems(recv)))), nil
		}),
		"push": func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, runtime.Value, error) {
			if len(args) == 0 {
				return nil, nil, arity("push", args, 1, 1)
			}
			grown := append(append([]runtime.Value(nil), elems(recv)...), args...)
			updated := runtime.ListValue{Elements: grown}
			return updated, updated, nil
		},
		"pop": func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, runtime.Value, error) {
			if err := arity("pop", args, 0, 0); err != nil {
				return nil, nil, err
			}
			list := elems(recv)
			if len(list) == 0 {
				return nil, nil, runtime.Errorf(runtime.ErrIndexOutOfBounds, "pop from empty list")
			}
			rest := append([]runtime.Value(nil), list[:len(list)-1]...)
			return list[len(list)-1], runtime.ListValue{Elements: rest}, nil
		},
		"join": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("join", args, 0, 1); err != nil {
				return nil, err
			}
			sep := ""
			if len(args) == 1 {
				s, err := stringArg("join", args, 0)
				if err != nil {
					return nil, err
				}
				sep = s
			}
			parts := make([]string, len(elems(recv)))
			for idx, el := range elems(recv) {
				parts[idx] = runtime.Stringify(el)
			}
			return runtime.String(strings.Join(parts, sep)), nil
		}),
		"reverse": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("reverse", args, 0, 0); err != nil {
				return nil, err
			}
			list := elems(recv)
			out := make([]runtime.Value, len(list))
			for idx, el := range list {
				out[len(list)-1-idx] = el
			}
			return runtime.ListValue{Elements: out}, nil
		}),
		"contains": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("contains", args, 1, 1); err != nil {
				return nil, err
			}
			for _, el := range elems(recv) {
				if runtime.ValuesEqual(el, args[0]) {
					return runtime.Bool(true), nil
				}
			}
			return runtime.Bool(false), nil
		}),
		"map": pure(func(ctx *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("map", args, 1, 1); err != nil {
				return nil, err
			}
			fn, err := functionArg("map", args, 0)
			if err != nil {
				return nil, err
			}
			out := make([]runtime.Value, 0, len(elems(recv)))
			for _, el := range elems(recv) {
				val, err := ctx.Call(fn, []runtime.Value{el})
				if err != nil {
					return nil, err
				}
				out = append(out, val)
			}
			return runtime.ListValue{Elements: out}, nil
		}),
		"filter": pure(func(ctx *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("filter", args, 1, 1); err != nil {
				return nil, err
			}
			fn, err := functionArg("filter", args, 0)
			if err != nil {
				return nil, err
			}
			var out []runtime.Value
			for _, el := range elems(recv) {
				val, err := ctx.Call(fn, []runtime.Value{el})
				if err != nil {
					return nil, err
				}
				keep, err := truthy("filter", val)
				if err != nil {
					return nil, err
				}
				if keep {
					out = append(out, el)
				}
			}
			return runtime.ListValue{Elements: out}, nil
		}),
		"fold": pure(func(ctx *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("fold", args, 2, 2); err != nil {
				return nil, err
			}
			fn, err := functionArg("fold", args, 1)
			if err != nil {
				return nil, err
			}
			acc := args[0]
			for _, el := range elems(recv) {
				if acc, err = ctx.Call(fn, []runtime.Value{acc, el}); err != nil {
					return nil, err
				}
			}
			return acc, nil
		}),
		"first": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("first", args, 0, 0); err != nil {
				return nil, err
			}
			if list := elems(recv); len(list) > 0 {
				return list[0], nil
			}
			return runtime.Nil, nil
		}),
		"last": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("last", args, 0, 0); err != nil {
				return nil, err
			}
			if list := elems(recv); len(list) > 0 {
				return list[len(list)-1], nil
			}
			return runtime.Nil, nil
		}),
	}
}

func mapMethods() map[string]runtime.NativeMethod {
	asMap := func(recv runtime.Value) *runtime.MapValue { return recv.(*runtime.MapValue) }
	return map[string]runtime.NativeMethod{
		"keys": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("keys", args, 0, 0); err != nil {
				return nil, err
			}
			return runtime.ListValue{Elements: asMap(recv).Keys()}, nil
		}),
		"values": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("values", args, 0, 0); err != nil {
				return nil, err
			}
			return runtime.ListValue{Elements: asMap(recv).Values()}, nil
		}),
		"length": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("length", args, 0, 0); err != nil {
				return nil, err
			}
			return runtime.Int(int64(asMap(recv).Len())), nil
		}),
		"has": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("has", args, 1, 1); err != nil {
				return nil, err
			}
			key, err := runtime.NewMapKey(args[0])
			if err != nil {
				return nil, err
			}
			_, ok := asMap(recv).Get(key)
			return runtime.Bool(ok), nil
		}),
		"get": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("get", args, 1, 2); err != nil {
				return nil, err
			}
			key, err := runtime.NewMapKey(args[0])
			if err != nil {
				return nil, err
			}
			if val, ok := asMap(recv).Get(key); ok {
				return val, nil
			}
			if len(args) == 2 {
				return args[1], nil
			}
			return runtime.Nil, nil
		}),
		"delete": func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, runtime.Value, error) {
			if err := arity("delete", args, 1, 1); err != nil {
				return nil, nil, err
			}
			key, err := runtime.NewMapKey(args[0])
			if err != nil {
				return nil, nil, err
			}
			clone := asMap(recv).Clone()
			removed := clone.Delete(key)
			return runtime.Bool(removed), clone, nil
		},
		"merge": pure(func(_ *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity("merge", args, 1, 1); err != nil {
				return nil, err
			}
			other, err := mapArg("merge", args, 0)
			if err != nil {
				return nil, err
			}
			out := asMap(recv).Clone()
			for _, entry := range other.Entries() {
				out.Set(entry.Key, entry.Value)
			}
			return out, nil
		}),
	}
}
