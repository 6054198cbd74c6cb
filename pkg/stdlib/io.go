package stdlib

import (
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func ioModule(r Registrar) *runtime.MapValue {
	m := moduleFunctions(r, "std:io", map[string]runtime.NativeFunc{
		"read": func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			stream, err := streamOrStdin(ctx, "read", args)
			if err != nil {
				return nil, err
			}
			text, err := stream.ReadAll()
			if err != nil {
				return nil, err
			}
			return runtime.String(text), nil
		},
		"read_lines": func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			stream, err := streamOrStdin(ctx, "read_lines", args)
			if err != nil {
				return nil, err
			}
			return readLines(stream)
		},
	})
	m.SetString("stdin", runtime.StreamProxyValue{Which: runtime.Stdin})
	m.SetString("stdout", runtime.StreamProxyValue{Which: runtime.Stdout})
	m.SetString("stderr", runtime.StreamProxyValue{Which: runtime.Stderr})
	return m
}

func streamOrStdin(ctx *runtime.NativeCallContext, name string, args []runtime.Value) (*runtime.StreamValue, error) {
	if err := arity(name, args, 0, 1); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return ctx.IO.Stdin, nil
	}
	stream, ok := ctx.IO.ResolveStream(args[0])
	if !ok {
		return nil, argTypeError(name, 0, "a stream", args[0])
	}
	return stream, nil
}

func readLines(stream *runtime.StreamValue) (runtime.Value, error) {
	var lines []runtime.Value
	for {
		line, ok, err := stream.ReadLine()
		if err != nil {
			return nil, err
		}
		if !ok {
			return runtime.ListValue{Elements: lines}, nil
		}
		lines = append(lines, runtime.String(line))
	}
}
