package stdlib

import (
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func streamMethods() map[string]runtime.NativeMethod {
	method := func(name string, min, max int, fn func(s *runtime.StreamValue, args []runtime.Value) (runtime.Value, error)) runtime.NativeMethod {
		return pure(func(ctx *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, error) {
			if err := arity(name, args, min, max); err != nil {
				return nil, err
			}
			stream, ok := ctx.IO.ResolveStream(recv)
			if !ok || stream == nil {
				return nil, runtime.Errorf(runtime.ErrStream, "%s: receiver is not a stream", name)
			}
			return fn(stream, args)
		})
	}
	return map[string]runtime.NativeMethod{
		"read": method("read", 0, 0, func(s *runtime.StreamValue, _ []runtime.Value) (runtime.Value, error) {
			text, err := s.ReadAll()
			if err != nil {
				return nil, err
			}
			return runtime.String(text), nil
		}),
		"read_line": method("read_line", 0, 0, func(s *runtime.StreamValue, _ []runtime.Value) (runtime.Value, error) {
			line, ok, err := s.ReadLine()
			if err != nil {
				return nil, err
			}
			if !ok {
				return runtime.Nil, nil
			}
			return runtime.String(line), nil
		}),
		"read_lines": method("read_lines", 0, 0, func(s *runtime.StreamValue, _ []runtime.Value) (runtime.Value, error) {
			return readLines(s)
		}),
		"write": method("write", 1, 1, func(s *runtime.StreamValue, args []runtime.Value) (runtime.Value, error) {
			return runtime.Nil, s.Write(runtime.Stringify(args[0]))
		}),
		"close": method("close", 0, 0, func(s *runtime.StreamValue, _ []runtime.Value) (runtime.Value, error) {
			return runtime.Nil, s.Close()
		}),
		"is_readable": method("is_readable", 0, 0, func(s *runtime.StreamValue, _ []runtime.Value) (runtime.Value, error) {
			return runtime.Bool(s.IsReadable()), nil
		}),
		"is_writable": method("is_writable", 0, 0, func(s *runtime.StreamValue, _ []runtime.Value) (runtime.Value, error) {
			return runtime.Bool(s.IsWritable()), nil
		}),
		"is_closed": method("is_closed", 0, 0, func(s *runtime.StreamValue, _ []runtime.Value) (runtime.Value, error) {
			return runtime.Bool(s.IsClosed()), nil
		}),
	}
}
