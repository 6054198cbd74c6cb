package stdlib

import (
	"os"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// ScriptArgs is exposed as std:os:args; the CLI sets it before running.
var ScriptArgs []string

func osModule(r Registrar) *runtime.MapValue {
	return moduleFunctions(r, "std:os", map[string]runtime.NativeFunc{
		"cwd": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("os:cwd", args, 0, 0); err != nil {
				return nil, err
			}
			dir, err := os.Getwd()
			if err != nil {
				return nil, runtime.Errorf(runtime.ErrGeneric, "os:cwd: %v", err)
			}
			return runtime.String(dir), nil
		},
		"args": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("os:args", args, 0, 0); err != nil {
				return nil, err
			}
			return stringList(ScriptArgs), nil
		},
		"hostname": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("os:hostname", args, 0, 0); err != nil {
				return nil, err
			}
			name, err := os.Hostname()
			if err != nil {
				return nil, runtime.Errorf(runtime.ErrGeneric, "os:hostname: %v", err)
			}
			return runtime.String(name), nil
		},
		"pid": func(_ *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			if err := arity("os:pid", args, 0, 0); err != nil {
				return nil, err
			}
			return runtime.Int(int64(os.Getpid())), nil
		},
	})
}
