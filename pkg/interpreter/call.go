package interpreter

import (
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// envOverride is a binding injected into a call frame ahead of the parameters.
type envOverride struct {
	name  string
	value runtime.Value
}

// CallFunction invokes a function value with the provided arguments.
func (i *Interpreter) CallFunction(value runtime.Value, args []runtime.Value) (runtime.Value, error) {
	return i.callFunction(value, args, nil, nil)
}

func (i *Interpreter) callFunction(callee runtime.Value, args []runtime.Value, callerEnv *runtime.Environment, overrides []envOverride) (runtime.Value, error) {
	fn, ok := callee.(*runtime.FunctionValue)
	if !ok || fn == nil {
		return nil, runtime.Errorf(runtime.ErrNotCallable, "value of type %s is not callable", runtime.TypeName(callee))
	}
	if fn.IsBuiltin() {
		return i.callBuiltin(fn, args, callerEnv)
	}
	if i.state.callDepth >= i.maxCallDepth {
		return nil, runtime.Errorf(runtime.ErrRecursionLimit, "maximum call depth of %d exceeded", i.maxCallDepth)
	}
	i.state.callDepth++
	defer func() { i.state.callDepth-- }()

	frame := runtime.NewEnvironment(fn.Closure)
	for _, override := range overrides {
		frame.Define(override.name, override.value)
	}
	if err := i.bindArguments(fn, args, frame, callerEnv); err != nil {
		return nil, err
	}
	if fn.Body == nil {
		return runtime.Nil, nil
	}
	val, err := i.evaluateStatement(fn.Body, frame)
	if err != nil {
		if sig, ok := err.(returnSignal); ok {
			return sig.value, nil
		}
		return nil, err
	}
	return val, nil
}

func (i *Interpreter) callBuiltin(fn *runtime.FunctionValue, args []runtime.Value, callerEnv *runtime.Environment) (runtime.Value, error) {
	impl, ok := i.builtins[fn.Builtin]
	if !ok {
		return nil, runtime.Errorf(runtime.ErrNotCallable, "unknown builtin '%s'", fn.Builtin)
	}
	env := callerEnv
	if env == nil {
		env = i.global
	}
	copied := false
	for idx, arg := range args {
		if _, lazy := arg.(runtime.ModuleValue); !lazy {
			continue
		}
		forced, err := i.forceModule(arg)
		if err != nil {
			return nil, err
		}
		if !copied {
			args = append([]runtime.Value(nil), args...)
			copied = true
		}
		args[idx] = forced
	}
	val, err := impl(i.nativeContext(env), args)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return runtime.Nil, nil
	}
	return val, nil
}

// bindArguments defines each parameter in frame. Missing arguments fall back
// to defaults evaluated now, in the caller's scope when known.
func (i *Interpreter) bindArguments(fn *runtime.FunctionValue, args []runtime.Value, frame, callerEnv *runtime.Environment) error {
	if len(args) > len(fn.Params) {
		return runtime.Errorf(runtime.ErrArityMismatch, "%s expects at most %d argument(s), got %d", functionLabel(fn), len(fn.Params), len(args))
	}
	defaultEnv := callerEnv
	if defaultEnv == nil {
		defaultEnv = fn.Closure
	}
	for idx, param := range fn.Params {
		if idx < len(args) {
			frame.Define(param.Name, args[idx])
			continue
		}
		if param.Default == nil {
			return runtime.Errorf(runtime.ErrArityMismatch, "%s expects %d argument(s), got %d: missing '%s'", functionLabel(fn), requiredParams(fn), len(args), param.Name)
		}
		val, err := i.evaluateExpression(param.Default, defaultEnv)
		if err != nil {
			return err
		}
		frame.Define(param.Name, val)
	}
	return nil
}

func requiredParams(fn *runtime.FunctionValue) int {
	count := 0
	for _, param := range fn.Params {
		if param.Default == nil {
			count++
		}
	}
	return count
}

func functionLabel(fn *runtime.FunctionValue) string {
	if fn.Name != "" {
		return "function " + fn.Name
	}
	return "anonymous function"
}
