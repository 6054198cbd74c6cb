// Package stdlib provides SUJI's builtin functions, builtin modules and
// per-kind methods. It depends only on the runtime package; an interpreter
// receives it through Install.
package stdlib

import (
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// Registrar is the subset of the interpreter the standard library installs into.
type Registrar interface {
	RegisterBuiltin(name string, fn runtime.NativeFunc)
	RegisterMethod(kind runtime.Kind, name string, fn runtime.NativeMethod)
	RegisterModule(name string, value runtime.Value)
	LazyModule(path string, load runtime.ModuleLoader) runtime.ModuleValue
	DefineGlobal(name string, value runtime.Value)
}

// preludeNames are bound globally so scripts need no import for them.
var preludeNames = []string{"print", "println", "eprintln", "len", "str", "num", "type_of", "range"}

// Install registers every builtin, method table and the `std` module.
func Install(r Registrar) {
	core := coreBuiltins()
	for name, fn := range core {
		r.RegisterBuiltin(name, fn)
	}
	for _, name := range preludeNames {
		r.DefineGlobal(name, runtime.NewBuiltinFunction(name))
	}
	installMethods(r)

	std := runtime.NewMap()
	for _, name := range sortedNames(core) {
		std.SetString(name, runtime.NewBuiltinFunction(name))
	}
	submodules := []struct {
		name  string
		build func(Registrar) *runtime.MapValue
	}{
		{"io", ioModule},
		{"json", jsonModule},
		{"yaml", yamlModule},
		{"toml", tomlModule},
		{"csv", csvModule},
		{"os", osModule},
		{"regex", regexModule},
	}
	for _, sub := range submodules {
		build := sub.build
		std.SetString(sub.name, r.LazyModule("std:"+sub.name, func() (runtime.Value, error) {
			return build(r), nil
		}))
	}
	std.SetString("env", runtime.EnvMapValue{})
	r.RegisterModule("std", std)
}

// moduleFunctions registers each function under prefix:name and returns the
// module map that exposes them by their short names.
func moduleFunctions(r Registrar, prefix string, fns map[string]runtime.NativeFunc) *runtime.MapValue {
	m := runtime.NewMap()
	for _, name := range sortedNames(fns) {
		qualified := prefix + ":" + name
		r.RegisterBuiltin(qualified, fns[name])
		m.SetString(name, runtime.NewBuiltinFunction(qualified))
	}
	return m
}
