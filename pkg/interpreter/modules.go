package interpreter

import (
	"strings"

	"fortio.org/log"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

type builtinModule struct {
	value runtime.Value
	load  runtime.ModuleLoader
}

type moduleRegistry struct {
	builtins map[string]builtinModule
	cells    map[string]*runtime.ModuleCell
	source   ModuleSource
}

func newModuleRegistry() *moduleRegistry {
	return &moduleRegistry{
		builtins: make(map[string]builtinModule),
		cells:    make(map[string]*runtime.ModuleCell),
	}
}

// cell returns the one cell for path, creating it with load on first use.
func (r *moduleRegistry) cell(path string, load runtime.ModuleLoader) *runtime.ModuleCell {
	if c, ok := r.cells[path]; ok {
		return c
	}
	c := runtime.NewModuleCell(path, load)
	r.cells[path] = c
	return c
}

// RegisterModule exposes an eagerly built value as a builtin module.
func (i *Interpreter) RegisterModule(name string, value runtime.Value) {
	i.modules.builtins[name] = builtinModule{value: value}
}

// RegisterLazyModule exposes a builtin module materialized on first use.
func (i *Interpreter) RegisterLazyModule(name string, load runtime.ModuleLoader) {
	i.modules.builtins[name] = builtinModule{load: load}
}

// LazyModule returns a handle for path. Every handle for the same path shares
// a cell, so the loader runs at most once per successful load.
func (i *Interpreter) LazyModule(path string, load runtime.ModuleLoader) runtime.ModuleValue {
	return runtime.NewModule(path, i.modules.cell(path, load))
}

// ForceModule materializes v if it is a module handle and returns v otherwise.
func (i *Interpreter) ForceModule(v runtime.Value) (runtime.Value, error) {
	return i.forceModule(v)
}

func (i *Interpreter) forceModule(v runtime.Value) (runtime.Value, error) {
	mod, ok := v.(runtime.ModuleValue)
	if !ok {
		return v, nil
	}
	if !mod.Cell.Loaded() {
		log.LogVf("loading module %s", mod.Path)
	}
	return mod.Force()
}

// resolveModule finds a module by name: a binding in scope, then the builtin
// table, then the configured source.
func (i *Interpreter) resolveModule(name string, env *runtime.Environment) (runtime.Value, error) {
	if v, ok := env.Lookup(name); ok {
		return v, nil
	}
	if b, ok := i.modules.builtins[name]; ok {
		if b.load == nil {
			return b.value, nil
		}
		return i.LazyModule(name, b.load), nil
	}
	if src := i.modules.source; src != nil {
		return i.LazyModule(name, func() (runtime.Value, error) {
			return src(name)
		}), nil
	}
	return nil, runtime.Errorf(runtime.ErrModuleNotFound, "module '%s' not found", name)
}

func (i *Interpreter) evaluateImport(stmt *ast.ImportStatement, env *runtime.Environment) (runtime.Value, error) {
	root, err := i.resolveModule(stmt.Module, env)
	if err != nil {
		return nil, err
	}
	if stmt.Item == "" {
		name := baseName(stmt.Module)
		if stmt.Alias != nil {
			name = stmt.Alias.Name
		}
		env.Define(name, root)
		return runtime.Nil, nil
	}
	current := root
	segments := strings.Split(stmt.Item, ":")
	for _, segment := range segments {
		forced, err := i.forceModule(current)
		if err != nil {
			return nil, err
		}
		m, ok := forced.(*runtime.MapValue)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrImport, "cannot import '%s' from %s", segment, runtime.TypeName(forced))
		}
		item, ok := m.GetString(segment)
		if !ok {
			return nil, runtime.Errorf(runtime.ErrImport, "module '%s' has no item '%s'", stmt.Module, stmt.Item)
		}
		current = item
	}
	current, err = i.forceModule(current)
	if err != nil {
		return nil, err
	}
	name := segments[len(segments)-1]
	if stmt.Alias != nil {
		name = stmt.Alias.Name
	}
	env.Define(name, current)
	return runtime.Nil, nil
}

func baseName(path string) string {
	if idx := strings.LastIndexAny(path, "/:"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

func (i *Interpreter) evaluateExport(stmt *ast.ExportStatement, env *runtime.Environment) (runtime.Value, error) {
	val, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	m, ok := val.(*runtime.MapValue)
	if !ok {
		return nil, runtime.Errorf(runtime.ErrTypeError, "export expects a map, got %s", runtime.TypeName(val))
	}
	exports := i.state.currentExports()
	if exports == nil {
		log.LogVf("export outside of a module load ignored")
		return runtime.Nil, nil
	}
	for _, entry := range m.Entries() {
		exports.Set(entry.Key, entry.Value)
	}
	return runtime.Nil, nil
}
