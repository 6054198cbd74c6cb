package runtime

// ModuleLoader materializes a module's value.
type ModuleLoader func() (Value, error)

// ModuleCell is the lazily populated slot shared by every handle for a path.
// A successful load is cached; a failed one is retried on the next force.
type ModuleCell struct {
	path    string
	load    ModuleLoader
	value   Value
	loaded  bool
	loading bool
}

// NewModuleCell creates a cell for path backed by load.
func NewModuleCell(path string, load ModuleLoader) *ModuleCell {
	return &ModuleCell{path: path, load: load}
}

// Loaded reports whether the cell has been materialized.
func (c *ModuleCell) Loaded() bool {
	return c != nil && c.loaded
}

// Force materializes the cell exactly once.
func (c *ModuleCell) Force() (Value, error) {
	if c == nil || c.load == nil {
		path := ""
		if c != nil {
			path = c.path
		}
		return nil, Errorf(ErrInvalidOperation, "module '%s' is not loaded; import it first", path)
	}
	if c.loaded {
		return c.value, nil
	}
	if c.loading {
		return nil, Errorf(ErrImport, "circular import of module '%s'", c.path)
	}
	c.loading = true
	val, err := c.load()
	c.loading = false
	if err != nil {
		return nil, err
	}
	// A loader may hand back another lazy handle; resolve it before caching.
	for {
		mod, ok := val.(ModuleValue)
		if !ok || mod.Cell == c {
			break
		}
		if val, err = mod.Cell.Force(); err != nil {
			return nil, err
		}
	}
	c.value = val
	c.loaded = true
	return val, nil
}

// NewModule creates a handle for path sharing cell.
func NewModule(path string, cell *ModuleCell) ModuleValue {
	return ModuleValue{Path: path, Cell: cell}
}

// Force resolves the handle through its cell.
func (v ModuleValue) Force() (Value, error) {
	if v.Cell == nil {
		return nil, Errorf(ErrInvalidOperation, "module '%s' is not loaded; import it first", v.Path)
	}
	return v.Cell.Force()
}

// Resolved returns the materialized value behind a loaded module handle and v
// otherwise. It never triggers a load.
func Resolved(v Value) Value {
	if mod, ok := v.(ModuleValue); ok && mod.Cell.Loaded() {
		return mod.Cell.value
	}
	return v
}
