package runtime

// Environment provides lexical scoping for runtime values. Names keep their
// definition order so module exports and diagnostics are deterministic.
type Environment struct {
	values map[string]Value
	order  []string
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	if _, ok := e.values[name]; !ok {
		e.order = append(e.order, name)
	}
	e.values[name] = value
}

// SetExisting mutates the first scope that already holds name, otherwise
// defines it in the current scope.
func (e *Environment) SetExisting(name string, value Value) {
	if e.AssignExisting(name, value) {
		return
	}
	e.Define(name, value)
}

// Assign updates an existing binding in the first scope where it appears.
func (e *Environment) Assign(name string, value Value) error {
	if e.AssignExisting(name, value) {
		return nil
	}
	return Errorf(ErrUndefinedVariable, "undefined variable '%s'", name)
}

// AssignExisting assigns a name if it exists anywhere in the scope chain.
// Returns true when the assignment succeeded.
func (e *Environment) AssignExisting(name string, value Value) bool {
	for scope := e; scope != nil; scope = scope.parent {
		if _, ok := scope.values[name]; ok {
			scope.values[name] = value
			return true
		}
	}
	return false
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	return nil, Errorf(ErrUndefinedVariable, "undefined variable '%s'", name)
}

// Lookup is Get without the error.
func (e *Environment) Lookup(name string) (Value, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if v, ok := scope.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Has reports whether the binding exists anywhere in the scope chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

// HasInCurrentScope reports whether the binding exists in the current scope.
func (e *Environment) HasInCurrentScope(name string) bool {
	_, ok := e.values[name]
	return ok
}

// Names returns the current scope's bindings in definition order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Extend creates a new child scope.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
