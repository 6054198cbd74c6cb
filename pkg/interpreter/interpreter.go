package interpreter

import (
	"io"
	"os"

	"fortio.org/log"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// DefaultMaxCallDepth bounds interpreted recursion.
const DefaultMaxCallDepth = 10000

type evalState struct {
	breakpoints []string
	exports     []*runtime.MapValue
	callDepth   int
}

func newEvalState() *evalState {
	return &evalState{
		breakpoints: make([]string, 0),
		exports:     make([]*runtime.MapValue, 0),
	}
}

func (s *evalState) pushBreakpoint(label string) {
	s.breakpoints = append(s.breakpoints, label)
}

func (s *evalState) popBreakpoint() {
	if len(s.breakpoints) == 0 {
		return
	}
	s.breakpoints = s.breakpoints[:len(s.breakpoints)-1]
}

func (s *evalState) inLoop() bool {
	return len(s.breakpoints) > 0
}

func (s *evalState) hasBreakpoint(label string) bool {
	for idx := len(s.breakpoints) - 1; idx >= 0; idx-- {
		if s.breakpoints[idx] == label {
			return true
		}
	}
	return false
}

func (s *evalState) currentExports() *runtime.MapValue {
	if len(s.exports) == 0 {
		return nil
	}
	return s.exports[len(s.exports)-1]
}

// ModuleSource materializes a module that is neither bound nor builtin.
type ModuleSource func(path string) (runtime.Value, error)

// Interpreter drives evaluation of SUJI AST nodes.
type Interpreter struct {
	global       *runtime.Environment
	state        *evalState
	io           runtime.IOContext
	builtins     map[string]runtime.NativeFunc
	methods      map[runtime.Kind]map[string]runtime.NativeMethod
	modules      *moduleRegistry
	maxCallDepth int
	shell        string
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithStdout sets the ambient stdout.
func WithStdout(w io.Writer) Option {
	return func(i *Interpreter) { i.io.Stdout = runtime.NewWriterStream("stdout", w) }
}

// WithStderr sets the ambient stderr.
func WithStderr(w io.Writer) Option {
	return func(i *Interpreter) { i.io.Stderr = runtime.NewWriterStream("stderr", w) }
}

// WithStdin sets the ambient stdin.
func WithStdin(r io.Reader) Option {
	return func(i *Interpreter) { i.io.Stdin = runtime.NewReaderStream("stdin", r) }
}

// WithModuleSource installs the fallback loader for non-builtin modules.
func WithModuleSource(src ModuleSource) Option {
	return func(i *Interpreter) { i.modules.source = src }
}

// WithMaxCallDepth bounds recursion; values <= 0 keep the default.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = depth
		}
	}
}

// WithShell sets the program used to run back-tick commands.
func WithShell(shell string) Option {
	return func(i *Interpreter) {
		if shell != "" {
			i.shell = shell
		}
	}
}

// New returns an interpreter with an empty global environment.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		global:       runtime.NewEnvironment(nil),
		state:        newEvalState(),
		io:           runtime.NewIOContext(os.Stdin, os.Stdout, os.Stderr),
		builtins:     make(map[string]runtime.NativeFunc),
		methods:      make(map[runtime.Kind]map[string]runtime.NativeMethod),
		modules:      newModuleRegistry(),
		maxCallDepth: DefaultMaxCallDepth,
		shell:        defaultShell,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// IO returns the current I/O context.
func (i *Interpreter) IO() runtime.IOContext {
	return i.io
}

// SetModuleSource replaces the fallback module loader.
func (i *Interpreter) SetModuleSource(src ModuleSource) {
	i.modules.source = src
}

// RegisterBuiltin adds a native function to the builtin table.
func (i *Interpreter) RegisterBuiltin(name string, fn runtime.NativeFunc) {
	i.builtins[name] = fn
}

// RegisterMethod adds a native method for values of kind.
func (i *Interpreter) RegisterMethod(kind runtime.Kind, name string, fn runtime.NativeMethod) {
	bucket, ok := i.methods[kind]
	if !ok {
		bucket = make(map[string]runtime.NativeMethod)
		i.methods[kind] = bucket
	}
	bucket[name] = fn
}

// DefineGlobal binds a value in the global environment.
func (i *Interpreter) DefineGlobal(name string, value runtime.Value) {
	i.global.Define(name, value)
}

// withIO runs fn with ctx installed as the current I/O context and always
// restores the previous one.
func (i *Interpreter) withIO(ctx runtime.IOContext, fn func() (runtime.Value, error)) (runtime.Value, error) {
	saved := i.io
	i.io = ctx
	defer func() { i.io = saved }()
	return fn()
}

func (i *Interpreter) nativeContext(env *runtime.Environment) *runtime.NativeCallContext {
	return &runtime.NativeCallContext{
		Env: env,
		IO:  i.io,
		Call: func(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
			return i.callFunction(fn, args, env, nil)
		},
	}
}

// EvaluateModule executes a module node in the global environment and returns
// the last evaluated value and environment.
func (i *Interpreter) EvaluateModule(module *ast.Module) (runtime.Value, *runtime.Environment, error) {
	val, err := i.evaluateModuleBody(module, i.global)
	if err != nil {
		return nil, nil, err
	}
	return val, i.global, nil
}

func (i *Interpreter) evaluateModuleBody(module *ast.Module, env *runtime.Environment) (runtime.Value, error) {
	if module == nil {
		return runtime.Nil, nil
	}
	var result runtime.Value = runtime.Nil
	for _, stmt := range module.Body {
		val, err := i.evaluateStatement(stmt, env)
		if err != nil {
			switch sig := err.(type) {
			case returnSignal:
				log.LogVf("module returned early")
				return sig.value, nil
			case breakSignal, continueSignal:
				return nil, runtime.Errorf(runtime.ErrInvalidOperation, "%s outside of loop", sig.Error())
			}
			return nil, err
		}
		result = val
	}
	return result, nil
}

// EvaluateModuleExports runs a module in its own scope and returns what it
// exports: the merged export maps, or every top-level binding when the module
// exports nothing.
func (i *Interpreter) EvaluateModuleExports(module *ast.Module) (*runtime.MapValue, error) {
	env := runtime.NewEnvironment(i.global)
	exports := runtime.NewMap()
	i.state.exports = append(i.state.exports, exports)
	explicit := false
	defer func() { i.state.exports = i.state.exports[:len(i.state.exports)-1] }()
	for _, stmt := range module.Body {
		if _, ok := stmt.(*ast.ExportStatement); ok {
			explicit = true
		}
	}
	if _, err := i.evaluateModuleBody(module, env); err != nil {
		return nil, err
	}
	if explicit {
		return exports, nil
	}
	for _, name := range env.Names() {
		val, _ := env.Lookup(name)
		exports.SetString(name, val)
	}
	return exports, nil
}
