package interpreter

import (
	"fortio.org/log"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(node ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case ast.Expression:
		return i.evaluateExpression(n, env)
	case *ast.FunctionDefinition:
		if n.ID == nil {
			return nil, runtime.WithSpan(runtime.Errorf(runtime.ErrInvalidOperation, "function definition requires a name"), n.Span())
		}
		fn := &runtime.FunctionValue{Name: n.ID.Name, Params: n.Params, Body: n.Body, Closure: env}
		env.Define(n.ID.Name, fn)
		return runtime.Nil, nil
	case *ast.ImportStatement:
		val, err := i.evaluateImport(n, env)
		return val, runtime.WithSpan(err, n.Span())
	case *ast.ExportStatement:
		val, err := i.evaluateExport(n, env)
		return val, runtime.WithSpan(err, n.Span())
	default:
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "unsupported statement type: %s", node.NodeType())
	}
}

func (i *Interpreter) evaluateBlock(block *ast.BlockExpression, env *runtime.Environment) (runtime.Value, error) {
	scope := runtime.NewEnvironment(env)
	var result runtime.Value = runtime.Nil
	for _, stmt := range block.Body {
		val, err := i.evaluateStatement(stmt, scope)
		if err != nil {
			return nil, err
		}
		result = val
	}
	return result, nil
}

type loopAction int

const (
	loopPropagate loopAction = iota
	loopNext
	loopStop
)

// interceptLoopSignal decides whether a signal raised by a loop body belongs
// to the loop labelled label.
func interceptLoopSignal(err error, label string) (loopAction, runtime.Value, error) {
	switch sig := err.(type) {
	case breakSignal:
		if sig.label == "" || sig.label == label {
			return loopStop, sig.value, nil
		}
	case continueSignal:
		if sig.label == "" || sig.label == label {
			return loopNext, nil, nil
		}
	}
	return loopPropagate, nil, err
}

func labelName(id *ast.Identifier) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func (i *Interpreter) evaluateLoopExpression(loop *ast.LoopExpression, env *runtime.Environment) (runtime.Value, error) {
	label := labelName(loop.Label)
	i.state.pushBreakpoint(label)
	defer i.state.popBreakpoint()
	for {
		if _, err := i.evaluateBlock(loop.Body, env); err != nil {
			action, val, err := interceptLoopSignal(err, label)
			switch action {
			case loopStop:
				return val, nil
			case loopNext:
				continue
			default:
				return nil, err
			}
		}
	}
}

func (i *Interpreter) evaluateLoopThrough(loop *ast.LoopThroughExpression, env *runtime.Environment) (runtime.Value, error) {
	if len(loop.Bindings) > 2 {
		return nil, runtime.Errorf(runtime.ErrInvalidOperation, "loop through accepts at most 2 bindings, got %d", len(loop.Bindings))
	}
	iterable, err := i.evaluateExpression(loop.Iterable, env)
	if err != nil {
		return nil, err
	}
	iterable, err = i.forceModule(iterable)
	if err != nil {
		return nil, err
	}
	items, err := i.iterationItems(iterable, len(loop.Bindings))
	if err != nil {
		return nil, runtime.WithSpan(err, loop.Iterable.Span())
	}
	label := labelName(loop.Label)
	i.state.pushBreakpoint(label)
	defer i.state.popBreakpoint()
	for _, item := range items {
		scope := env
		if len(loop.Bindings) > 0 {
			scope = runtime.NewEnvironment(env)
			for idx, binding := range loop.Bindings {
				scope.Define(binding.Name, item[idx])
			}
		}
		if _, err := i.evaluateBlock(loop.Body, scope); err != nil {
			action, val, err := interceptLoopSignal(err, label)
			switch action {
			case loopStop:
				return val, nil
			case loopNext:
				continue
			default:
				return nil, err
			}
		}
	}
	return runtime.Nil, nil
}

// iterationItems snapshots what a loop visits; each item carries one value per
// binding.
func (i *Interpreter) iterationItems(iterable runtime.Value, bindings int) ([][]runtime.Value, error) {
	pick := func(first, second runtime.Value) []runtime.Value {
		switch bindings {
		case 0:
			return nil
		case 1:
			return []runtime.Value{first}
		default:
			return []runtime.Value{first, second}
		}
	}
	indexed := func(elements []runtime.Value) [][]runtime.Value {
		items := make([][]runtime.Value, 0, len(elements))
		for idx, el := range elements {
			if bindings == 2 {
				items = append(items, []runtime.Value{runtime.Int(int64(idx)), el})
				continue
			}
			items = append(items, pick(el, nil))
		}
		return items
	}
	switch v := iterable.(type) {
	case runtime.ListValue:
		return indexed(v.Elements), nil
	case runtime.TupleValue:
		return indexed(v.Elements), nil
	case runtime.StringValue:
		chars := []rune(v.Val)
		elements := make([]runtime.Value, len(chars))
		for idx, ch := range chars {
			elements[idx] = runtime.String(string(ch))
		}
		return indexed(elements), nil
	case *runtime.MapValue:
		entries := v.Entries()
		items := make([][]runtime.Value, 0, len(entries))
		for _, entry := range entries {
			items = append(items, pick(entry.Key.Value(), entry.Value))
		}
		return items, nil
	case runtime.EnvMapValue:
		names := runtime.EnvNames()
		items := make([][]runtime.Value, 0, len(names))
		for _, name := range names {
			items = append(items, pick(runtime.String(name), envLookup(name)))
		}
		return items, nil
	case *runtime.StreamValue, runtime.StreamProxyValue:
		stream, _ := i.io.ResolveStream(v)
		var lines []runtime.Value
		for {
			line, ok, err := stream.ReadLine()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			lines = append(lines, runtime.String(line))
		}
		return indexed(lines), nil
	default:
		return nil, runtime.Errorf(runtime.ErrTypeError, "cannot loop through %s", runtime.TypeName(iterable))
	}
}

func (i *Interpreter) evaluateBreak(expr *ast.BreakExpression, env *runtime.Environment) (runtime.Value, error) {
	label := labelName(expr.Label)
	if err := i.checkLoopTarget("break", label); err != nil {
		return nil, err
	}
	var val runtime.Value = runtime.Nil
	if expr.Value != nil {
		v, err := i.evaluateExpression(expr.Value, env)
		if err != nil {
			return nil, err
		}
		val = v
	}
	log.LogVf("break %q", label)
	return nil, breakSignal{label: label, value: val}
}

func (i *Interpreter) evaluateContinue(expr *ast.ContinueExpression, env *runtime.Environment) (runtime.Value, error) {
	label := labelName(expr.Label)
	if err := i.checkLoopTarget("continue", label); err != nil {
		return nil, err
	}
	return nil, continueSignal{label: label}
}

func (i *Interpreter) checkLoopTarget(keyword, label string) error {
	if label == "" {
		if !i.state.inLoop() {
			return runtime.Errorf(runtime.ErrInvalidOperation, "%s outside of loop", keyword)
		}
		return nil
	}
	if !i.state.hasBreakpoint(label) {
		return runtime.Errorf(runtime.ErrInvalidOperation, "%s to unknown loop label '%s'", keyword, label)
	}
	return nil
}

func (i *Interpreter) evaluateReturn(expr *ast.ReturnExpression, env *runtime.Environment) (runtime.Value, error) {
	var val runtime.Value = runtime.Nil
	if expr.Value != nil {
		v, err := i.evaluateExpression(expr.Value, env)
		if err != nil {
			return nil, err
		}
		val = v
	}
	return nil, returnSignal{value: val}
}
