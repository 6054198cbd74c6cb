package interpreter

import (
	"errors"
	"strings"

	"fortio.org/log"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

type stageKind int

const (
	stageValue stageKind = iota
	stageClosure
	stageCall
	stageShell
)

func (k stageKind) String() string {
	switch k {
	case stageClosure:
		return "closure"
	case stageCall:
		return "call"
	case stageShell:
		return "shell"
	default:
		return "value"
	}
}

type pipeStage struct {
	kind  stageKind
	fn    runtime.Value
	args  []runtime.Value
	value runtime.Value
	shell *ast.ShellCommand
}

// flattenPipe unrolls nested `|` nodes and groupings into a stage list.
func flattenPipe(expr ast.Expression, out []ast.Expression) []ast.Expression {
	switch n := expr.(type) {
	case *ast.BinaryExpression:
		if n.Operator == ast.OpPipe {
			out = flattenPipe(n.Left, out)
			return flattenPipe(n.Right, out)
		}
	case *ast.GroupExpression:
		return flattenPipe(n.Inner, out)
	}
	return append(out, expr)
}

func (i *Interpreter) buildStages(exprs []ast.Expression, env *runtime.Environment) ([]pipeStage, error) {
	stages := make([]pipeStage, 0, len(exprs))
	for idx, expr := range exprs {
		switch n := expr.(type) {
		case *ast.ShellCommand:
			stages = append(stages, pipeStage{kind: stageShell, shell: n})
		case *ast.CallExpression:
			callee, err := i.evaluateExpression(n.Callee, env)
			if err != nil {
				return nil, err
			}
			if _, ok := callee.(*runtime.FunctionValue); !ok {
				return nil, runtime.WithSpan(runtime.Errorf(runtime.ErrNotCallable, "pipe stage %d: value of type %s is not callable", idx+1, runtime.TypeName(callee)), n.Span())
			}
			args, err := i.evaluateExpressions(n.Arguments, env)
			if err != nil {
				return nil, err
			}
			stages = append(stages, pipeStage{kind: stageCall, fn: callee, args: args})
		default:
			val, err := i.evaluateExpression(expr, env)
			if err != nil {
				return nil, err
			}
			if _, ok := val.(*runtime.FunctionValue); ok {
				if idx == 0 {
					return nil, runtime.WithSpan(runtime.Errorf(runtime.ErrUnappliedFunctionInPipe, "unapplied function at the start of a pipe: write `a(x) | b(y)` instead of `a | b`"), expr.Span())
				}
				stages = append(stages, pipeStage{kind: stageClosure, fn: val})
				continue
			}
			if idx > 0 {
				return nil, runtime.WithSpan(runtime.Errorf(runtime.ErrPipeExecution, "pipe stage %d is a %s, not a function or command", idx+1, runtime.TypeName(val)), expr.Span())
			}
			stages = append(stages, pipeStage{kind: stageValue, value: val})
		}
	}
	return stages, nil
}

// evaluatePipe runs stages left to right. Each non-final stage writes into a
// private buffer that becomes the next stage's stdin; only the final stage
// reaches the ambient stdout.
func (i *Interpreter) evaluatePipe(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	stages, err := i.buildStages(flattenPipe(expr, nil), env)
	if err != nil {
		return nil, err
	}
	var input []byte
	var prev runtime.Value
	for idx, stage := range stages {
		final := idx == len(stages)-1
		log.LogVf("pipe stage %d/%d (%s)", idx+1, len(stages), stage.kind)
		switch stage.kind {
		case stageValue:
			prev = stage.value
			input = nil
			if !runtime.IsNil(prev) {
				input = []byte(runtime.Stringify(prev))
			}
			if final {
				return prev, nil
			}
		case stageShell:
			out, err := i.runShellStage(stage.shell, input, env)
			if err != nil {
				return nil, stageError(idx, stage.kind, err)
			}
			if final {
				return runtime.String(strings.TrimSuffix(string(out), "\n")), nil
			}
			input = out
			prev = runtime.String(string(out))
		default:
			result, captured, err := i.runFunctionStage(stage, prev, input, final, env)
			if err != nil {
				return nil, stageError(idx, stage.kind, err)
			}
			if final {
				return result, nil
			}
			if len(captured) > 0 {
				input = captured
				prev = runtime.String(string(captured))
				continue
			}
			prev = result
			input = nil
			if !runtime.IsNil(result) {
				input = []byte(runtime.Stringify(result))
			}
		}
	}
	if prev == nil {
		return runtime.Nil, nil
	}
	return prev, nil
}

func (i *Interpreter) runFunctionStage(stage pipeStage, prev runtime.Value, input []byte, final bool, env *runtime.Environment) (runtime.Value, []byte, error) {
	fn := stage.fn.(*runtime.FunctionValue)
	args := append([]runtime.Value(nil), stage.args...)
	if prev != nil && takesPipedValue(stage.kind, fn, len(args)) {
		args = append(args, prev)
	}
	ctx := i.io
	var overrides []envOverride
	if input != nil {
		in := runtime.NewMemoryReader(input)
		ctx.Stdin = in
		overrides = append(overrides, envOverride{name: "stdin", value: in})
	}
	var out *runtime.StreamValue
	if !final {
		out = runtime.NewMemoryWriter()
		ctx.Stdout = out
		overrides = append(overrides, envOverride{name: "stdout", value: out})
	}
	result, err := i.withIO(ctx, func() (runtime.Value, error) {
		res, err := i.callFunction(fn, args, env, overrides)
		if err != nil {
			return nil, err
		}
		if inner, ok := res.(*runtime.FunctionValue); ok && !final {
			if unwrapped, err := i.callFunction(inner, nil, env, overrides); err == nil {
				return unwrapped, nil
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if out == nil {
		return result, nil, nil
	}
	return result, out.TakeOutput(), nil
}

// takesPipedValue reports whether the previous stage's value is appended to
// the stage's arguments. Builtins declare no parameters, so they only ever see
// the piped value on stdin, whether referenced bare or called.
func takesPipedValue(kind stageKind, fn *runtime.FunctionValue, explicit int) bool {
	if fn.IsBuiltin() {
		return false
	}
	if kind == stageClosure {
		return len(fn.Params) >= 1
	}
	return len(fn.Params) > explicit
}

func stageError(idx int, kind stageKind, err error) error {
	if runtime.IsControlFlow(err) {
		return err
	}
	var exit runtime.ExitError
	if errors.As(err, &exit) {
		return err
	}
	inner := runtime.MessageOf(err)
	if k := runtime.KindOf(err); k != runtime.ErrGeneric {
		inner = k.String() + ": " + inner
	}
	return runtime.Errorf(runtime.ErrPipeExecution, "pipe stage %d (%s) failed: %s", idx+1, kind, inner)
}

func (i *Interpreter) evaluatePipeApply(expr *ast.BinaryExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	fn, arg := right, left
	if expr.Operator == ast.OpApplyLeft {
		fn, arg = left, right
	}
	if _, ok := fn.(*runtime.FunctionValue); !ok {
		if expr.Operator == ast.OpApplyLeft {
			return nil, runtime.Errorf(runtime.ErrPipeApplyLeftType, "left side of <| must be a function, got %s", runtime.TypeName(fn))
		}
		return nil, runtime.Errorf(runtime.ErrPipeApplyRightType, "right side of |> must be a function, got %s", runtime.TypeName(fn))
	}
	return i.callFunction(fn, []runtime.Value{arg}, env, nil)
}
