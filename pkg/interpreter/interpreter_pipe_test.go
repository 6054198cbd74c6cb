package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func definePipeHelpers() []ast.Statement {
	return []ast.Statement{
		ast.FnDef("double", ast.Params("x"), ast.Bin("*", ast.ID("x"), ast.Int(2))),
		ast.FnDef("inc", ast.Params("x"), ast.Bin("+", ast.ID("x"), ast.Int(1))),
		ast.FnDef("emit", nil, ast.Block(
			ast.Call("println", ast.Str("a")),
			ast.Call("println", ast.Str("b")),
		)),
	}
}

func TestPipePassesReturnValuesBetweenClosures(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	stmts := append(definePipeHelpers(), ast.Pipe(ast.Call("double", ast.Int(3)), ast.ID("inc")))
	result := evalModule(t, interp, stmts...)
	expectNumber(t, result, "7")
	if out.Len() != 0 {
		t.Fatalf("expected no stdout, got %q", out.String())
	}
}

func TestPipeCapturesIntermediateOutput(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	stmts := append(definePipeHelpers(),
		ast.Pipe(ast.Call("emit"), ast.Fn(ast.Params("text"), ast.ID("text"))),
	)
	result := evalModule(t, interp, stmts...)
	expectString(t, result, "a\nb\n")
	if out.Len() != 0 {
		t.Fatalf("intermediate output leaked: %q", out.String())
	}
}

func TestPipeFeedsCapturedOutputToStdin(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	stmts := append(definePipeHelpers(), ast.Pipe(ast.Call("emit"), ast.ID("read_all")))
	result := evalModule(t, interp, stmts...)
	expectString(t, result, "a\nb\n")
}

func TestPipeFinalStageWritesToAmbientStdout(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	stmts := append(definePipeHelpers(),
		ast.Pipe(ast.Call("double", ast.Int(2)), ast.Fn(ast.Params("v"), ast.Call("println", ast.ID("v")))),
	)
	evalModule(t, interp, stmts...)
	if out.String() != "4\n" {
		t.Fatalf("expected final stage output, got %q", out.String())
	}
}

func TestPipeThroughShellCommand(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	stmts := append(definePipeHelpers(),
		ast.Pipe(ast.Call("emit"), ast.Sh(ast.Text("tr a-z A-Z"))),
	)
	result := evalModule(t, interp, stmts...)
	expectString(t, result, "A\nB")
}

func TestPipeRejectsUnappliedLeadingFunction(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	stmts := append(definePipeHelpers(), ast.Pipe(ast.ID("double"), ast.ID("inc")))
	err := evalModuleErr(t, interp, stmts...)
	expectKind(t, err, runtime.ErrUnappliedFunctionInPipe)
}

func TestPipeStageFailureNamesStage(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	stmts := append(definePipeHelpers(),
		ast.Pipe(ast.Call("double", ast.Int(1)), ast.Fn(ast.Params("v"), ast.Bin("+", ast.ID("v"), ast.Str("x")))),
	)
	err := evalModuleErr(t, interp, stmts...)
	expectKind(t, err, runtime.ErrPipeExecution)
	if !strings.Contains(err.Error(), "pipe stage 2 (closure) failed") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestPipeRestoresIOAfterFailure(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	stmts := append(definePipeHelpers(),
		ast.Pipe(ast.Call("double", ast.Int(1)), ast.Fn(ast.Params("v"), ast.Bin("+", ast.ID("v"), ast.Str("x")))),
	)
	evalModuleErr(t, interp, stmts...)
	evalModule(t, interp, ast.Call("println", ast.Str("after")))
	if out.String() != "after\n" {
		t.Fatalf("expected ambient stdout restored, got %q", out.String())
	}
}

func TestApplyOperators(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp, append(definePipeHelpers(), ast.Bin("|>", ast.Int(3), ast.ID("double")))...)
	expectNumber(t, result, "6")

	result = evalModule(t, interp, ast.Bin("<|", ast.ID("inc"), ast.Int(4)))
	expectNumber(t, result, "5")

	err := evalModuleErr(t, interp, ast.Bin("|>", ast.Int(1), ast.Int(2)))
	expectKind(t, err, runtime.ErrPipeApplyRightType)

	err = evalModuleErr(t, interp, ast.Bin("<|", ast.Int(1), ast.Int(2)))
	expectKind(t, err, runtime.ErrPipeApplyLeftType)
}

func TestShellCommandFailure(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	err := evalModuleErr(t, interp, ast.Sh(ast.Text("echo boom >&2; exit 3")))
	expectKind(t, err, runtime.ErrShellCommand)
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected stderr in message, got %v", err)
	}
}

func TestShellCommandSeesEnvOverlay(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	interp.DefineGlobal("env", runtime.EnvMapValue{})
	result := evalModule(t, interp,
		ast.Set(ast.Index(ast.ID("env"), ast.Str("SUJI_PIPE_TEST_VAR")), ast.Str("hello")),
		ast.Sh(ast.Text(`printf '%s' "$SUJI_PIPE_TEST_VAR"`)),
	)
	expectString(t, result, "hello")

	result = evalModule(t, interp,
		ast.Set(ast.Access(ast.ID("env"), "SUJI_PIPE_TEST_VAR"), ast.Nil()),
		ast.Index(ast.ID("env"), ast.Str("SUJI_PIPE_TEST_VAR")),
	)
	if !runtime.IsNil(result) {
		t.Fatalf("expected unset variable, got %#v", result)
	}
}

func TestPipeStageReturningFunctionIsCalledOnceMore(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	result := evalModule(t, interp,
		ast.FnDef("mk", nil, ast.Fn(nil, ast.Call("println", ast.Str("inner")))),
		ast.Pipe(ast.Call("mk"), ast.Fn(ast.Params("text"), ast.ID("text"))),
	)
	expectString(t, result, "inner\n")
	if out.Len() != 0 {
		t.Fatalf("unwrapped call escaped the stage's stdout: %q", out.String())
	}
}

func TestPipeFunctionUnwrapStopsAfterOneLevel(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	result := evalModule(t, interp,
		ast.FnDef("nested", nil, ast.Fn(nil, ast.Fn(nil, ast.Call("println", ast.Str("deep"))))),
		ast.Pipe(ast.Call("nested"), ast.Fn(ast.Params("v"), ast.ID("v"))),
	)
	if _, ok := result.(*runtime.FunctionValue); !ok {
		t.Fatalf("expected the innermost function to pass through, got %s", runtime.Inspect(result))
	}
	if out.Len() != 0 {
		t.Fatalf("innermost function was called: %q", out.String())
	}
}

func TestPipeFunctionUnwrapFallsBackOnFailure(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.FnDef("needsArg", nil, ast.Fn(ast.Params("x"), ast.ID("x"))),
		ast.Pipe(ast.Call("needsArg"), ast.Fn(ast.Params("v"), ast.ID("v"))),
	)
	fn, ok := result.(*runtime.FunctionValue)
	if !ok || len(fn.Params) != 1 || fn.Params[0].Name != "x" {
		t.Fatalf("expected the original one-parameter function, got %s", runtime.Inspect(result))
	}
}

func TestPipeBuiltinStagesReadFromStdinOnly(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	interp.RegisterBuiltin("argc_and_input", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		text, err := ctx.IO.Stdin.ReadAll()
		if err != nil {
			return nil, err
		}
		return runtime.Tuple(runtime.Int(int64(len(args))), runtime.String(text)), nil
	})
	interp.DefineGlobal("argc_and_input", runtime.NewBuiltinFunction("argc_and_input"))
	stmts := append(definePipeHelpers(),
		ast.Assign(ast.ID("bare"), ast.Pipe(ast.Call("double", ast.Int(2)), ast.ID("argc_and_input"))),
		ast.Assign(ast.ID("called"), ast.Pipe(ast.Call("double", ast.Int(2)), ast.Call("argc_and_input"))),
		ast.Tuple(ast.ID("bare"), ast.ID("called")),
	)
	result := evalModule(t, interp, stmts...)
	if got := runtime.Inspect(result); got != `((0, "4"), (0, "4"))` {
		t.Fatalf("unexpected builtin stage inputs %s", got)
	}
}
