package interpreter

import (
	"bytes"
	"testing"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// newTestInterpreter wires a minimal println and read_all so tests can
// observe output redirection without the standard library.
func newTestInterpreter(stdout *bytes.Buffer, opts ...Option) *Interpreter {
	opts = append([]Option{WithStdout(stdout), WithStderr(&bytes.Buffer{}), WithStdin(&bytes.Buffer{})}, opts...)
	interp := New(opts...)
	interp.RegisterBuiltin("println", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		for _, arg := range args {
			if err := ctx.IO.Stdout.Write(runtime.Stringify(arg) + "\n"); err != nil {
				return nil, err
			}
		}
		return runtime.Nil, nil
	})
	interp.RegisterBuiltin("read_all", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		text, err := ctx.IO.Stdin.ReadAll()
		if err != nil {
			return nil, err
		}
		return runtime.String(text), nil
	})
	interp.DefineGlobal("println", runtime.NewBuiltinFunction("println"))
	interp.DefineGlobal("read_all", runtime.NewBuiltinFunction("read_all"))
	return interp
}

func evalModule(t *testing.T, interp *Interpreter, stmts ...ast.Statement) runtime.Value {
	t.Helper()
	result, _, err := interp.EvaluateModule(ast.Mod(stmts...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func evalModuleErr(t *testing.T, interp *Interpreter, stmts ...ast.Statement) error {
	t.Helper()
	_, _, err := interp.EvaluateModule(ast.Mod(stmts...))
	if err == nil {
		t.Fatalf("expected error")
	}
	return err
}

func expectNumber(t *testing.T, val runtime.Value, want string) {
	t.Helper()
	num, ok := val.(runtime.NumberValue)
	if !ok {
		t.Fatalf("expected number %s, got %#v", want, val)
	}
	if got := num.String(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func expectString(t *testing.T, val runtime.Value, want string) {
	t.Helper()
	str, ok := val.(runtime.StringValue)
	if !ok {
		t.Fatalf("expected string %q, got %#v", want, val)
	}
	if str.Val != want {
		t.Fatalf("expected %q, got %q", want, str.Val)
	}
}

func expectKind(t *testing.T, err error, want runtime.ErrorKind) {
	t.Helper()
	if got := runtime.KindOf(err); got != want {
		t.Fatalf("expected %s, got %s (%v)", want, got, err)
	}
}
