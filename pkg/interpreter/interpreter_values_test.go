package interpreter

import (
	"bytes"
	"testing"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func TestNegativeIndexWrapsAround(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	xs := ast.List(ast.Int(1), ast.Int(2), ast.Int(3))
	expectNumber(t, evalModule(t, interp, ast.Index(xs, ast.Int(-1))), "3")
	expectString(t, evalModule(t, interp, ast.Index(ast.Str("héllo"), ast.Int(1))), "é")

	err := evalModuleErr(t, interp, ast.Index(xs, ast.Int(-4)))
	expectKind(t, err, runtime.ErrIndexOutOfBounds)
	err = evalModuleErr(t, interp, ast.Index(xs, ast.Num("1.5")))
	expectKind(t, err, runtime.ErrTypeError)
}

func TestSliceClampsBounds(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	xs := ast.List(ast.Int(1), ast.Int(2), ast.Int(3), ast.Int(4), ast.Int(5))
	result := evalModule(t, interp, ast.Slice(xs, ast.Int(1), ast.Int(-1)))
	if got := runtime.Inspect(result); got != "[2, 3, 4]" {
		t.Fatalf("unexpected slice %s", got)
	}
	result = evalModule(t, interp, ast.Slice(xs, nil, ast.Int(100)))
	if got := runtime.Inspect(result); got != "[1, 2, 3, 4, 5]" {
		t.Fatalf("unexpected slice %s", got)
	}
	expectString(t, evalModule(t, interp, ast.Slice(ast.Str("hello"), ast.Int(3), ast.Int(1))), "")
}

func TestListAssignmentDoesNotAlias(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("a"), ast.List(ast.Int(1), ast.Int(2))),
		ast.Assign(ast.ID("b"), ast.ID("a")),
		ast.Set(ast.Index(ast.ID("b"), ast.Int(0)), ast.Int(9)),
		ast.Tuple(ast.Index(ast.ID("a"), ast.Int(0)), ast.Index(ast.ID("b"), ast.Int(0))),
	)
	if got := runtime.Inspect(result); got != "(1, 9)" {
		t.Fatalf("expected (1, 9), got %s", got)
	}
}

func TestMapAssignmentThroughNestedAccess(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("m"), ast.MapLit(ast.Entry(ast.Str("inner"), ast.MapLit(ast.Entry(ast.Str("k"), ast.Int(1)))))),
		ast.Assign(ast.ID("n"), ast.ID("m")),
		ast.Set(ast.Access(ast.Access(ast.ID("n"), "inner"), "k"), ast.Int(2)),
		ast.Tuple(ast.Access(ast.Access(ast.ID("m"), "inner"), "k"), ast.Access(ast.Access(ast.ID("n"), "inner"), "k")),
	)
	if got := runtime.Inspect(result); got != "(1, 2)" {
		t.Fatalf("expected (1, 2), got %s", got)
	}

	err := evalModuleErr(t, interp, ast.Access(ast.ID("m"), "missing"))
	expectKind(t, err, runtime.ErrKeyNotFound)
}

func TestMapKeysRejectUnhashableValues(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	err := evalModuleErr(t, interp, ast.MapLit(ast.Entry(ast.List(), ast.Int(1))))
	expectKind(t, err, runtime.ErrInvalidMapKey)
}

func TestDestructuringAssignment(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.Tuple(ast.ID("a"), ast.ID("b")), ast.Tuple(ast.Int(1), ast.Int(2))),
		ast.Bin("-", ast.ID("b"), ast.ID("a")),
	)
	expectNumber(t, result, "1")

	err := evalModuleErr(t, interp, ast.Assign(ast.Tuple(ast.ID("a"), ast.ID("b")), ast.Tuple(ast.Int(1))))
	expectKind(t, err, runtime.ErrDestructuring)
	err = evalModuleErr(t, interp, ast.Assign(ast.Tuple(ast.ID("a"), ast.ID("b")), ast.Int(1)))
	expectKind(t, err, runtime.ErrDestructuring)
}

func TestPostfixAndCompoundAssignment(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("x"), ast.Int(1)),
		ast.Assign(ast.ID("y"), ast.Inc(ast.ID("x"))),
		ast.AssignOp(ast.AssignmentMul, ast.ID("x"), ast.Int(5)),
		ast.Tuple(ast.ID("x"), ast.ID("y")),
	)
	if got := runtime.Inspect(result); got != "(10, 1)" {
		t.Fatalf("expected (10, 1), got %s", got)
	}
}

func TestArityAndDefaults(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	defs := []ast.Statement{
		ast.FnDef("add", ast.Params("a", "b"), ast.Bin("+", ast.ID("a"), ast.ID("b"))),
		ast.FnDef("greet", []*ast.FunctionParameter{ast.Param("name"), ast.ParamDefault("greeting", ast.Str("hi"))},
			ast.Tmpl(ast.Interp(ast.ID("greeting")), ast.Text(" "), ast.Interp(ast.ID("name")))),
	}
	result := evalModule(t, interp, append(defs, ast.Call("greet", ast.Str("bob")))...)
	expectString(t, result, "hi bob")

	err := evalModuleErr(t, interp, ast.Call("add", ast.Int(1)))
	expectKind(t, err, runtime.ErrArityMismatch)
	err = evalModuleErr(t, interp, ast.Call("add", ast.Int(1), ast.Int(2), ast.Int(3)))
	expectKind(t, err, runtime.ErrArityMismatch)
	err = evalModuleErr(t, interp, ast.CallExpr(ast.Int(1)))
	expectKind(t, err, runtime.ErrNotCallable)
}

func TestRecursionLimit(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{}, WithMaxCallDepth(50))
	err := evalModuleErr(t, interp,
		ast.FnDef("forever", nil, ast.Call("forever")),
		ast.Call("forever"),
	)
	expectKind(t, err, runtime.ErrRecursionLimit)
}

func TestMethodWriteBackUpdatesReceiver(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	interp.RegisterMethod(runtime.KindList, "push", func(ctx *runtime.NativeCallContext, recv runtime.Value, args []runtime.Value) (runtime.Value, runtime.Value, error) {
		list := recv.(runtime.ListValue)
		elements := append(append([]runtime.Value(nil), list.Elements...), args...)
		return runtime.Nil, runtime.ListValue{Elements: elements}, nil
	})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("xs"), ast.List(ast.Int(1))),
		ast.Assign(ast.ID("ys"), ast.ID("xs")),
		ast.Method(ast.ID("xs"), "push", ast.Int(2)),
		ast.Tuple(ast.ID("xs"), ast.ID("ys")),
	)
	if got := runtime.Inspect(result); got != "([1, 2], [1])" {
		t.Fatalf("unexpected receivers %s", got)
	}

	err := evalModuleErr(t, interp, ast.Method(ast.ID("xs"), "nope"))
	expectKind(t, err, runtime.ErrInvalidOperation)
}

func TestMapFunctionEntriesAreCallableAsMethods(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("m"), ast.MapLit(ast.Entry(ast.Str("twice"), ast.Fn(ast.Params("x"), ast.Bin("*", ast.ID("x"), ast.Int(2)))))),
		ast.Method(ast.ID("m"), "twice", ast.Int(4)),
	)
	expectNumber(t, result, "8")
}

func TestErrorsCarryInnermostSpan(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	missing := ast.WithSpan(ast.ID("missing"), 2, 5, 2, 12)
	call := ast.WithSpan(ast.Call("println", missing), 2, 1, 2, 13)
	_, _, err := interp.EvaluateModule(ast.Mod(call))
	if err == nil {
		t.Fatalf("expected error")
	}
	diag := DescribeError(err)
	if diag.Kind != runtime.ErrUndefinedVariable || !diag.HasSpan {
		t.Fatalf("unexpected diagnostic %+v", diag)
	}
	if diag.Span.Start.Column != 5 {
		t.Fatalf("expected innermost span, got %s", diag.Span)
	}
}

func TestExitCodeFromError(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	interp.RegisterBuiltin("exit", func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
		return nil, runtime.ExitError{Code: 3}
	})
	interp.DefineGlobal("exit", runtime.NewBuiltinFunction("exit"))
	err := evalModuleErr(t, interp, ast.Call("exit"))
	code, ok := ExitCodeFromError(err)
	if !ok || code != 3 {
		t.Fatalf("expected exit 3, got %d %v", code, ok)
	}
}

func TestHugeIntegralIndexIsOutOfBounds(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	xs := ast.List(ast.Int(1), ast.Int(2), ast.Int(3))
	for _, index := range []string{"1e30", "-1e30"} {
		err := evalModuleErr(t, interp, ast.Index(xs, ast.Num(index)))
		expectKind(t, err, runtime.ErrIndexOutOfBounds)
	}
	err := evalModuleErr(t, interp, ast.Index(ast.Str("abc"), ast.Num("99999999999999999999")))
	expectKind(t, err, runtime.ErrIndexOutOfBounds)

	result := evalModule(t, interp, ast.Slice(xs, ast.Num("-1e30"), ast.Num("1e30")))
	if got := runtime.Inspect(result); got != "[1, 2, 3]" {
		t.Fatalf("unexpected slice %s", got)
	}
}
