package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func TestLoopThroughSumsList(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("sum"), ast.Int(0)),
		ast.Through("", ast.List(ast.Int(1), ast.Int(2), ast.Int(3)), []string{"x"},
			ast.AssignOp(ast.AssignmentAdd, ast.ID("sum"), ast.ID("x")),
		),
		ast.ID("sum"),
	)
	expectNumber(t, result, "6")
}

func TestLoopThroughCapturesFreshBindingPerIteration(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("fns"), ast.List()),
		ast.Through("", ast.List(ast.Int(1), ast.Int(2), ast.Int(3)), []string{"x"},
			ast.Set(ast.ID("fns"), ast.Bin("+", ast.ID("fns"), ast.List(ast.Fn(nil, ast.ID("x"))))),
		),
		ast.Bin("+",
			ast.CallExpr(ast.Index(ast.ID("fns"), ast.Int(0))),
			ast.CallExpr(ast.Index(ast.ID("fns"), ast.Int(2))),
		),
	)
	expectNumber(t, result, "4")
}

func TestLoopThroughMapYieldsKeysAndValues(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("out"), ast.Str("")),
		ast.Through("", ast.MapLit(
			ast.Entry(ast.Str("a"), ast.Int(1)),
			ast.Entry(ast.Str("b"), ast.Int(2)),
		), []string{"k", "v"},
			ast.AssignOp(ast.AssignmentAdd, ast.ID("out"), ast.Tmpl(ast.Interp(ast.ID("k")), ast.Text("="), ast.Interp(ast.ID("v")), ast.Text(";"))),
		),
		ast.ID("out"),
	)
	expectString(t, result, "a=1;b=2;")
}

func TestBreakCarriesValueOutOfLoop(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("r"), ast.Loop("", ast.Brk("", ast.Int(42)))),
		ast.ID("r"),
	)
	expectNumber(t, result, "42")
}

func TestLabeledContinueSkipsToOuterLoop(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("total"), ast.Int(0)),
		ast.Through("outer", ast.List(ast.Int(1), ast.Int(2), ast.Int(3)), []string{"i"},
			ast.Through("", ast.List(ast.Int(10), ast.Int(20), ast.Int(30)), []string{"j"},
				ast.Match(ast.ID("j"),
					ast.Arm(ast.Val(ast.Int(20)), ast.Cont("outer")),
					ast.Arm(ast.Wild(), ast.Nil()),
				),
				ast.AssignOp(ast.AssignmentAdd, ast.ID("total"), ast.ID("j")),
			),
		),
		ast.ID("total"),
	)
	expectNumber(t, result, "30")
}

func TestLabeledBreakExitsBothLoops(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Assign(ast.ID("count"), ast.Int(0)),
		ast.Loop("outer",
			ast.Loop("",
				ast.Inc(ast.ID("count")),
				ast.Match(nil,
					ast.Arm(ast.Val(ast.Bin(">=", ast.ID("count"), ast.Int(3))), ast.Brk("outer", nil)),
				),
			),
		),
		ast.ID("count"),
	)
	expectNumber(t, result, "3")
}

func TestBreakOutsideLoopFails(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	err := evalModuleErr(t, interp, ast.Brk("", nil))
	expectKind(t, err, runtime.ErrInvalidOperation)

	err = evalModuleErr(t, interp, ast.Loop("", ast.Brk("missing", nil)))
	expectKind(t, err, runtime.ErrInvalidOperation)
	if !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected label in error, got %v", err)
	}
}

func TestReturnEscapesNestedLoops(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.FnDef("find", ast.Params("xs"), ast.Block(
			ast.Through("", ast.ID("xs"), []string{"x"},
				ast.Loop("",
					ast.Match(nil,
						ast.Arm(ast.Val(ast.Bin(">", ast.ID("x"), ast.Int(2))), ast.Ret(ast.ID("x"))),
						ast.Arm(ast.Wild(), ast.Brk("", nil)),
					),
				),
			),
			ast.Nil(),
		)),
		ast.Call("find", ast.List(ast.Int(1), ast.Int(5), ast.Int(7))),
	)
	expectNumber(t, result, "5")

	// The loop stack unwound with the return.
	err := evalModuleErr(t, interp, ast.Cont(""))
	expectKind(t, err, runtime.ErrInvalidOperation)
}

func TestTopLevelReturnEndsModule(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	result := evalModule(t, interp,
		ast.Ret(ast.Str("done")),
		ast.Call("println", ast.Str("unreachable")),
	)
	expectString(t, result, "done")
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

func TestMatchWithoutMatchingArmYieldsNil(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Match(ast.Int(5), ast.Arm(ast.Val(ast.Int(1)), ast.Str("one"))),
	)
	if !runtime.IsNil(result) {
		t.Fatalf("expected nil, got %#v", result)
	}
}

func TestMatchTupleAndRegexPatterns(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	result := evalModule(t, interp,
		ast.Match(ast.Tuple(ast.Int(1), ast.Str("x")),
			ast.Arm(ast.TuplePat(ast.Val(ast.Int(2)), ast.Wild()), ast.Str("miss")),
			ast.Arm(ast.TuplePat(ast.Val(ast.Int(1)), ast.Wild()), ast.Str("hit")),
		),
	)
	expectString(t, result, "hit")

	result = evalModule(t, interp,
		ast.Match(ast.Str("aaa"),
			ast.Arm(ast.RePat("^b"), ast.Str("b")),
			ast.Arm(ast.RePat("^a+$"), ast.Str("a")),
		),
	)
	expectString(t, result, "a")
}

func TestConditionalMatchRequiresBooleanGuards(t *testing.T) {
	interp := newTestInterpreter(&bytes.Buffer{})
	err := evalModuleErr(t, interp,
		ast.Match(nil, ast.Arm(ast.Val(ast.Int(1)), ast.Str("x"))),
	)
	expectKind(t, err, runtime.ErrTypeError)
}

func TestLogicalOperatorsShortCircuit(t *testing.T) {
	var out bytes.Buffer
	interp := newTestInterpreter(&out)
	result := evalModule(t, interp, ast.Tuple(
		ast.Bin("&&", ast.Bool(false), ast.ID("undefined_x")),
		ast.Bin("||", ast.Bool(true), ast.ID("undefined_y")),
		ast.Bin("&&", ast.Bool(false), ast.Call("println", ast.Str("side effect"))),
		ast.Bin("&&", ast.Bool(true), ast.Bool(false)),
	))
	if got := runtime.Inspect(result); got != "(false, true, false, false)" {
		t.Fatalf("unexpected result %s", got)
	}
	if out.Len() != 0 {
		t.Fatalf("right operand was evaluated: %q", out.String())
	}

	err := evalModuleErr(t, interp, ast.Bin("||", ast.Bool(false), ast.ID("undefined_z")))
	expectKind(t, err, runtime.ErrUndefinedVariable)
}
