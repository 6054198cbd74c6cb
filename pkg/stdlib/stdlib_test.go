package stdlib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/interpreter"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

func newInterpreter(stdout *bytes.Buffer, stdin string) *interpreter.Interpreter {
	interp := interpreter.New(
		interpreter.WithStdout(stdout),
		interpreter.WithStderr(&bytes.Buffer{}),
		interpreter.WithStdin(strings.NewReader(stdin)),
	)
	Install(interp)
	return interp
}

func run(t *testing.T, interp *interpreter.Interpreter, stmts ...ast.Statement) runtime.Value {
	t.Helper()
	result, _, err := interp.EvaluateModule(ast.Mod(stmts...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func TestPreludeAndStdModule(t *testing.T) {
	var out bytes.Buffer
	interp := newInterpreter(&out, "")
	run(t, interp,
		ast.Call("println", ast.Str("a"), ast.Int(1)),
		ast.Import("std"),
		ast.CallExpr(ast.Access(ast.ID("std"), "print"), ast.Str("b")),
	)
	if out.String() != "a 1\nb" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestCoreBuiltins(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp, ast.Tuple(
		ast.Call("len", ast.Str("héllo")),
		ast.Call("str", ast.List(ast.Int(1), ast.Str("x"))),
		ast.Call("num", ast.Str(" 2.50 ")),
		ast.Call("type_of", ast.MapLit()),
		ast.Call("range", ast.Int(1), ast.Int(7), ast.Int(2)),
	))
	if got := runtime.Inspect(result); got != `(5, "[1, \"x\"]", 2.5, "map", [1, 3, 5])` {
		t.Fatalf("unexpected builtin results %s", got)
	}

	_, _, err := interp.EvaluateModule(ast.Mod(ast.Call("num", ast.Str("abc"))))
	if runtime.KindOf(err) != runtime.ErrInvalidNumber {
		t.Fatalf("expected InvalidNumber, got %v", err)
	}
}

func TestExitBuiltinRequestsTermination(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	_, _, err := interp.EvaluateModule(ast.Mod(
		ast.ImportItem("std", "exit", ""),
		ast.Call("exit", ast.Int(4)),
	))
	code, ok := interpreter.ExitCodeFromError(err)
	if !ok || code != 4 {
		t.Fatalf("expected exit 4, got %v", err)
	}
}

func TestLazySubmoduleImport(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp,
		ast.ImportItem("std", "json", ""),
		ast.Assign(ast.ID("doc"), ast.CallExpr(ast.Access(ast.ID("json"), "parse"), ast.Str(`{"b": 1, "a": [1, 2.50, true, null]}`))),
		ast.CallExpr(ast.Access(ast.ID("json"), "generate"), ast.ID("doc")),
	)
	if s, ok := result.(runtime.StringValue); !ok || s.Val != `{"b":1,"a":[1,2.5,true,null]}` {
		t.Fatalf("unexpected json %#v", result)
	}
}

func TestJSONRejectsTrailingData(t *testing.T) {
	if _, err := DecodeJSON(`{"a": 1} 2`); runtime.KindOf(err) != runtime.ErrJSONParse {
		t.Fatalf("expected JsonParseError, got %v", err)
	}
	if _, err := DecodeJSON(`{"a": `); runtime.KindOf(err) != runtime.ErrJSONParse {
		t.Fatalf("expected JsonParseError, got %v", err)
	}
	if _, err := EncodeJSON(runtime.NewBuiltinFunction("f")); runtime.KindOf(err) != runtime.ErrJSONGenerate {
		t.Fatalf("expected JsonGenerateError, got %v", err)
	}
}

func TestYAMLKeepsMappingOrder(t *testing.T) {
	val, err := DecodeYAML("zeta: 1\nalpha:\n  - x\n  - 2.5\nflag: yes\nnothing: ~\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := runtime.Inspect(val); got != `{"zeta": 1, "alpha": ["x", 2.5], "flag": "yes", "nothing": nil}` {
		t.Fatalf("unexpected yaml value %s", got)
	}
	text, err := EncodeYAML(val)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.HasPrefix(text, "zeta: 1\nalpha:\n") {
		t.Fatalf("unexpected yaml text %q", text)
	}
	if _, err := DecodeYAML("a: [1, 2"); runtime.KindOf(err) != runtime.ErrYAMLParse {
		t.Fatalf("expected YamlParseError, got %v", err)
	}
}

func TestTOMLKeepsDocumentOrder(t *testing.T) {
	val, err := DecodeTOML("b = 1\na = \"x\"\n\n[table]\nz = 1.5\ny = true\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := runtime.Inspect(val); got != `{"b": 1, "a": "x", "table": {"z": 1.5, "y": true}}` {
		t.Fatalf("unexpected toml value %s", got)
	}
	text, err := EncodeTOML(val)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(text, "[table]") {
		t.Fatalf("expected table header in %q", text)
	}
	if _, err := EncodeTOML(runtime.List()); runtime.KindOf(err) != runtime.ErrTOMLGenerate {
		t.Fatalf("expected TomlGenerateError, got %v", err)
	}
}

func TestCSVWithHeaders(t *testing.T) {
	val, err := DecodeCSV("name,age\nann,31\nbo,\"4,5\"\n", true)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := runtime.Inspect(val); got != `[{"name": "ann", "age": "31"}, {"name": "bo", "age": "4,5"}]` {
		t.Fatalf("unexpected csv value %s", got)
	}
	text, err := EncodeCSV(val)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if text != "name,age\nann,31\nbo,\"4,5\"\n" {
		t.Fatalf("unexpected csv text %q", text)
	}
}

func TestListMethodsWithClosures(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp,
		ast.Assign(ast.ID("xs"), ast.List(ast.Int(1), ast.Int(2), ast.Int(3), ast.Int(4))),
		ast.Method(ast.ID("xs"), "push", ast.Int(5)),
		ast.Assign(ast.ID("evens"), ast.Method(ast.ID("xs"), "filter",
			ast.Fn(ast.Params("x"), ast.Bin("==", ast.Bin("%", ast.ID("x"), ast.Int(2)), ast.Int(0))))),
		ast.Assign(ast.ID("sum"), ast.Method(ast.ID("xs"), "fold", ast.Int(0),
			ast.Fn(ast.Params("acc", "x"), ast.Bin("+", ast.ID("acc"), ast.ID("x"))))),
		ast.Tuple(ast.ID("evens"), ast.ID("sum"), ast.Method(ast.Method(ast.ID("xs"), "map", ast.Fn(ast.Params("x"), ast.Call("str", ast.ID("x")))), "join", ast.Str("-"))),
	)
	if got := runtime.Inspect(result); got != `([2, 4], 15, "1-2-3-4-5")` {
		t.Fatalf("unexpected list results %s", got)
	}
}

func TestMapAndStringMethods(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp,
		ast.Assign(ast.ID("m"), ast.MapLit(ast.Entry(ast.Str("a"), ast.Int(1)), ast.Entry(ast.Str("b"), ast.Int(2)))),
		ast.Assign(ast.ID("removed"), ast.Method(ast.ID("m"), "delete", ast.Str("a"))),
		ast.Tuple(
			ast.ID("removed"),
			ast.Method(ast.ID("m"), "keys"),
			ast.Method(ast.ID("m"), "get", ast.Str("zzz"), ast.Int(0)),
			ast.Method(ast.Method(ast.Str(" Hi There "), "trim"), "upper"),
			ast.Method(ast.Str("a,b,c"), "split", ast.Str(",")),
		),
	)
	if got := runtime.Inspect(result); got != `(true, ["b"], 0, "HI THERE", ["a", "b", "c"])` {
		t.Fatalf("unexpected results %s", got)
	}
}

func TestStdinStreamThroughIOModule(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "one\ntwo\n")
	result := run(t, interp,
		ast.ImportItem("std", "io", ""),
		ast.Method(ast.Access(ast.ID("io"), "stdin"), "read_lines"),
	)
	if got := runtime.Inspect(result); got != `["one", "two"]` {
		t.Fatalf("unexpected lines %s", got)
	}
}

func TestPipeFeedsStdinProxy(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp,
		ast.ImportItem("std", "io", ""),
		ast.FnDef("emit", nil, ast.Block(
			ast.Call("println", ast.Str("x")),
			ast.Call("println", ast.Str("y")),
		)),
		ast.FnDef("count", nil, ast.Call("len", ast.CallExpr(ast.Access(ast.ID("io"), "read_lines")))),
		ast.Pipe(ast.Call("emit"), ast.Call("count")),
	)
	if n, ok := result.(runtime.NumberValue); !ok || n.String() != "2" {
		t.Fatalf("expected 2 lines, got %#v", result)
	}
}

func TestRegexModuleAndMethods(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp,
		ast.ImportItem("std", "regex", ""),
		ast.Tuple(
			ast.Method(ast.Re(`\d+`), "find_all", ast.Str("a1b22c333")),
			ast.CallExpr(ast.Access(ast.ID("regex"), "replace"), ast.Str(`\s+`), ast.Str("a  b   c"), ast.Str(" ")),
			ast.Method(ast.Re(`^z`), "find", ast.Str("abc")),
		),
	)
	if got := runtime.Inspect(result); got != `(["1", "22", "333"], "a b c", nil)` {
		t.Fatalf("unexpected regex results %s", got)
	}
}

func TestEnvMethods(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp,
		ast.ImportItem("std", "env", ""),
		ast.Method(ast.ID("env"), "set", ast.Str("SUJI_STDLIB_ENV_TEST"), ast.Int(5)),
		ast.Assign(ast.ID("before"), ast.Access(ast.ID("env"), "SUJI_STDLIB_ENV_TEST")),
		ast.Method(ast.ID("env"), "unset", ast.Str("SUJI_STDLIB_ENV_TEST")),
		ast.Tuple(ast.ID("before"), ast.Method(ast.ID("env"), "get", ast.Str("SUJI_STDLIB_ENV_TEST"), ast.Str("gone"))),
	)
	if got := runtime.Inspect(result); got != `("5", "gone")` {
		t.Fatalf("unexpected env results %s", got)
	}
}

func TestPipeIntoIOBuiltinsBareOrCalled(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp,
		ast.ImportItem("std", "io", ""),
		ast.FnDef("emit", nil, ast.Block(
			ast.Call("println", ast.Str("x")),
			ast.Call("println", ast.Str("y")),
		)),
		ast.Tuple(
			ast.Pipe(ast.Call("emit"), ast.Access(ast.ID("io"), "read_lines")),
			ast.Pipe(ast.Call("emit"), ast.CallExpr(ast.Access(ast.ID("io"), "read_lines"))),
		),
	)
	if got := runtime.Inspect(result); got != `(["x", "y"], ["x", "y"])` {
		t.Fatalf("unexpected lines %s", got)
	}
}

func TestMapMergeKeepsKeyTypes(t *testing.T) {
	interp := newInterpreter(&bytes.Buffer{}, "")
	result := run(t, interp,
		ast.Assign(ast.ID("a"), ast.MapLit(ast.Entry(ast.Int(1), ast.Str("one")), ast.Entry(ast.Str("k"), ast.Int(0)))),
		ast.Assign(ast.ID("b"), ast.MapLit(ast.Entry(ast.Str("k"), ast.Int(9)), ast.Entry(ast.Bool(true), ast.Nil()))),
		ast.Assign(ast.ID("m"), ast.Method(ast.ID("a"), "merge", ast.ID("b"))),
		ast.Tuple(ast.ID("m"), ast.ID("a"), ast.Method(ast.ID("m"), "keys")),
	)
	want := `({1: "one", "k": 9, true: nil}, {1: "one", "k": 0}, [1, "k", true])`
	if got := runtime.Inspect(result); got != want {
		t.Fatalf("unexpected merge result %s", got)
	}
}
