package runtime

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/suji-lang/suji-sub002/pkg/ast"
)

func TestNumberArithmeticIsExact(t *testing.T) {
	a := MustNumber("0.1")
	b := MustNumber("0.2")
	sum, err := NumberAdd(a, b)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := sum.String(); got != "0.3" {
		t.Fatalf("expected 0.3, got %s", got)
	}
	q, err := NumberDiv(Int(1), Int(4))
	if err != nil {
		t.Fatalf("div: %v", err)
	}
	if got := q.String(); got != "0.25" {
		t.Fatalf("expected 0.25, got %s", got)
	}
	if _, err := NumberDiv(Int(1), Int(0)); KindOf(err) != ErrDivisionByZero {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
}

func TestNumberCanonicalForm(t *testing.T) {
	cases := map[string]string{
		"1.50":  "1.5",
		"2.000": "2",
		"-0.0":  "0",
		"1e2":   "100",
		"1_000": "1000",
	}
	for in, want := range cases {
		n, err := ParseNumber(in)
		if err != nil {
			t.Fatalf("parse %s: %v", in, err)
		}
		if got := n.String(); got != want {
			t.Fatalf("%s: expected %s, got %s", in, want, got)
		}
	}
	if _, err := ParseNumber("abc"); KindOf(err) != ErrInvalidNumber {
		t.Fatalf("expected InvalidNumber, got %v", err)
	}
}

func TestNumberInt64(t *testing.T) {
	if n, ok := MustNumber("3.0").Int64(); !ok || n != 3 {
		t.Fatalf("expected 3, got %d %v", n, ok)
	}
	if _, ok := MustNumber("3.5").Int64(); ok {
		t.Fatalf("3.5 should not be integral")
	}
}

func TestMapKeyNormalisesNumbers(t *testing.T) {
	a, err := NewMapKey(MustNumber("1.0"))
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	b, _ := NewMapKey(Int(1))
	if a.Hash() != b.Hash() {
		t.Fatalf("expected 1.0 and 1 to share a hash: %q vs %q", a.Hash(), b.Hash())
	}
	if !ValuesEqual(a.Value(), MustNumber("1.0")) {
		t.Fatalf("key should round-trip to its value")
	}
}

func TestMapKeyRejectsUnhashable(t *testing.T) {
	for _, v := range []Value{Nil, List(Int(1)), NewMap(), &FunctionValue{}, Tuple(Int(1), List())} {
		if _, err := NewMapKey(v); KindOf(err) != ErrInvalidMapKey {
			t.Fatalf("expected InvalidMapKey for %s, got %v", TypeName(v), err)
		}
	}
	tupleKey, err := NewMapKey(Tuple(String("a"), Int(1), Bool(true)))
	if err != nil {
		t.Fatalf("tuple of keys should be hashable: %v", err)
	}
	if _, ok := tupleKey.Value().(TupleValue); !ok {
		t.Fatalf("expected tuple round trip, got %#v", tupleKey.Value())
	}
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.SetString("b", Int(1))
	m.SetString("a", Int(2))
	m.SetString("c", Int(3))
	m.SetString("b", Int(4))
	var keys []string
	for _, entry := range m.Entries() {
		keys = append(keys, Stringify(entry.Key.Value()))
	}
	if got := strings.Join(keys, ","); got != "b,a,c" {
		t.Fatalf("unexpected order %s", got)
	}
	if v, _ := m.GetString("b"); !ValuesEqual(v, Int(4)) {
		t.Fatalf("expected updated value 4, got %s", Inspect(v))
	}
	if !m.Delete(StringKey("a")) || m.Len() != 2 {
		t.Fatalf("delete failed")
	}
	clone := m.Clone()
	clone.SetString("z", Nil)
	if m.Len() != 2 || clone.Len() != 3 {
		t.Fatalf("clone must not alias the original")
	}
}

func TestEnvironmentScoping(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", Int(1))
	child := NewEnvironment(global)
	child.SetExisting("x", Int(2))
	if v, _ := global.Get("x"); !ValuesEqual(v, Int(2)) {
		t.Fatalf("SetExisting should mutate the defining scope")
	}
	child.Define("x", Int(3))
	if v, _ := global.Get("x"); !ValuesEqual(v, Int(2)) {
		t.Fatalf("Define should shadow, not mutate")
	}
	child.SetExisting("y", Int(9))
	if global.Has("y") || !child.HasInCurrentScope("y") {
		t.Fatalf("SetExisting of an unknown name should define locally")
	}
	if _, err := global.Get("missing"); KindOf(err) != ErrUndefinedVariable {
		t.Fatalf("expected UndefinedVariable, got %v", err)
	}
	if got := strings.Join(child.Names(), ","); got != "x,y" {
		t.Fatalf("unexpected names %s", got)
	}
}

func TestWithSpanRules(t *testing.T) {
	span := ast.Span{Start: ast.Position{Line: 1, Column: 1}, End: ast.Position{Line: 1, Column: 5}}
	base := Errorf(ErrTypeError, "bad")
	wrapped := WithSpan(base, span)
	if got, ok := SpanOf(wrapped); !ok || got != span {
		t.Fatalf("expected span to be attached")
	}
	other := ast.Span{Start: ast.Position{Line: 9, Column: 9}, End: ast.Position{Line: 9, Column: 10}}
	if again := WithSpan(wrapped, other); again != wrapped {
		t.Fatalf("span must only be attached once")
	}
	if WithSpan(base, ast.Span{}) != error(base) {
		t.Fatalf("zero span must not wrap")
	}
	var sig ControlFlow = testSignal{}
	if WithSpan(sig, span) != error(sig) {
		t.Fatalf("control flow must never be wrapped")
	}
	if KindOf(wrapped) != ErrTypeError || MessageOf(wrapped) != "bad" {
		t.Fatalf("kind/message should survive wrapping")
	}
}

type testSignal struct{}

func (testSignal) Error() string { return "signal" }
func (testSignal) ControlFlow()  {}

func TestMemoryStreams(t *testing.T) {
	w := NewMemoryWriter()
	if err := w.Write("hello\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := string(w.TakeOutput()); got != "hello\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if got := w.TakeOutput(); len(got) != 0 {
		t.Fatalf("TakeOutput should reset the buffer")
	}
	if _, err := w.ReadAll(); KindOf(err) != ErrStream {
		t.Fatalf("expected StreamError reading a writer, got %v", err)
	}
	r := NewMemoryReader([]byte("a\nb"))
	line, ok, err := r.ReadLine()
	if err != nil || !ok || line != "a" {
		t.Fatalf("unexpected first line %q %v %v", line, ok, err)
	}
	line, ok, _ = r.ReadLine()
	if !ok || line != "b" {
		t.Fatalf("unexpected second line %q", line)
	}
	if _, ok, _ := r.ReadLine(); ok {
		t.Fatalf("expected EOF")
	}
	_ = r.Close()
	if r.IsReadable() || !r.IsClosed() {
		t.Fatalf("closed stream flags wrong")
	}
}

func TestEnvOverlay(t *testing.T) {
	t.Setenv("SUJI_OVERLAY_TEST", "os")
	if v, ok := EnvGet("SUJI_OVERLAY_TEST"); !ok || v != "os" {
		t.Fatalf("expected OS value, got %q", v)
	}
	EnvSet("SUJI_OVERLAY_TEST", "overlay")
	if v, _ := EnvGet("SUJI_OVERLAY_TEST"); v != "overlay" {
		t.Fatalf("overlay should win, got %q", v)
	}
	EnvUnset("SUJI_OVERLAY_TEST")
	if _, ok := EnvGet("SUJI_OVERLAY_TEST"); ok {
		t.Fatalf("unset should hide the OS value")
	}
	EnvSet("SUJI_OVERLAY_CHILD", "child")
	cmd := exec.Command("true")
	ApplyEnvOverlayToCommand(cmd)
	var sawChild, sawDeleted bool
	for _, kv := range cmd.Env {
		if kv == "SUJI_OVERLAY_CHILD=child" {
			sawChild = true
		}
		if strings.HasPrefix(kv, "SUJI_OVERLAY_TEST=") {
			sawDeleted = true
		}
	}
	if !sawChild || sawDeleted {
		t.Fatalf("overlay not replayed onto command env: child=%v deleted=%v", sawChild, sawDeleted)
	}
	EnvUnset("SUJI_OVERLAY_CHILD")
}

func TestModuleCellLoadsOnce(t *testing.T) {
	calls := 0
	cell := NewModuleCell("m", func() (Value, error) {
		calls++
		m := NewMap()
		m.SetString("x", Int(1))
		return m, nil
	})
	a, err := NewModule("m", cell).Force()
	if err != nil {
		t.Fatalf("force: %v", err)
	}
	b, _ := NewModule("m", cell).Force()
	if calls != 1 || !ValuesEqual(a, b) {
		t.Fatalf("expected a single materialization, got %d calls", calls)
	}
	if _, err := (ModuleValue{Path: "orphan"}).Force(); KindOf(err) != ErrInvalidOperation {
		t.Fatalf("expected InvalidOperation for an unregistered handle, got %v", err)
	}
}

func TestModuleCellDoesNotCacheFailures(t *testing.T) {
	attempts := 0
	cell := NewModuleCell("flaky", func() (Value, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("boom")
		}
		return Int(7), nil
	})
	if _, err := cell.Force(); err == nil {
		t.Fatalf("expected first force to fail")
	}
	v, err := cell.Force()
	if err != nil || !ValuesEqual(v, Int(7)) {
		t.Fatalf("expected retry to succeed, got %v %v", v, err)
	}
}

func TestStringifyNestedValues(t *testing.T) {
	m := NewMap()
	m.SetString("name", String("suji"))
	v := List(Int(1), String("a"), Tuple(Bool(true)), m, Nil)
	want := `[1, "a", (true,), {"name": "suji"}, nil]`
	if got := Stringify(v); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got := Stringify(String("raw")); got != "raw" {
		t.Fatalf("top-level strings print raw, got %s", got)
	}
}

func TestRegexCacheReusesCompilation(t *testing.T) {
	a, err := CompileRegex(`^a+$`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, _ := CompileRegex(`^a+$`)
	if a != b {
		t.Fatalf("expected cached regex")
	}
	if _, err := CompileRegex(`(`); KindOf(err) != ErrRegex {
		t.Fatalf("expected RegexError, got %v", err)
	}
}
