package runtime

import (
	"fmt"
	"regexp"

	"github.com/suji-lang/suji-sub002/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
	KindTuple
	KindFunction
	KindRegex
	KindStream
	KindEnvMap
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindTuple:
		return "tuple"
	case KindFunction:
		return "function"
	case KindRegex:
		return "regex"
	case KindStream:
		return "stream"
	case KindEnvMap:
		return "env"
	case KindModule:
		return "module"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Sequences
//-----------------------------------------------------------------------------

// ListValue is replaced, never mutated, when an element changes.
type ListValue struct {
	Elements []Value
}

func (v ListValue) Kind() Kind { return KindList }

type TupleValue struct {
	Elements []Value
}

func (v TupleValue) Kind() Kind { return KindTuple }

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is either an interpreted closure or, when Builtin is set, a
// reference into the interpreter's builtin table.
type FunctionValue struct {
	Name    string
	Params  []*ast.FunctionParameter
	Body    ast.Statement
	Closure *Environment
	Builtin string
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// IsBuiltin reports whether the function dispatches to the builtin table.
func (v *FunctionValue) IsBuiltin() bool {
	return v != nil && v.Builtin != ""
}

// NewBuiltinFunction creates a builtin marker for the given table entry.
func NewBuiltinFunction(name string) *FunctionValue {
	return &FunctionValue{Name: name, Builtin: name}
}

// NativeCallContext carries what a builtin may need from the calling interpreter.
type NativeCallContext struct {
	Env  *Environment
	IO   IOContext
	Call func(fn Value, args []Value) (Value, error)
}

type NativeFunc func(*NativeCallContext, []Value) (Value, error)

// NativeMethod implements `receiver::name(args)`. A non-nil updated value
// replaces the receiver when the receiver expression is assignable.
type NativeMethod func(ctx *NativeCallContext, receiver Value, args []Value) (result Value, updated Value, err error)

//-----------------------------------------------------------------------------
// Regex, env, modules
//-----------------------------------------------------------------------------

type RegexValue struct {
	Source string
	Re     *regexp.Regexp
}

func (v *RegexValue) Kind() Kind { return KindRegex }

// EnvMapValue proxies the process environment and its overlay.
type EnvMapValue struct{}

func (EnvMapValue) Kind() Kind { return KindEnvMap }

// ModuleValue is an unresolved module handle sharing a cell per path.
type ModuleValue struct {
	Path string
	Cell *ModuleCell
}

func (v ModuleValue) Kind() Kind { return KindModule }

// Helpers

func Bool(v bool) BoolValue { return BoolValue{Val: v} }

func String(v string) StringValue { return StringValue{Val: v} }

func List(elements ...Value) ListValue { return ListValue{Elements: elements} }

func Tuple(elements ...Value) TupleValue { return TupleValue{Elements: elements} }

// Nil is the shared nil value.
var Nil Value = NilValue{}

// IsNil reports whether v is absent or the nil value.
func IsNil(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(NilValue)
	return ok
}

// TypeName returns the user-facing type name of a value.
func TypeName(v Value) string {
	if v == nil {
		return KindNil.String()
	}
	return v.Kind().String()
}
