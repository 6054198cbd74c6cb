package runtime

import (
	"errors"
	"fmt"

	"github.com/suji-lang/suji-sub002/pkg/ast"
)

// ErrorKind classifies runtime failures.
type ErrorKind int

const (
	ErrGeneric ErrorKind = iota
	ErrTypeError
	ErrUndefinedVariable
	ErrArityMismatch
	ErrIndexOutOfBounds
	ErrKeyNotFound
	ErrInvalidMapKey
	ErrInvalidOperation
	ErrDivisionByZero
	ErrNotCallable
	ErrDestructuring
	ErrPipeExecution
	ErrPipeApplyLeftType
	ErrPipeApplyRightType
	ErrUnappliedFunctionInPipe
	ErrShellCommand
	ErrModuleNotFound
	ErrImport
	ErrStream
	ErrRegex
	ErrJSONParse
	ErrJSONGenerate
	ErrYAMLParse
	ErrYAMLGenerate
	ErrTOMLParse
	ErrTOMLGenerate
	ErrCSVParse
	ErrCSVGenerate
	ErrParse
	ErrRecursionLimit
	ErrInvalidNumber
)

var errorKindNames = map[ErrorKind]string{
	ErrGeneric:                 "Error",
	ErrTypeError:               "TypeError",
	ErrUndefinedVariable:       "UndefinedVariable",
	ErrArityMismatch:           "ArityMismatch",
	ErrIndexOutOfBounds:        "IndexOutOfBounds",
	ErrKeyNotFound:             "KeyNotFound",
	ErrInvalidMapKey:           "InvalidMapKey",
	ErrInvalidOperation:        "InvalidOperation",
	ErrDivisionByZero:          "DivisionByZero",
	ErrNotCallable:             "NotCallable",
	ErrDestructuring:           "DestructuringError",
	ErrPipeExecution:           "PipeExecutionError",
	ErrPipeApplyLeftType:       "PipeApplyLeftTypeError",
	ErrPipeApplyRightType:      "PipeApplyRightTypeError",
	ErrUnappliedFunctionInPipe: "UnappliedFunctionInPipe",
	ErrShellCommand:            "ShellCommandError",
	ErrModuleNotFound:          "ModuleNotFound",
	ErrImport:                  "ImportError",
	ErrStream:                  "StreamError",
	ErrRegex:                   "RegexError",
	ErrJSONParse:               "JsonParseError",
	ErrJSONGenerate:            "JsonGenerateError",
	ErrYAMLParse:               "YamlParseError",
	ErrYAMLGenerate:            "YamlGenerateError",
	ErrTOMLParse:               "TomlParseError",
	ErrTOMLGenerate:            "TomlGenerateError",
	ErrCSVParse:                "CsvParseError",
	ErrCSVGenerate:             "CsvGenerateError",
	ErrParse:                   "ParseError",
	ErrRecursionLimit:          "RecursionLimit",
	ErrInvalidNumber:           "InvalidNumber",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a genuine runtime failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// NewError builds an error of the given kind.
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Errorf builds an error of the given kind with a formatted message.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// TypeMismatch reports an operator applied to incompatible operands.
func TypeMismatch(op string, left, right Value) *Error {
	return Errorf(ErrTypeError, "cannot apply '%s' to %s and %s", op, TypeName(left), TypeName(right))
}

// ControlFlow is implemented by break/continue/return signals. They share the
// error channel but are never annotated with spans.
type ControlFlow interface {
	error
	ControlFlow()
}

// IsControlFlow reports whether err is a control-flow signal.
func IsControlFlow(err error) bool {
	var cf ControlFlow
	return errors.As(err, &cf)
}

// SpannedError attaches a source location to an error.
type SpannedError struct {
	Err  error
	Span ast.Span
}

func (e *SpannedError) Error() string {
	return fmt.Sprintf("%s (at %s)", e.Err.Error(), e.Span)
}

func (e *SpannedError) Unwrap() error { return e.Err }

// WithSpan attaches span to err unless it is nil, a control-flow signal,
// already spanned, or the span is unknown.
func WithSpan(err error, span ast.Span) error {
	if err == nil || span.IsZero() {
		return err
	}
	if _, ok := err.(ControlFlow); ok {
		return err
	}
	var spanned *SpannedError
	if errors.As(err, &spanned) {
		return err
	}
	return &SpannedError{Err: err, Span: span}
}

// SpanOf returns the attached span, if any.
func SpanOf(err error) (ast.Span, bool) {
	var spanned *SpannedError
	if errors.As(err, &spanned) {
		return spanned.Span, true
	}
	return ast.Span{}, false
}

// KindOf returns the error kind carried by err, or ErrGeneric.
func KindOf(err error) ErrorKind {
	var rtErr *Error
	if errors.As(err, &rtErr) {
		return rtErr.Kind
	}
	return ErrGeneric
}

// MessageOf returns the bare message without kind or span decoration.
func MessageOf(err error) string {
	var rtErr *Error
	if errors.As(err, &rtErr) {
		return rtErr.Message
	}
	var spanned *SpannedError
	if errors.As(err, &spanned) {
		return spanned.Err.Error()
	}
	return err.Error()
}

// ExitError requests process termination with a status code.
type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit %d", e.Code)
}
