package interpreter

import (
	"fmt"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

type breakSignal struct {
	label string
	value runtime.Value
}

func (b breakSignal) Error() string {
	if b.label != "" {
		return fmt.Sprintf("break %s", b.label)
	}
	return "break"
}

func (breakSignal) ControlFlow() {}

type continueSignal struct {
	label string
}

func (c continueSignal) Error() string {
	if c.label != "" {
		return fmt.Sprintf("continue %s", c.label)
	}
	return "continue"
}

func (continueSignal) ControlFlow() {}

type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return"
}

func (returnSignal) ControlFlow() {}
