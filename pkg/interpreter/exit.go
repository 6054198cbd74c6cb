package interpreter

import (
	"errors"

	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

// ExitCodeFromError returns the exit code if err requests termination.
func ExitCodeFromError(err error) (int, bool) {
	var sig runtime.ExitError
	if errors.As(err, &sig) {
		return sig.Code, true
	}
	return 0, false
}
