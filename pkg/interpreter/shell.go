package interpreter

import (
	"bytes"
	"errors"
	"os/exec"
	"strings"

	"fortio.org/log"

	"github.com/suji-lang/suji-sub002/pkg/ast"
	"github.com/suji-lang/suji-sub002/pkg/runtime"
)

const defaultShell = "sh"

// evaluateShellExpression runs a back-tick command outside any pipe and
// yields its stdout minus one trailing newline.
func (i *Interpreter) evaluateShellExpression(cmd *ast.ShellCommand, env *runtime.Environment) (runtime.Value, error) {
	out, err := i.runShellStage(cmd, nil, env)
	if err != nil {
		return nil, err
	}
	return runtime.String(strings.TrimSuffix(string(out), "\n")), nil
}

func (i *Interpreter) runShellStage(cmd *ast.ShellCommand, input []byte, env *runtime.Environment) ([]byte, error) {
	text, err := i.renderTemplate(cmd.Parts, env)
	if err != nil {
		return nil, err
	}
	return i.runShell(text, input)
}

func (i *Interpreter) runShell(command string, input []byte) ([]byte, error) {
	log.LogVf("shell %s -c %q", i.shell, command)
	c := exec.Command(i.shell, "-c", command)
	runtime.ApplyEnvOverlayToCommand(c)
	if input != nil {
		c.Stdin = bytes.NewReader(input)
	}
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, runtime.Errorf(runtime.ErrShellCommand, "command `%s` exited with status %d: %s", command, exitErr.ExitCode(), detail)
		}
		return nil, runtime.Errorf(runtime.ErrShellCommand, "command `%s` failed: %v", command, err)
	}
	if stderr.Len() > 0 && i.io.Stderr != nil {
		if err := i.io.Stderr.Write(stderr.String()); err != nil {
			log.Warnf("forwarding stderr of `%s`: %v", command, err)
		}
	}
	return stdout.Bytes(), nil
}
