// Package executor runs external commands with captured output and
// structured errors.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ExecError is a structured command-execution error carrying the full
// invocation context.
type ExecError struct {
	Cmd    string
	Args   []string
	Stderr string
	Err    error // usually *exec.ExitError
}

// Error implements the error interface.
func (e *ExecError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	code := e.ExitCode()
	codeStr := "unknown"
	if code >= 0 {
		codeStr = fmt.Sprintf("%d", code)
	}

	if stderr == "" {
		return fmt.Sprintf("command execution failed: %s %s, exit-code: %s, err: %v",
			e.Cmd, strings.Join(e.Args, " "), codeStr, e.Err)
	}
	return fmt.Sprintf("command execution failed: %s %s, exit-code: %s, err: %v\nstderr: %s",
		e.Cmd, strings.Join(e.Args, " "), codeStr, e.Err, stderr)
}

// Unwrap allows errors.Is / errors.As against the underlying error.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code, or -1 when unavailable.
func (e *ExecError) ExitCode() int {
	if exitErr, ok := e.Err.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

// Executor is a chainable builder around one command execution. An
// Executor instance is good for a single run.
type Executor struct {
	cmd *exec.Cmd
}

// NewExecutor creates an executor for the given command.
func NewExecutor(ctx context.Context, name string, args ...string) *Executor {
	return &Executor{
		cmd: exec.CommandContext(ctx, name, args...),
	}
}

// WithDir sets the working directory.
func (e *Executor) WithDir(dir string) *Executor {
	e.cmd.Dir = dir
	return e
}

// Run executes the command, returning captured stdout and stderr. Both
// are returned even when the command fails.
func (e *Executor) Run() (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	e.cmd.Stdout = &outBuf
	e.cmd.Stderr = &errBuf

	runErr := e.cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr != nil {
		err = &ExecError{
			Cmd:    e.cmd.Path,
			Args:   e.cmd.Args[1:],
			Stderr: stderr,
			Err:    runErr,
		}
	}
	return stdout, stderr, err
}

// LookPath reports whether the named command is resolvable in PATH.
func LookPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
