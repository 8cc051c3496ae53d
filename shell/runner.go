// Package shell abstracts external command execution so pipeline steps can
// be exercised in tests without the real toolchain on PATH.
package shell

import (
	"context"
	"errors"
	"io"
	"os/exec"
)

// Runner executes external commands on behalf of a pipeline step.
type Runner interface {
	// Run executes the command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// RunStreaming executes the command with stdout and stderr attached to
	// the given writers, so tool diagnostics reach the invoker verbatim.
	RunStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error
}

// ExecRunner executes commands on the local host.
type ExecRunner struct {
	// Dir is the working directory for every command. Empty means the
	// process working directory.
	Dir string
}

func (r ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	return cmd.CombinedOutput()
}

func (r ExecRunner) RunStreaming(ctx context.Context, stdout, stderr io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if stdout != nil {
		cmd.Stdout = stdout
	}
	if stderr != nil {
		cmd.Stderr = stderr
	}
	return cmd.Run()
}

// ExitCode maps an error returned by a Runner to a process exit code.
// A nil error is 0, a non-zero exit is the command's own code, and a
// command that could not be started at all is 127.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return 127
	}
	return 1
}
