package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result is the outcome of a command that was started successfully.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

type Executor interface {
	Run(ctx context.Context, name string, args ...string) (*Result, error)
}

// OSExecutor runs commands as subprocesses.
type OSExecutor struct{}

// Run executes the command and captures its output.
// A non-zero exit status is reported through Result.ExitCode, not as an error.
// An error is returned only when the command can't be started.
func (e *OSExecutor) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	result := &Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err == nil {
		return result, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return nil, fmt.Errorf("execute a command %s: %w", name, err)
}
