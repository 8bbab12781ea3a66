// Package command wraps external tool execution behind a small, testable
// contract. Results always resolve on process exit; a non-zero or missing
// exit code is reported as failure rather than an error.
package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
)

// Result captures one external command invocation. Stdout and stderr are
// captured separately.
type Result struct {
	Success  bool
	Output   string
	Error    string
	ExitCode int
}

// Runner executes external commands. Implementations must not return control
// before the process has exited.
type Runner interface {
	Run(ctx context.Context, name string, args []string) Result
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

// New returns the default os/exec-backed runner.
func New() ExecRunner { return ExecRunner{} }

// Run executes the command, waiting for exit. Failure to even start the
// process (missing binary, canceled context) is reported through the Result
// with exit code -1.
func (ExecRunner) Run(ctx context.Context, name string, args []string) Result {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Output: stdout.String(),
		Error:  stderr.String(),
	}

	switch {
	case err == nil:
		res.Success = true
		res.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		} else {
			res.ExitCode = -1
		}
		if strings.TrimSpace(res.Error) == "" {
			res.Error = err.Error()
		}
	}
	return res
}

// FailureDetail condenses a failed result into a single diagnostic line.
func (r Result) FailureDetail() string {
	detail := strings.TrimSpace(r.Error)
	if detail == "" {
		detail = strings.TrimSpace(r.Output)
	}
	if detail == "" {
		detail = "command failed with no output"
	}
	return detail
}
