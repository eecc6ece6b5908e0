// Package hooks runs post-write actions: permission bits and shell commands.
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Run waits for I/O after a killed hook.
const DefaultWaitDelay = 2 * time.Second

// Command is one shell hook invocation.
type Command struct {
	Line    string
	Dir     string
	Env     map[string]string
	Timeout time.Duration
}

// CmdResult holds the result of a command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// TimeoutError is returned when a hook exceeds its timeout and is killed.
type TimeoutError struct {
	Line    string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("hook %q timed out after %s", e.Line, e.Timeout)
}

// CommandRunner runs shell hooks.
type CommandRunner interface {
	// Run executes a command. A non-zero exit sets ExitCode and is not an
	// error; errors are reserved for execution failures, timeouts and
	// cancellation.
	Run(ctx context.Context, cmd Command) (CmdResult, error)
}

// ShellRunner is the production CommandRunner. It runs each line through
// Shell with -c.
type ShellRunner struct {
	Shell     string
	WaitDelay time.Duration
}

// NewShellRunner creates a runner using shell (default "sh").
func NewShellRunner(shell string) *ShellRunner {
	if shell == "" {
		shell = "sh"
	}
	return &ShellRunner{Shell: shell, WaitDelay: DefaultWaitDelay}
}

// Run executes the command and captures stdout/stderr.
func (r *ShellRunner) Run(ctx context.Context, c Command) (CmdResult, error) {
	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(runCtx, shell, "-c", c.Line)
	killProcessGroup(cmd)
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		cmd.Env = cmd.Environ()
		for k, v := range c.Env {
			cmd.Env = append(cmd.Env, k+"="+v)
		}
	}

	start := time.Now()
	err := cmd.Run()
	result := CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	// The parent context wins over the hook timeout.
	if ctxErr := ctx.Err(); ctxErr != nil {
		result.ExitCode = -1
		return result, ctxErr
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.ExitCode = -1
		return result, &TimeoutError{Line: c.Line, Timeout: c.Timeout}
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		result.ExitCode = -1
		return result, err
	}
	return result, nil
}
