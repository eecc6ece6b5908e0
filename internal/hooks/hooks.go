package hooks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kjourdan1/scaffctl/internal/fsys"
)

// goos is swapped in tests.
var goos = runtime.GOOS

// Environment variables exported to every hook.
const (
	EnvFile = "SCAFFCTL_FILE"
	EnvMode = "SCAFFCTL_MODE"
)

// Outcome is the result of one hook.
type Outcome struct {
	Command  string        `json:"command"`
	ExitCode int           `json:"exitCode"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration"`
	Skipped  bool          `json:"skipped,omitempty"`
	Warning  string        `json:"warning,omitempty"`
}

// Options configures RunAll.
type Options struct {
	// File is the absolute path of the generated file.
	File string
	// Mode is the write mode that produced File.
	Mode string
	// Dir overrides the working directory. Defaults to File's directory.
	Dir     string
	Env     map[string]string
	Timeout time.Duration
	// Allow must be true for any command to run.
	Allow bool
	// Approve, when set, is asked before each command.
	Approve func(cmd string) bool
}

// ApplyChmod sets the permission bits of path. Failures and platforms
// without POSIX permissions produce a warning instead of an error.
func ApplyChmod(fs fsys.FS, path string, mode os.FileMode) string {
	if goos == "windows" {
		return fmt.Sprintf("chmod %04o not applied to %s: platform has no POSIX permissions", mode.Perm(), path)
	}
	if err := fs.Chmod(path, mode); err != nil {
		return fmt.Sprintf("chmod %04o failed on %s: %v", mode.Perm(), path, err)
	}
	return ""
}

// RunAll runs cmds in order. A failing hook never stops the following ones;
// once ctx is done the remaining hooks are reported as skipped.
func RunAll(ctx context.Context, runner CommandRunner, cmds []string, opts Options) []Outcome {
	if len(cmds) == 0 {
		return nil
	}

	dir := opts.Dir
	if dir == "" && opts.File != "" {
		dir = filepath.Dir(opts.File)
	}
	env := make(map[string]string, len(opts.Env)+2)
	for k, v := range opts.Env {
		env[k] = v
	}
	if opts.File != "" {
		env[EnvFile] = opts.File
	}
	if opts.Mode != "" {
		env[EnvMode] = opts.Mode
	}

	outcomes := make([]Outcome, 0, len(cmds))
	for _, line := range cmds {
		out := Outcome{Command: line}
		switch {
		case !opts.Allow:
			out.Skipped = true
			out.Warning = fmt.Sprintf("hook skipped (hooks disabled): %s", line)
		case ctx.Err() != nil:
			out.Skipped = true
			out.Warning = fmt.Sprintf("hook skipped (canceled): %s", line)
		case opts.Approve != nil && !opts.Approve(line):
			out.Skipped = true
			out.Warning = fmt.Sprintf("hook declined: %s", line)
		default:
			res, err := runner.Run(ctx, Command{Line: line, Dir: dir, Env: env, Timeout: opts.Timeout})
			out.ExitCode = res.ExitCode
			out.Stdout = res.Stdout
			out.Stderr = res.Stderr
			out.Duration = res.Duration
			out.Warning = hookWarning(line, res, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes
}

// Warnings returns the non-empty warnings of outcomes.
func Warnings(outcomes []Outcome) []string {
	var out []string
	for _, o := range outcomes {
		if o.Warning != "" {
			out = append(out, o.Warning)
		}
	}
	return out
}

func hookWarning(line string, res CmdResult, err error) string {
	var timeoutErr *TimeoutError
	switch {
	case errors.As(err, &timeoutErr):
		return fmt.Sprintf("sh hook %q timed out after %s and was killed", line, timeoutErr.Timeout)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("sh hook %q interrupted: %v", line, err)
	case err != nil:
		return fmt.Sprintf("sh hook %q failed: %v", line, err)
	case res.ExitCode != 0:
		msg := fmt.Sprintf("sh hook %q exited with code %d", line, res.ExitCode)
		if detail := firstLine(res.Stderr); detail != "" {
			msg += ": " + detail
		}
		return msg
	}
	return ""
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
