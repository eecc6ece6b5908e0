package hooks

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("sh not available on windows")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not found in PATH")
	}
}

func TestShellRunner_ExitCode(t *testing.T) {
	requireShell(t)
	runner := NewShellRunner("")

	tests := []struct {
		line string
		code int
	}{
		{"exit 0", 0},
		{"exit 1", 1},
		{"exit 42", 42},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res, err := runner.Run(context.Background(), Command{Line: tt.line})
			require.NoError(t, err)
			assert.Equal(t, tt.code, res.ExitCode)
		})
	}
}

func TestShellRunner_OutputDirEnv(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()

	res, err := NewShellRunner("sh").Run(context.Background(), Command{
		Line: `echo "$SCAFFCTL_FILE"; pwd; echo oops >&2`,
		Dir:  dir,
		Env:  map[string]string{EnvFile: "/tmp/x.txt"},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(res.Stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "/tmp/x.txt", lines[0])
	assert.Contains(t, lines[1], strings.TrimPrefix(dir, "/private"))
	assert.Equal(t, "oops\n", res.Stderr)
}

func TestShellRunner_TimeoutKills(t *testing.T) {
	requireShell(t)
	runner := &ShellRunner{Shell: "sh", WaitDelay: 100 * time.Millisecond}

	start := time.Now()
	res, err := runner.Run(context.Background(), Command{Line: "sleep 10", Timeout: 100 * time.Millisecond})
	elapsed := time.Since(start)

	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, "sleep 10", timeoutErr.Line)
	assert.Equal(t, -1, res.ExitCode)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestShellRunner_ParentCanceled(t *testing.T) {
	requireShell(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewShellRunner("sh").Run(ctx, Command{Line: "echo hi"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestShellRunner_TimeoutKillsChildren(t *testing.T) {
	requireShell(t)
	marker := filepath.Join(t.TempDir(), "survived")
	runner := &ShellRunner{Shell: "sh", WaitDelay: 100 * time.Millisecond}

	_, err := runner.Run(context.Background(), Command{
		Line:    `(sleep 1; touch "$MARKER") & wait`,
		Env:     map[string]string{"MARKER": marker},
		Timeout: 100 * time.Millisecond,
	})
	var timeoutErr *TimeoutError
	require.True(t, errors.As(err, &timeoutErr))

	time.Sleep(1500 * time.Millisecond)
	_, statErr := os.Stat(marker)
	assert.True(t, os.IsNotExist(statErr), "background child outlived the hook timeout")
}
