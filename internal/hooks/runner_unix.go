//go:build unix

package hooks

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts the hook as the leader of its own process group so
// that cancellation also kills any process the shell started.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
