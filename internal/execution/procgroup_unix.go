//go:build !windows

package execution

import (
	"os/exec"
	"syscall"
)

// killProcessGroup starts cmd as the leader of a new process group and makes
// cancellation kill the whole group, so wrapper scripts take their children down with them.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
