//go:build unix

package ioengine

import (
	"os/exec"
	"syscall"
)

// setProcessGroup starts the engine in its own process group so that
// cancellation also stops the programs BNG2.pl spawns (run_network for
// simulations).
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
