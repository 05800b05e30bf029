//go:build unix

package convert

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// killProcessTree runs the tool in its own process group and kills the whole
// group on cancellation, so children such as node under npm die with it.
func killProcessTree(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
