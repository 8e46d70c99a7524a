//go:build unix

package dispatch

import (
	"os/exec"
	"syscall"
)

// detach starts the child in a new session so it outlives whichkey and is
// not hit by signals aimed at whichkey's process group.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
