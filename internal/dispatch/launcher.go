package dispatch

import (
	"fmt"
	"os"
	"os/exec"
)

// ExecLauncher spawns processes with os/exec. Applications are opened with
// `open -a`, commands run under `sh -c`.
type ExecLauncher struct {
	// OpenPath and ShellPath default to "open" and "sh".
	OpenPath  string
	ShellPath string
}

// NewExecLauncher returns a launcher using the system open and sh.
func NewExecLauncher() *ExecLauncher {
	return &ExecLauncher{OpenPath: "open", ShellPath: "sh"}
}

func (l *ExecLauncher) LaunchApplication(name string) (int, error) {
	return l.spawn(l.OpenPath, "-a", name)
}

func (l *ExecLauncher) RunShellCommand(commandLine string) (int, error) {
	return l.spawn(l.ShellPath, "-c", commandLine)
}

func (l *ExecLauncher) spawn(name string, args ...string) (int, error) {
	cmd := exec.Command(name, args...)
	detach(cmd)
	if home, err := os.UserHomeDir(); err == nil {
		cmd.Dir = home
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", name, err)
	}

	pid := cmd.Process.Pid

	// Reap the child so it does not linger as a zombie; the caller never waits.
	go func() {
		_ = cmd.Wait()
	}()

	return pid, nil
}
