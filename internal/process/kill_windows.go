//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// KillProcessGroup kills a process tree using taskkill (/T).
func KillProcessGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

// SetProcessGroup is a no-op; taskkill /T already walks the tree.
func SetProcessGroup(cmd *exec.Cmd) {}
