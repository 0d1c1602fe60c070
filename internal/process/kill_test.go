package process

import (
	"os/exec"
	"testing"
)

// Real kills are exercised by the browser and agency integration paths;
// unit tests only cover inputs that cannot hit a live process group.

func TestKillProcessGroup_NonPositivePID(t *testing.T) {
	t.Parallel()

	// PID 0 would target the current process group; it must be ignored.
	KillProcessGroup(0)
	KillProcessGroup(-1)
}

func TestKillProcessGroup_UnknownPID(t *testing.T) {
	t.Parallel()

	KillProcessGroup(999999999)
}

func TestSetProcessGroup_Idempotent(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	SetProcessGroup(cmd)
	SetProcessGroup(cmd)
}
