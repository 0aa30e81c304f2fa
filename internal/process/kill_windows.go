//go:build windows

package process

import (
	"os/exec"
	"strconv"
)

// killTree runs taskkill with /F (force) and /T (child processes).
func killTree(pid int) error {
	// taskkill exits non-zero when the process is already gone.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
	return nil
}
