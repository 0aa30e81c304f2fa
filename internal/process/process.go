// Package process terminates the headless browser started for PDF export,
// together with the helper processes it spawned.
package process

import (
	"errors"
	"fmt"
)

// ErrInvalidPID is returned for PIDs that would target this process group or init.
var ErrInvalidPID = errors.New("invalid pid")

// KillTree force-kills pid and its children.
// A process that is already gone is not an error.
func KillTree(pid int) error {
	if pid <= 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	return killTree(pid)
}
