package controller

import (
	"errors"
	"fmt"
	"os"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another controller already drives the lines.
var ErrAlreadyRunning = errors.New("another instance is already running")

// processLister returns the process table; swapped in tests.
type processLister func() ([]ps.Process, error)

// ensureSingleInstance fails when another process runs the same executable as this one.
func ensureSingleInstance(list processLister) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	thisProcessID := os.Getpid()

	var executable string

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			executable = process.Executable()
			break
		}
	}

	if executable == "" {
		return nil
	}

	if pid, found := findOther(processList, thisProcessID, executable); found {
		return fmt.Errorf("%w: %s has pid %d", ErrAlreadyRunning, executable, pid)
	}

	return nil
}

// findOther looks for a process other than self running executable.
func findOther(processList []ps.Process, self int, executable string) (int, bool) {
	for _, process := range processList {
		if process.Pid() == self {
			continue
		}

		if process.Executable() == executable {
			return process.Pid(), true
		}
	}

	return 0, false
}
