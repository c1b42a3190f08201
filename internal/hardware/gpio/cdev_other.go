//go:build !linux

package gpio

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrUnsupportedOS indicates that the GPIO character device is not available.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// CdevChip is unavailable outside Linux.
type CdevChip struct {
	MemoryChip
}

// OpenCdev always fails outside Linux; use the simulated chip instead.
func OpenCdev(name, _ string) (*CdevChip, error) {
	return nil, fmt.Errorf("open %s on %s: %w", name, runtime.GOOS, ErrUnsupportedOS)
}
