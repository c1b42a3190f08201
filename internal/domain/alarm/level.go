package alarm

import (
	"fmt"
	"strings"
)

// Level is the severity rendered by the alert indicators.
// Levels are ordered: a greater value means a more crowded area.
type Level int

const (
	// Unknown is the zero value, used before the first reading is classified.
	Unknown Level = iota
	// Safe means the density is comfortably low.
	Safe
	// Caution means the density is approaching the watch threshold.
	Caution
	// Watch means the area is crowded.
	Watch
	// Warning means the density is dangerous.
	Warning
)

// Levels lists every valid severity in ascending order.
//
//nolint:gochecknoglobals // Read-only lookup table.
var Levels = []Level{Safe, Caution, Watch, Warning}

//nolint:gochecknoglobals // Read-only lookup table.
var levelNames = map[Level]string{
	Unknown: "UNKNOWN",
	Safe:    "SAFE",
	Caution: "CAUTION",
	Watch:   "WATCH",
	Warning: "WARNING",
}

// String returns the upper-case name of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	return fmt.Sprintf("Level(%d)", int(l))
}

// Valid reports whether l is one of Safe, Caution, Watch or Warning.
func (l Level) Valid() bool {
	return l >= Safe && l <= Warning
}

// ParseLevel converts a level name (case-insensitive) into a Level.
func ParseLevel(s string) (Level, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	for _, level := range Levels {
		if levelNames[level] == s {
			return level, nil
		}
	}

	return Unknown, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}
