package alarm

import (
	"errors"
	"fmt"
	"math"
)

// Density thresholds in persons per square metre. Each bound is inclusive:
// a density equal to a bound belongs to the lower level.
const (
	SafeMaxDensity    = 3.5
	CautionMaxDensity = 4.0
	WatchMaxDensity   = 5.0
)

var (
	// ErrNegativeCount is returned when an occupancy count is below zero.
	ErrNegativeCount = errors.New("occupancy count must not be negative")
	// ErrInvalidArea is returned when the measured area is not a positive finite number.
	ErrInvalidArea = errors.New("measured area must be a positive number")
	// ErrUnknownLevel is returned for names or values outside the known levels.
	ErrUnknownLevel = errors.New("unknown severity level")
)

// Reading is a single occupancy sample over a measured area.
type Reading struct {
	// Count is the number of persons detected.
	Count int
	// Area is the measured floor area in square metres.
	Area float64
}

// Validate checks that the reading can be classified.
func (r Reading) Validate() error {
	if r.Count < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeCount, r.Count)
	}

	if !ValidArea(r.Area) {
		return fmt.Errorf("%w: %v", ErrInvalidArea, r.Area)
	}

	return nil
}

// Density returns persons per square metre.
func (r Reading) Density() float64 {
	return float64(r.Count) / r.Area
}

// Level classifies the reading.
func (r Reading) Level() (Level, error) {
	if err := r.Validate(); err != nil {
		return Unknown, err
	}

	return ClassifyDensity(r.Density()), nil
}

// Classify maps a count over an area to a severity level.
func Classify(count int, area float64) (Level, error) {
	return Reading{Count: count, Area: area}.Level()
}

// ClassifyDensity applies the threshold table to a density; the first match wins.
// There is no hysteresis: a density oscillating around a bound flips the level every time.
func ClassifyDensity(density float64) Level {
	switch {
	case density <= SafeMaxDensity:
		return Safe
	case density <= CautionMaxDensity:
		return Caution
	case density <= WatchMaxDensity:
		return Watch
	default:
		return Warning
	}
}

// ValidArea reports whether area is usable as a density divisor.
func ValidArea(area float64) bool {
	return area > 0 && !math.IsInf(area, 0) && !math.IsNaN(area)
}
