package occupancy

import (
	"context"
	"slices"
)

// Static cycles through a fixed list of counts, one per call.
type Static struct {
	// counts are returned in order, wrapping around.
	counts []int
	// next is the index of the next count.
	next int
}

// NewStatic creates a static source.
func NewStatic(counts []int) *Static {
	return &Static{counts: slices.Clone(counts)}
}

// Count returns the next count.
func (s *Static) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if len(s.counts) == 0 {
		return 0, ErrNoReading
	}

	count := s.counts[s.next%len(s.counts)]
	s.next++

	return checkCount(int64(count))
}

// Close does nothing.
func (s *Static) Close() error {
	return nil
}
