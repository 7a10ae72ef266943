package interval

import (
	"log/slog"
	"sort"
	"time"
)

// Period is an absolute time interval with Start <= End.
type Period struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the period.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// Merge collapses a set of possibly overlapping, possibly duplicate periods
// into the minimal sorted set covering the same union of time.
//
// The result is sorted ascending by start, pairwise disjoint, and
// non-adjacent: periods that touch exactly (one ends where the next starts)
// are merged into one. Periods with End before Start are malformed and are
// dropped before merging. The input slice is not modified.
func Merge(periods []Period) []Period {
	valid := make([]Period, 0, len(periods))
	for _, p := range periods {
		if p.End.Before(p.Start) {
			slog.Warn("dropping malformed period",
				"start", p.Start.Format(time.RFC3339),
				"end", p.End.Format(time.RFC3339))
			continue
		}
		valid = append(valid, p)
	}

	if len(valid) == 0 {
		return []Period{}
	}

	sort.Slice(valid, func(i, j int) bool {
		return valid[i].Start.Before(valid[j].Start)
	})

	merged := make([]Period, 0, len(valid))
	current := valid[0]
	for _, next := range valid[1:] {
		// Overlap or exact touch extends the current accumulator.
		if !next.Start.After(current.End) {
			if next.End.After(current.End) {
				current.End = next.End
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)

	return merged
}
