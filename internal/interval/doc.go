// Package interval provides merging of time intervals into their minimal
// disjoint representation.
//
// The package is pure computation with no I/O and is safe to call from any
// goroutine. It is used by the availability aggregator to collapse busy
// periods collected from multiple calendar providers into a single sorted,
// non-overlapping set.
//
// Example usage:
//
//	merged := interval.Merge([]interval.Period{
//	    {Start: a, End: b},
//	    {Start: c, End: d},
//	})
package interval
