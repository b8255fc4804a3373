package cellrange

import (
	"cmp"
	"math"
	"slices"
	"strconv"
)

// Range is a closed interval of cell indexes: [Start, End].
// Start <= End is expected but not enforced.
type Range struct {
	Start int
	End   int
}

// Len returns the number of cells covered by r, saturating at math.MaxInt.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	d := r.End - r.Start
	if d < 0 || d == math.MaxInt {
		return math.MaxInt
	}
	return d + 1
}

// Contains reports whether index i lies within r.
func (r Range) Contains(i int) bool {
	return r.Start <= i && i <= r.End
}

// ContainsRange reports whether o lies entirely within r.
func (r Range) ContainsRange(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

func (r Range) String() string {
	return "[" + strconv.Itoa(r.Start) + "," + strconv.Itoa(r.End) + "]"
}

// Reduce merges overlapping and touching ranges into a minimal sorted set of
// disjoint ranges.
//
// ranges is sorted in place. The result is always a fresh slice. Ranges with
// Start > End yield an unspecified result but never panic.
func Reduce(ranges []Range) []Range {
	if len(ranges) == 0 {
		return []Range{}
	}

	slices.SortFunc(ranges, func(a, b Range) int { return cmp.Compare(a.Start, b.Start) })

	out := make([]Range, 0, len(ranges))
	start, end := ranges[0].Start, ranges[0].End
	for _, r := range ranges[1:] {
		switch {
		case r.Start > end && r.Start-1 > end:
			out = append(out, Range{Start: start, End: end})
			start, end = r.Start, r.End
		case r.End > end:
			end = r.End
		}
	}
	return append(out, Range{Start: start, End: end})
}

// Visible returns the items not covered by any hidden range, in order.
//
// hidden must be sorted and disjoint (see Reduce). With no hidden ranges,
// items itself is returned. A hidden range that starts at or before the
// current position contributes nothing and moves the position past its End.
func Visible[T any](items []T, hidden []Range) []T {
	if len(hidden) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
	start := 0
	for _, r := range hidden {
		if start < r.Start {
			lo, hi := min(max(start, 0), len(items)), min(r.Start, len(items))
			out = append(out, items[lo:max(lo, hi)]...)
		}
		if r.End >= len(items)-1 {
			return out
		}
		start = r.End + 1
	}
	if start < len(items) {
		out = append(out, items[max(start, 0):]...)
	}
	return out
}
