package cellrange

import (
	"math"
	"slices"
	"sort"
)

// FromIndexes converts cell indexes into the minimal set of ranges covering
// them. indexes is not modified.
func FromIndexes(indexes []int) []Range {
	if len(indexes) == 0 {
		return []Range{}
	}
	sorted := slices.Clone(indexes)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	out := make([]Range, 0, 1)
	cur := Range{Start: sorted[0], End: sorted[0]}
	for _, i := range sorted[1:] {
		if i == cur.End+1 {
			cur.End = i
			continue
		}
		out = append(out, cur)
		cur = Range{Start: i, End: i}
	}
	return append(out, cur)
}

// ToIndexes expands ranges into ascending, unique cell indexes.
// ranges is copied before normalization.
func ToIndexes(ranges []Range) []int {
	reduced := Reduce(slices.Clone(ranges))
	n := 0
	for _, r := range reduced {
		n += r.Len()
	}
	out := make([]int, 0, n)
	for _, r := range reduced {
		for i := r.Start; ; i++ {
			out = append(out, i)
			if i >= r.End {
				break
			}
		}
	}
	return out
}

// Equal reports whether a and b hold the same ranges in the same order.
func Equal(a, b []Range) bool {
	return slices.Equal(a, b)
}

// Contains reports whether index i is covered by the normalized ranges.
func Contains(ranges []Range, i int) bool {
	_, ok := find(ranges, i)
	return ok
}

// find returns the position of the range covering i, or the position where
// the first range starting after i sits.
func find(ranges []Range, i int) (int, bool) {
	n := sort.Search(len(ranges), func(k int) bool { return ranges[k].End >= i })
	if n < len(ranges) && ranges[n].Start <= i {
		return n, true
	}
	return n, false
}

// ModelToView maps a model index into the visible sequence produced by
// Visible(items, hidden). ok is false when the index is hidden or negative.
func ModelToView(hidden []Range, model int) (view int, ok bool) {
	if model < 0 {
		return 0, false
	}
	view = model
	for _, r := range hidden {
		if r.Start > model {
			break
		}
		if r.Contains(model) {
			return 0, false
		}
		view -= r.Len()
	}
	return view, true
}

// ViewToModel maps an index into the visible sequence back to its model index.
// Negative view indexes map to themselves. Results past math.MaxInt saturate.
func ViewToModel(hidden []Range, view int) int {
	if view < 0 {
		return view
	}
	model := view
	for _, r := range hidden {
		if r.Start > model {
			break
		}
		n := r.Len()
		if n > math.MaxInt-model {
			return math.MaxInt
		}
		model += n
	}
	return model
}
