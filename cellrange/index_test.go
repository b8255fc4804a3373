package cellrange

import (
	"math"
	"slices"
	"testing"
)

func TestFromIndexes(t *testing.T) {
	cases := []struct {
		in   []int
		want []Range
	}{
		{in: nil, want: []Range{}},
		{in: []int{4}, want: []Range{{4, 4}}},
		{in: []int{0, 1, 2, 5, 6, 9}, want: []Range{{0, 2}, {5, 6}, {9, 9}}},
		{in: []int{6, 5, 5, 0}, want: []Range{{0, 0}, {5, 6}}},
	}

	for _, tc := range cases {
		orig := slices.Clone(tc.in)
		got := FromIndexes(tc.in)
		if !Equal(got, tc.want) {
			t.Fatalf("FromIndexes(%v): got %v, want %v", tc.in, got, tc.want)
		}
		if !slices.Equal(tc.in, orig) {
			t.Fatalf("FromIndexes mutated input: got %v, want %v", tc.in, orig)
		}
	}
}

func TestToIndexes(t *testing.T) {
	got := ToIndexes([]Range{{5, 6}, {0, 2}, {1, 3}})
	want := []int{0, 1, 2, 3, 5, 6}
	if !slices.Equal(got, want) {
		t.Fatalf("ToIndexes: got %v, want %v", got, want)
	}

	back := FromIndexes(got)
	if !Equal(back, []Range{{0, 3}, {5, 6}}) {
		t.Fatalf("FromIndexes(ToIndexes): got %v", back)
	}
}

func TestContains(t *testing.T) {
	ranges := []Range{{1, 2}, {5, 5}, {8, 12}}
	for i := -1; i <= 13; i++ {
		want := i == 1 || i == 2 || i == 5 || (i >= 8 && i <= 12)
		if got := Contains(ranges, i); got != want {
			t.Fatalf("Contains(%d): got %v, want %v", i, got, want)
		}
	}
	if Contains(nil, 0) {
		t.Fatalf("Contains on empty ranges must be false")
	}
}

func TestModelViewMapping(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g"}
	hidden := []Range{{1, 2}, {4, 4}}
	visible := Visible(items, hidden)

	for view, item := range visible {
		model := ViewToModel(hidden, view)
		if items[model] != item {
			t.Fatalf("ViewToModel(%d): got model %d (%q), want %q", view, model, items[model], item)
		}
		back, ok := ModelToView(hidden, model)
		if !ok || back != view {
			t.Fatalf("ModelToView(%d): got (%d, %v), want (%d, true)", model, back, ok, view)
		}
	}

	for _, model := range []int{1, 2, 4} {
		if _, ok := ModelToView(hidden, model); ok {
			t.Fatalf("ModelToView(%d): hidden index reported visible", model)
		}
	}
	if _, ok := ModelToView(hidden, -1); ok {
		t.Fatalf("ModelToView(-1): negative index reported visible")
	}
}

func TestModelViewMapping_OpenTail(t *testing.T) {
	hidden := []Range{{1, 1}, {3, math.MaxInt}}

	cases := []struct {
		view, model int
	}{
		{view: 0, model: 0},
		{view: 1, model: 2},
		{view: 2, model: math.MaxInt},
		{view: 50, model: math.MaxInt},
	}
	for _, tc := range cases {
		if got := ViewToModel(hidden, tc.view); got != tc.model {
			t.Fatalf("ViewToModel(%d): got %d, want %d", tc.view, got, tc.model)
		}
	}

	if v, ok := ModelToView(hidden, 2); !ok || v != 1 {
		t.Fatalf("ModelToView(2): got (%d, %v), want (1, true)", v, ok)
	}
	for _, model := range []int{3, 1000, math.MaxInt} {
		if _, ok := ModelToView(hidden, model); ok {
			t.Fatalf("ModelToView(%d): hidden index reported visible", model)
		}
	}
	if !Contains(hidden, math.MaxInt) {
		t.Fatalf("Contains(MaxInt): got false, want true")
	}
	if got := ToIndexes([]Range{{math.MaxInt - 1, math.MaxInt}}); !slices.Equal(got, []int{math.MaxInt - 1, math.MaxInt}) {
		t.Fatalf("ToIndexes at MaxInt: got %v", got)
	}
}
