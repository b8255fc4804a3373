package folding

import (
	"testing"

	"github.com/iw2rmb/cellbook/cellrange"
	"github.com/iw2rmb/cellbook/notebook"
)

// outline builds a notebook where "#"-prefixed entries are markup cells and
// everything else is a code cell.
func outline(entries ...string) *notebook.Notebook {
	nb := notebook.New("python")
	for _, e := range entries {
		kind := notebook.KindCode
		if len(e) > 0 && e[0] == '#' {
			kind = notebook.KindMarkup
		}
		_ = nb.Append(notebook.NewCell(notebook.CellData{Kind: kind, Source: e}))
	}
	return nb
}

func TestRegions(t *testing.T) {
	nb := outline(
		"# A",   // 0
		"x",     // 1
		"## B",  // 2
		"y",     // 3
		"## C",  // 4
		"# D",   // 5
		"z",     // 6
		"### E", // 7
	)
	m := New(nb, nil)

	want := []struct {
		r     cellrange.Range
		level int
	}{
		{cellrange.Range{Start: 0, End: 4}, 1},
		{cellrange.Range{Start: 2, End: 3}, 2},
		{cellrange.Range{Start: 4, End: 4}, 2},
		{cellrange.Range{Start: 5, End: 7}, 1},
		{cellrange.Range{Start: 7, End: 7}, 3},
	}
	got := m.Regions()
	if len(got) != len(want) {
		t.Fatalf("regions: got %+v", got)
	}
	for i, w := range want {
		if got[i].Range != w.r || got[i].Level != w.level {
			t.Fatalf("region %d: got %v level %d, want %v level %d", i, got[i].Range, got[i].Level, w.r, w.level)
		}
	}
}

func TestCollapseAndHiddenRanges(t *testing.T) {
	nb := outline("# A", "x", "## B", "y", "# C", "z")
	m := New(nb, nil)

	var fired [][]cellrange.Range
	m.OnDidChange(func(h []cellrange.Range) { fired = append(fired, h) })

	if !m.Collapse(2) {
		t.Fatalf("collapse B: expected change")
	}
	if got := m.HiddenRanges(); !cellrange.Equal(got, []cellrange.Range{{Start: 3, End: 3}}) {
		t.Fatalf("hidden after B: got %v", got)
	}

	if !m.Collapse(0) {
		t.Fatalf("collapse A: expected change")
	}
	// A hides [1,3], which already covers B's [3,3].
	if got := m.HiddenRanges(); !cellrange.Equal(got, []cellrange.Range{{Start: 1, End: 3}}) {
		t.Fatalf("hidden after A: got %v", got)
	}
	if m.Collapse(0) {
		t.Fatalf("collapsing twice must report no change")
	}

	m.Collapse(4)
	if got := m.HiddenRanges(); !cellrange.Equal(got, []cellrange.Range{{Start: 1, End: 3}, {Start: 5, End: 5}}) {
		t.Fatalf("hidden after C: got %v", got)
	}

	if !m.Expand(0) {
		t.Fatalf("expand A: expected change")
	}
	if got := m.HiddenRanges(); !cellrange.Equal(got, []cellrange.Range{{Start: 3, End: 3}, {Start: 5, End: 5}}) {
		t.Fatalf("hidden after expanding A: got %v", got)
	}
	if len(fired) != 4 {
		t.Fatalf("change events: got %d, want %d", len(fired), 4)
	}
}

func TestCollapse_NoRegionOrEmptyRegion(t *testing.T) {
	nb := outline("# A", "# B", "x")
	m := New(nb, nil)
	if m.Collapse(2) {
		t.Fatalf("code cell has no region")
	}
	if m.Collapse(0) {
		t.Fatalf("region without body must not collapse")
	}
	if !m.Toggle(1) || !m.IsCollapsed(1) {
		t.Fatalf("toggle B: expected collapsed")
	}
	if !m.Toggle(1) || m.IsCollapsed(1) {
		t.Fatalf("toggle B again: expected expanded")
	}
}

func TestCollapseAllExpandAll(t *testing.T) {
	nb := outline("# A", "x", "## B", "y")
	m := New(nb, nil)
	if !m.CollapseAll() {
		t.Fatalf("collapse all: expected change")
	}
	if got := m.HiddenRanges(); !cellrange.Equal(got, []cellrange.Range{{Start: 1, End: 3}}) {
		t.Fatalf("hidden: got %v", got)
	}
	if m.CollapseAll() {
		t.Fatalf("second collapse all must report no change")
	}
	if !m.ExpandAll() || len(m.HiddenRanges()) != 0 {
		t.Fatalf("expand all: hidden %v", m.HiddenRanges())
	}
	if m.ExpandAll() {
		t.Fatalf("second expand all must report no change")
	}
}

func TestCollapseStateFollowsHeadingCell(t *testing.T) {
	nb := outline("intro", "# A", "x", "y")
	m := New(nb, nil)
	m.Collapse(1)

	if err := nb.Insert(0, notebook.NewCell(notebook.CellData{Kind: notebook.KindCode, Source: "new"})); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !m.IsCollapsed(2) {
		t.Fatalf("heading moved to 2 but collapse state was lost")
	}
	if got := m.HiddenRanges(); !cellrange.Equal(got, []cellrange.Range{{Start: 3, End: 4}}) {
		t.Fatalf("hidden after insert: got %v", got)
	}

	if err := nb.SetSource(2, "not a heading"); err != nil {
		t.Fatalf("set source: %v", err)
	}
	if len(m.HiddenRanges()) != 0 {
		t.Fatalf("region removed by edit but still hidden: %v", m.HiddenRanges())
	}
	if err := nb.SetSource(2, "# A again"); err != nil {
		t.Fatalf("set source: %v", err)
	}
	if m.IsCollapsed(2) {
		t.Fatalf("collapse state must not come back after the heading went away")
	}
}

func TestReveal(t *testing.T) {
	nb := outline("# A", "## B", "x", "y")
	m := New(nb, nil)
	m.Collapse(1)
	m.Collapse(0)

	if m.Reveal(0) {
		t.Fatalf("visible cell needs no reveal")
	}
	if !m.Reveal(2) {
		t.Fatalf("reveal hidden cell: expected change")
	}
	if m.IsCollapsed(0) || m.IsCollapsed(1) {
		t.Fatalf("both enclosing regions must be expanded")
	}
}

func TestApplyHidden(t *testing.T) {
	nb := outline("# A", "x", "# B", "y", "z", "# C", "w")
	m := New(nb, nil)
	m.ApplyHidden([]cellrange.Range{{Start: 3, End: 4}, {Start: 1, End: 1}})

	if !m.IsCollapsed(0) || !m.IsCollapsed(2) || m.IsCollapsed(5) {
		t.Fatalf("collapsed: A=%v B=%v C=%v", m.IsCollapsed(0), m.IsCollapsed(2), m.IsCollapsed(5))
	}
	if got := m.HiddenRanges(); !cellrange.Equal(got, []cellrange.Range{{Start: 1, End: 1}, {Start: 3, End: 4}}) {
		t.Fatalf("hidden: got %v", got)
	}

	m.ApplyHidden(nil)
	if len(m.HiddenRanges()) != 0 {
		t.Fatalf("hidden after reset: got %v", m.HiddenRanges())
	}
}

func TestClose_StopsTracking(t *testing.T) {
	nb := outline("# A", "x")
	m := New(nb, nil)
	m.Close()
	_ = nb.Append(notebook.NewCell(notebook.CellData{Kind: notebook.KindMarkup, Source: "# B"}))
	if got := len(m.Regions()); got != 1 {
		t.Fatalf("regions after close: got %d, want %d", got, 1)
	}
}

func TestRegions_FollowDirectCellEdits(t *testing.T) {
	nb := outline("intro", "x", "y")
	m := New(nb, nil)
	if got := len(m.Regions()); got != 0 {
		t.Fatalf("regions before edit: got %d, want 0", got)
	}

	cell := notebook.NewCell(notebook.CellData{Kind: notebook.KindMarkup, Source: "plain"})
	if err := nb.Insert(1, cell); err != nil {
		t.Fatalf("insert: %v", err)
	}
	cell.SetSource("# Title")

	r, ok := m.RegionAt(1)
	if !ok || r.Range != (cellrange.Range{Start: 1, End: 3}) || r.Level != 1 {
		t.Fatalf("region after edit: got %+v ok=%v", r, ok)
	}
	if !m.Collapse(1) {
		t.Fatalf("collapse new region: expected change")
	}
	if got := m.HiddenRanges(); !cellrange.Equal(got, []cellrange.Range{{Start: 2, End: 3}}) {
		t.Fatalf("hidden: got %v", got)
	}
}
