package notebook

import (
	"errors"
	"slices"
	"testing"

	"github.com/iw2rmb/cellbook/cellrange"
)

func newTestNotebook(sources ...string) *Notebook {
	nb := New("python")
	for _, s := range sources {
		nb.adopt(NewCell(CellData{Kind: KindCode, Language: "python", Source: s}))
	}
	return nb
}

func sources(nb *Notebook) []string {
	out := make([]string, 0, nb.Len())
	for _, c := range nb.cells {
		out = append(out, c.Source())
	}
	return out
}

func TestCell_SetSourceBumpsVersion(t *testing.T) {
	c := NewCell(CellData{Kind: KindCode, Source: "a\nb"})
	if got := c.LineCount(); got != 2 {
		t.Fatalf("line count: got %d, want %d", got, 2)
	}
	if c.SetSource("a\nb") {
		t.Fatalf("unchanged source reported as changed")
	}
	if c.Version() != 0 {
		t.Fatalf("version after no-op: got %d, want 0", c.Version())
	}
	if !c.SetSource("x") {
		t.Fatalf("changed source reported as unchanged")
	}
	if c.Version() != 1 || c.Line(0) != "x" || c.Line(1) != "" {
		t.Fatalf("after set: version=%d line0=%q", c.Version(), c.Line(0))
	}
}

func TestCell_HandlesAreUnique(t *testing.T) {
	a := NewCell(CellData{})
	b := NewCell(CellData{})
	if a.Handle() == b.Handle() {
		t.Fatalf("expected distinct handles")
	}
}

func TestNotebook_InsertFiresSplice(t *testing.T) {
	nb := newTestNotebook("a", "b")
	var got []CellsChange
	nb.OnDidChangeCells(func(ev CellsChange) { got = append(got, ev) })

	c := NewCell(CellData{Kind: KindMarkup, Source: "# x"})
	if err := nb.Insert(1, c); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if !slices.Equal(sources(nb), []string{"a", "# x", "b"}) {
		t.Fatalf("sources: got %v", sources(nb))
	}
	if len(got) != 1 || len(got[0].Splices) != 1 {
		t.Fatalf("events: got %+v", got)
	}
	sp := got[0].Splices[0]
	if sp.Start != 1 || sp.DeleteCount != 0 || len(sp.Inserted) != 1 || sp.Inserted[0] != c {
		t.Fatalf("splice: got %+v", sp)
	}
	if got[0].VersionBefore != 0 || got[0].VersionAfter != 1 {
		t.Fatalf("versions: got %d -> %d", got[0].VersionBefore, got[0].VersionAfter)
	}
}

func TestNotebook_InsertErrors(t *testing.T) {
	nb := newTestNotebook("a")
	if err := nb.Insert(3, NewCell(CellData{})); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("insert past end: got %v, want %v", err, ErrIndexOutOfRange)
	}
	if err := nb.Insert(0, nil); !errors.Is(err, ErrNilCell) {
		t.Fatalf("insert nil: got %v, want %v", err, ErrNilCell)
	}
	if nb.Version() != 0 {
		t.Fatalf("failed inserts must not bump version")
	}
}

func TestNotebook_Delete(t *testing.T) {
	nb := newTestNotebook("a", "b", "c", "d")
	var ev CellsChange
	nb.OnDidChangeCells(func(e CellsChange) { ev = e })

	if err := nb.Delete(cellrange.Range{Start: 1, End: 2}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !slices.Equal(sources(nb), []string{"a", "d"}) {
		t.Fatalf("sources: got %v", sources(nb))
	}
	if sp := ev.Splices[0]; sp.Start != 1 || sp.DeleteCount != 2 || len(sp.Inserted) != 0 {
		t.Fatalf("splice: got %+v", sp)
	}

	if err := nb.Delete(cellrange.Range{Start: 1, End: 5}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("delete out of range: got %v", err)
	}
}

func TestNotebook_Move(t *testing.T) {
	cases := []struct {
		r    cellrange.Range
		to   int
		want []string
	}{
		{r: cellrange.Range{Start: 0, End: 0}, to: 2, want: []string{"b", "c", "a", "d"}},
		{r: cellrange.Range{Start: 2, End: 3}, to: 0, want: []string{"c", "d", "a", "b"}},
		{r: cellrange.Range{Start: 1, End: 2}, to: 2, want: []string{"a", "d", "b", "c"}},
	}

	for _, tc := range cases {
		nb := newTestNotebook("a", "b", "c", "d")
		if err := nb.Move(tc.r, tc.to); err != nil {
			t.Fatalf("move %v to %d: %v", tc.r, tc.to, err)
		}
		if got := sources(nb); !slices.Equal(got, tc.want) {
			t.Fatalf("move %v to %d: got %v, want %v", tc.r, tc.to, got, tc.want)
		}
	}

	nb := newTestNotebook("a", "b")
	if err := nb.Move(cellrange.Range{Start: 0, End: 0}, 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("move past end: got %v", err)
	}
}

func TestNotebook_SetSourceFiresContentChange(t *testing.T) {
	nb := newTestNotebook("a", "b")
	var got []ContentChange
	nb.OnDidChangeContent(func(ev ContentChange) { got = append(got, ev) })

	if err := nb.SetSource(1, "b"); err != nil {
		t.Fatalf("set source: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("unchanged source fired %d events", len(got))
	}
	if err := nb.SetSource(1, "bb"); err != nil {
		t.Fatalf("set source: %v", err)
	}
	if len(got) != 1 || got[0].Index != 1 || got[0].Handle != nb.Cell(1).Handle() || got[0].Version != 1 {
		t.Fatalf("content events: got %+v", got)
	}
	if err := nb.SetSource(9, "x"); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("set source out of range: got %v", err)
	}
}

func TestCell_SetSourceNotifiesNotebook(t *testing.T) {
	nb := newTestNotebook("a", "b", "c")
	var got []ContentChange
	nb.OnDidChangeContent(func(ev ContentChange) { got = append(got, ev) })
	before := nb.Version()

	if !nb.Cell(2).SetSource("cc") {
		t.Fatalf("changed source reported as unchanged")
	}
	if nb.Version() != before+1 {
		t.Fatalf("notebook version: got %d, want %d", nb.Version(), before+1)
	}
	if len(got) != 1 || got[0].Index != 2 || got[0].Handle != nb.Cell(2).Handle() || got[0].Version != 1 {
		t.Fatalf("content events: got %+v", got)
	}

	removed := nb.Cell(0)
	if err := nb.Delete(cellrange.Range{Start: 0, End: 0}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	before = nb.Version()
	removed.SetSource("gone")
	if len(got) != 1 || nb.Version() != before {
		t.Fatalf("deleted cell notified notebook: events=%d version=%d", len(got), nb.Version())
	}
}

func TestNotebook_SetOutputsFiresContentChange(t *testing.T) {
	nb := newTestNotebook("a", "b")
	var got []ContentChange
	nb.OnDidChangeContent(func(ev ContentChange) { got = append(got, ev) })
	before := nb.Version()

	n := 3
	outs := []Output{{Kind: OutputStream, MIME: "stream/stdout", Text: "x\n"}}
	if err := nb.SetOutputs(1, outs, &n); err != nil {
		t.Fatalf("set outputs: %v", err)
	}
	outs[0].Text = "mutated"

	c := nb.Cell(1)
	if c.Version() != 1 || nb.Version() != before+1 {
		t.Fatalf("versions: cell=%d notebook=%d", c.Version(), nb.Version())
	}
	if c.ExecutionCount == nil || *c.ExecutionCount != 3 || c.OutputText() != "x" {
		t.Fatalf("cell outputs: count=%v text=%q", c.ExecutionCount, c.OutputText())
	}
	if len(got) != 1 || got[0].Index != 1 || got[0].Handle != c.Handle() || got[0].Version != 1 {
		t.Fatalf("content events: got %+v", got)
	}
	if err := nb.SetOutputs(5, nil, nil); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("set outputs out of range: got %v", err)
	}
}

func TestNotebook_IndexOf(t *testing.T) {
	nb := newTestNotebook("a", "b", "c")
	h := nb.Cell(2).Handle()
	if i, ok := nb.IndexOf(h); !ok || i != 2 {
		t.Fatalf("IndexOf: got (%d, %v), want (2, true)", i, ok)
	}
	_ = nb.Move(cellrange.Range{Start: 2, End: 2}, 0)
	if i, ok := nb.IndexOf(h); !ok || i != 0 {
		t.Fatalf("IndexOf after move: got (%d, %v), want (0, true)", i, ok)
	}
}

func TestHeadingLevel(t *testing.T) {
	cases := []struct {
		kind CellKind
		lang string
		src  string
		want int
	}{
		{kind: KindMarkup, src: "# Title", want: 1},
		{kind: KindMarkup, src: "intro\n\n### Deep", want: 3},
		{kind: KindMarkup, src: "Setext\n======", want: 1},
		{kind: KindMarkup, src: "plain text", want: 0},
		{kind: KindMarkup, src: "", want: 0},
		{kind: KindCode, src: "# a comment", want: 0},
		{kind: KindMarkup, lang: "raw", src: "# raw", want: 0},
	}

	for _, tc := range cases {
		c := NewCell(CellData{Kind: tc.kind, Language: tc.lang, Source: tc.src})
		if got := HeadingLevel(c); got != tc.want {
			t.Fatalf("HeadingLevel(%q): got %d, want %d", tc.src, got, tc.want)
		}
	}
}

func TestHeadingLevel_FollowsSourceEdits(t *testing.T) {
	c := NewCell(CellData{Kind: KindMarkup, Source: "# one"})
	if got := HeadingLevel(c); got != 1 {
		t.Fatalf("initial level: got %d, want 1", got)
	}
	c.SetSource("## two")
	if got := HeadingLevel(c); got != 2 {
		t.Fatalf("level after edit: got %d, want 2", got)
	}
}
