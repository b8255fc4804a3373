// Package folding derives foldable cell regions from markdown headings and
// tracks which of them are collapsed.
package folding

import (
	"github.com/emirpasic/gods/v2/maps/treemap"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iw2rmb/cellbook/cellrange"
	"github.com/iw2rmb/cellbook/event"
	"github.com/iw2rmb/cellbook/notebook"
)

// Region is a foldable run of cells headed by a markup heading cell.
//
// It ends before the next heading of the same or a higher level (a lower or
// equal Level number), or at the last cell.
type Region struct {
	Range  cellrange.Range
	Level  int
	Handle uuid.UUID
}

// Hidden returns the cells concealed when the region is collapsed.
func (r Region) Hidden() (cellrange.Range, bool) {
	if r.Range.End <= r.Range.Start {
		return cellrange.Range{}, false
	}
	return cellrange.Range{Start: r.Range.Start + 1, End: r.Range.End}, true
}

// Model keeps fold regions in sync with a notebook.
type Model struct {
	nb  *notebook.Notebook
	log *zap.Logger

	regions   *treemap.Map[int, Region]
	collapsed map[uuid.UUID]bool
	hidden    []cellrange.Range

	changed event.Emitter[[]cellrange.Range]
	subs    event.Store
}

// New builds a folding model for nb and subscribes to its changes.
// log may be nil.
func New(nb *notebook.Notebook, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		nb:        nb,
		log:       log.Named("folding"),
		regions:   treemap.New[int, Region](),
		collapsed: make(map[uuid.UUID]bool),
		hidden:    []cellrange.Range{},
	}
	if nb != nil {
		m.subs.Add(nb.OnDidChangeCells(func(notebook.CellsChange) { m.Recompute() }))
		m.subs.Add(nb.OnDidChangeContent(func(notebook.ContentChange) { m.Recompute() }))
	}
	m.recompute()
	return m
}

// Close detaches the model from its notebook.
func (m *Model) Close() {
	m.subs.Dispose()
	m.changed.Dispose()
}

// OnDidChange registers fn for changes of the hidden ranges.
func (m *Model) OnDidChange(fn func(hidden []cellrange.Range)) event.Disposable {
	return m.changed.On(fn)
}

// Recompute rebuilds regions from the notebook and fires OnDidChange when the
// hidden ranges move.
func (m *Model) Recompute() {
	before := m.hidden
	m.recompute()
	if !cellrange.Equal(before, m.hidden) {
		m.changed.Fire(m.HiddenRanges())
	}
}

type heading struct {
	index int
	level int
}

func (m *Model) recompute() {
	m.regions.Clear()
	if m.nb == nil {
		m.hidden = []cellrange.Range{}
		return
	}

	n := m.nb.Len()
	var stack []heading
	closeRegion := func(h heading, end int) {
		c := m.nb.Cell(h.index)
		m.regions.Put(h.index, Region{
			Range:  cellrange.Range{Start: h.index, End: end},
			Level:  h.level,
			Handle: c.Handle(),
		})
	}
	for i := 0; i < n; i++ {
		level := notebook.HeadingLevel(m.nb.Cell(i))
		if level == 0 {
			continue
		}
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			closeRegion(stack[len(stack)-1], i-1)
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, heading{index: i, level: level})
	}
	for _, h := range stack {
		closeRegion(h, n-1)
	}

	live := make(map[uuid.UUID]bool, len(m.collapsed))
	for _, r := range m.regions.Values() {
		if m.collapsed[r.Handle] {
			live[r.Handle] = true
		}
	}
	m.collapsed = live
	m.updateHidden()

	m.log.Debug("recomputed fold regions",
		zap.Int("cells", n),
		zap.Int("regions", m.regions.Size()),
		zap.Stringers("hidden", m.hidden),
	)
}

func (m *Model) updateHidden() {
	var ranges []cellrange.Range
	for _, r := range m.regions.Values() {
		if !m.collapsed[r.Handle] {
			continue
		}
		if h, ok := r.Hidden(); ok {
			ranges = append(ranges, h)
		}
	}
	m.hidden = cellrange.Reduce(ranges)
}

// Regions returns all fold regions ordered by start.
func (m *Model) Regions() []Region { return m.regions.Values() }

// RegionAt returns the region headed by cell i.
func (m *Model) RegionAt(i int) (Region, bool) { return m.regions.Get(i) }

// IsCollapsed reports whether the region headed by cell i is collapsed.
func (m *Model) IsCollapsed(i int) bool {
	r, ok := m.regions.Get(i)
	return ok && m.collapsed[r.Handle]
}

// Collapse folds the region headed by cell i. It reports whether anything
// changed.
func (m *Model) Collapse(i int) bool { return m.set(i, true) }

// Expand unfolds the region headed by cell i.
func (m *Model) Expand(i int) bool { return m.set(i, false) }

// Toggle flips the region headed by cell i.
func (m *Model) Toggle(i int) bool { return m.set(i, !m.IsCollapsed(i)) }

func (m *Model) set(i int, collapsed bool) bool {
	r, ok := m.regions.Get(i)
	if !ok {
		return false
	}
	if _, foldable := r.Hidden(); !foldable && collapsed {
		return false
	}
	if m.collapsed[r.Handle] == collapsed {
		return false
	}
	if collapsed {
		m.collapsed[r.Handle] = true
	} else {
		delete(m.collapsed, r.Handle)
	}
	m.commit()
	return true
}

// CollapseAll folds every region that hides at least one cell.
func (m *Model) CollapseAll() bool {
	changed := false
	for _, r := range m.regions.Values() {
		if _, ok := r.Hidden(); ok && !m.collapsed[r.Handle] {
			m.collapsed[r.Handle] = true
			changed = true
		}
	}
	if changed {
		m.commit()
	}
	return changed
}

// ExpandAll unfolds every region.
func (m *Model) ExpandAll() bool {
	if len(m.collapsed) == 0 {
		return false
	}
	clear(m.collapsed)
	m.commit()
	return true
}

// Reveal expands every collapsed region hiding cell i.
func (m *Model) Reveal(i int) bool {
	if !cellrange.Contains(m.hidden, i) {
		return false
	}
	for _, r := range m.regions.Values() {
		h, ok := r.Hidden()
		if ok && m.collapsed[r.Handle] && h.Contains(i) {
			delete(m.collapsed, r.Handle)
		}
	}
	m.commit()
	return true
}

// HiddenRanges returns the normalized cell ranges concealed by collapsed
// regions.
func (m *Model) HiddenRanges() []cellrange.Range {
	return append([]cellrange.Range{}, m.hidden...)
}

// ApplyHidden restores collapse state from previously saved hidden ranges.
// A region is collapsed when everything it hides is covered.
func (m *Model) ApplyHidden(hidden []cellrange.Range) {
	saved := cellrange.Reduce(append([]cellrange.Range(nil), hidden...))
	clear(m.collapsed)
	for _, r := range m.regions.Values() {
		h, ok := r.Hidden()
		if !ok {
			continue
		}
		for _, s := range saved {
			if s.ContainsRange(h) {
				m.collapsed[r.Handle] = true
				break
			}
		}
	}
	m.commit()
}

func (m *Model) commit() {
	before := m.hidden
	m.updateHidden()
	m.log.Debug("fold state changed",
		zap.Int("collapsed", len(m.collapsed)),
		zap.Stringers("hidden", m.hidden),
	)
	if !cellrange.Equal(before, m.hidden) {
		m.changed.Fire(m.HiddenRanges())
	}
}
