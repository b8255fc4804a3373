package celllist

import (
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iw2rmb/cellbook/cellrange"
)

// FocusedIndex returns the notebook index of the focused cell, -1 when the
// notebook is empty.
func (m Model) FocusedIndex() int { return m.focus }

// FocusedCell returns the focused cell view, or nil.
func (m Model) FocusedCell() CellView {
	if m.focus < 0 || m.focus >= len(m.views) {
		return nil
	}
	return m.views[m.focus]
}

// Selections returns the selected notebook ranges. The focused cell is always
// selected.
func (m Model) Selections() []cellrange.Range {
	return slices.Clone(m.selections)
}

// SetFocus focuses cell i and collapses the selection to it. Regions hiding i
// are expanded.
func (m Model) SetFocus(i int) Model {
	m.sync(true)
	if len(m.views) == 0 {
		return m
	}
	i = min(max(i, 0), len(m.views)-1)
	m.fold.Reveal(i)
	m.setFocus(i, false)
	m.revealModel(i)
	return m
}

// SetSelections replaces the selection. When the focused cell falls outside
// the new selection, focus moves to the first selected cell.
func (m Model) SetSelections(ranges []cellrange.Range) Model {
	m.sync(true)
	if len(m.views) == 0 {
		return m
	}
	clipped := make([]cellrange.Range, 0, len(ranges))
	for _, r := range ranges {
		r.Start = max(r.Start, 0)
		r.End = min(r.End, len(m.views)-1)
		if r.Start <= r.End {
			clipped = append(clipped, r)
		}
	}
	next := cellrange.Reduce(clipped)
	if len(next) == 0 {
		return m.SetFocus(m.focus)
	}

	if !cellrange.Contains(next, m.focus) {
		first := next[0].Start
		m.fold.Reveal(first)
		m.focus = first
		m.focusHandle = m.views[first].Handle()
		m.fireFocus()
		m.revealModel(first)
	}
	m.anchor = m.focus
	m.updateSelections(next)
	return m
}

// setFocusQuiet moves focus without firing events or scrolling.
func (m *Model) setFocusQuiet(i int) {
	m.focus = i
	m.anchor = i
	m.focusHandle = m.views[i].Handle()
	m.selections = []cellrange.Range{{Start: i, End: i}}
}

// setFocus moves focus to i; extend grows the selection from the anchor
// instead of collapsing it.
func (m *Model) setFocus(i int, extend bool) {
	prev, prevHandle := m.focus, m.focusHandle
	m.focus = i
	m.focusHandle = m.views[i].Handle()
	if !extend || m.anchor < 0 || m.anchor >= len(m.views) {
		m.anchor = i
	}

	lo, hi := min(m.anchor, i), max(m.anchor, i)
	m.updateSelections([]cellrange.Range{{Start: lo, End: hi}})

	if prev != i || prevHandle != m.focusHandle {
		m.log.Debug("focus changed", zap.Int("from", prev), zap.Int("to", i))
		m.fireFocus()
	}
}

func (m *Model) fireFocus() {
	ev := FocusEvent{Index: m.focus, Handle: uuid.Nil}
	if v := m.FocusedCell(); v != nil {
		ev.Handle = v.Handle()
		ev.Mode = v.FocusMode()
	}
	m.events.focus.Fire(ev)
}

func (m *Model) updateSelections(next []cellrange.Range) {
	if cellrange.Equal(next, m.selections) {
		return
	}
	m.selections = next
	m.events.selection.Fire(slices.Clone(next))
}

// moveFocus moves focus by delta visible cells.
func (m *Model) moveFocus(delta int, extend bool) bool {
	if len(m.views) == 0 {
		return false
	}
	hidden := m.fold.HiddenRanges()
	view, ok := cellrange.ModelToView(hidden, m.focus)
	if !ok {
		view, _ = cellrange.ModelToView(hidden, m.nearestVisible(m.focus))
	}
	count := len(m.views) - rangesLen(hidden)
	target := min(max(view+delta, 0), count-1)
	next := cellrange.ViewToModel(hidden, target)
	if next == m.focus && !extend {
		return false
	}
	m.setFocus(next, extend)
	m.revealModel(next)
	return true
}

// nearestVisible returns i, or the heading of the collapsed region hiding i.
func (m *Model) nearestVisible(i int) int {
	for _, r := range m.fold.HiddenRanges() {
		if r.Contains(i) {
			return max(r.Start-1, 0)
		}
	}
	return i
}

// ensureFocusVisible moves focus out of freshly hidden cells.
func (m *Model) ensureFocusVisible() {
	if m.focus < 0 {
		return
	}
	if next := m.nearestVisible(m.focus); next != m.focus {
		m.setFocus(next, false)
	}
}

func rangesLen(ranges []cellrange.Range) int {
	n := 0
	for _, r := range ranges {
		n += r.Len()
	}
	return n
}
