package celllist

import (
	"strconv"

	"github.com/iw2rmb/cellbook/cellrange"
	"github.com/iw2rmb/cellbook/notebook"
	"github.com/iw2rmb/cellbook/viewstate"
)

// SaveViewState captures folding, focus, selection, scroll and output
// collapse state.
func (m Model) SaveViewState() viewstate.State {
	m.sync(false)
	s := viewstate.State{
		Hidden:     m.fold.HiddenRanges(),
		Focus:      max(m.focus, 0),
		Selections: m.Selections(),
		ScrollTop:  m.scrollTop,
	}
	for i, v := range m.views {
		if cv, ok := v.(*CodeCellView); ok && cv.OutputsCollapsed() {
			s.CollapsedOutputs = append(s.CollapsedOutputs, cellKey(cv.Cell(), i))
		}
	}
	return s
}

func (m *Model) restore(s viewstate.State) {
	m.fold.ApplyHidden(s.Hidden)

	keys := make(map[string]bool, len(s.CollapsedOutputs))
	for _, k := range s.CollapsedOutputs {
		keys[k] = true
	}
	for i, v := range m.views {
		if cv, ok := v.(*CodeCellView); ok {
			cv.SetOutputsCollapsed(keys[cellKey(cv.Cell(), i)])
		}
	}

	if len(m.views) == 0 {
		return
	}
	focus := m.nearestVisible(min(max(s.Focus, 0), len(m.views)-1))
	m.setFocusQuiet(focus)

	var sel []cellrange.Range
	for _, r := range s.Selections {
		r.Start = max(r.Start, 0)
		r.End = min(r.End, len(m.views)-1)
		if r.Start <= r.End {
			sel = append(sel, r)
		}
	}
	if sel = cellrange.Reduce(sel); cellrange.Contains(sel, focus) {
		m.selections = sel
	}
	m.scrollTop = max(s.ScrollTop, 0)
}

// cellKey identifies a cell across sessions: its nbformat id, or its index
// when it has none.
func cellKey(c *notebook.Cell, index int) string {
	if c.ID != "" {
		return c.ID
	}
	return "#" + strconv.Itoa(index)
}
