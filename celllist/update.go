package celllist

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const wheelStep = 3

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused || len(m.views) == 0 {
		return m, nil
	}

	km := m.cfg.KeyMap
	cur := m.FocusedCell()
	// Navigation is left to the host while a cell is being edited.
	if cur != nil && cur.FocusMode() == FocusEditor {
		if key.Matches(msg, km.Leave) {
			m.leaveCell()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, km.Up):
		m.moveFocus(-1, false)
	case key.Matches(msg, km.Down):
		m.moveFocus(1, false)
	case key.Matches(msg, km.ShiftUp):
		m.moveFocus(-1, true)
	case key.Matches(msg, km.ShiftDown):
		m.moveFocus(1, true)
	case key.Matches(msg, km.Top):
		m.moveFocus(-len(m.views), false)
	case key.Matches(msg, km.Bottom):
		m.moveFocus(len(m.views), false)
	case key.Matches(msg, km.PageUp):
		m.scrollTo(m.scrollTop-max(m.height-1, 1), m.layout())
	case key.Matches(msg, km.PageDown):
		m.scrollTo(m.scrollTop+max(m.height-1, 1), m.layout())

	case key.Matches(msg, km.Edit):
		m.enterCell()
	case key.Matches(msg, km.Leave):
		m.leaveCell()

	case key.Matches(msg, km.Fold):
		m = m.Fold(m.focus)
	case key.Matches(msg, km.Unfold):
		m = m.Unfold(m.focus)
	case key.Matches(msg, km.ToggleFold):
		m = m.ToggleFold(m.focus)
	case key.Matches(msg, km.FoldAll):
		if m.fold.CollapseAll() {
			m.afterFold()
		}
	case key.Matches(msg, km.UnfoldAll):
		if m.fold.ExpandAll() {
			m.afterFold()
		}
	case key.Matches(msg, km.ToggleOutputs):
		m = m.ToggleOutputs(m.focus)
	}
	return m, nil
}

func (m *Model) enterCell() {
	v := m.FocusedCell()
	if v == nil || v.FocusMode() == FocusEditor {
		return
	}
	v.SetFocusMode(FocusEditor)
	v.SetEditState(Editing)
	m.log.Debug("entered cell", zap.Int("index", m.focus))
	m.fireFocus()
}

func (m *Model) leaveCell() {
	v := m.FocusedCell()
	if v == nil || v.FocusMode() == FocusContainer {
		return
	}
	v.SetFocusMode(FocusContainer)
	if _, ok := v.(*MarkupCellView); ok {
		v.SetEditState(Preview)
	}
	m.fireFocus()
}

// Fold collapses the region headed by cell i. When i heads no region, the
// innermost region containing i is used.
func (m Model) Fold(i int) Model {
	m.sync(true)
	if start, ok := m.regionFor(i); ok && m.fold.Collapse(start) {
		m.afterFold()
	}
	return m
}

// Unfold expands the region headed by cell i.
func (m Model) Unfold(i int) Model {
	m.sync(true)
	if m.fold.Expand(i) {
		m.afterFold()
	}
	return m
}

// ToggleFold flips the region headed by cell i.
func (m Model) ToggleFold(i int) Model {
	m.sync(true)
	if m.fold.Toggle(i) {
		m.afterFold()
	}
	return m
}

// ToggleOutputs folds or unfolds the outputs of code cell i.
func (m Model) ToggleOutputs(i int) Model {
	m.sync(true)
	if i < 0 || i >= len(m.views) {
		return m
	}
	cv, ok := m.views[i].(*CodeCellView)
	if !ok {
		return m
	}
	cv.ToggleOutputs()
	l := m.layout()
	m.clampScroll(l)
	return m
}

func (m *Model) regionFor(i int) (int, bool) {
	if _, ok := m.fold.RegionAt(i); ok {
		return i, true
	}
	best, found := -1, false
	for _, r := range m.fold.Regions() {
		if r.Range.Start < i && r.Range.Contains(i) && r.Range.Start > best {
			best, found = r.Range.Start, true
		}
	}
	return best, found
}

func (m *Model) afterFold() {
	m.ensureFocusVisible()
	l := m.layout()
	m.clampScroll(l)
	if m.focus >= 0 {
		m.revealModel(m.focus)
	}
}

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	l := m.layout()

	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		switch msg.Button { //nolint:exhaustive
		case tea.MouseButtonWheelUp:
			m.scrollTo(m.scrollTop-wheelStep, l)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.scrollTo(m.scrollTop+wheelStep, l)
			return m, nil
		case tea.MouseButtonLeft:
		default:
			return m, nil
		}
		if !m.focused || !m.mouseInBounds(msg.X, msg.Y) {
			return m, nil
		}
		k, ok := l.indexAt(m.scrollTop + msg.Y)
		if !ok {
			return m, nil
		}
		i := l.visible[k]
		m.setFocus(i, msg.Shift)
		m.revealModel(i)

	case tea.MouseActionRelease:
		if !m.mouseInBounds(msg.X, msg.Y) {
			return m, nil
		}
		ev := MouseEvent{Index: -1, X: msg.X, Y: msg.Y}
		if k, ok := l.indexAt(m.scrollTop + msg.Y); ok {
			ev.Index = l.visible[k]
		}
		m.events.mouseUp.Fire(ev)
	}
	return m, nil
}

func (m Model) mouseInBounds(x, y int) bool {
	if m.width <= 0 || m.height <= 0 {
		return false
	}
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}
