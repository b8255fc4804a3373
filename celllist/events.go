package celllist

import (
	"github.com/google/uuid"

	"github.com/iw2rmb/cellbook/cellrange"
	"github.com/iw2rmb/cellbook/event"
)

// FocusEvent reports a change of the focused cell or its focus mode.
type FocusEvent struct {
	// Index is the notebook index of the focused cell, -1 when none.
	Index  int
	Handle uuid.UUID
	Mode   FocusMode
}

// ScrollEvent reports a change of the first rendered list line.
type ScrollEvent struct {
	ScrollTop   int
	ScrollTotal int
}

// MouseEvent reports a mouse release over a cell.
type MouseEvent struct {
	// Index is the notebook index of the cell under the pointer, -1 when the
	// pointer is below the last cell.
	Index int
	X, Y  int
}

type emitters struct {
	focus     event.Emitter[FocusEvent]
	selection event.Emitter[[]cellrange.Range]
	scroll    event.Emitter[ScrollEvent]
	mouseUp   event.Emitter[MouseEvent]
}

// OnDidChangeFocus registers fn for focus changes.
func (m Model) OnDidChangeFocus(fn func(FocusEvent)) event.Disposable {
	return m.events.focus.On(fn)
}

// OnDidChangeSelection registers fn for selection changes. The ranges are
// normalized notebook indexes.
func (m Model) OnDidChangeSelection(fn func([]cellrange.Range)) event.Disposable {
	return m.events.selection.On(fn)
}

// OnDidScroll registers fn for scroll position changes.
func (m Model) OnDidScroll(fn func(ScrollEvent)) event.Disposable {
	return m.events.scroll.On(fn)
}

// OnMouseUp registers fn for mouse releases inside the list.
func (m Model) OnMouseUp(fn func(MouseEvent)) event.Disposable {
	return m.events.mouseUp.On(fn)
}
