package celllist

import (
	"github.com/google/uuid"

	"github.com/iw2rmb/cellbook/notebook"
)

// FocusMode says where keyboard focus sits within a focused cell.
type FocusMode uint8

const (
	// FocusContainer targets the cell as a whole (list navigation).
	FocusContainer FocusMode = iota
	// FocusEditor targets the cell source.
	FocusEditor
	// FocusOutput targets the cell outputs.
	FocusOutput
)

func (f FocusMode) String() string {
	switch f {
	case FocusContainer:
		return "container"
	case FocusEditor:
		return "editor"
	case FocusOutput:
		return "output"
	default:
		return "unknown"
	}
}

// EditState says whether a cell shows its source for editing or a preview.
type EditState uint8

const (
	Preview EditState = iota
	Editing
)

// CellLayout is the measured geometry of a cell in list coordinates.
type CellLayout struct {
	// Top is the first list line of the cell; -1 when the cell is hidden.
	Top    int
	Height int
}

// CellView is the per-cell view model the list hands to render templates.
//
// Concrete variants are *CodeCellView and *MarkupCellView, selected by Kind.
type CellView interface {
	Handle() uuid.UUID
	Kind() notebook.CellKind
	Cell() *notebook.Cell

	FocusMode() FocusMode
	SetFocusMode(FocusMode)
	EditState() EditState
	SetEditState(EditState)

	Layout() CellLayout
	setLayout(CellLayout)
}

type baseView struct {
	cell      *notebook.Cell
	focusMode FocusMode
	editState EditState
	layout    CellLayout
}

func (v *baseView) Handle() uuid.UUID        { return v.cell.Handle() }
func (v *baseView) Kind() notebook.CellKind  { return v.cell.Kind() }
func (v *baseView) Cell() *notebook.Cell     { return v.cell }
func (v *baseView) FocusMode() FocusMode     { return v.focusMode }
func (v *baseView) SetFocusMode(f FocusMode) { v.focusMode = f }
func (v *baseView) EditState() EditState     { return v.editState }
func (v *baseView) SetEditState(s EditState) { v.editState = s }
func (v *baseView) Layout() CellLayout       { return v.layout }
func (v *baseView) setLayout(l CellLayout)   { v.layout = l }

// CodeCellView is the view model of a code cell.
type CodeCellView struct {
	baseView
	outputsCollapsed bool
}

// OutputsCollapsed reports whether the outputs are folded away.
func (v *CodeCellView) OutputsCollapsed() bool { return v.outputsCollapsed }

// ToggleOutputs folds or unfolds the outputs and returns the new state.
func (v *CodeCellView) ToggleOutputs() bool {
	v.outputsCollapsed = !v.outputsCollapsed
	return v.outputsCollapsed
}

// SetOutputsCollapsed sets the output fold state.
func (v *CodeCellView) SetOutputsCollapsed(collapsed bool) { v.outputsCollapsed = collapsed }

// MarkupCellView is the view model of a markup cell.
type MarkupCellView struct {
	baseView
}

// HeadingLevel returns the level of the cell's first heading, or 0.
func (v *MarkupCellView) HeadingLevel() int { return notebook.HeadingLevel(v.cell) }

func newCellView(c *notebook.Cell) CellView {
	base := baseView{cell: c, layout: CellLayout{Top: -1}}
	switch c.Kind() {
	case notebook.KindCode:
		base.editState = Editing
		return &CodeCellView{baseView: base}
	default:
		return &MarkupCellView{baseView: base}
	}
}
