package celllist

import (
	"go.uber.org/zap"

	"github.com/iw2rmb/cellbook/folding"
	"github.com/iw2rmb/cellbook/notebook"
	"github.com/iw2rmb/cellbook/viewstate"
)

// Config configures the cell list Model.
type Config struct {
	Notebook *notebook.Notebook
	// Folding is created from Notebook when nil.
	Folding *folding.Model

	Style     Style
	KeyMap    KeyMap
	Templates map[notebook.CellKind]Template

	ShowOutputs bool
	// MaxCellLines caps lines per cell section; 0 means unlimited.
	MaxCellLines int
	// TabWidth defaults to 4.
	TabWidth int

	// ViewState, when set, is restored by New.
	ViewState *viewstate.State

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}
