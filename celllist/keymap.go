package celllist

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the cell list key bindings.
type KeyMap struct {
	Up, Down           key.Binding
	ShiftUp, ShiftDown key.Binding
	Top, Bottom        key.Binding
	PageUp, PageDown   key.Binding

	Edit, Leave key.Binding

	Fold, Unfold, ToggleFold key.Binding
	FoldAll, UnfoldAll       key.Binding
	ToggleOutputs            key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous cell")),
		Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next cell")),

		ShiftUp:   key.NewBinding(key.WithKeys("shift+up", "K"), key.WithHelp("shift+↑", "extend selection up")),
		ShiftDown: key.NewBinding(key.WithKeys("shift+down", "J"), key.WithHelp("shift+↓", "extend selection down")),

		Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("home", "first cell")),
		Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("end", "last cell")),

		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdown", "page down")),

		Edit:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit cell")),
		Leave: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave cell")),

		Fold:       key.NewBinding(key.WithKeys("["), key.WithHelp("[", "fold")),
		Unfold:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "unfold")),
		ToggleFold: key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "toggle fold")),
		FoldAll:    key.NewBinding(key.WithKeys("Z"), key.WithHelp("Z", "fold all")),
		UnfoldAll:  key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "unfold all")),

		ToggleOutputs: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "toggle outputs")),
	}
}
