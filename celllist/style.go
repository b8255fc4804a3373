package celllist

import "github.com/charmbracelet/lipgloss"

// Style controls how cells render.
//
// Styles should avoid padding, margins and widths; templates size every line
// themselves so measured heights stay exact.
type Style struct {
	Gutter     lipgloss.Style
	ExecCount  lipgloss.Style
	FoldMarker lipgloss.Style

	Bar         lipgloss.Style
	BarFocused  lipgloss.Style
	BarSelected lipgloss.Style

	Code    lipgloss.Style
	Markup  lipgloss.Style
	Heading lipgloss.Style
	Muted   lipgloss.Style

	Output      lipgloss.Style
	OutputError lipgloss.Style
}

func DefaultStyle() Style {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accent := lipgloss.Color("39")
	return Style{
		Gutter:      muted,
		ExecCount:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		FoldMarker:  lipgloss.NewStyle().Foreground(accent),
		Bar:         muted,
		BarFocused:  lipgloss.NewStyle().Foreground(accent).Bold(true),
		BarSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Code:        lipgloss.NewStyle(),
		Markup:      lipgloss.NewStyle(),
		Heading:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		Muted:       muted,
		Output:      lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		OutputError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}

// WithAccent returns s with focus and heading colours replaced by accent.
func (s Style) WithAccent(accent lipgloss.Color) Style {
	s.FoldMarker = s.FoldMarker.Foreground(accent)
	s.BarFocused = s.BarFocused.Foreground(accent)
	s.Heading = s.Heading.Foreground(accent)
	return s
}

// WithMuted returns s with gutter and secondary colours replaced by muted.
func (s Style) WithMuted(muted lipgloss.Color) Style {
	s.Gutter = s.Gutter.Foreground(muted)
	s.Bar = s.Bar.Foreground(muted)
	s.Muted = s.Muted.Foreground(muted)
	return s
}
