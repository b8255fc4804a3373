package celllist

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/iw2rmb/cellbook/internal/textwidth"
	"github.com/iw2rmb/cellbook/notebook"
)

func TestRender_AppliesRoleStyles(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	r.SetHasDarkBackground(true)

	st := Style{
		Heading:    r.NewStyle().Bold(true),
		Markup:     r.NewStyle(),
		BarFocused: r.NewStyle().Foreground(lipgloss.Color("#ff0000")),
	}
	c := notebook.NewCell(notebook.CellData{Kind: notebook.KindMarkup, Source: "# Setup\ntext"})
	ctx := RenderContext{Width: 20, Style: st, Focused: true, ListFocused: true}
	lines := MarkupTemplate{}.Render(ctx, newCellView(c)).Lines

	if want := st.Heading.Render(textwidth.Fit("Setup", 12)); !strings.HasSuffix(lines[0], want) {
		t.Fatalf("heading line: got %q, want suffix %q", lines[0], want)
	}
	if want := st.BarFocused.Render("│"); !strings.Contains(lines[1], want) {
		t.Fatalf("focused bar: got %q, want %q", lines[1], want)
	}
	if strings.Contains(lines[1], st.Heading.Render("text")) {
		t.Fatalf("body line must not use the heading style: %q", lines[1])
	}
}

func TestStyle_WithAccentAndMuted(t *testing.T) {
	st := DefaultStyle().WithAccent(lipgloss.Color("205")).WithMuted(lipgloss.Color("8"))

	for name, s := range map[string]lipgloss.Style{
		"fold marker": st.FoldMarker,
		"focused bar": st.BarFocused,
		"heading":     st.Heading,
	} {
		if got := s.GetForeground(); got != lipgloss.Color("205") {
			t.Fatalf("%s foreground: got %v, want 205", name, got)
		}
	}
	for name, s := range map[string]lipgloss.Style{
		"gutter": st.Gutter,
		"bar":    st.Bar,
		"muted":  st.Muted,
	} {
		if got := s.GetForeground(); got != lipgloss.Color("8") {
			t.Fatalf("%s foreground: got %v, want 8", name, got)
		}
	}
	if !st.BarFocused.GetBold() {
		t.Fatalf("focused bar must stay bold")
	}
}
