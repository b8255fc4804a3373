package celllist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/cellbook/internal/textwidth"
	"github.com/iw2rmb/cellbook/notebook"
)

// GutterWidth is the number of cells reserved left of the focus bar.
const GutterWidth = 6

// RenderContext carries list state a template needs for one cell.
type RenderContext struct {
	// Index is the cell's notebook index.
	Index int
	// Width is the full line width available to the cell.
	Width int
	Style Style

	ListFocused bool
	Focused     bool
	Selected    bool

	// Foldable is true when the cell heads a fold region; Collapsed when
	// that region is folded.
	Foldable  bool
	Collapsed bool

	ShowOutputs bool
	// MaxLines caps source and output lines; 0 means unlimited.
	MaxLines int
	TabWidth int
}

// RenderedCell is a template's output: one string per terminal line.
type RenderedCell struct {
	Lines []string
}

// Template renders one kind of cell.
type Template interface {
	Kind() notebook.CellKind
	Render(ctx RenderContext, view CellView) RenderedCell
}

// Measurer is implemented by templates that can report a cell's height
// without rendering it. The result must equal len(Render(...).Lines).
// Heights are cached per cell version, view state and the focus, selection
// and folding flags of RenderContext.
type Measurer interface {
	Height(ctx RenderContext, view CellView) int
}

func measure(t Template, ctx RenderContext, view CellView) int {
	if ms, ok := t.(Measurer); ok {
		return ms.Height(ctx, view)
	}
	return len(t.Render(ctx, view).Lines)
}

type lineRole uint8

const (
	roleSource lineRole = iota
	roleMarkup
	roleHeading
	roleMuted
	roleOutput
	roleOutputError
)

type bodyLine struct {
	text string
	role lineRole
}

// DefaultTemplates returns the built-in code and markup templates.
func DefaultTemplates() map[notebook.CellKind]Template {
	return map[notebook.CellKind]Template{
		notebook.KindCode:   CodeTemplate{},
		notebook.KindMarkup: MarkupTemplate{},
	}
}

// CodeTemplate renders code cells: execution count gutter, source, outputs.
type CodeTemplate struct{}

func (CodeTemplate) Kind() notebook.CellKind { return notebook.KindCode }

func (t CodeTemplate) Height(ctx RenderContext, view CellView) int {
	return len(t.body(ctx, view))
}

func (t CodeTemplate) Render(ctx RenderContext, view CellView) RenderedCell {
	c := view.Cell()
	gutter := "[ ]"
	if c.ExecutionCount != nil {
		gutter = fmt.Sprintf("[%d]", *c.ExecutionCount)
	}
	return renderLines(ctx, ctx.Style.ExecCount, gutter, t.body(ctx, view))
}

func (CodeTemplate) body(ctx RenderContext, view CellView) []bodyLine {
	c := view.Cell()
	lines := sourceLines(c, ctx.MaxLines, roleSource)

	if !ctx.ShowOutputs || len(c.Outputs) == 0 {
		return lines
	}
	if cv, ok := view.(*CodeCellView); ok && cv.OutputsCollapsed() {
		return append(lines, bodyLine{
			text: fmt.Sprintf("⋯ %d output(s) hidden", len(c.Outputs)),
			role: roleMuted,
		})
	}

	var out []bodyLine
	for _, o := range c.Outputs {
		role := roleOutput
		if o.Kind == notebook.OutputError {
			role = roleOutputError
		}
		for _, l := range strings.Split(strings.TrimRight(o.Text, "\n"), "\n") {
			out = append(out, bodyLine{text: l, role: role})
		}
	}
	return append(lines, capLines(out, ctx.MaxLines)...)
}

// MarkupTemplate renders markup cells: fold marker gutter and either a
// preview (headings styled, '#' markers dropped) or the raw source.
type MarkupTemplate struct{}

func (MarkupTemplate) Kind() notebook.CellKind { return notebook.KindMarkup }

func (t MarkupTemplate) Height(ctx RenderContext, view CellView) int {
	return len(t.body(ctx, view))
}

func (t MarkupTemplate) Render(ctx RenderContext, view CellView) RenderedCell {
	gutter := ""
	if ctx.Foldable {
		gutter = "▾"
		if ctx.Collapsed {
			gutter = "▸"
		}
	}
	return renderLines(ctx, ctx.Style.FoldMarker, gutter, t.body(ctx, view))
}

func (MarkupTemplate) body(ctx RenderContext, view CellView) []bodyLine {
	c := view.Cell()
	if view.EditState() == Editing {
		return sourceLines(c, ctx.MaxLines, roleMarkup)
	}
	if strings.TrimSpace(c.Source()) == "" {
		return []bodyLine{{text: "(empty markdown cell)", role: roleMuted}}
	}

	lines := make([]bodyLine, 0, c.LineCount())
	for i := 0; i < c.LineCount(); i++ {
		l := c.Line(i)
		if h, ok := stripHeading(l); ok {
			lines = append(lines, bodyLine{text: h, role: roleHeading})
			continue
		}
		lines = append(lines, bodyLine{text: l, role: roleMarkup})
	}
	return capLines(lines, ctx.MaxLines)
}

func stripHeading(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, "#")
	n := len(line) - len(trimmed)
	if n == 0 || n > 6 {
		return line, false
	}
	if trimmed != "" && trimmed[0] != ' ' && trimmed[0] != '\t' {
		return line, false
	}
	return strings.TrimSpace(trimmed), true
}

func sourceLines(c *notebook.Cell, maxLines int, role lineRole) []bodyLine {
	lines := make([]bodyLine, 0, c.LineCount())
	for i := 0; i < c.LineCount(); i++ {
		lines = append(lines, bodyLine{text: c.Line(i), role: role})
	}
	return capLines(lines, maxLines)
}

func capLines(lines []bodyLine, maxLines int) []bodyLine {
	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}
	keep := max(maxLines-1, 0)
	more := len(lines) - keep
	out := append(lines[:keep:keep], bodyLine{
		text: fmt.Sprintf("… %d more line(s)", more),
		role: roleMuted,
	})
	return out
}

func renderLines(ctx RenderContext, gutterStyle lipgloss.Style, gutter string, body []bodyLine) RenderedCell {
	st := ctx.Style
	bar := st.Bar
	switch {
	case ctx.Focused && ctx.ListFocused:
		bar = st.BarFocused
	case ctx.Selected:
		bar = st.BarSelected
	}

	contentWidth := max(ctx.Width-GutterWidth-2, 0)
	out := make([]string, 0, len(body))
	for i, l := range body {
		var sb strings.Builder
		if i == 0 && gutter != "" {
			sb.WriteString(gutterStyle.Render(textwidth.Fit(gutter, GutterWidth-1)))
			sb.WriteString(st.Gutter.Render(" "))
		} else {
			sb.WriteString(st.Gutter.Render(strings.Repeat(" ", GutterWidth)))
		}
		sb.WriteString(bar.Render("│"))
		sb.WriteString(" ")

		text := textwidth.Fit(textwidth.ExpandTabs(l.text, ctx.TabWidth), contentWidth)
		sb.WriteString(roleStyle(st, l.role).Render(text))
		out = append(out, sb.String())
	}
	return RenderedCell{Lines: out}
}

func roleStyle(st Style, role lineRole) lipgloss.Style {
	switch role {
	case roleMarkup:
		return st.Markup
	case roleHeading:
		return st.Heading
	case roleMuted:
		return st.Muted
	case roleOutput:
		return st.Output
	case roleOutputError:
		return st.OutputError
	default:
		return st.Code
	}
}
