package celllist

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iw2rmb/cellbook/cellrange"
)

// heightKey covers every input a template may measure by, apart from the
// list width and config, which reset the cache when they change.
type heightKey struct {
	handle  uuid.UUID
	version uint64
	state   uint16
}

// listLayout places visible cells on list lines.
type listLayout struct {
	// visible holds notebook indexes in display order.
	visible []int
	tops    []int
	heights []int
	total   int
}

func (l listLayout) indexAt(line int) (int, bool) {
	k := sort.Search(len(l.visible), func(k int) bool { return l.tops[k]+l.heights[k] > line })
	if k >= len(l.visible) || line < 0 {
		return -1, false
	}
	return k, true
}

func (m *Model) layout() listLayout {
	all := make([]int, len(m.views))
	for i := range all {
		all[i] = i
	}
	visible := cellrange.Visible(all, m.fold.HiddenRanges())

	l := listLayout{
		visible: visible,
		tops:    make([]int, len(visible)),
		heights: make([]int, len(visible)),
	}
	for _, v := range m.views {
		v.setLayout(CellLayout{Top: -1})
	}
	for k, i := range visible {
		h := m.cellHeight(i)
		l.tops[k] = l.total
		l.heights[k] = h
		m.views[i].setLayout(CellLayout{Top: l.total, Height: h})
		l.total += h
	}
	return l
}

func (m *Model) cellHeight(i int) int {
	v := m.views[i]
	ctx := m.renderContext(i)
	key := heightKey{handle: v.Handle(), version: v.Cell().Version(), state: stateBits(v, ctx)}
	if h, ok := m.heights[key]; ok {
		return h
	}
	h := max(measure(m.template(v), ctx, v), 1)
	m.heights[key] = h
	return h
}

const (
	bitOutputsCollapsed uint16 = 1 << (4 + iota)
	bitListFocused
	bitFocused
	bitSelected
	bitFoldable
	bitCollapsed
)

func stateBits(v CellView, ctx RenderContext) uint16 {
	bits := uint16(v.EditState()) & 0xf
	if cv, ok := v.(*CodeCellView); ok && cv.OutputsCollapsed() {
		bits |= bitOutputsCollapsed
	}
	for _, f := range []struct {
		on  bool
		bit uint16
	}{
		{ctx.ListFocused, bitListFocused},
		{ctx.Focused, bitFocused},
		{ctx.Selected, bitSelected},
		{ctx.Foldable, bitFoldable},
		{ctx.Collapsed, bitCollapsed},
	} {
		if f.on {
			bits |= f.bit
		}
	}
	return bits
}

func (m *Model) template(v CellView) Template {
	if t, ok := m.cfg.Templates[v.Kind()]; ok && t != nil {
		return t
	}
	return DefaultTemplates()[v.Kind()]
}

func (m *Model) renderContext(i int) RenderContext {
	_, foldable := m.fold.RegionAt(i)
	return RenderContext{
		Index:       i,
		Width:       m.width,
		Style:       m.cfg.Style,
		ListFocused: m.focused,
		Focused:     i == m.focus,
		Selected:    cellrange.Contains(m.selections, i),
		Foldable:    foldable,
		Collapsed:   m.fold.IsCollapsed(i),
		ShowOutputs: m.cfg.ShowOutputs,
		MaxLines:    m.cfg.MaxCellLines,
		TabWidth:    m.cfg.TabWidth,
	}
}

// View renders the cells intersecting the viewport. Cells above and below it
// are measured but not rendered.
func (m Model) View() string {
	m.sync(false)
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	l := m.layout()
	m.clampScroll(l)
	bottom := m.scrollTop + m.height

	lines := make([]string, 0, m.height)
	first, ok := l.indexAt(m.scrollTop)
	rendered := 0
	for k := first; ok && k < len(l.visible) && l.tops[k] < bottom; k++ {
		i := l.visible[k]
		v := m.views[i]
		rc := m.template(v).Render(m.renderContext(i), v)
		rendered++
		for j, line := range rc.Lines {
			y := l.tops[k] + j
			if y < m.scrollTop {
				continue
			}
			if y >= bottom {
				break
			}
			lines = append(lines, line)
		}
	}
	for len(lines) < m.height {
		lines = append(lines, "")
	}
	m.log.Debug("rendered viewport",
		zap.Int("scrollTop", m.scrollTop),
		zap.Int("cells", rendered),
		zap.Int("visible", len(l.visible)),
	)
	return strings.Join(lines, "\n")
}

// ScrollTop returns the first list line shown in the viewport.
func (m Model) ScrollTop() int { return m.scrollTop }

// ScrollHeight returns the total height of all visible cells in lines.
func (m Model) ScrollHeight() int {
	m.sync(false)
	return m.layout().total
}

// ScrollTo sets the first list line shown, clamped to the content.
func (m Model) ScrollTo(line int) Model {
	m.sync(true)
	m.scrollTo(line, m.layout())
	return m
}

// RevealCell scrolls as little as possible to show cell i, expanding regions
// that hide it.
func (m Model) RevealCell(i int) Model {
	m.sync(true)
	if i < 0 || i >= len(m.views) {
		return m
	}
	m.fold.Reveal(i)
	m.revealModel(i)
	return m
}

func (m *Model) revealModel(i int) {
	if m.height <= 0 {
		return
	}
	l := m.layout()
	v := m.views[i].Layout()
	if v.Top < 0 {
		return
	}
	top := m.scrollTop
	switch {
	case v.Top < top:
		top = v.Top
	case v.Top+v.Height > top+m.height:
		top = min(v.Top+v.Height-m.height, v.Top)
	}
	m.scrollTo(top, l)
}

func (m *Model) scrollTo(line int, l listLayout) {
	prev := m.scrollTop
	m.scrollTop = line
	m.clampScroll(l)
	if m.scrollTop != prev {
		m.events.scroll.Fire(ScrollEvent{ScrollTop: m.scrollTop, ScrollTotal: l.total})
	}
}

func (m *Model) clampScroll(l listLayout) {
	maxTop := max(l.total-m.height, 0)
	m.scrollTop = min(max(m.scrollTop, 0), maxTop)
}
