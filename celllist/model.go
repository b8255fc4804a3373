package celllist

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iw2rmb/cellbook/cellrange"
	"github.com/iw2rmb/cellbook/folding"
	"github.com/iw2rmb/cellbook/notebook"
)

// Model is a Bubble Tea component rendering a notebook as a virtualized,
// foldable list of cells.
//
// Focus and selections are kept in notebook (model) indexes. Hidden cells are
// never focused; focusing one expands the regions hiding it.
type Model struct {
	cfg      Config
	nb       *notebook.Notebook
	fold     *folding.Model
	ownsFold bool
	log      *zap.Logger

	views       []CellView
	byHandle    map[uuid.UUID]CellView
	lastVersion uint64

	focused     bool
	focus       int
	focusHandle uuid.UUID
	anchor      int
	selections  []cellrange.Range

	width     int
	height    int
	scrollTop int

	heights map[heightKey]int
	events  *emitters
}

// New creates a cell list for cfg.Notebook. A nil notebook is treated as
// empty.
func New(cfg Config) Model {
	if cfg.Notebook == nil {
		cfg.Notebook = notebook.New("")
	}
	if cfg.Templates == nil {
		cfg.Templates = DefaultTemplates()
	}
	if cfg.TabWidth <= 0 {
		cfg.TabWidth = 4
	}
	if len(cfg.KeyMap.Up.Keys()) == 0 {
		cfg.KeyMap = DefaultKeyMap()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := Model{
		cfg:      cfg,
		nb:       cfg.Notebook,
		fold:     cfg.Folding,
		log:      log.Named("celllist"),
		byHandle: make(map[uuid.UUID]CellView),
		focused:  true,
		focus:    -1,
		heights:  make(map[heightKey]int),
		events:   &emitters{},
	}
	if m.fold == nil {
		m.fold = folding.New(m.nb, log)
		m.ownsFold = true
	}

	m.rebuildViews()
	m.lastVersion = m.nb.Version()
	if len(m.views) > 0 {
		m.setFocusQuiet(0)
	}
	if cfg.ViewState != nil {
		m.restore(*cfg.ViewState)
	}
	return m
}

// Close releases the folding model when the list created it and drops every
// event listener.
func (m Model) Close() {
	if m.ownsFold {
		m.fold.Close()
	}
	m.events.focus.Dispose()
	m.events.selection.Dispose()
	m.events.scroll.Dispose()
	m.events.mouseUp.Dispose()
}

func (m Model) Notebook() *notebook.Notebook { return m.nb }

func (m Model) Folding() *folding.Model { return m.fold }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) SetSize(width, height int) Model {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width != m.width {
		clear(m.heights)
	}
	m.width = width
	m.height = height
	m.clampScroll(m.layout())
	if m.focus >= 0 {
		m.revealModel(m.focus)
	}
	return m
}

func (m Model) Size() (width, height int) { return m.width, m.height }

func (m Model) Focus() Model {
	m.focused = true
	return m
}

func (m Model) Blur() Model {
	m.focused = false
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	m.sync(true)
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.KeyMsg:
		return m.updateKey(msg)
	default:
		return m, nil
	}
}

// Views returns the cell views in notebook order, hidden ones included.
func (m Model) Views() []CellView {
	m.sync(false)
	return append([]CellView(nil), m.views...)
}

// VisibleCells returns the cell views not hidden by folding, in order.
func (m Model) VisibleCells() []CellView {
	m.sync(false)
	return cellrange.Visible(m.views, m.fold.HiddenRanges())
}

// ViewIndex maps a notebook index to its position among visible cells.
func (m Model) ViewIndex(model int) (int, bool) {
	if model >= m.nb.Len() {
		return 0, false
	}
	return cellrange.ModelToView(m.fold.HiddenRanges(), model)
}

// ModelIndex maps a position among visible cells to its notebook index.
func (m Model) ModelIndex(view int) int {
	return cellrange.ViewToModel(m.fold.HiddenRanges(), view)
}

// sync rebuilds views when the notebook changed behind the list's back.
// Events fire only when fire is set, so read-only accessors stay silent.
func (m *Model) sync(fire bool) {
	if m.nb.Version() == m.lastVersion && len(m.views) == m.nb.Len() {
		return
	}
	prevLen := len(m.views)
	m.lastVersion = m.nb.Version()
	m.rebuildViews()
	clear(m.heights)

	if len(m.views) == 0 {
		m.focus, m.anchor = -1, -1
		m.focusHandle = uuid.Nil
		m.selections = nil
		return
	}

	next := m.focus
	if i, ok := m.nb.IndexOf(m.focusHandle); ok {
		next = i
	}
	next = min(max(next, 0), len(m.views)-1)
	next = m.nearestVisible(next)
	if len(m.views) == prevLen && next == m.focus && m.views[next].Handle() == m.focusHandle {
		return
	}
	if fire {
		m.setFocus(next, false)
		return
	}
	m.setFocusQuiet(next)
}

func (m *Model) rebuildViews() {
	cells := m.nb.Cells()
	views := make([]CellView, 0, len(cells))
	live := make(map[uuid.UUID]CellView, len(cells))
	for _, c := range cells {
		v, ok := m.byHandle[c.Handle()]
		if !ok {
			v = newCellView(c)
		}
		live[c.Handle()] = v
		views = append(views, v)
	}
	m.views = views
	m.byHandle = live
}
