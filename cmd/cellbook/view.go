package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/iw2rmb/cellbook/celllist"
	"github.com/iw2rmb/cellbook/internal/textwidth"
	"github.com/iw2rmb/cellbook/notebook"
)

func newViewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE",
		Short: "Browse a notebook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(flags, args[0])
		},
	}
}

var errNotTerminal = errors.New("view needs an interactive terminal (use stat for scripts)")

func runView(flags *globalFlags, path string) error {
	if !isTerminal(os.Stdout) {
		return errNotTerminal
	}
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	log, err := newLogger(flags.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	nb, err := notebook.Load(path)
	if err != nil {
		return err
	}
	store, err := stateStore(flags.stateDir)
	if err != nil {
		return err
	}

	key := stateKey(path)
	lc := cfg.listConfig(log)
	lc.Notebook = nb
	if s, ok, err := store.Load(key); err != nil {
		log.Warn("ignoring saved view state", zap.String("file", key), zap.Error(err))
	} else if ok {
		lc.ViewState = &s
	}

	a := newApp(path, lc)
	defer a.list.Close()

	final, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	if fa, ok := final.(app); ok {
		if err := store.Save(key, fa.list.SaveViewState()); err != nil {
			return fmt.Errorf("save view state: %w", err)
		}
		log.Debug("saved view state", zap.String("file", key))
	}
	return nil
}

// app hosts the cell list with a one-line status bar.
type app struct {
	list   celllist.Model
	name   string
	status lipgloss.Style
	width  int
}

func newApp(path string, cfg celllist.Config) app {
	return app{
		list:   celllist.New(cfg),
		name:   filepath.Base(path),
		status: cfg.Style.Muted,
	}
}

func (a app) Init() tea.Cmd { return nil }

func (a app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.list = a.list.SetSize(msg.Width, max(msg.Height-1, 0))
		return a, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if v := a.list.FocusedCell(); v == nil || v.FocusMode() != celllist.FocusEditor {
				return a, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a app) View() string {
	return a.list.View() + "\n" + a.status.Render(textwidth.Fit(a.statusLine(), a.width))
}

func (a app) statusLine() string {
	nb := a.list.Notebook()
	line := fmt.Sprintf(" %s  cell %d/%d", a.name, a.list.FocusedIndex()+1, nb.Len())
	if sel := a.list.Selections(); len(sel) > 1 || (len(sel) == 1 && sel[0].Len() > 1) {
		line += fmt.Sprintf("  selected %s", sel)
	}
	if hidden := a.list.Folding().HiddenRanges(); len(hidden) > 0 {
		line += fmt.Sprintf("  folded %d", len(hidden))
	}
	return line
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
