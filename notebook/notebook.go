package notebook

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/iw2rmb/cellbook/cellrange"
	"github.com/iw2rmb/cellbook/event"
)

var (
	ErrIndexOutOfRange = errors.New("notebook: index out of range")
	ErrNilCell         = errors.New("notebook: nil cell")
)

// Splice describes one structural edit: DeleteCount cells removed at Start,
// then Inserted placed at Start.
type Splice struct {
	Start       int
	DeleteCount int
	Inserted    []*Cell
}

// CellsChange is fired after cells are inserted, deleted or moved.
// Splices apply in order.
type CellsChange struct {
	Splices       []Splice
	VersionBefore uint64
	VersionAfter  uint64
}

// ContentChange is fired after a cell's source changes.
type ContentChange struct {
	Index   int
	Handle  uuid.UUID
	Version uint64
}

// Notebook is an ordered list of cells.
type Notebook struct {
	cells   []*Cell
	version uint64

	// Language is the default language for code cells.
	Language string

	metadata []byte

	cellsChanged   event.Emitter[CellsChange]
	contentChanged event.Emitter[ContentChange]
}

// New creates a notebook holding cells.
func New(language string, cells ...*Cell) *Notebook {
	nb := &Notebook{Language: language}
	for _, c := range cells {
		if c != nil {
			nb.adopt(c)
		}
	}
	return nb
}

func (nb *Notebook) adopt(c *Cell) {
	c.owner = nb
	nb.cells = append(nb.cells, c)
}

func (nb *Notebook) Version() uint64 { return nb.version }

func (nb *Notebook) Len() int { return len(nb.cells) }

// Cell returns the cell at i, or nil when out of range.
func (nb *Notebook) Cell(i int) *Cell {
	if i < 0 || i >= len(nb.cells) {
		return nil
	}
	return nb.cells[i]
}

// Cells returns a copy of the cell list.
func (nb *Notebook) Cells() []*Cell { return slices.Clone(nb.cells) }

// IndexOf returns the current index of the cell with handle h.
func (nb *Notebook) IndexOf(h uuid.UUID) (int, bool) {
	for i, c := range nb.cells {
		if c.handle == h {
			return i, true
		}
	}
	return -1, false
}

// OnDidChangeCells registers fn for structural changes.
func (nb *Notebook) OnDidChangeCells(fn func(CellsChange)) event.Disposable {
	return nb.cellsChanged.On(fn)
}

// OnDidChangeContent registers fn for cell source changes.
func (nb *Notebook) OnDidChangeContent(fn func(ContentChange)) event.Disposable {
	return nb.contentChanged.On(fn)
}

// Insert places cells before index at. at == Len() appends.
func (nb *Notebook) Insert(at int, cells ...*Cell) error {
	if at < 0 || at > len(nb.cells) {
		return fmt.Errorf("insert at %d of %d: %w", at, len(nb.cells), ErrIndexOutOfRange)
	}
	if slices.Contains(cells, nil) {
		return fmt.Errorf("insert at %d: %w", at, ErrNilCell)
	}
	if len(cells) == 0 {
		return nil
	}
	before := nb.version
	for _, c := range cells {
		c.owner = nb
	}
	nb.cells = slices.Insert(nb.cells, at, cells...)
	nb.version++
	nb.cellsChanged.Fire(CellsChange{
		Splices:       []Splice{{Start: at, Inserted: slices.Clone(cells)}},
		VersionBefore: before,
		VersionAfter:  nb.version,
	})
	return nil
}

// Append adds cells at the end.
func (nb *Notebook) Append(cells ...*Cell) error {
	return nb.Insert(len(nb.cells), cells...)
}

// Delete removes the cells in r.
func (nb *Notebook) Delete(r cellrange.Range) error {
	if err := nb.checkRange(r); err != nil {
		return fmt.Errorf("delete %s: %w", r, err)
	}
	before := nb.version
	for _, c := range nb.cells[r.Start : r.End+1] {
		if c.owner == nb {
			c.owner = nil
		}
	}
	nb.cells = slices.Delete(nb.cells, r.Start, r.End+1)
	nb.version++
	nb.cellsChanged.Fire(CellsChange{
		Splices:       []Splice{{Start: r.Start, DeleteCount: r.Len()}},
		VersionBefore: before,
		VersionAfter:  nb.version,
	})
	return nil
}

// Move relocates the cells in r so the first of them ends up at index to.
// to is interpreted after the cells are removed.
func (nb *Notebook) Move(r cellrange.Range, to int) error {
	if err := nb.checkRange(r); err != nil {
		return fmt.Errorf("move %s: %w", r, err)
	}
	remaining := len(nb.cells) - r.Len()
	if to < 0 || to > remaining {
		return fmt.Errorf("move %s to %d of %d: %w", r, to, remaining, ErrIndexOutOfRange)
	}
	if to == r.Start {
		return nil
	}

	moved := slices.Clone(nb.cells[r.Start : r.End+1])
	before := nb.version
	nb.cells = slices.Delete(nb.cells, r.Start, r.End+1)
	nb.cells = slices.Insert(nb.cells, to, moved...)
	nb.version++
	nb.cellsChanged.Fire(CellsChange{
		Splices: []Splice{
			{Start: r.Start, DeleteCount: r.Len()},
			{Start: to, Inserted: moved},
		},
		VersionBefore: before,
		VersionAfter:  nb.version,
	})
	return nil
}

// SetSource replaces the source of cell i.
func (nb *Notebook) SetSource(i int, text string) error {
	c := nb.Cell(i)
	if c == nil {
		return fmt.Errorf("set source of cell %d: %w", i, ErrIndexOutOfRange)
	}
	if text == c.Source() {
		return nil
	}
	c.lines = splitLines(text)
	c.version++
	nb.contentDidChange(i, c)
	return nil
}

// SetOutputs replaces the outputs of code cell i.
func (nb *Notebook) SetOutputs(i int, outputs []Output, executionCount *int) error {
	c := nb.Cell(i)
	if c == nil {
		return fmt.Errorf("set outputs of cell %d: %w", i, ErrIndexOutOfRange)
	}
	c.Outputs = slices.Clone(outputs)
	c.ExecutionCount = executionCount
	c.version++
	nb.contentDidChange(i, c)
	return nil
}

func (nb *Notebook) contentDidChange(i int, c *Cell) {
	nb.version++
	nb.contentChanged.Fire(ContentChange{Index: i, Handle: c.handle, Version: c.version})
}

func (nb *Notebook) checkRange(r cellrange.Range) error {
	if r.Start < 0 || r.End < r.Start || r.End >= len(nb.cells) {
		return ErrIndexOutOfRange
	}
	return nil
}
