package notebook

import (
	"strings"

	"github.com/google/uuid"
)

// CellKind tags the concrete variant of a cell.
type CellKind uint8

const (
	KindMarkup CellKind = iota
	KindCode
)

func (k CellKind) String() string {
	switch k {
	case KindMarkup:
		return "markup"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// OutputKind identifies an nbformat output type.
type OutputKind uint8

const (
	OutputStream OutputKind = iota
	OutputExecuteResult
	OutputDisplayData
	OutputError
)

// Output is one rendered result of a code cell.
//
// Text holds the best plain-text representation; MIME names where it came
// from (for example "text/plain" or "stream/stdout"). Outputs read from a
// file are written back verbatim until Kind, MIME or Text change.
type Output struct {
	Kind OutputKind
	MIME string
	Text string

	raw     []byte
	decoded outputKey
}

type outputKey struct {
	kind OutputKind
	mime string
	text string
}

func (o Output) key() outputKey { return outputKey{kind: o.Kind, mime: o.MIME, text: o.Text} }

// rawJSON returns the decoded JSON when o still matches it.
func (o Output) rawJSON() ([]byte, bool) {
	if len(o.raw) == 0 || o.key() != o.decoded {
		return nil, false
	}
	return o.raw, true
}

// CellData describes a cell to create.
type CellData struct {
	Kind           CellKind
	Language       string
	Source         string
	Outputs        []Output
	ExecutionCount *int
	ID             string
}

// Cell is one addressable unit of notebook content.
//
// Handle identifies the cell for its lifetime, independent of its index.
type Cell struct {
	handle uuid.UUID
	kind   CellKind

	Language       string
	Outputs        []Output
	ExecutionCount *int
	// ID is the nbformat cell id, if any.
	ID string

	lines   []string
	version uint64
	owner   *Notebook

	metadata []byte
	heading  headingCache
}

type headingCache struct {
	version uint64
	valid   bool
	level   int
}

// NewCell creates a cell with a fresh handle.
func NewCell(data CellData) *Cell {
	return &Cell{
		handle:         uuid.New(),
		kind:           data.Kind,
		Language:       data.Language,
		Outputs:        append([]Output(nil), data.Outputs...),
		ExecutionCount: data.ExecutionCount,
		ID:             data.ID,
		lines:          splitLines(data.Source),
	}
}

func (c *Cell) Handle() uuid.UUID { return c.handle }

func (c *Cell) Kind() CellKind { return c.kind }

func (c *Cell) Version() uint64 { return c.version }

// Source returns the cell text joined with '\n'.
func (c *Cell) Source() string { return strings.Join(c.lines, "\n") }

// SetSource replaces the cell text. It reports whether the text changed.
// A cell inside a notebook notifies it exactly like Notebook.SetSource.
func (c *Cell) SetSource(text string) bool {
	if text == c.Source() {
		return false
	}
	c.lines = splitLines(text)
	c.version++
	if c.owner != nil {
		if i, ok := c.owner.IndexOf(c.handle); ok {
			c.owner.contentDidChange(i, c)
		}
	}
	return true
}

// LineCount returns the number of source lines (at least 1).
func (c *Cell) LineCount() int { return len(c.lines) }

// Line returns source line i, or "" when out of range.
func (c *Cell) Line(i int) string {
	if i < 0 || i >= len(c.lines) {
		return ""
	}
	return c.lines[i]
}

// OutputText joins the text of all outputs.
func (c *Cell) OutputText() string {
	if len(c.Outputs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(c.Outputs))
	for _, o := range c.Outputs {
		parts = append(parts, strings.TrimRight(o.Text, "\n"))
	}
	return strings.Join(parts, "\n")
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}
