// Package viewstate persists per-notebook view state: folded ranges, focus,
// selections, scroll position and collapsed outputs.
package viewstate

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/iw2rmb/cellbook/cellrange"
)

// CurrentVersion is the encoding version written by Marshal.
const CurrentVersion = 1

var ErrUnsupportedVersion = errors.New("viewstate: unsupported version")

// State is a restorable snapshot of a cell list's presentation.
//
// Indexes refer to notebook (model) positions.
type State struct {
	Hidden     []cellrange.Range
	Focus      int
	Selections []cellrange.Range
	ScrollTop  int
	// CollapsedOutputs holds keys of code cells whose outputs are folded.
	// A key is the cell's nbformat id, or "#<index>" when it has none.
	CollapsedOutputs []string
}

type wireRange struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

type wireState struct {
	Version          int         `msgpack:"v"`
	Hidden           []wireRange `msgpack:"hidden"`
	Focus            uint32      `msgpack:"focus"`
	Selections       []wireRange `msgpack:"sel"`
	ScrollTop        uint32      `msgpack:"scroll"`
	CollapsedOutputs []string    `msgpack:"outputs,omitempty"`
}

// Marshal encodes s. Negative or oversized indexes are rejected.
func Marshal(s State) ([]byte, error) {
	w := wireState{Version: CurrentVersion, CollapsedOutputs: s.CollapsedOutputs}
	var err error
	if w.Hidden, err = toWire(s.Hidden); err != nil {
		return nil, fmt.Errorf("hidden ranges: %w", err)
	}
	if w.Selections, err = toWire(s.Selections); err != nil {
		return nil, fmt.Errorf("selections: %w", err)
	}
	if w.Focus, err = safecast.Conv[uint32](s.Focus); err != nil {
		return nil, fmt.Errorf("focus: %w", err)
	}
	if w.ScrollTop, err = safecast.Conv[uint32](s.ScrollTop); err != nil {
		return nil, fmt.Errorf("scroll top: %w", err)
	}
	return msgpack.Marshal(&w)
}

// Unmarshal decodes data written by Marshal.
func Unmarshal(data []byte) (State, error) {
	var w wireState
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return State{}, fmt.Errorf("decode view state: %w", err)
	}
	if w.Version != CurrentVersion {
		return State{}, fmt.Errorf("version %d: %w", w.Version, ErrUnsupportedVersion)
	}

	s := State{CollapsedOutputs: w.CollapsedOutputs}
	var err error
	if s.Hidden, err = fromWire(w.Hidden); err != nil {
		return State{}, fmt.Errorf("hidden ranges: %w", err)
	}
	if s.Selections, err = fromWire(w.Selections); err != nil {
		return State{}, fmt.Errorf("selections: %w", err)
	}
	if s.Focus, err = safecast.Conv[int](w.Focus); err != nil {
		return State{}, fmt.Errorf("focus: %w", err)
	}
	if s.ScrollTop, err = safecast.Conv[int](w.ScrollTop); err != nil {
		return State{}, fmt.Errorf("scroll top: %w", err)
	}
	return s, nil
}

func toWire(ranges []cellrange.Range) ([]wireRange, error) {
	out := make([]wireRange, 0, len(ranges))
	for _, r := range ranges {
		start, err := safecast.Conv[uint32](r.Start)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r, err)
		}
		end, err := safecast.Conv[uint32](r.End)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", r, err)
		}
		out = append(out, wireRange{Start: start, End: end})
	}
	return out, nil
}

func fromWire(ranges []wireRange) ([]cellrange.Range, error) {
	out := make([]cellrange.Range, 0, len(ranges))
	for _, r := range ranges {
		start, err := safecast.Conv[int](r.Start)
		if err != nil {
			return nil, err
		}
		end, err := safecast.Conv[int](r.End)
		if err != nil {
			return nil, err
		}
		out = append(out, cellrange.Range{Start: start, End: end})
	}
	return out, nil
}

// Store keeps encoded states as files under Dir.
type Store struct {
	Dir string
}

func (st Store) pathFor(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(st.Dir, hex.EncodeToString(sum[:16])+".state")
}

// Save writes s for key, replacing any previous state atomically.
func (st Store) Save(key string, s State) (err error) {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	p := st.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Load reads the state saved for key. ok is false when nothing was saved.
func (st Store) Load(key string) (s State, ok bool, err error) {
	data, err := os.ReadFile(st.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{}, false, nil
		}
		return State{}, false, err
	}
	s, err = Unmarshal(data)
	if err != nil {
		return State{}, false, err
	}
	return s, true, nil
}
