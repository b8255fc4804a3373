package notebook

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

var ErrUnsupportedFormat = errors.New("notebook: unsupported nbformat")

// multiline is an nbformat string that may be stored as a list of lines.
type multiline string

func (m *multiline) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*m = multiline(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("multiline string: %w", err)
	}
	*m = multiline(strings.Join(parts, ""))
	return nil
}

// MarshalJSON writes the list form Jupyter uses, keeping line endings.
func (m multiline) MarshalJSON() ([]byte, error) {
	s := string(m)
	parts := []string{}
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			parts = append(parts, s)
			break
		}
		parts = append(parts, s[:i+1])
		s = s[i+1:]
	}
	return json.Marshal(parts)
}

type ipynbFile struct {
	Cells         []ipynbCell     `json:"cells"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	NBFormat      int             `json:"nbformat"`
	NBFormatMinor int             `json:"nbformat_minor"`
}

type ipynbCell struct {
	ID             string            `json:"id,omitempty"`
	CellType       string            `json:"cell_type"`
	Metadata       json.RawMessage   `json:"metadata"`
	Source         multiline         `json:"source"`
	ExecutionCount *int              `json:"execution_count,omitempty"`
	Outputs        []json.RawMessage `json:"outputs,omitempty"`
}

type ipynbOutput struct {
	OutputType string                     `json:"output_type"`
	Name       string                     `json:"name"`
	Text       multiline                  `json:"text"`
	Data       map[string]json.RawMessage `json:"data"`
	EName      string                     `json:"ename"`
	EValue     string                     `json:"evalue"`
	Traceback  []string                   `json:"traceback"`
}

type ipynbMetadata struct {
	LanguageInfo struct {
		Name string `json:"name"`
	} `json:"language_info"`
	KernelSpec struct {
		Language string `json:"language"`
	} `json:"kernelspec"`
}

// Decode reads an nbformat 4 notebook.
func Decode(r io.Reader) (*Notebook, error) {
	var f ipynbFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode notebook: %w", err)
	}
	if f.NBFormat != 4 {
		return nil, fmt.Errorf("nbformat %d: %w", f.NBFormat, ErrUnsupportedFormat)
	}

	nb := New(notebookLanguage(f.Metadata))
	nb.metadata = f.Metadata
	for i, raw := range f.Cells {
		c, err := decodeCell(raw, nb.Language)
		if err != nil {
			return nil, fmt.Errorf("decode cell %d: %w", i, err)
		}
		nb.adopt(c)
	}
	return nb, nil
}

func notebookLanguage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var md ipynbMetadata
	if err := json.Unmarshal(raw, &md); err != nil {
		return ""
	}
	if md.LanguageInfo.Name != "" {
		return md.LanguageInfo.Name
	}
	return md.KernelSpec.Language
}

func decodeCell(raw ipynbCell, language string) (*Cell, error) {
	data := CellData{
		Source:         string(raw.Source),
		ExecutionCount: raw.ExecutionCount,
		ID:             raw.ID,
	}
	switch raw.CellType {
	case "code":
		data.Kind = KindCode
		data.Language = language
	case "markdown":
		data.Kind = KindMarkup
		data.Language = "markdown"
	case "raw":
		data.Kind = KindMarkup
		data.Language = "raw"
	default:
		return nil, fmt.Errorf("cell type %q: %w", raw.CellType, ErrUnsupportedFormat)
	}

	for j, o := range raw.Outputs {
		out, err := decodeOutput(o)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", j, err)
		}
		data.Outputs = append(data.Outputs, out)
	}

	c := NewCell(data)
	c.metadata = raw.Metadata
	return c, nil
}

func decodeOutput(raw json.RawMessage) (Output, error) {
	var o ipynbOutput
	if err := json.Unmarshal(raw, &o); err != nil {
		return Output{}, err
	}
	out := Output{raw: append([]byte(nil), raw...)}
	switch o.OutputType {
	case "stream":
		out.Kind = OutputStream
		out.MIME = "stream/" + o.Name
		out.Text = string(o.Text)
	case "execute_result", "display_data":
		out.Kind = OutputDisplayData
		if o.OutputType == "execute_result" {
			out.Kind = OutputExecuteResult
		}
		out.MIME, out.Text = bestText(o.Data)
	case "error":
		out.Kind = OutputError
		out.MIME = "application/vnd.code.notebook.error"
		out.Text = o.EName + ": " + o.EValue
	default:
		return Output{}, fmt.Errorf("output type %q: %w", o.OutputType, ErrUnsupportedFormat)
	}
	out.decoded = out.key()
	return out, nil
}

var textMIMEs = []string{"text/plain", "text/markdown", "application/json", "text/html"}

func bestText(data map[string]json.RawMessage) (string, string) {
	for _, mime := range textMIMEs {
		raw, ok := data[mime]
		if !ok {
			continue
		}
		var v multiline
		if err := json.Unmarshal(raw, &v); err != nil {
			// application/json bundles carry objects, not strings.
			return mime, string(raw)
		}
		return mime, string(v)
	}
	mimes := make([]string, 0, len(data))
	for mime := range data {
		mimes = append(mimes, mime)
	}
	if len(mimes) == 0 {
		return "", ""
	}
	slices.Sort(mimes)
	return mimes[0], "<" + mimes[0] + ">"
}

// Encode writes nb as an nbformat 4 notebook.
func Encode(w io.Writer, nb *Notebook) error {
	f := ipynbFile{
		Cells:         make([]ipynbCell, 0, len(nb.cells)),
		Metadata:      nb.metadata,
		NBFormat:      4,
		NBFormatMinor: 5,
	}
	if len(f.Metadata) == 0 {
		md := map[string]any{}
		if nb.Language != "" {
			md["language_info"] = map[string]string{"name": nb.Language}
		}
		raw, err := json.Marshal(md)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		f.Metadata = raw
	}

	for i, c := range nb.cells {
		cell, err := encodeCell(c)
		if err != nil {
			return fmt.Errorf("encode cell %d: %w", i, err)
		}
		f.Cells = append(f.Cells, cell)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}
	return nil
}

func encodeCell(c *Cell) (ipynbCell, error) {
	out := ipynbCell{
		ID:       c.ID,
		Metadata: c.metadata,
		Source:   multiline(c.Source()),
	}
	if len(out.Metadata) == 0 {
		out.Metadata = json.RawMessage("{}")
	}
	switch {
	case c.kind == KindCode:
		out.CellType = "code"
		out.ExecutionCount = c.ExecutionCount
		out.Outputs = make([]json.RawMessage, 0, len(c.Outputs))
		for _, o := range c.Outputs {
			raw, err := encodeOutput(o, c.ExecutionCount)
			if err != nil {
				return ipynbCell{}, err
			}
			out.Outputs = append(out.Outputs, raw)
		}
	case c.Language == "raw":
		out.CellType = "raw"
	default:
		out.CellType = "markdown"
	}
	return out, nil
}

func encodeOutput(o Output, executionCount *int) (json.RawMessage, error) {
	if raw, ok := o.rawJSON(); ok {
		return raw, nil
	}
	var v any
	switch o.Kind {
	case OutputStream:
		name := strings.TrimPrefix(o.MIME, "stream/")
		if name == "" || name == o.MIME {
			name = "stdout"
		}
		v = map[string]any{"output_type": "stream", "name": name, "text": multiline(o.Text)}
	case OutputError:
		ename, evalue, _ := strings.Cut(o.Text, ": ")
		v = map[string]any{"output_type": "error", "ename": ename, "evalue": evalue, "traceback": []string{}}
	default:
		mime := o.MIME
		if mime == "" {
			mime = "text/plain"
		}
		m := map[string]any{
			"output_type": "display_data",
			"data":        map[string]multiline{mime: multiline(o.Text)},
			"metadata":    map[string]any{},
		}
		if o.Kind == OutputExecuteResult {
			m["output_type"] = "execute_result"
			m["execution_count"] = executionCount
		}
		v = m
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	return raw, nil
}

// Load reads a notebook file.
func Load(path string) (*Notebook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nb, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nb, nil
}

// Save writes nb to path, replacing the file atomically.
func Save(path string, nb *Notebook) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".cellbook-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = Encode(tmp, nb); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
