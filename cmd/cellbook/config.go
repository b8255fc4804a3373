package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/iw2rmb/cellbook/celllist"
	"github.com/iw2rmb/cellbook/viewstate"
)

type fileConfig struct {
	View  viewConfig  `toml:"view"`
	Style styleConfig `toml:"style"`
}

type viewConfig struct {
	ShowOutputs  bool `toml:"show_outputs"`
	MaxCellLines int  `toml:"max_cell_lines"`
	TabWidth     int  `toml:"tab_width"`
}

type styleConfig struct {
	Accent string `toml:"accent"`
	Muted  string `toml:"muted"`
}

func defaultFileConfig() fileConfig {
	return fileConfig{View: viewConfig{ShowOutputs: true}}
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cellbook", "config.toml")
}

// loadConfig reads path over the defaults. An empty path falls back to the
// user config dir, where a missing file is not an error.
func loadConfig(path string) (fileConfig, error) {
	cfg := defaultFileConfig()
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if !explicit {
				return defaultFileConfig(), nil
			}
			return fileConfig{}, fmt.Errorf("config file: %w", err)
		}
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fileConfig{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if cfg.View.MaxCellLines < 0 {
		return fileConfig{}, fmt.Errorf("%s: [view].max_cell_lines must not be negative", path)
	}
	return cfg, nil
}

func (c fileConfig) style() celllist.Style {
	st := celllist.DefaultStyle()
	if c.Style.Accent != "" {
		st = st.WithAccent(lipgloss.Color(c.Style.Accent))
	}
	if c.Style.Muted != "" {
		st = st.WithMuted(lipgloss.Color(c.Style.Muted))
	}
	return st
}

func (c fileConfig) listConfig(log *zap.Logger) celllist.Config {
	return celllist.Config{
		Style:        c.style(),
		ShowOutputs:  c.View.ShowOutputs,
		MaxCellLines: c.View.MaxCellLines,
		TabWidth:     c.View.TabWidth,
		Logger:       log,
	}
}

func stateStore(dir string) (viewstate.Store, error) {
	if dir == "" {
		cache, err := os.UserCacheDir()
		if err != nil {
			return viewstate.Store{}, fmt.Errorf("resolve state dir: %w", err)
		}
		dir = filepath.Join(cache, "cellbook", "state")
	}
	return viewstate.Store{Dir: dir}, nil
}

// stateKey identifies a notebook file across runs.
func stateKey(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return log, nil
}
