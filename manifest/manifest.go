// Package manifest handles mwot.toml project configuration.
//
// Every setting is optional. Unset settings leave the built-in defaults
// alone, and command-line flags override whatever the manifest sets.
package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/chazu/mwot/decompiler"
	"github.com/chazu/mwot/vm"
)

// FileName is the name of the manifest file.
const FileName = "mwot.toml"

// Manifest represents a mwot.toml project configuration.
type Manifest struct {
	VM        VMConfig        `toml:"vm"`
	Decompile DecompileConfig `toml:"decompile"`
	Output    OutputConfig    `toml:"output"`

	// Dir is the directory containing the mwot.toml file (set at load time).
	Dir string `toml:"-"`
}

// VMConfig configures the interpreter.
type VMConfig struct {
	CellSize   *int   `toml:"cellsize,omitempty"`
	EOF        *int64 `toml:"eof,omitempty"` // omitted leaves the cell unchanged
	TotalCells *int   `toml:"totalcells,omitempty"`
	Wraparound *bool  `toml:"wraparound,omitempty"`
}

// DecompileConfig configures the decompilers.
type DecompileConfig struct {
	Decompiler string   `toml:"decompiler,omitempty"`
	Width      *int     `toml:"width,omitempty"`
	Cols       *int     `toml:"cols,omitempty"`
	Vocab      []string `toml:"vocab,omitempty"`
}

// OutputConfig configures compiled and decompiled output files.
type OutputConfig struct {
	Pattern    string `toml:"pattern,omitempty"`
	Shebang    bool   `toml:"shebang,omitempty"`
	Executable bool   `toml:"executable,omitempty"`
}

// Load parses a mwot.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return &m, nil
}

// FindAndLoad walks up from startDir to find a mwot.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// Write stores m as mwot.toml in dir, replacing any existing file.
func Write(dir string, m *Manifest) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// Default returns a manifest spelling out the built-in defaults. Width is
// left unset since basic and rand wrap at different widths.
func Default() *Manifest {
	cfg := vm.DefaultConfig()
	opts := decompiler.DefaultOptions()
	return &Manifest{
		VM: VMConfig{
			CellSize:   &cfg.CellSize,
			TotalCells: &cfg.TotalCells,
			Wraparound: &cfg.Wraparound,
		},
		Decompile: DecompileConfig{
			Decompiler: string(decompiler.StrategyRand),
			Cols:       &opts.Guide.Cols,
			Vocab:      opts.Basic.Vocab[:],
		},
	}
}

// Validate checks the value ranges of every setting.
func (m *Manifest) Validate() error {
	nonNegative := []struct {
		name string
		v    *int
	}{
		{"vm.cellsize", m.VM.CellSize},
		{"vm.totalcells", m.VM.TotalCells},
		{"decompile.width", m.Decompile.Width},
	}
	for _, f := range nonNegative {
		if f.v != nil && *f.v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", f.name, *f.v)
		}
	}
	if c := m.Decompile.Cols; c != nil && *c <= 0 {
		return fmt.Errorf("decompile.cols must be positive, got %d", *c)
	}
	if m.Decompile.Decompiler != "" {
		if _, err := decompiler.ParseStrategy(m.Decompile.Decompiler); err != nil {
			return fmt.Errorf("decompile.decompiler: %w", err)
		}
	}
	if m.Decompile.Vocab != nil {
		if _, err := m.vocab(); err != nil {
			return fmt.Errorf("decompile.vocab: %w", err)
		}
	}
	return nil
}

func (m *Manifest) vocab() (decompiler.Vocab, error) {
	if len(m.Decompile.Vocab) != 2 {
		return decompiler.Vocab{}, fmt.Errorf("want 2 words, got %d", len(m.Decompile.Vocab))
	}
	return decompiler.ParseVocab(strings.Join(m.Decompile.Vocab, " "))
}

// ApplyVM overrides the fields of cfg that the manifest sets.
func (m *Manifest) ApplyVM(cfg *vm.Config) {
	if v := m.VM.CellSize; v != nil {
		cfg.CellSize = *v
	}
	if v := m.VM.EOF; v != nil {
		cfg.EOF = vm.EOFFill
		cfg.EOFValue = *v
	}
	if v := m.VM.TotalCells; v != nil {
		cfg.TotalCells = *v
	}
	if v := m.VM.Wraparound; v != nil {
		cfg.Wraparound = *v
	}
}

// ApplyDecompile overrides the strategy and options that the manifest
// sets. The manifest must have passed Validate.
func (m *Manifest) ApplyDecompile(strategy *decompiler.Strategy, opts *decompiler.Options) {
	if name := m.Decompile.Decompiler; name != "" {
		if s, err := decompiler.ParseStrategy(name); err == nil {
			*strategy = s
		}
	}
	if v := m.Decompile.Width; v != nil {
		opts.Basic.Width = *v
		opts.Rand.Width = *v
	}
	if v := m.Decompile.Cols; v != nil {
		opts.Guide.Cols = *v
	}
	if m.Decompile.Vocab != nil {
		if vocab, err := m.vocab(); err == nil {
			opts.Basic.Vocab = vocab
			opts.Guide.Vocab = vocab
		}
	}
}
