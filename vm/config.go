package vm

import (
	"fmt"
	"io"
)

// EOFMode selects what ',' does once the input is exhausted.
type EOFMode uint8

const (
	// EOFUnchanged leaves the current cell as it is.
	EOFUnchanged EOFMode = iota

	// EOFFill stores Config.EOFValue in the current cell.
	EOFFill
)

// String returns a human-readable name for the mode.
func (m EOFMode) String() string {
	switch m {
	case EOFUnchanged:
		return "unchanged"
	case EOFFill:
		return "fill"
	default:
		return fmt.Sprintf("EOFMode(%d)", m)
	}
}

// Default configuration values.
const (
	DefaultCellSize   = 8
	DefaultTotalCells = 30000
)

// Config controls a run.
type Config struct {
	// CellSize is the width of each cell in bits. Arithmetic wraps modulo
	// 2^CellSize. 0 means cells are unbounded.
	CellSize int

	// EOF and EOFValue select the end-of-input behaviour of ','.
	EOF      EOFMode
	EOFValue int64

	// TotalCells is the size of a fixed tape. 0 selects a dynamic tape.
	TotalCells int

	// Wraparound makes the pointer wrap around a fixed tape instead of
	// failing. On a dynamic tape it allows negative indices.
	Wraparound bool

	// Input supplies bytes for ','. nil behaves like an empty input.
	Input io.Reader

	// Output receives bytes from '.'. nil discards them.
	Output io.Writer

	// Interactive forces (true) or suppresses (false) a flush after every
	// output byte. nil flushes only when Output is a terminal.
	Interactive *bool

	// Trace logs every dispatched instruction at debug level.
	Trace bool
}

// DefaultConfig returns the standard configuration: 8-bit cells, 30000
// wrapping cells, and no change on end of input.
func DefaultConfig() Config {
	return Config{
		CellSize:   DefaultCellSize,
		TotalCells: DefaultTotalCells,
		Wraparound: true,
	}
}

// Validate checks the numeric settings.
func (c *Config) Validate() error {
	if c.CellSize < 0 {
		return fmt.Errorf("vm: cell size must not be negative, got %d", c.CellSize)
	}
	if c.TotalCells < 0 {
		return fmt.Errorf("vm: total cells must not be negative, got %d", c.TotalCells)
	}
	if c.EOF > EOFFill {
		return fmt.Errorf("vm: unknown EOF mode %v", c.EOF)
	}
	return nil
}
