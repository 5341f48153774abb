package vm

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/chazu/mwot/pkg/bytecode"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++" +
	"++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func run(t *testing.T, src string, cfg Config) (*State, string) {
	t.Helper()
	var out bytes.Buffer
	cfg.Output = &out
	st, err := Run(bytecode.Parse(src, false), cfg)
	if err != nil {
		t.Fatalf("Run(%q) failed: %v", src, err)
	}
	return st, out.String()
}

func dynamicConfig() Config {
	cfg := DefaultConfig()
	cfg.TotalCells = 0
	return cfg
}

// ---------------------------------------------------------------------------
// Basic execution
// ---------------------------------------------------------------------------

func TestRunSingleIncrementDynamicTape(t *testing.T) {
	st, out := run(t, "+", dynamicConfig())
	if out != "" {
		t.Errorf("output = %q, want none", out)
	}
	if st.BytesWritten != 0 {
		t.Errorf("BytesWritten = %d, want 0", st.BytesWritten)
	}
	if got := st.Tape.Cell(0).Int64(); got != 1 {
		t.Errorf("cell 0 = %d, want 1", got)
	}
	if !st.Tape.Dynamic() {
		t.Error("tape should be dynamic")
	}
}

func TestRunEmptyProgram(t *testing.T) {
	st, out := run(t, "", DefaultConfig())
	if out != "" || st.BytesWritten != 0 {
		t.Errorf("output = %q (%d bytes), want none", out, st.BytesWritten)
	}
	if !st.Tape.IsZero() || st.Pointer != 0 || st.Steps != 0 {
		t.Errorf("state changed: pointer=%d steps=%d cells=%v", st.Pointer, st.Steps, st.Tape.Indices())
	}
	if st.Tape.Len() != DefaultTotalCells {
		t.Errorf("tape len = %d, want %d", st.Tape.Len(), DefaultTotalCells)
	}
}

func TestRunHelloWorld(t *testing.T) {
	st, out := run(t, helloWorld, DefaultConfig())
	if out != "Hello World!\n" {
		t.Errorf("output = %q, want %q", out, "Hello World!\n")
	}
	if st.BytesWritten != int64(len("Hello World!\n")) {
		t.Errorf("BytesWritten = %d, want %d", st.BytesWritten, len("Hello World!\n"))
	}
}

func TestRunLoopMovesValue(t *testing.T) {
	st, _ := run(t, "++[->+<]", DefaultConfig())
	if st.Tape.Cell(0).Sign() != 0 {
		t.Errorf("cell 0 = %s, want 0", st.Tape.Cell(0))
	}
	if got := st.Tape.Cell(1).Int64(); got != 2 {
		t.Errorf("cell 1 = %d, want 2", got)
	}
	if st.Pointer != 0 {
		t.Errorf("pointer = %d, want 0", st.Pointer)
	}
}

func TestRunSkipsLoopOnZero(t *testing.T) {
	st, out := run(t, "[.+]+", DefaultConfig())
	if out != "" {
		t.Errorf("loop body ran: output %q", out)
	}
	if got := st.Tape.Cell(0).Int64(); got != 1 {
		t.Errorf("cell 0 = %d, want 1", got)
	}
}

// ---------------------------------------------------------------------------
// Cell arithmetic
// ---------------------------------------------------------------------------

func TestCellWidth(t *testing.T) {
	tests := []struct {
		name     string
		cellSize int
		src      string
		want     string
	}{
		{"8-bit underflow", 8, "-", "255"},
		{"8-bit overflow", 8, strings.Repeat("+", 256), "0"},
		{"4-bit overflow", 4, strings.Repeat("+", 17), "1"},
		{"1-bit", 1, "+++", "1"},
		{"unbounded negative", 0, "--", "-2"},
		{"unbounded large", 0, strings.Repeat("+", 300), "300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CellSize = tt.cellSize
			st, _ := run(t, tt.src, cfg)
			if got := st.Tape.Cell(0).String(); got != tt.want {
				t.Errorf("cell 0 = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOutputReducesModulo256(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CellSize = 0
	_, out := run(t, "-.", cfg)
	if out != "\xff" {
		t.Errorf("output of -1 = %q, want \\xff", out)
	}

	_, out = run(t, strings.Repeat("+", 321)+".", cfg)
	if out != "A" {
		t.Errorf("output of 321 = %q, want A", out)
	}
}

// ---------------------------------------------------------------------------
// Pointer movement
// ---------------------------------------------------------------------------

func TestPointerWraparoundFixedTape(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TotalCells = 10
	st, _ := run(t, "<+", cfg)
	if st.Pointer != 9 {
		t.Errorf("pointer = %d, want 9", st.Pointer)
	}
	if got := st.Tape.Cell(9).Int64(); got != 1 {
		t.Errorf("cell 9 = %d, want 1", got)
	}

	st, _ = run(t, strings.Repeat(">", 10)+"+", cfg)
	if st.Pointer != 0 || st.Tape.Cell(0).Int64() != 1 {
		t.Errorf("pointer = %d cell0 = %s, want 0 and 1", st.Pointer, st.Tape.Cell(0))
	}
}

func TestPointerOutOfRange(t *testing.T) {
	tests := []struct {
		name       string
		totalCells int
		src        string
		pointer    int
		pc         int
	}{
		{"left of fixed tape", 10, "<", -1, 0},
		{"right of fixed tape", 2, ">>", 2, 1},
		{"negative on dynamic tape", 0, "+<", -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.TotalCells = tt.totalCells
			cfg.Wraparound = false
			_, err := Run(bytecode.Parse(tt.src, false), cfg)
			if !errors.Is(err, ErrPointerOutOfRange) {
				t.Fatalf("error = %v, want ErrPointerOutOfRange", err)
			}
			var pe *PointerError
			if !errors.As(err, &pe) {
				t.Fatalf("error is %T, want *PointerError", err)
			}
			if pe.Pointer != tt.pointer || pe.PC != tt.pc {
				t.Errorf("PointerError = %+v, want pointer %d pc %d", *pe, tt.pointer, tt.pc)
			}
		})
	}
}

func TestDynamicTapeNegativeIndicesWithWraparound(t *testing.T) {
	st, _ := run(t, "<<+", dynamicConfig())
	if st.Pointer != -2 {
		t.Errorf("pointer = %d, want -2", st.Pointer)
	}
	if got := st.Tape.Cell(-2).Int64(); got != 1 {
		t.Errorf("cell -2 = %d, want 1", got)
	}
	if idx := st.Tape.Indices(); len(idx) != 1 || idx[0] != -2 {
		t.Errorf("Indices() = %v, want [-2]", idx)
	}
}

func TestDynamicTapeGrowsRight(t *testing.T) {
	cfg := dynamicConfig()
	cfg.Wraparound = false
	st, _ := run(t, strings.Repeat(">", 50000)+"+", cfg)
	if got := st.Tape.Cell(50000).Int64(); got != 1 {
		t.Errorf("cell 50000 = %d, want 1", got)
	}
}

func TestFailedRunFlushesOutput(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.Wraparound = false
	cfg.Output = &out
	_, err := Run(bytecode.Parse(strings.Repeat("+", 33)+".<", false), cfg)
	if !errors.Is(err, ErrPointerOutOfRange) {
		t.Fatalf("error = %v, want ErrPointerOutOfRange", err)
	}
	if out.String() != "!" {
		t.Errorf("output = %q, want %q", out.String(), "!")
	}
}

// ---------------------------------------------------------------------------
// Input
// ---------------------------------------------------------------------------

func TestInputEcho(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input = strings.NewReader("hi")
	_, out := run(t, ",.,.", cfg)
	if out != "hi" {
		t.Errorf("output = %q, want hi", out)
	}
}

func TestInputEOFPolicy(t *testing.T) {
	tests := []struct {
		name  string
		mode  EOFMode
		value int64
		input io.Reader
		want  int64
	}{
		{"unchanged", EOFUnchanged, 0, strings.NewReader(""), 3},
		{"fill zero", EOFFill, 0, strings.NewReader(""), 0},
		{"fill minus one", EOFFill, -1, strings.NewReader(""), -1},
		{"nil input", EOFFill, 7, nil, 7},
		{"byte before eof", EOFFill, 0, strings.NewReader("A"), 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.EOF = tt.mode
			cfg.EOFValue = tt.value
			cfg.Input = tt.input
			st, _ := run(t, "+++,", cfg)
			if got := st.Tape.Cell(0).Int64(); got != tt.want {
				t.Errorf("cell 0 = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestInputReadError(t *testing.T) {
	boom := errors.New("boom")
	cfg := DefaultConfig()
	cfg.Input = iotest.ErrReader(boom)
	_, err := Run(bytecode.Parse(",", false), cfg)
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}

// ---------------------------------------------------------------------------
// Output buffering
// ---------------------------------------------------------------------------

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestInteractiveFlushesEveryByte(t *testing.T) {
	for _, interactive := range []bool{true, false} {
		w := &countingWriter{}
		cfg := DefaultConfig()
		cfg.Output = w
		cfg.Interactive = &interactive
		if _, err := Run(bytecode.Parse("+.+.+.", false), cfg); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		want := 1
		if interactive {
			want = 3
		}
		if w.writes != want {
			t.Errorf("interactive=%v: %d writes, want %d", interactive, w.writes, want)
		}
		if w.String() != "\x01\x02\x03" {
			t.Errorf("interactive=%v: output = %q", interactive, w.String())
		}
	}
}

// ---------------------------------------------------------------------------
// Preprocessing and configuration
// ---------------------------------------------------------------------------

func TestUnmatchedBracketProducesNoOutput(t *testing.T) {
	var out bytes.Buffer
	cfg := DefaultConfig()
	cfg.Output = &out
	_, err := Run(bytecode.Parse("+.[", false), cfg)
	if !errors.Is(err, ErrUnmatchedOpenBracket) {
		t.Fatalf("error = %v, want ErrUnmatchedOpenBracket", err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want none", out.String())
	}
}

func TestSingleOpenBracket(t *testing.T) {
	_, err := Run(bytecode.Parse("[", false), DefaultConfig())
	if !errors.Is(err, ErrUnmatchedOpenBracket) {
		t.Errorf("error = %v, want ErrUnmatchedOpenBracket", err)
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{CellSize: -1},
		{TotalCells: -5},
		{EOF: EOFMode(9)},
	}
	for _, cfg := range bad {
		if _, err := NewVM(nil, cfg); err == nil {
			t.Errorf("NewVM with %+v should fail", cfg)
		}
	}
	if err := (&Config{}).Validate(); err != nil {
		t.Errorf("zero Config should be valid: %v", err)
	}
}

func TestEOFModeString(t *testing.T) {
	if EOFUnchanged.String() != "unchanged" || EOFFill.String() != "fill" {
		t.Errorf("unexpected names %q %q", EOFUnchanged, EOFFill)
	}
}

func TestTraceDoesNotChangeResult(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trace = true
	_, out := run(t, helloWorld, cfg)
	if out != "Hello World!\n" {
		t.Errorf("output with trace = %q", out)
	}
}

func TestDeterminism(t *testing.T) {
	prog := bytecode.Parse(",[.,]"+helloWorld, false)
	var outputs []string
	var snaps [][]byte
	for range 3 {
		var out bytes.Buffer
		cfg := DefaultConfig()
		cfg.EOF = EOFFill
		cfg.Input = strings.NewReader("same input")
		cfg.Output = &out
		st, err := Run(prog, cfg)
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		snap, err := MarshalState(st)
		if err != nil {
			t.Fatalf("MarshalState failed: %v", err)
		}
		outputs = append(outputs, out.String())
		snaps = append(snaps, snap)
	}
	for i := 1; i < len(outputs); i++ {
		if outputs[i] != outputs[0] {
			t.Errorf("run %d output %q differs from %q", i, outputs[i], outputs[0])
		}
		if !bytes.Equal(snaps[i], snaps[0]) {
			t.Errorf("run %d state differs", i)
		}
	}
}
