package vm

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/tliron/commonlog"
	"golang.org/x/term"

	"github.com/chazu/mwot/pkg/bytecode"
)

var log = commonlog.GetLogger("mwot.vm")

// VM runs one program once. Its state is created by NewVM, mutated by Run
// and owned exclusively by the VM.
type VM struct {
	prog  bytecode.Program
	jumps JumpTable
	cfg   Config

	pc   int
	ptr  int
	tape *Tape

	in          io.ByteReader
	out         *bufio.Writer
	interactive bool
	capacity    *big.Int // 2^CellSize, nil when unbounded
	scratch     big.Int

	written int64
	steps   int64
}

// State is the terminal state of a run.
type State struct {
	Tape         *Tape
	Pointer      int
	BytesWritten int64
	Steps        int64 // instructions dispatched
}

// NewVM prepares prog for execution. Bracket matching happens here, so a
// program with unmatched brackets fails before anything runs.
func NewVM(prog bytecode.Program, cfg Config) (*VM, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	jumps, err := BuildJumpTable(prog)
	if err != nil {
		return nil, err
	}

	m := &VM{
		prog:  prog,
		jumps: jumps,
		cfg:   cfg,
		tape:  NewTape(cfg.TotalCells),
	}

	if cfg.CellSize > 0 {
		m.capacity = new(big.Int).Lsh(big.NewInt(1), uint(cfg.CellSize))
	}

	switch r := cfg.Input.(type) {
	case nil:
	case io.ByteReader:
		m.in = r
	default:
		m.in = bufio.NewReader(r)
	}

	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	m.out = bufio.NewWriter(out)
	if cfg.Interactive != nil {
		m.interactive = *cfg.Interactive
	} else {
		m.interactive = isTerminal(out)
	}

	return m, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run executes prog with cfg and returns the terminal state.
func Run(prog bytecode.Program, cfg Config) (*State, error) {
	m, err := NewVM(prog, cfg)
	if err != nil {
		return nil, err
	}
	if err := m.Run(); err != nil {
		return nil, err
	}
	return m.State(), nil
}

// State returns the current state. After Run returns it is the terminal
// state.
func (m *VM) State() *State {
	return &State{
		Tape:         m.tape,
		Pointer:      m.ptr,
		BytesWritten: m.written,
		Steps:        m.steps,
	}
}

// Run executes the program until the program counter passes the end or an
// instruction fails. Buffered output is flushed either way.
func (m *VM) Run() (err error) {
	defer func() {
		if ferr := m.out.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("vm: write output: %w", ferr)
		}
	}()

	for m.pc < len(m.prog) {
		op := m.prog[m.pc]
		m.steps++

		if m.cfg.Trace {
			log.Debugf("[%04d] %c %-12s ptr=%d cell=%s", m.pc, op.Symbol(), op, m.ptr, m.tape.get(m.ptr))
		}

		switch op {
		case bytecode.OpRight:
			if err := m.shift(1); err != nil {
				return err
			}

		case bytecode.OpLeft:
			if err := m.shift(-1); err != nil {
				return err
			}

		case bytecode.OpInc:
			m.increment(1)

		case bytecode.OpDec:
			m.increment(-1)

		case bytecode.OpOutput:
			if err := m.write(); err != nil {
				return err
			}

		case bytecode.OpInput:
			if err := m.read(); err != nil {
				return err
			}

		case bytecode.OpJumpZero:
			if m.tape.get(m.ptr).Sign() == 0 {
				m.pc, _ = m.jumps.Target(m.pc)
			}

		case bytecode.OpJumpNonZero:
			if m.tape.get(m.ptr).Sign() != 0 {
				m.pc, _ = m.jumps.Target(m.pc)
			}

		default:
			return fmt.Errorf("vm: unknown opcode 0x%02x at instruction %d", byte(op), m.pc)
		}

		// A jump lands on the matching bracket; stepping past it starts
		// the loop body or leaves the loop.
		m.pc++
	}
	return nil
}

func (m *VM) shift(by int) error {
	p := m.ptr + by
	n := m.cfg.TotalCells
	if m.cfg.Wraparound {
		if n > 0 {
			p = ((p % n) + n) % n
		}
	} else if p < 0 || (n > 0 && p >= n) {
		return &PointerError{Pointer: p, PC: m.pc}
	}
	m.ptr = p
	return nil
}

func (m *VM) increment(by int64) {
	c := m.tape.ref(m.ptr)
	c.Add(c, big.NewInt(by))
	if m.capacity != nil {
		c.Mod(c, m.capacity)
	}
}

func (m *VM) write() error {
	b := byte(m.scratch.Mod(m.tape.get(m.ptr), big256).Uint64())
	if err := m.out.WriteByte(b); err != nil {
		return fmt.Errorf("vm: write output: %w", err)
	}
	m.written++
	if m.interactive {
		if err := m.out.Flush(); err != nil {
			return fmt.Errorf("vm: write output: %w", err)
		}
	}
	return nil
}

var big256 = big.NewInt(256)

func (m *VM) read() error {
	if m.in != nil {
		b, err := m.in.ReadByte()
		if err == nil {
			m.tape.ref(m.ptr).SetInt64(int64(b))
			return nil
		}
		if err != io.EOF {
			return fmt.Errorf("vm: read input: %w", err)
		}
	}
	if m.cfg.EOF == EOFFill {
		m.tape.ref(m.ptr).SetInt64(m.cfg.EOFValue)
	}
	return nil
}
