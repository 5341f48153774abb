// Package mwot converts between MWOT source, brainfuck and raw bytes, and
// runs brainfuck.
//
// MWOT source encodes one bit per word: words with an even number of
// letters are 0, words with an odd number are 1. Those bits are read three
// at a time as brainfuck instructions or eight at a time as bytes.
//
// The functions here chain the lower-level packages:
//
//	compiler   source text -> bits
//	bytecode   bits <-> brainfuck instructions
//	bytepack   bits <-> bytes
//	decompiler bits -> source text
//	vm         instructions -> output
package mwot

import (
	"bytes"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/chazu/mwot/compiler"
	"github.com/chazu/mwot/decompiler"
	"github.com/chazu/mwot/pkg/bits"
	"github.com/chazu/mwot/pkg/bytecode"
	"github.com/chazu/mwot/pkg/bytepack"
	"github.com/chazu/mwot/vm"
)

// Format selects what MWOT bits are compiled to.
type Format uint8

const (
	// FormatBrainfuck reads bits in groups of three as instructions.
	FormatBrainfuck Format = iota

	// FormatBinary reads bits in groups of eight as bytes.
	FormatBinary
)

// String returns the name of the format.
func (f Format) String() string {
	switch f {
	case FormatBrainfuck:
		return "brainfuck"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

// ParseFormat resolves a format name, ignoring case.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "brainfuck":
		return FormatBrainfuck, nil
	case "binary":
		return FormatBinary, nil
	}
	return 0, fmt.Errorf("unknown format %q", name)
}

// ---------------------------------------------------------------------------
// Codec stages
// ---------------------------------------------------------------------------

// TextToBits returns the MWOT bits of src.
func TextToBits(src compiler.Source) iter.Seq[bits.Bit] {
	return compiler.Bits(src)
}

// BitsToInstructions groups seq into instructions. An incomplete final
// group is yielded as a *bytecode.GroupError.
func BitsToInstructions(seq iter.Seq[bits.Bit]) iter.Seq2[bytecode.Opcode, error] {
	return bytecode.FromBits(seq)
}

// InstructionsToBits expands instructions to their 3-bit codes.
func InstructionsToBits(ops iter.Seq[bytecode.Opcode]) iter.Seq[bits.Bit] {
	return bytecode.ToBits(ops)
}

// BitsToBytes groups seq into bytes. An incomplete final byte is padded
// with zero bits and reported as a diagnostic.
func BitsToBytes(seq iter.Seq[bits.Bit]) ([]byte, []bytepack.Diagnostic) {
	return bytepack.Pack(seq)
}

// BytesToBits expands bytes to their bits, most significant first.
func BytesToBits(data iter.Seq[byte]) iter.Seq[bits.Bit] {
	return bytepack.ToBits(data)
}

// Humanize turns bits back into MWOT source with the given strategy.
func Humanize(strategy decompiler.Strategy, seq iter.Seq[bits.Bit], opts decompiler.Options) (string, error) {
	return decompiler.Humanize(strategy, seq, opts)
}

// Run executes prog.
func Run(prog bytecode.Program, cfg vm.Config) (*vm.State, error) {
	return vm.Run(prog, cfg)
}

// ---------------------------------------------------------------------------
// Whole-program operations
// ---------------------------------------------------------------------------

// Result is the outcome of Compile.
type Result struct {
	// Output is the compiled program: instruction characters for
	// FormatBrainfuck, raw bytes for FormatBinary.
	Output []byte

	// Diagnostics reports padding of an incomplete final byte.
	Diagnostics []bytepack.Diagnostic
}

// Compile reads MWOT source and encodes its bits in format f.
func Compile(src compiler.Source, f Format) (*Result, error) {
	s := compiler.NewScanner(src)
	var res Result

	switch f {
	case FormatBrainfuck:
		prog, err := bytecode.Collect(s.Bits())
		if err != nil {
			return nil, err
		}
		res.Output = []byte(prog.String())
	case FormatBinary:
		res.Output, res.Diagnostics = bytepack.Pack(s.Bits())
	default:
		return nil, fmt.Errorf("unknown format %v", f)
	}

	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return &res, nil
}

// Decompile reads a program in format f and renders its bits as MWOT
// source. For brainfuck, characters that are not instructions are ignored
// and a leading shebang line is skipped when shebangIn is set.
func Decompile(data []byte, f Format, shebangIn bool, strategy decompiler.Strategy, opts decompiler.Options) (string, error) {
	return DecompileReader(bytes.NewReader(data), f, shebangIn, strategy, opts)
}

// DecompileReader is Decompile over a reader. Binary input is streamed
// rather than read up front.
func DecompileReader(r io.Reader, f Format, shebangIn bool, strategy decompiler.Strategy, opts decompiler.Options) (string, error) {
	switch f {
	case FormatBrainfuck:
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read program: %w", err)
		}
		seq := bytecode.ToBits(bytecode.Parse(string(data), shebangIn).All())
		return decompiler.Humanize(strategy, seq, opts)
	case FormatBinary:
		br := bytepack.NewReader(r)
		text, err := decompiler.Humanize(strategy, br.Bits(), opts)
		if err != nil {
			return "", err
		}
		if err := br.Err(); err != nil {
			return "", fmt.Errorf("read program: %w", err)
		}
		return text, nil
	default:
		return "", fmt.Errorf("unknown format %v", f)
	}
}

// RunSource compiles MWOT source to instructions and executes them.
func RunSource(src compiler.Source, cfg vm.Config) (*vm.State, error) {
	s := compiler.NewScanner(src)
	prog, err := bytecode.Collect(s.Bits())
	if err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return vm.Run(prog, cfg)
}

// RunBrainfuck parses brainfuck text and executes it. A leading shebang
// line is skipped when shebangIn is set.
func RunBrainfuck(text string, shebangIn bool, cfg vm.Config) (*vm.State, error) {
	return vm.Run(bytecode.Parse(text, shebangIn), cfg)
}
