package mwot

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/chazu/mwot/compiler"
	"github.com/chazu/mwot/decompiler"
	"github.com/chazu/mwot/pkg/bits"
	"github.com/chazu/mwot/pkg/bytecode"
	"github.com/chazu/mwot/pkg/bytepack"
	"github.com/chazu/mwot/vm"
)

const helloWorld = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++" +
	"++++..+++.>>.<-.<.+++.------.--------.>>+.>++."

func testOptions() decompiler.Options {
	opts := decompiler.DefaultOptions()
	opts.Rand.Rand = rand.New(rand.NewPCG(42, 42))
	return opts
}

func TestHelloWorldPipeline(t *testing.T) {
	for _, strategy := range decompiler.Strategies {
		t.Run(string(strategy), func(t *testing.T) {
			source, err := Decompile([]byte(helloWorld), FormatBrainfuck, false, strategy, testOptions())
			if err != nil {
				t.Fatalf("Decompile failed: %v", err)
			}

			res, err := Compile(compiler.FromString(source), FormatBrainfuck)
			if err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
			if string(res.Output) != helloWorld {
				t.Errorf("Compile = %q, want %q", res.Output, helloWorld)
			}

			var out bytes.Buffer
			cfg := vm.DefaultConfig()
			cfg.Output = &out
			if _, err := RunSource(compiler.FromString(source), cfg); err != nil {
				t.Fatalf("RunSource failed: %v", err)
			}
			if out.String() != "Hello World!\n" {
				t.Errorf("output = %q", out.String())
			}
		})
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	data := []byte("MWOT\x00\xff\x80")
	source, err := Decompile(data, FormatBinary, true, decompiler.StrategyBasic, testOptions())
	if err != nil {
		t.Fatalf("Decompile failed: %v", err)
	}
	res, err := Compile(compiler.FromString(source), FormatBinary)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !bytes.Equal(res.Output, data) {
		t.Errorf("Compile = %x, want %x", res.Output, data)
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("unexpected diagnostics %v", res.Diagnostics)
	}
}

func TestCompileBinaryPads(t *testing.T) {
	// "x" is one 1 bit.
	res, err := Compile(compiler.FromString("x"), FormatBinary)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !bytes.Equal(res.Output, []byte{0x80}) {
		t.Errorf("Compile = %x, want 80", res.Output)
	}
	want := []bytepack.Diagnostic{{Offset: 0, Padding: 7}}
	if !slices.Equal(res.Diagnostics, want) {
		t.Errorf("Diagnostics = %v, want %v", res.Diagnostics, want)
	}
}

func TestCompileIncompleteGroup(t *testing.T) {
	_, err := Compile(compiler.FromString("zz x zz x"), FormatBrainfuck)
	if !errors.Is(err, bytecode.ErrIncompleteGroup) {
		t.Fatalf("error = %v, want ErrIncompleteGroup", err)
	}
	if _, err := RunSource(compiler.FromString("x"), vm.DefaultConfig()); !errors.Is(err, bytecode.ErrIncompleteGroup) {
		t.Errorf("RunSource error = %v, want ErrIncompleteGroup", err)
	}
}

func TestCompileSkipsShebang(t *testing.T) {
	res, err := Compile(compiler.FromString("#!/usr/bin/env mwot\nzz x zz"), FormatBrainfuck)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if string(res.Output) != "+" {
		t.Errorf("Compile = %q, want +", res.Output)
	}
}

func TestDecompileShebangIn(t *testing.T) {
	text := []byte("#!/usr/bin/env -S mwot -x -b\n+")
	with, err := Decompile(text, FormatBrainfuck, true, decompiler.StrategyBasic, testOptions())
	if err != nil {
		t.Fatalf("Decompile failed: %v", err)
	}
	if with != "zz x zz\n" {
		t.Errorf("with shebang skipped = %q", with)
	}

	// Each '-' of the shebang line is an instruction when the line is
	// not skipped.
	without, err := Decompile(text, FormatBrainfuck, false, decompiler.StrategyBasic, testOptions())
	if err != nil {
		t.Fatalf("Decompile failed: %v", err)
	}
	if got := bits.String(compiler.BitsFromString(without)); got != "011011011010" {
		t.Errorf("bits = %q, want 011011011010", got)
	}
}

func TestDecompileReader(t *testing.T) {
	opts := decompiler.DefaultOptions()
	opts.Basic.Width = 0

	got, err := DecompileReader(bytes.NewReader([]byte{0x58}), FormatBinary, false, decompiler.StrategyBasic, opts)
	if err != nil {
		t.Fatalf("DecompileReader failed: %v", err)
	}
	if got != "zz x zz x x zz zz zz" {
		t.Errorf("DecompileReader = %q", got)
	}

	for _, f := range []Format{FormatBrainfuck, FormatBinary} {
		r := iotest.ErrReader(errors.New("disk on fire"))
		if _, err := DecompileReader(r, f, false, decompiler.StrategyBasic, opts); err == nil {
			t.Errorf("%v: expected read error", f)
		}
	}
}

func TestStageFunctions(t *testing.T) {
	seq := TextToBits(compiler.FromString("zz x zz x x x"))
	var ops []bytecode.Opcode
	for op, err := range BitsToInstructions(seq) {
		if err != nil {
			t.Fatalf("BitsToInstructions failed: %v", err)
		}
		ops = append(ops, op)
	}
	if !slices.Equal(ops, []bytecode.Opcode{bytecode.OpInc, bytecode.OpJumpNonZero}) {
		t.Errorf("ops = %v", ops)
	}
	if got := bits.String(InstructionsToBits(slices.Values(ops))); got != "010111" {
		t.Errorf("InstructionsToBits = %q", got)
	}

	data, diags := BitsToBytes(bits.Slice(bits.MustParse("01000001")))
	if string(data) != "A" || len(diags) != 0 {
		t.Errorf("BitsToBytes = %q %v", data, diags)
	}
	if got := bits.String(BytesToBits(slices.Values([]byte("A")))); got != "01000001" {
		t.Errorf("BytesToBits = %q", got)
	}

	text, err := Humanize(decompiler.StrategyBasic, bits.Slice(bits.MustParse("10")), testOptions())
	if err != nil || text != "x zz\n" {
		t.Errorf("Humanize = %q, %v", text, err)
	}
}

func TestRunBrainfuck(t *testing.T) {
	var out bytes.Buffer
	cfg := vm.DefaultConfig()
	cfg.Output = &out
	if _, err := RunBrainfuck("#!/usr/bin/env -S mwot -x -b\n"+helloWorld, true, cfg); err != nil {
		t.Fatalf("RunBrainfuck failed: %v", err)
	}
	if out.String() != "Hello World!\n" {
		t.Errorf("output = %q", out.String())
	}

	st, err := Run(bytecode.Parse("+++", false), vm.DefaultConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if st.Tape.Cell(0).Int64() != 3 {
		t.Errorf("cell 0 = %s, want 3", st.Tape.Cell(0))
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"brainfuck": FormatBrainfuck, "Binary": FormatBinary} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseFormat("wasm"); err == nil {
		t.Error("ParseFormat(wasm) should fail")
	}
	if !strings.Contains(Format(7).String(), "7") {
		t.Errorf("Format(7).String() = %q", Format(7))
	}
}
