package vm

import (
	"strings"
	"testing"

	"github.com/chazu/mwot/pkg/bytecode"
)

func TestDisassemble(t *testing.T) {
	out := DisassembleWithName(bytecode.Parse("+[-].", false), "demo")

	for _, want := range []string{
		"; === demo ===",
		"; 5 instructions, 15 bits",
		"; 1 loops",
		"0000  010  +  INC",
		"0001  110  [  JUMP_ZERO",
		"-> 0003",
		"-> 0001",
		"0004  100  .  OUTPUT",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestDisassembleUnmatched(t *testing.T) {
	out := Disassemble(bytecode.Parse("+]", false))
	if !strings.Contains(out, "; error: unmatched ']' at instruction 1") {
		t.Errorf("listing should report the bracket error:\n%s", out)
	}
	if strings.Contains(out, "->") {
		t.Errorf("listing should not show targets:\n%s", out)
	}
}
