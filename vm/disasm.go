package vm

import (
	"fmt"
	"strings"

	"github.com/chazu/mwot/pkg/bytecode"
)

// Disassemble returns a human-readable listing of prog: one line per
// instruction with its 3-bit code, and the matching position for brackets.
// A program with unmatched brackets is still listed, followed by the
// matching error.
func Disassemble(prog bytecode.Program) string {
	return DisassembleWithName(prog, "")
}

// DisassembleWithName is Disassemble with a name header.
func DisassembleWithName(prog bytecode.Program, name string) string {
	var sb strings.Builder

	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; %d instructions, %d bits\n", len(prog), len(prog)*bytecode.GroupSize))

	jumps, jerr := BuildJumpTable(prog)
	if jerr == nil && jumps.Pairs() > 0 {
		sb.WriteString(fmt.Sprintf("; %d loops\n", jumps.Pairs()))
	}
	sb.WriteString("\n")

	for pc, op := range prog {
		line := fmt.Sprintf("%04d  %03b  %c  %s", pc, byte(op), op.Symbol(), op)
		if op.IsJump() && jerr == nil {
			target, _ := jumps.Target(pc)
			line = fmt.Sprintf("%-30s -> %04d", line, target)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if jerr != nil {
		sb.WriteString(fmt.Sprintf("\n; error: %v\n", jerr))
	}
	return sb.String()
}
