package bytecode

import (
	"iter"
	"strings"
)

// Program is a finalized instruction stream.
type Program []Opcode

// Parse extracts the instructions from text, ignoring every other
// character. When shebangIn is set a leading "#!" line is skipped first,
// so that an executable program file is not read as instructions.
func Parse(text string, shebangIn bool) Program {
	if shebangIn && strings.HasPrefix(text, "#!") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	}
	prog := make(Program, 0, len(text))
	for i := 0; i < len(text); i++ {
		if op, ok := FromSymbol(text[i]); ok {
			prog = append(prog, op)
		}
	}
	return prog
}

// String renders the program as instruction characters.
func (p Program) String() string {
	var sb strings.Builder
	sb.Grow(len(p))
	for _, op := range p {
		sb.WriteByte(op.Symbol())
	}
	return sb.String()
}

// All returns the instructions as a sequence. It may be ranged over more
// than once.
func (p Program) All() iter.Seq[Opcode] {
	return func(yield func(Opcode) bool) {
		for _, op := range p {
			if !yield(op) {
				return
			}
		}
	}
}

// Len returns the number of instructions.
func (p Program) Len() int {
	return len(p)
}
