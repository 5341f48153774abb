package bytecode

import "fmt"

// Opcode is one of the eight MWOT instructions. The numeric value of an
// opcode is its 3-bit code, so packing is a plain integer conversion.
type Opcode byte

const (
	OpRight       Opcode = 0b000 // > move the pointer right
	OpLeft        Opcode = 0b001 // < move the pointer left
	OpInc         Opcode = 0b010 // + increment the current cell
	OpDec         Opcode = 0b011 // - decrement the current cell
	OpOutput      Opcode = 0b100 // . write the current cell
	OpInput       Opcode = 0b101 // , read into the current cell
	OpJumpZero    Opcode = 0b110 // [ jump past the matching ] if the cell is zero
	OpJumpNonZero Opcode = 0b111 // ] jump back to the matching [ if the cell is non-zero
)

// GroupSize is the number of bits encoding one instruction.
const GroupSize = 3

// Symbols lists the instruction characters in code order: the character at
// index i is the symbol of Opcode(i).
const Symbols = "><+-.,[]"

// OpcodeInfo provides metadata about each opcode for debugging and
// disassembly.
type OpcodeInfo struct {
	Name   string // Human-readable name
	Symbol byte   // Source character
}

var opcodeInfoTable = [...]OpcodeInfo{
	OpRight:       {"RIGHT", '>'},
	OpLeft:        {"LEFT", '<'},
	OpInc:         {"INC", '+'},
	OpDec:         {"DEC", '-'},
	OpOutput:      {"OUTPUT", '.'},
	OpInput:       {"INPUT", ','},
	OpJumpZero:    {"JUMP_ZERO", '['},
	OpJumpNonZero: {"JUMP_NONZERO", ']'},
}

// symbolTable maps a source character to its opcode plus one, so that the
// zero value means "not an instruction".
var symbolTable [256]byte

func init() {
	for op, info := range opcodeInfoTable {
		symbolTable[info.Symbol] = byte(op) + 1
	}
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if int(op) < len(opcodeInfoTable) {
		return opcodeInfoTable[op]
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Symbol returns the source character of an opcode, or '?' if unknown.
func (op Opcode) Symbol() byte {
	if s := GetOpcodeInfo(op).Symbol; s != 0 {
		return s
	}
	return '?'
}

// Valid reports whether op is one of the eight instructions.
func (op Opcode) Valid() bool {
	return op <= OpJumpNonZero
}

// IsJump returns true for the two bracket instructions.
func (op Opcode) IsJump() bool {
	return op == OpJumpZero || op == OpJumpNonZero
}

// FromSymbol returns the opcode for a source character.
func FromSymbol(c byte) (Opcode, bool) {
	v := symbolTable[c]
	if v == 0 {
		return 0, false
	}
	return Opcode(v - 1), true
}

// AllOpcodes returns every opcode in code order.
func AllOpcodes() []Opcode {
	ops := make([]Opcode, len(opcodeInfoTable))
	for i := range ops {
		ops[i] = Opcode(i)
	}
	return ops
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
