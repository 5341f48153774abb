package bytecode

import (
	"errors"
	"fmt"
	"iter"

	"github.com/chazu/mwot/pkg/bits"
)

// ErrIncompleteGroup reports a bit count that is not a multiple of
// GroupSize. Trailing bits are never padded into an instruction.
var ErrIncompleteGroup = errors.New("incomplete instruction group")

// GroupError describes the trailing bits that could not form an instruction.
type GroupError struct {
	Offset int // bit offset where the short group starts
	Bits   int // number of trailing bits
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("%v: %d trailing bit(s) at bit %d (need a multiple of %d)",
		ErrIncompleteGroup, e.Bits, e.Offset, GroupSize)
}

func (e *GroupError) Unwrap() error {
	return ErrIncompleteGroup
}

// FromBits decodes seq into instructions, three bits at a time, most
// significant bit first. If the final group is short, the sequence yields a
// *GroupError as its last element instead of an instruction.
func FromBits(seq iter.Seq[bits.Bit]) iter.Seq2[Opcode, error] {
	return func(yield func(Opcode, error) bool) {
		offset := 0
		for chunk := range bits.Chunks(seq, GroupSize) {
			if len(chunk) < GroupSize {
				yield(0, &GroupError{Offset: offset, Bits: len(chunk)})
				return
			}
			if !yield(Opcode(bits.Pack(chunk)), nil) {
				return
			}
			offset += GroupSize
		}
	}
}

// Collect decodes all of seq into a Program. On error no partial program is
// returned.
func Collect(seq iter.Seq[bits.Bit]) (Program, error) {
	var prog Program
	for op, err := range FromBits(seq) {
		if err != nil {
			return nil, err
		}
		prog = append(prog, op)
	}
	return prog, nil
}

// ToBits encodes instructions as bits, three per instruction, most
// significant bit first. It is the inverse of FromBits.
func ToBits(ops iter.Seq[Opcode]) iter.Seq[bits.Bit] {
	return func(yield func(bits.Bit) bool) {
		for op := range ops {
			for b := range bits.Unpack(uint64(op), GroupSize) {
				if !yield(b) {
					return
				}
			}
		}
	}
}
