// Package bytepack converts between MWOT bits and raw bytes, eight bits per
// byte, most significant bit first.
//
// Unlike instruction packing, a bit count that is not a multiple of eight
// is tolerated: the final byte is padded on the right with zero bits and a
// Diagnostic is recorded for the caller.
package bytepack

import (
	"fmt"
	"iter"

	"github.com/chazu/mwot/pkg/bits"
)

// GroupSize is the number of bits per byte.
const GroupSize = 8

// Diagnostic is a non-fatal note produced while packing.
type Diagnostic struct {
	Offset  int // bit offset of the padded group
	Padding int // number of zero bits appended
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("final byte at bit %d padded with %d zero bit(s)", d.Offset, d.Padding)
}

// Packer packs one bit sequence into bytes and collects the diagnostics
// produced on the way. A Packer is not safe for concurrent use.
type Packer struct {
	diags []Diagnostic
}

// FromBits returns the bytes of seq. Diagnostics are available from
// Diagnostics once the returned sequence has been drained.
func (p *Packer) FromBits(seq iter.Seq[bits.Bit]) iter.Seq[byte] {
	return func(yield func(byte) bool) {
		offset := 0
		for chunk := range bits.Chunks(seq, GroupSize) {
			v := bits.Pack(chunk)
			if pad := GroupSize - len(chunk); pad > 0 {
				v <<= uint(pad)
				p.diags = append(p.diags, Diagnostic{Offset: offset, Padding: pad})
			}
			if !yield(byte(v)) {
				return
			}
			offset += GroupSize
		}
	}
}

// Diagnostics returns the diagnostics recorded so far.
func (p *Packer) Diagnostics() []Diagnostic {
	return p.diags
}

// Pack collects all of seq into a byte slice.
func Pack(seq iter.Seq[bits.Bit]) ([]byte, []Diagnostic) {
	var p Packer
	var out []byte
	for b := range p.FromBits(seq) {
		out = append(out, b)
	}
	return out, p.Diagnostics()
}

// ToBits expands each byte of data into eight bits, most significant first.
func ToBits(data iter.Seq[byte]) iter.Seq[bits.Bit] {
	return func(yield func(bits.Bit) bool) {
		for c := range data {
			for b := range bits.Unpack(uint64(c), GroupSize) {
				if !yield(b) {
					return
				}
			}
		}
	}
}

// ToBitsFromBytes is ToBits over a byte slice.
func ToBitsFromBytes(data []byte) iter.Seq[bits.Bit] {
	return ToBits(func(yield func(byte) bool) {
		for _, c := range data {
			if !yield(c) {
				return
			}
		}
	})
}
