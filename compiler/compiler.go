// Package compiler turns MWOT source into bits.
//
// MWOT source is any text. Only the parity of each whitespace-separated
// word's letter count carries information: a word with an even number of
// letters is a 0, a word with an odd number is a 1, and a word with no
// letters at all is ignored.
package compiler

import (
	"iter"
	"strings"

	"github.com/chazu/mwot/pkg/bits"
)

// Bits returns the MWOT bits of src. The sequence is lazy and single-pass;
// read errors end it early and are not reported. Use a Scanner when the
// caller needs Err.
func Bits(src Source) iter.Seq[bits.Bit] {
	return NewScanner(src).Bits()
}

// BitsFromString returns the MWOT bits of text. Each iteration rescans
// text, so the returned sequence may be ranged over more than once.
func BitsFromString(text string) iter.Seq[bits.Bit] {
	return func(yield func(bits.Bit) bool) {
		for b := range Bits(Text(strings.NewReader(text))) {
			if !yield(b) {
				return
			}
		}
	}
}
