// Package bits defines the bit type exchanged between every stage of the
// MWOT pipeline, along with small helpers for building and grouping bit
// sequences.
//
// A bit sequence is an iter.Seq[Bit]. Unless a producer says otherwise,
// sequences are finite, single-pass and not restartable: ranging over a
// sequence built on a reader drains that reader.
package bits

import (
	"fmt"
	"iter"
	"strings"
)

// Bit is a single binary digit, 0 or 1.
type Bit uint8

// Of returns the low bit of v.
func Of[T ~int | ~uint | ~uint8 | ~int64 | ~uint64](v T) Bit {
	return Bit(v & 1)
}

// Slice returns a sequence over the given bits. Unlike most sequences it
// can be ranged over any number of times.
func Slice(b []Bit) iter.Seq[Bit] {
	return func(yield func(Bit) bool) {
		for _, v := range b {
			if !yield(v) {
				return
			}
		}
	}
}

// Parse reads a string of '0' and '1' characters into bits. Whitespace is
// ignored so that grouped literals like "010 110" are accepted.
func Parse(s string) ([]Bit, error) {
	out := make([]Bit, 0, len(s))
	for i, r := range s {
		switch r {
		case '0':
			out = append(out, 0)
		case '1':
			out = append(out, 1)
		case ' ', '\t', '\n', '\r':
		default:
			return nil, fmt.Errorf("bits: invalid character %q at offset %d", r, i)
		}
	}
	return out, nil
}

// MustParse is like Parse but panics on malformed input. Intended for tests
// and package-level literals.
func MustParse(s string) []Bit {
	b, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return b
}

// String renders a sequence as '0' and '1' characters. It drains seq.
func String(seq iter.Seq[Bit]) string {
	var sb strings.Builder
	for b := range seq {
		sb.WriteByte('0' + byte(b))
	}
	return sb.String()
}

// Chunks groups seq into consecutive slices of size bits. The final chunk
// may be shorter. The yielded slice is reused between iterations, so
// callers must copy it if they keep it.
func Chunks(seq iter.Seq[Bit], size int) iter.Seq[[]Bit] {
	if size <= 0 {
		panic("bits: chunk size must be positive")
	}
	return func(yield func([]Bit) bool) {
		chunk := make([]Bit, 0, size)
		for b := range seq {
			chunk = append(chunk, b)
			if len(chunk) == size {
				if !yield(chunk) {
					return
				}
				chunk = chunk[:0]
			}
		}
		if len(chunk) > 0 {
			yield(chunk)
		}
	}
}

// Pack folds a chunk into an integer, most significant bit first.
func Pack(chunk []Bit) uint64 {
	var v uint64
	for _, b := range chunk {
		v = v<<1 | uint64(b&1)
	}
	return v
}

// Unpack yields the width low bits of v, most significant bit first.
func Unpack(v uint64, width int) iter.Seq[Bit] {
	return func(yield func(Bit) bool) {
		for i := width - 1; i >= 0; i-- {
			if !yield(Bit(v >> uint(i) & 1)) {
				return
			}
		}
	}
}
