package decompiler

import (
	"iter"
	"math/rand/v2"
	"strings"

	"github.com/chazu/mwot/pkg/bits"
)

// DefaultRandWidth is the default line width of Rand.
const DefaultRandWidth = 80

// Random words have an even base length in [2, maxHalfLength*2].
const maxHalfLength = 6

// RandOptions configures Rand.
type RandOptions struct {
	Width int        // 0 disables wrapping
	Rand  *rand.Rand // nil uses the global source
}

// DefaultRandOptions returns the default Rand settings.
func DefaultRandOptions() RandOptions {
	return RandOptions{Width: DefaultRandWidth}
}

// Rand writes one word of random lowercase letters per bit. A word's
// length is an even number from 2 to 12, less one for a 1 bit. The text
// differs between calls but always decodes to seq.
func Rand(seq iter.Seq[bits.Bit], opts RandOptions) string {
	intN := rand.IntN
	if opts.Rand != nil {
		intN = opts.Rand.IntN
	}

	var sb strings.Builder
	for b := range seq {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		n := 2*(1+intN(maxHalfLength)) - int(b)
		for range n {
			sb.WriteByte(byte('a' + intN(26)))
		}
	}
	return wrap(sb.String(), opts.Width)
}
