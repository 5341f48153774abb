package bytepack

import (
	"bufio"
	"io"
	"iter"

	"github.com/chazu/mwot/pkg/bits"
)

// Reader streams the bits of an io.Reader. Read errors other than io.EOF
// end the sequence and are reported by Err.
type Reader struct {
	r   *bufio.Reader
	err error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Bits returns the bits of the remaining input. The sequence is
// single-pass.
func (r *Reader) Bits() iter.Seq[bits.Bit] {
	return ToBits(func(yield func(byte) bool) {
		for {
			c, err := r.r.ReadByte()
			if err != nil {
				if err != io.EOF {
					r.err = err
				}
				return
			}
			if !yield(c) {
				return
			}
		}
	})
}

// Err returns the first non-EOF read error.
func (r *Reader) Err() error {
	return r.err
}
