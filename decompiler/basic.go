package decompiler

import (
	"iter"
	"strings"

	"github.com/chazu/mwot/pkg/bits"
)

// DefaultBasicWidth is the default line width of Basic.
const DefaultBasicWidth = 72

// BasicOptions configures Basic.
type BasicOptions struct {
	Vocab Vocab // zero value means DefaultVocab
	Width int   // 0 disables wrapping
}

// DefaultBasicOptions returns the default Basic settings.
func DefaultBasicOptions() BasicOptions {
	return BasicOptions{Vocab: DefaultVocab, Width: DefaultBasicWidth}
}

// Basic writes one vocabulary word per bit, separated by single spaces and
// wrapped to opts.Width.
func Basic(seq iter.Seq[bits.Bit], opts BasicOptions) string {
	vocab := opts.Vocab.orDefault()

	var sb strings.Builder
	for b := range seq {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(vocab.Word(b))
	}
	return wrap(sb.String(), opts.Width)
}
