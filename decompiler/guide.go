package decompiler

import (
	"fmt"
	"iter"
	"strings"
	"unicode"

	"github.com/chazu/mwot/pkg/bits"
)

// Guide defaults.
const (
	DefaultGuideCols = 8
	DefaultFiller    = '-'
)

// GuideOptions configures Guide.
type GuideOptions struct {
	Vocab  Vocab // zero value means DefaultVocab
	Cols   int   // bits per row; 0 means DefaultGuideCols
	Filler byte  // pads a short last row; 0 means DefaultFiller
}

// validateFiller accepts printable ASCII other than letters and the bit
// digits. Any other filler would blur the digit column or add bits.
func validateFiller(c byte) error {
	if c == 0 {
		return nil
	}
	if c <= ' ' || c >= 0x7f || unicode.IsLetter(rune(c)) || c == '0' || c == '1' {
		return fmt.Errorf("%w: filler %q must be printable ASCII, not a letter, 0 or 1", ErrInvalidOptions, c)
	}
	return nil
}

// DefaultGuideOptions returns the default Guide settings.
func DefaultGuideOptions() GuideOptions {
	return GuideOptions{Vocab: DefaultVocab, Cols: DefaultGuideCols, Filler: DefaultFiller}
}

// Guide renders seq as a writing guide. Each row shows up to opts.Cols
// bits as digits, padded to the full width with the filler, then two
// spaces and the vocabulary words for those bits:
//
//	11001111  x x zz zz x x x x
//	1-------  x
//
// The digit column has no letters, so the guide is itself MWOT source for
// the same bits.
func Guide(seq iter.Seq[bits.Bit], opts GuideOptions) string {
	var sb strings.Builder
	for line := range GuideLines(seq, opts) {
		sb.WriteString(line)
	}
	return sb.String()
}

// GuideLines yields the rows of Guide one at a time, each ending in a
// newline.
func GuideLines(seq iter.Seq[bits.Bit], opts GuideOptions) iter.Seq[string] {
	vocab := opts.Vocab.orDefault()
	cols := opts.Cols
	if cols <= 0 {
		cols = DefaultGuideCols
	}
	filler := opts.Filler
	if filler == 0 {
		filler = DefaultFiller
	}

	return func(yield func(string) bool) {
		var sb strings.Builder
		for row := range bits.Chunks(seq, cols) {
			sb.Reset()
			for _, b := range row {
				sb.WriteByte('0' + byte(b))
			}
			for range cols - len(row) {
				sb.WriteByte(filler)
			}
			sb.WriteString(" ")
			for _, b := range row {
				sb.WriteByte(' ')
				sb.WriteString(vocab.Word(b))
			}
			sb.WriteByte('\n')
			if !yield(sb.String()) {
				return
			}
		}
	}
}
