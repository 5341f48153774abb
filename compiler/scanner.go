package compiler

import (
	"bufio"
	"io"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/chazu/mwot/pkg/bits"
)

// ---------------------------------------------------------------------------
// Scanner: splits MWOT source into words
// ---------------------------------------------------------------------------

// Position is a location in source code.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number, counted in characters
}

// Word is a maximal run of non-whitespace characters.
type Word struct {
	Text    string
	Pos     Position
	Letters int // number of letters in Text
}

// Bit returns the parity of the word's letter count. ok is false for words
// without letters, which carry no bit.
func (w Word) Bit() (b bits.Bit, ok bool) {
	if w.Letters == 0 {
		return 0, false
	}
	return bits.Of(w.Letters), true
}

type char struct {
	r   rune
	pos Position
}

// Scanner reads words from a Source, in the manner of bufio.Scanner. A
// leading shebang line is skipped. Scanning is lazy: the underlying reader
// is consumed only as far as the current word.
type Scanner struct {
	r       *bufio.Reader
	kind    SourceKind
	pending []char // characters read ahead while probing for a shebang
	started bool
	done    bool
	err     error
	word    Word

	offset int
	line   int
	col    int
}

// NewScanner creates a scanner over src.
func NewScanner(src Source) *Scanner {
	return &Scanner{
		r:    bufio.NewReader(src.Reader),
		kind: src.Kind,
		line: 1,
		col:  1,
	}
}

// readChar returns the next decoded character. ok is false at end of input
// or on a read error, which is kept for Err.
func (s *Scanner) readChar() (c char, ok bool) {
	if len(s.pending) > 0 {
		c = s.pending[0]
		s.pending = s.pending[1:]
		return c, true
	}
	for {
		pos := Position{Offset: s.offset, Line: s.line, Column: s.col}
		var (
			r    rune
			size int
			err  error
		)
		if s.kind == ByteStream {
			var b byte
			b, err = s.r.ReadByte()
			r, size = rune(b), 1
		} else {
			r, size, err = s.r.ReadRune()
		}
		if err != nil {
			if err != io.EOF {
				s.err = err
			}
			return char{}, false
		}
		s.offset += size
		if s.kind == ByteStream && r >= utf8.RuneSelf {
			continue
		}
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
		return char{r: r, pos: pos}, true
	}
}

// skipShebang drops a leading "#!" line. Characters read while probing are
// pushed back when there is no shebang.
func (s *Scanner) skipShebang() {
	first, ok := s.readChar()
	if !ok {
		return
	}
	if first.r != '#' {
		s.pending = append(s.pending, first)
		return
	}
	second, ok := s.readChar()
	if !ok {
		s.pending = append(s.pending, first)
		return
	}
	if second.r != '!' {
		s.pending = append(s.pending, first, second)
		return
	}
	for {
		c, ok := s.readChar()
		if !ok || c.r == '\n' {
			return
		}
	}
}

// Scan advances to the next word, which is then available through Word.
// It returns false at end of input or after a read error.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}
	if !s.started {
		s.started = true
		s.skipShebang()
	}

	var c char
	var ok bool
	for {
		c, ok = s.readChar()
		if !ok {
			s.done = true
			return false
		}
		if !IsSpace(c.r) {
			break
		}
	}

	var sb strings.Builder
	word := Word{Pos: c.pos}
	for {
		sb.WriteRune(c.r)
		if unicode.IsLetter(c.r) {
			word.Letters++
		}
		c, ok = s.readChar()
		if !ok || IsSpace(c.r) {
			break
		}
	}
	word.Text = sb.String()
	s.word = word
	return true
}

// Word returns the word found by the last call to Scan.
func (s *Scanner) Word() Word {
	return s.word
}

// Err returns the first non-EOF read error.
func (s *Scanner) Err() error {
	return s.err
}

// Words returns the remaining words as a single-pass sequence.
func (s *Scanner) Words() iter.Seq[Word] {
	return func(yield func(Word) bool) {
		for s.Scan() {
			if !yield(s.word) {
				return
			}
		}
	}
}

// Bits returns the parity bits of the remaining words, skipping words
// without letters. The sequence is single-pass.
func (s *Scanner) Bits() iter.Seq[bits.Bit] {
	return func(yield func(bits.Bit) bool) {
		for s.Scan() {
			b, ok := s.word.Bit()
			if !ok {
				continue
			}
			if !yield(b) {
				return
			}
		}
	}
}

// IsSpace reports whether r separates words: unicode.IsSpace plus the
// information separators U+001C to U+001F.
func IsSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// LetterCount returns how many characters of word are letters.
func LetterCount(word string) int {
	n := 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
