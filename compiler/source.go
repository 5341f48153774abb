package compiler

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// SourceKind says how the characters of a Source are decoded.
type SourceKind uint8

const (
	// TextStream sources are decoded as UTF-8; any Unicode letter counts
	// towards a word's letter count.
	TextStream SourceKind = iota

	// ByteStream sources are decoded as ASCII. Bytes outside the ASCII
	// range are dropped before word splitting.
	ByteStream
)

// String returns a human-readable name for the kind.
func (k SourceKind) String() string {
	switch k {
	case TextStream:
		return "text"
	case ByteStream:
		return "bytes"
	default:
		return fmt.Sprintf("SourceKind(%d)", k)
	}
}

// Source is MWOT source code together with how it should be decoded. The
// kind is chosen by the caller; it is never guessed from the content.
type Source struct {
	Kind   SourceKind
	Reader io.Reader
}

// Text wraps r as a UTF-8 text source.
func Text(r io.Reader) Source {
	return Source{Kind: TextStream, Reader: r}
}

// Bytes wraps r as an ASCII byte source.
func Bytes(r io.Reader) Source {
	return Source{Kind: ByteStream, Reader: r}
}

// FromString returns a text source reading s.
func FromString(s string) Source {
	return Text(strings.NewReader(s))
}

// FromBytes returns a byte source reading b.
func FromBytes(b []byte) Source {
	return Bytes(bytes.NewReader(b))
}

// Deshebang removes a leading shebang line from s. A shebang line starts
// with the two characters "#!" and runs through the first newline; if
// there is no newline the whole string is dropped.
func Deshebang(s string) string {
	if !strings.HasPrefix(s, "#!") {
		return s
	}
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return ""
}
