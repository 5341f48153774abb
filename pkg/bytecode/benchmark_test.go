package bytecode

import (
	"strings"
	"testing"

	"github.com/chazu/mwot/pkg/bits"
)

// ============================================================
// Text Benchmarks
// ============================================================

func BenchmarkParse(b *testing.B) {
	text := strings.Repeat("++++++++[>++++<-]>.  comment\n", 256)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Parse(text, false)
	}
}

// ============================================================
// Packing Benchmarks
// ============================================================

func BenchmarkCollect(b *testing.B) {
	prog := Parse(strings.Repeat("+[>.<-],", 512), false)
	stream := make([]bits.Bit, 0, prog.Len()*GroupSize)
	for bit := range ToBits(prog.All()) {
		stream = append(stream, bit)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Collect(bits.Slice(stream)); err != nil {
			b.Fatalf("Collect failed: %v", err)
		}
	}
}

func BenchmarkToBits(b *testing.B) {
	prog := Parse(strings.Repeat("+[>.<-],", 512), false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for range ToBits(prog.All()) {
		}
	}
}
