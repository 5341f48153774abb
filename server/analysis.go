package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/chazu/mwot/compiler"
	"github.com/chazu/mwot/pkg/bits"
	"github.com/chazu/mwot/pkg/bytecode"
	"github.com/chazu/mwot/vm"
)

// Document is an open MWOT source file together with what its words
// compile to.
type Document struct {
	Text    string
	Words   []compiler.Word
	Program bytecode.Program

	bitOf   []int // bit index of each word, -1 for words without letters
	wordOf  []int // word index of each bit
	lines   []int // byte offset of each line start
	trailer int   // bits left over after the last complete instruction

	Problems []Problem
}

// Problem is a diagnostic attached to a run of words.
type Problem struct {
	First, Last int // word indices, inclusive
	Severity    protocol.DiagnosticSeverity
	Message     string
}

// Analyze scans text and compiles it to instructions, recording an
// incomplete trailing group as a warning and unmatched brackets as errors.
func Analyze(text string) *Document {
	d := &Document{Text: text, lines: []int{0}}
	for i, c := range text {
		if c == '\n' {
			d.lines = append(d.lines, i+1)
		}
	}

	s := compiler.NewScanner(compiler.FromString(text))
	var seq []bits.Bit
	for w := range s.Words() {
		d.bitOf = append(d.bitOf, -1)
		if b, ok := w.Bit(); ok {
			d.bitOf[len(d.Words)] = len(seq)
			d.wordOf = append(d.wordOf, len(d.Words))
			seq = append(seq, b)
		}
		d.Words = append(d.Words, w)
	}

	for op, err := range bytecode.FromBits(bits.Slice(seq)) {
		var ge *bytecode.GroupError
		if errors.As(err, &ge) {
			d.trailer = ge.Bits
			d.Problems = append(d.Problems, Problem{
				First:    d.wordOf[ge.Offset],
				Last:     d.wordOf[len(d.wordOf)-1],
				Severity: protocol.DiagnosticSeverityWarning,
				Message:  ge.Error(),
			})
			break
		}
		d.Program = append(d.Program, op)
	}

	if _, err := vm.BuildJumpTable(d.Program); err != nil {
		var be *vm.BracketError
		if errors.As(err, &be) {
			w := d.instructionWord(be.Pos)
			d.Problems = append(d.Problems, Problem{
				First:    w,
				Last:     w,
				Severity: protocol.DiagnosticSeverityError,
				Message:  be.Error(),
			})
		}
	}

	sort.SliceStable(d.Problems, func(i, j int) bool {
		return d.Problems[i].First < d.Problems[j].First
	})
	return d
}

// instructionWord returns the word whose bit completes instruction pc.
func (d *Document) instructionWord(pc int) int {
	return d.wordOf[pc*bytecode.GroupSize+bytecode.GroupSize-1]
}

// Diagnostics converts the document's problems to LSP diagnostics.
func (d *Document) Diagnostics() []protocol.Diagnostic {
	source := lspName
	diagnostics := []protocol.Diagnostic{}
	for _, p := range d.Problems {
		severity := p.Severity
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: d.Range(p.First).Start,
				End:   d.Range(p.Last).End,
			},
			Severity: &severity,
			Source:   &source,
			Message:  p.Message,
		})
	}
	return diagnostics
}

// Range returns the LSP range of word i. Characters are counted in UTF-16
// code units.
func (d *Document) Range(i int) protocol.Range {
	w := d.Words[i]
	line := w.Pos.Line - 1
	start := utf16Len(d.Text[d.lines[line]:w.Pos.Offset])
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start + utf16Len(w.Text))},
	}
}

// WordAt returns the index of the word under pos. A cursor just past the
// end of a word still counts as on it.
func (d *Document) WordAt(pos protocol.Position) (int, bool) {
	i := sort.Search(len(d.Words), func(i int) bool {
		r := d.Range(i)
		return r.Start.Line > pos.Line || (r.Start.Line == pos.Line && r.End.Character >= pos.Character)
	})
	if i == len(d.Words) {
		return 0, false
	}
	r := d.Range(i)
	if r.Start.Line != pos.Line || r.Start.Character > pos.Character {
		return 0, false
	}
	return i, true
}

// Hover describes word i: its letter count, the bit it carries and the
// instruction that bit belongs to.
func (d *Document) Hover(i int) *protocol.Hover {
	w := d.Words[i]
	var b strings.Builder
	fmt.Fprintf(&b, "`%s`: ", w.Text)

	bit := d.bitOf[i]
	if bit < 0 {
		b.WriteString("no letters, carries no bit")
	} else {
		fmt.Fprintf(&b, "%d letter%s, bit **%d** (bit %d)", w.Letters, plural(w.Letters), w.Letters&1, bit)

		pc := bit / bytecode.GroupSize
		if pc < len(d.Program) {
			op := d.Program[pc]
			fmt.Fprintf(&b, "\n\ninstruction %d: `%c` %s (`%03b`)", pc, op.Symbol(), op, byte(op))
		} else {
			fmt.Fprintf(&b, "\n\npart of an incomplete group of %d bit%s", d.trailer, plural(d.trailer))
		}
	}

	r := d.Range(i)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
		Range: &r,
	}
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
