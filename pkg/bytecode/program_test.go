package bytecode

import (
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		shebangIn bool
		want      string
	}{
		{"empty", "", true, ""},
		{"comments dropped", "add one: +\nprint it .", true, "+."},
		{"shebang skipped", "#!/usr/bin/env -S mwot -x -b\n+[-]", true, "+[-]"},
		{"shebang kept", "#!/x-y\n+", false, "-+"},
		{"shebang only", "#!+++", true, ""},
		{"all symbols", "><+-.,[]", true, "><+-.,[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.text, tt.shebangIn).String()
			if got != tt.want {
				t.Errorf("Parse(%q, %v) = %q, want %q", tt.text, tt.shebangIn, got, tt.want)
			}
		})
	}
}

func TestProgramAll(t *testing.T) {
	prog := Parse("+-><", false)
	got := slices.Collect(prog.All())
	want := []Opcode{OpInc, OpDec, OpRight, OpLeft}
	if !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
	if prog.Len() != 4 {
		t.Errorf("Len() = %d, want 4", prog.Len())
	}
}
