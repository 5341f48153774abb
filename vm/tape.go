package vm

import (
	"math/big"
	"slices"
)

// Tape is the VM's memory. A fixed tape has a preallocated number of
// zeroed cells; a dynamic tape grows on demand and reads unset cells as
// zero. Cells hold arbitrary-precision integers.
type Tape struct {
	fixed []big.Int
	cells map[int]*big.Int
}

var zero big.Int

// NewTape returns a fixed tape of size cells, or a dynamic tape when size
// is 0.
func NewTape(size int) *Tape {
	if size > 0 {
		return &Tape{fixed: make([]big.Int, size)}
	}
	return &Tape{cells: make(map[int]*big.Int)}
}

// Dynamic reports whether the tape grows on demand.
func (t *Tape) Dynamic() bool {
	return t.fixed == nil
}

// Len returns the number of cells of a fixed tape, or the number of cells
// ever written on a dynamic tape.
func (t *Tape) Len() int {
	if t.Dynamic() {
		return len(t.cells)
	}
	return len(t.fixed)
}

// get returns the cell at i for reading. The result must not be modified.
func (t *Tape) get(i int) *big.Int {
	if !t.Dynamic() {
		return &t.fixed[i]
	}
	if c, ok := t.cells[i]; ok {
		return c
	}
	return &zero
}

// ref returns the cell at i for writing, allocating it on a dynamic tape.
func (t *Tape) ref(i int) *big.Int {
	if !t.Dynamic() {
		return &t.fixed[i]
	}
	c, ok := t.cells[i]
	if !ok {
		c = new(big.Int)
		t.cells[i] = c
	}
	return c
}

// Cell returns a copy of the value at i. Cells outside a fixed tape read
// as zero.
func (t *Tape) Cell(i int) *big.Int {
	if !t.Dynamic() && (i < 0 || i >= len(t.fixed)) {
		return new(big.Int)
	}
	return new(big.Int).Set(t.get(i))
}

// Indices returns the indices holding non-zero values, in ascending order.
func (t *Tape) Indices() []int {
	var idx []int
	if t.Dynamic() {
		for i, c := range t.cells {
			if c.Sign() != 0 {
				idx = append(idx, i)
			}
		}
		slices.Sort(idx)
		return idx
	}
	for i := range t.fixed {
		if t.fixed[i].Sign() != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// IsZero reports whether every cell is zero.
func (t *Tape) IsZero() bool {
	return len(t.Indices()) == 0
}
