package vm

import (
	"iter"

	"github.com/chazu/mwot/pkg/bytecode"
)

// JumpTable maps every bracket of a program to its matching bracket. It is
// built once before a run and never changes afterwards.
type JumpTable struct {
	targets []int // -1 for non-bracket instructions
	pairs   int
}

// BuildJumpTable matches the brackets of prog in a single left-to-right
// scan. A ']' with no open '[' fails at its own position; a '[' left open
// at the end fails at the earliest such position.
func BuildJumpTable(prog bytecode.Program) (JumpTable, error) {
	targets := make([]int, len(prog))
	var stack []int
	pairs := 0

	for pc, op := range prog {
		targets[pc] = -1
		switch op {
		case bytecode.OpJumpZero:
			stack = append(stack, pc)
		case bytecode.OpJumpNonZero:
			if len(stack) == 0 {
				return JumpTable{}, &BracketError{Err: ErrUnmatchedCloseBracket, Pos: pc}
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			targets[pc] = open
			targets[open] = pc
			pairs++
		}
	}

	if len(stack) > 0 {
		return JumpTable{}, &BracketError{Err: ErrUnmatchedOpenBracket, Pos: stack[0]}
	}
	return JumpTable{targets: targets, pairs: pairs}, nil
}

// Target returns the matching bracket of the bracket at pc.
func (jt JumpTable) Target(pc int) (int, bool) {
	if pc < 0 || pc >= len(jt.targets) || jt.targets[pc] < 0 {
		return 0, false
	}
	return jt.targets[pc], true
}

// Pairs returns the number of matched bracket pairs.
func (jt JumpTable) Pairs() int {
	return jt.pairs
}

// All yields every (bracket, match) entry in program order. Each pair
// appears twice, once from each side.
func (jt JumpTable) All() iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		for pc, target := range jt.targets {
			if target < 0 {
				continue
			}
			if !yield(pc, target) {
				return
			}
		}
	}
}
