package vm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnmatchedOpenBracket reports a '[' without a matching ']'.
	ErrUnmatchedOpenBracket = errors.New("unmatched '['")

	// ErrUnmatchedCloseBracket reports a ']' without a matching '['.
	ErrUnmatchedCloseBracket = errors.New("unmatched ']'")

	// ErrPointerOutOfRange reports a pointer move off a non-wrapping tape.
	ErrPointerOutOfRange = errors.New("pointer out of range")
)

// BracketError is returned by BuildJumpTable. Err is one of the unmatched
// bracket sentinels.
type BracketError struct {
	Err error
	Pos int // instruction index of the offending bracket
}

func (e *BracketError) Error() string {
	return fmt.Sprintf("%v at instruction %d", e.Err, e.Pos)
}

func (e *BracketError) Unwrap() error {
	return e.Err
}

// PointerError aborts a run whose pointer left the tape.
type PointerError struct {
	Pointer int // where the pointer would have moved
	PC      int // instruction that moved it
}

func (e *PointerError) Error() string {
	return fmt.Sprintf("%v: %d (instruction %d)", ErrPointerOutOfRange, e.Pointer, e.PC)
}

func (e *PointerError) Unwrap() error {
	return ErrPointerOutOfRange
}
