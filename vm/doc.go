// Package vm implements the brainfuck virtual machine.
//
// This package contains:
//   - The tape, fixed or growing in both directions
//   - Cells of configurable bit width, or unbounded
//   - Bracket matching ahead of execution
//   - The interpreter loop with its input and output wiring
//   - CBOR snapshots of the final state
//   - A disassembler for listing programs
package vm
