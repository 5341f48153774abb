// Package bytecode defines the eight brainfuck instructions and the two
// ways a program travels: as brainfuck text and as a stream of bits.
//
// # Instructions
//
// Each opcode is its 3-bit code, so an Opcode doubles as the group it
// packs into:
//
//	000 >  RIGHT          100 .  OUTPUT
//	001 <  LEFT           101 ,  INPUT
//	010 +  INC            110 [  JUMP_ZERO
//	011 -  DEC            111 ]  JUMP_NONZERO
//
// # Packing
//
// FromBits reads groups of three bits, most significant first. A stream
// whose length is not a multiple of three ends in a *GroupError. ToBits
// is the inverse and never fails.
//
// # Text
//
// Parse keeps the eight symbols of a brainfuck text and ignores every
// other character, optionally skipping a leading "#!" line first.
package bytecode
