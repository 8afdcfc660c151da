// Package isa defines the koala instruction set.
//
// Every instruction is a single 32-bit word: an 8-bit opcode followed by two
// operand selectors (masks) and two 8-bit immediates. A zero mask selects the
// immediate, any other mask selects a slot of the per-cell register file.
//
//	bits  0-7   opcode
//	bits  8-11  mask0
//	bits 12-15  mask1
//	bits 16-23  constant0
//	bits 24-31  constant1
//
// Opcodes only use bits 0-4, so bits 6 and 7 hold the fifth bit of mask0 and
// mask1 respectively. They stay clear for slots 0-15, which is every slot
// except the upper per-rule variables.
package isa
