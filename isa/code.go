package isa

import (
	"fmt"
	"strings"
)

// Operand selects either a slot (Mask != 0) or an immediate.
type Operand struct {
	Mask     Slot
	Constant uint8
}

// Reg selects a register file slot.
func Reg(slot Slot) Operand {
	return Operand{Mask: slot}
}

// Imm selects an immediate constant.
func Imm(value uint8) Operand {
	return Operand{Constant: value}
}

func (arg Operand) String() string {
	if arg.Mask == SLOT_CONST {
		return fmt.Sprintf("%d", arg.Constant)
	}
	return arg.Mask.String()
}

// Code is a single 32-bit instruction word.
type Code uint32

// MakeCode packs an opcode and up to two operands. Operand i is placed at
// mask bits 8+4i and constant bits 16+8i. Masks are limited to 5 bits.
func MakeCode(op Opcode, args ...Operand) Code {
	word := uint32(op) & 0x3f
	for n, arg := range args[:min(len(args), 2)] {
		mask := uint32(arg.Mask)
		word |= (mask & 0xf) << (n*4 + 8)
		word |= ((mask >> 4) & 1) << (n + 6)
		word |= uint32(arg.Constant) << (n*8 + 16)
	}
	return Code(word)
}

// Opcode returns the operation.
func (code Code) Opcode() Opcode {
	return Opcode(code & 0x3f)
}

// Mask0 returns the operand-0 selector.
func (code Code) Mask0() Slot {
	return Slot((code>>8)&0xf | ((code>>6)&1)<<4)
}

// Mask1 returns the operand-1 selector.
func (code Code) Mask1() Slot {
	return Slot((code>>12)&0xf | ((code>>7)&1)<<4)
}

// Const0 returns the operand-0 immediate.
func (code Code) Const0() uint8 {
	return uint8(code >> 16)
}

// Const1 returns the operand-1 immediate.
func (code Code) Const1() uint8 {
	return uint8(code >> 24)
}

// Decode splits the word into its opcode and operands.
func (code Code) Decode() (op Opcode, arg0, arg1 Operand) {
	op = code.Opcode()
	arg0 = Operand{Mask: code.Mask0(), Constant: code.Const0()}
	arg1 = Operand{Mask: code.Mask1(), Constant: code.Const1()}
	return
}

// String returns the disassembled instruction, as "add __BUF0 5".
func (code Code) String() string {
	op, arg0, arg1 := code.Decode()
	words := []string{op.String()}
	if op.Arguments() == 2 {
		words = append(words, arg0.String(), arg1.String())
	}
	return strings.Join(words, " ")
}
