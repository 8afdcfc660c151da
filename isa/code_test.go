package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeCode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name string
		code Code
		word uint32
	}){
		{"end", MakeCode(OP_END), 0x0000_0000},
		{"set_r_5", MakeCode(OP_SET, Reg(SLOT_R), Imm(5)), 0x0500_0101},
		{"add_buf0_g", MakeCode(OP_ADD, Reg(SLOT_BUF0), Reg(SLOT_G)), 0x0000_2910},
		{"set_a_const", MakeCode(OP_SET, Imm(0xaa), Imm(0xbb)), 0xbbaa_0001},
		{"getr_buf1_buf1", MakeCode(OP_GETR, Reg(SLOT_BUF1), Reg(SLOT_BUF1)), 0x0000_aa02},
		{"neq_var0_rand", MakeCode(OP_NEQ, Reg(SLOT_VAR0), Reg(SLOT_RAND)), 0x0000_8d1f},
		{"set_s16_s17", MakeCode(OP_SET, Reg(16), Reg(17)), 0x0000_10c1},
	}

	for _, entry := range table {
		assert.Equal(entry.word, uint32(entry.code), entry.name)
	}
}

func TestCodeDecode(t *testing.T) {
	assert := assert.New(t)

	code := Code(0x0703_4511)
	op, arg0, arg1 := code.Decode()
	assert.Equal(OP_SUB, op)
	assert.Equal(Operand{Mask: 5, Constant: 3}, arg0)
	assert.Equal(Operand{Mask: 4, Constant: 7}, arg1)

	code = MakeCode(OP_SET, Reg(SLOT_VAR0+14), Reg(SLOT_VAR0+13))
	assert.Equal(OP_SET, code.Opcode())
	assert.Equal(Slot(27), code.Mask0())
	assert.Equal(Slot(26), code.Mask1())
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("end", MakeCode(OP_END).String())
	assert.Equal("set R 5", MakeCode(OP_SET, Reg(SLOT_R), Imm(5)).String())
	assert.Equal("getg __BUF1 __BUF1", MakeCode(OP_GETG, Reg(SLOT_BUF1), Reg(SLOT_BUF1)).String())
	assert.Equal("pow s14 FRAME", MakeCode(OP_POW, Reg(SLOT_VAR0+1), Reg(SLOT_FRAME)).String())
}

func TestLookup(t *testing.T) {
	assert := assert.New(t)

	inst, ok := Lookup("ADD")
	assert.True(ok)
	assert.Equal(Instruction{OP_ADD, 2}, inst)

	inst, ok = Lookup("end")
	assert.True(ok)
	assert.Equal(0, inst.Arguments)

	_, ok = Lookup("jmp")
	assert.False(ok)

	assert.Equal(21, len(instructionMap))
	for name, inst := range instructionMap {
		assert.True(inst.Opcode.Valid(), name)
		assert.Equal(name, inst.Opcode.String())
		assert.Equal(inst.Arguments, inst.Opcode.Arguments(), name)
	}
}

func TestOperator(t *testing.T) {
	assert := assert.New(t)

	op, ok := Operator("??")
	assert.True(ok)
	assert.Equal(OP_NIL, op)

	op, ok = Operator(">=")
	assert.True(ok)
	assert.Equal(OP_EGT, op)

	assert.False(IsOperator("="))
	assert.False(IsOperator("("))
	assert.Equal(16, len(operatorMap))
}

func FuzzCodeRoundTrip(f *testing.F) {
	f.Add(uint8(OP_SET), uint8(1), uint8(0), uint8(0), uint8(42))
	f.Add(uint8(OP_NEQ), uint8(27), uint8(26), uint8(255), uint8(255))
	f.Add(uint8(OP_END), uint8(0), uint8(0), uint8(0), uint8(0))

	f.Fuzz(func(t *testing.T, op uint8, mask0 uint8, mask1 uint8, const0 uint8, const1 uint8) {
		assert := assert.New(t)

		opcode := Opcode(op & 0x1f)
		arg0 := Operand{Mask: Slot(mask0 % SLOT_LIMIT), Constant: const0}
		arg1 := Operand{Mask: Slot(mask1 % SLOT_LIMIT), Constant: const1}

		code := MakeCode(opcode, arg0, arg1)
		dop, darg0, darg1 := code.Decode()
		assert.Equal(opcode, dop)
		assert.Equal(arg0, darg0)
		assert.Equal(arg1, darg1)

		if arg0.Mask < 16 && arg1.Mask < 16 {
			assert.Equal(uint32(0), uint32(code)&0xe0)
		}
	})
}
