package vm

import (
	"math"

	"github.com/ezrec/koala/grid"
	"github.com/ezrec/koala/isa"
)

// Registers is the register file of a single cell.
type Registers [isa.SLOT_LIMIT]int32

// Seed loads a cell's state and constants into the register file.
func (reg *Registers) Seed(rec grid.Record, meta grid.Record, id int, frame int32) {
	*reg = Registers{}
	reg[isa.SLOT_R] = rec[grid.CHANNEL_R]
	reg[isa.SLOT_G] = rec[grid.CHANNEL_G]
	reg[isa.SLOT_B] = rec[grid.CHANNEL_B]
	reg[isa.SLOT_A] = rec[grid.CHANNEL_A]
	reg[isa.SLOT_ID] = int32(id)
	reg[isa.SLOT_OFFSET] = meta[grid.META_OFFSET]
	reg[isa.SLOT_FRAME] = frame
}

// Record returns the state channels.
func (reg *Registers) Record() grid.Record {
	return grid.Record(reg[isa.SLOT_R : isa.SLOT_A+1])
}

func (reg *Registers) operand(mask isa.Slot, constant uint8) int32 {
	if mask != isa.SLOT_CONST {
		return reg[mask]
	}
	return int32(constant)
}

func boolean(cond bool) int32 {
	if cond {
		return 1
	}
	return 0
}

// pow truncates a float power to int32.
func pow(base, exp int32) int32 {
	value := math.Pow(float64(base), float64(exp))
	switch {
	case math.IsNaN(value):
		return 0
	case value >= math.MaxInt32:
		return math.MaxInt32
	case value <= math.MinInt32:
		return math.MinInt32
	}
	return int32(value)
}

// Exec executes a single instruction. state is the buffer read by the
// indirect channel reads. Returns false when the instruction ends the
// program.
func (reg *Registers) Exec(code isa.Code, state []int32) (running bool) {
	op := code.Opcode()
	mask0 := code.Mask0()

	arg0 := reg.operand(mask0, code.Const0())
	arg1 := reg.operand(code.Mask1(), code.Const1())

	dst := &reg[mask0]

	switch op {
	case isa.OP_END:
		return false
	case isa.OP_SET:
		*dst = arg1
	case isa.OP_GETR:
		*dst = grid.Get(state, int(arg1))[grid.CHANNEL_R]
	case isa.OP_GETG:
		*dst = grid.Get(state, int(arg1))[grid.CHANNEL_G]
	case isa.OP_GETB:
		*dst = grid.Get(state, int(arg1))[grid.CHANNEL_B]
	case isa.OP_ADD:
		*dst += arg1
	case isa.OP_SUB:
		*dst -= arg1
	case isa.OP_MUL:
		*dst *= arg1
	case isa.OP_DIV:
		if arg1 == 0 {
			*dst = 0
		} else {
			*dst /= arg1
		}
	case isa.OP_MOD:
		if arg1 == 0 {
			*dst = 0
		} else {
			*dst %= arg1
		}
	case isa.OP_AND:
		*dst &= arg1
	case isa.OP_OR:
		*dst |= arg1
	case isa.OP_NIL:
		if arg0 == 0 {
			*dst = arg1
		} else {
			*dst = arg0
		}
	case isa.OP_GT:
		*dst = boolean(arg0 > arg1)
	case isa.OP_LT:
		*dst = boolean(arg0 < arg1)
	case isa.OP_EGT:
		*dst = boolean(arg0 >= arg1)
	case isa.OP_ELT:
		*dst = boolean(arg0 <= arg1)
	case isa.OP_NOT:
		*dst = boolean(arg1 == 0)
	case isa.OP_POW:
		*dst = pow(arg0, arg1)
	case isa.OP_EQ:
		*dst = boolean(arg0 == arg1)
	case isa.OP_NEQ:
		*dst = boolean(arg0 != arg1)
	}

	return true
}
