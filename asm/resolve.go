package asm

import (
	"strconv"
	"strings"

	"github.com/ezrec/koala/isa"
)

// Address holds the allocated addresses of a rule.
type Address struct {
	Program int // Instruction memory entry address.
	State   int // State memory word offset.
}

// AddressTable maps rule names to their addresses.
type AddressTable map[string]Address

// resolver turns a token into an operand, for a single rule body.
type resolver struct {
	table     AddressTable
	predefine map[string]int64
	locals    map[string]isa.Slot
}

func newResolver(table AddressTable, predefine map[string]int64) *resolver {
	return &resolver{
		table:     table,
		predefine: predefine,
		locals:    map[string]isa.Slot{},
	}
}

// constant checks that value fits the 8-bit immediate field.
func constant(token string, value int64) (arg isa.Operand, err error) {
	if value < 0 || value > 0xff {
		err = ErrConstantRange{Token: token, Value: value}
		return
	}
	arg = isa.Imm(uint8(value))
	return
}

// resolve returns the operand a token denotes.
func (r *resolver) resolve(token string) (arg isa.Operand, err error) {
	if slot, ok := r.locals[token]; ok {
		arg = isa.Reg(slot)
		return
	}

	if name, ok := strings.CutPrefix(token, "$"); ok {
		addr, ok := r.table[name]
		if !ok {
			err = ErrUnknownToken(token)
			return
		}
		return constant(token, int64(addr.Program))
	}

	if addr, ok := r.table[token]; ok {
		return constant(token, int64(addr.State/4))
	}

	if slot, ok := isa.Reserved(token); ok {
		arg = isa.Reg(slot)
		return
	}

	if value, ok := r.predefine[token]; ok {
		return constant(token, value)
	}

	value, perr := strconv.ParseInt(token, 0, 64)
	if perr != nil {
		err = ErrUnknownToken(token)
		return
	}

	return constant(token, value)
}

// assign returns the slot an assignment to name writes, allocating a new
// local if needed.
func (r *resolver) assign(name string) (slot isa.Slot, err error) {
	if !ValidName(name) {
		err = ErrVariableName(name)
		return
	}

	if _, ok := isa.Constant(name); ok {
		err = ErrVariableReserved(name)
		return
	}

	slot, ok := r.locals[name]
	if ok {
		return
	}

	slot, ok = isa.Register(name)
	if ok {
		return
	}

	if len(r.locals) >= isa.VAR_LIMIT {
		err = ErrTooManyVariables
		return
	}

	slot = isa.SLOT_VAR0 + isa.Slot(len(r.locals))
	r.locals[name] = slot

	return
}
