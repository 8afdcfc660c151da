package isa

import (
	"fmt"
	"strings"
)

// Opcode is an instruction operation.
type Opcode uint8

const (
	OP_END  = Opcode(0x00) // end
	OP_SET  = Opcode(0x01) // set
	OP_GETR = Opcode(0x02) // getr
	OP_GETG = Opcode(0x03) // getg
	OP_GETB = Opcode(0x04) // getb

	OP_ADD = Opcode(0x10) // add
	OP_SUB = Opcode(0x11) // sub
	OP_MUL = Opcode(0x12) // mul
	OP_DIV = Opcode(0x13) // div
	OP_MOD = Opcode(0x14) // mod
	OP_AND = Opcode(0x15) // and
	OP_OR  = Opcode(0x16) // or
	OP_NIL = Opcode(0x17) // nil
	OP_GT  = Opcode(0x18) // gt
	OP_LT  = Opcode(0x19) // lt
	OP_EGT = Opcode(0x1a) // egt
	OP_ELT = Opcode(0x1b) // elt
	OP_NOT = Opcode(0x1c) // not
	OP_POW = Opcode(0x1d) // pow
	OP_EQ  = Opcode(0x1e) // eq
	OP_NEQ = Opcode(0x1f) // neq
)

// Instruction describes a mnemonic of the classic instruction form.
type Instruction struct {
	Opcode    Opcode // Encoded operation.
	Arguments int    // Required argument count.
}

// instructionMap maps the lowercase mnemonics to their instruction.
var instructionMap = map[string]Instruction{
	"end":  {OP_END, 0},
	"set":  {OP_SET, 2},
	"getr": {OP_GETR, 2},
	"getg": {OP_GETG, 2},
	"getb": {OP_GETB, 2},

	"add": {OP_ADD, 2},
	"sub": {OP_SUB, 2},
	"mul": {OP_MUL, 2},
	"div": {OP_DIV, 2},
	"mod": {OP_MOD, 2},
	"and": {OP_AND, 2},
	"or":  {OP_OR, 2},
	"nil": {OP_NIL, 2},
	"gt":  {OP_GT, 2},
	"lt":  {OP_LT, 2},
	"egt": {OP_EGT, 2},
	"elt": {OP_ELT, 2},
	"not": {OP_NOT, 2},
	"pow": {OP_POW, 2},
	"eq":  {OP_EQ, 2},
	"neq": {OP_NEQ, 2},
}

// opcodeName is the reverse of instructionMap.
var opcodeName = func() map[Opcode]string {
	names := make(map[Opcode]string, len(instructionMap))
	for name, inst := range instructionMap {
		names[inst.Opcode] = name
	}
	return names
}()

// operatorMap maps expression operators to the opcode applied to the
// accumulator.
var operatorMap = map[string]Opcode{
	"+":  OP_ADD,
	"-":  OP_SUB,
	"*":  OP_MUL,
	"/":  OP_DIV,
	"%":  OP_MOD,
	"&":  OP_AND,
	"|":  OP_OR,
	"??": OP_NIL,
	">":  OP_GT,
	"<":  OP_LT,
	">=": OP_EGT,
	"<=": OP_ELT,
	"!":  OP_NOT,
	"^":  OP_POW,
	"==": OP_EQ,
	"!=": OP_NEQ,
}

// Lookup finds the instruction for a mnemonic, ignoring case.
func Lookup(mnemonic string) (inst Instruction, ok bool) {
	inst, ok = instructionMap[strings.ToLower(mnemonic)]
	return
}

// Operator returns the opcode for an expression operator token.
func Operator(token string) (op Opcode, ok bool) {
	op, ok = operatorMap[token]
	return
}

// IsOperator reports whether token is an expression operator.
func IsOperator(token string) bool {
	_, ok := operatorMap[token]
	return ok
}

// Valid reports whether the opcode is one of the defined operations.
func (op Opcode) Valid() bool {
	_, ok := opcodeName[op]
	return ok
}

// Arguments returns the number of operands the opcode consumes.
func (op Opcode) Arguments() int {
	if op == OP_END {
		return 0
	}
	return 2
}

// Indirect returns the register-indirect read opcode for a state channel
// name, if the channel can be read indirectly.
func Indirect(channel string) (op Opcode, ok bool) {
	switch channel {
	case "R":
		return OP_GETR, true
	case "G":
		return OP_GETG, true
	case "B":
		return OP_GETB, true
	}
	return
}

func (op Opcode) String() string {
	name, ok := opcodeName[op]
	if !ok {
		return fmt.Sprintf("op%#02x", uint8(op))
	}
	return name
}
