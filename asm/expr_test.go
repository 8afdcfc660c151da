package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/koala/isa"
)

func constResolve(token string) (arg isa.Operand, err error) {
	r := newResolver(AddressTable{}, nil)
	return r.resolve(token)
}

func TestTokenize(t *testing.T) {
	assert := assert.New(t)

	tokens, err := tokenize("a>=b??(R(ID+1))!=0x1f $Rule")
	assert.NoError(err)
	assert.Equal([]string{"a", ">=", "b", "??", "(", "R", "(", "ID", "+", "1", ")", ")", "!=", "0x1f", "$Rule"}, tokens)

	_, err = tokenize("a @ b")
	assert.ErrorAs(err, new(ErrParseExpression))
}

func TestCompileExpression(t *testing.T) {
	assert := assert.New(t)

	buf0 := isa.Reg(isa.SLOT_BUF0)
	buf1 := isa.Reg(isa.SLOT_BUF1)

	table := [](struct {
		expr  string
		codes []isa.Code
	}){
		{"2 + 3 * 4", []isa.Code{
			isa.MakeCode(isa.OP_SET, buf0, isa.Imm(2)),
			isa.MakeCode(isa.OP_ADD, buf0, isa.Imm(3)),
			isa.MakeCode(isa.OP_MUL, buf0, isa.Imm(4)),
		}},
		{"-1", []isa.Code{
			isa.MakeCode(isa.OP_SET, buf0, isa.Imm(0)),
			isa.MakeCode(isa.OP_SUB, buf0, isa.Imm(1)),
		}},
		{"R * (G - 1)", []isa.Code{
			isa.MakeCode(isa.OP_SET, buf0, isa.Reg(isa.SLOT_R)),
			isa.MakeCode(isa.OP_SET, buf1, isa.Reg(isa.SLOT_G)),
			isa.MakeCode(isa.OP_SUB, buf1, isa.Imm(1)),
			isa.MakeCode(isa.OP_MUL, buf0, buf1),
		}},
		{"G(ID + 1)", []isa.Code{
			isa.MakeCode(isa.OP_SET, buf1, isa.Reg(isa.SLOT_ID)),
			isa.MakeCode(isa.OP_ADD, buf1, isa.Imm(1)),
			isa.MakeCode(isa.OP_GETG, buf1, buf1),
			isa.MakeCode(isa.OP_SET, buf0, buf1),
		}},
		{"(-R)", []isa.Code{
			isa.MakeCode(isa.OP_SET, buf1, isa.Imm(0)),
			isa.MakeCode(isa.OP_SUB, buf1, isa.Reg(isa.SLOT_R)),
			isa.MakeCode(isa.OP_SET, buf0, buf1),
		}},
		{"!RAND", []isa.Code{
			isa.MakeCode(isa.OP_NOT, buf0, isa.Reg(isa.SLOT_RAND)),
		}},
		{"R ?? 7", []isa.Code{
			isa.MakeCode(isa.OP_SET, buf0, isa.Reg(isa.SLOT_R)),
			isa.MakeCode(isa.OP_NIL, buf0, isa.Imm(7)),
		}},
	}

	for _, entry := range table {
		codes, err := compileExpression(entry.expr, constResolve)
		if assert.NoError(err, entry.expr) {
			assert.Equal(entry.codes, codes, entry.expr)
		}
	}
}

func TestCompileExpressionInvalid(t *testing.T) {
	assert := assert.New(t)

	table := []string{
		"1 + + 2",
		"1 +",
		"* 2",
		"(1",
		"1)",
		"()",
		"R()",
		"A(1)",
		"(1 -)",
	}

	for _, expr := range table {
		_, err := compileExpression(expr, constResolve)
		assert.ErrorAs(err, new(ErrParseExpression), expr)
	}

	_, err := compileExpression("", constResolve)
	assert.ErrorIs(err, ErrEmptyExpression)

	_, err = compileExpression("(((1)))", constResolve)
	assert.NoError(err)

	_, err = compileExpression("((((1))))", constResolve)
	assert.ErrorIs(err, ErrNestingDepth)
}
