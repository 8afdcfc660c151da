package asm

import (
	"strings"

	"github.com/ezrec/koala/isa"
)

// exprCompiler compiles an infix expression into accumulator code. There
// is no operator precedence: operators apply strictly left to right, and
// each parenthesis level accumulates into its own scratch buffer.
type exprCompiler struct {
	text    string
	tokens  []string
	pos     int
	resolve func(token string) (isa.Operand, error)
	codes   []isa.Code
}

// compileExpression compiles text so that its value ends up in __BUF0.
func compileExpression(text string, resolve func(string) (isa.Operand, error)) (codes []isa.Code, err error) {
	tokens, err := tokenize(text)
	if err != nil {
		return
	}

	ec := &exprCompiler{
		text:    text,
		tokens:  normalize(tokens),
		resolve: resolve,
	}

	err = ec.validate()
	if err != nil {
		return
	}

	err = ec.level(0)
	if err != nil {
		return
	}

	codes = ec.codes

	return
}

// indirect reports the channel read opcode if tokens[n] opens an
// indirect read such as 'R('.
func indirect(tokens []string, n int) (op isa.Opcode, ok bool) {
	if n+1 >= len(tokens) || tokens[n+1] != "(" {
		return
	}
	return isa.Indirect(tokens[n])
}

// normalize inserts a 0 operand before a leading sign, at the start of
// the expression and of every group.
func normalize(tokens []string) (out []string) {
	out = make([]string, 0, len(tokens)+2)
	for n, tok := range tokens {
		if tok == "+" || tok == "-" {
			if n == 0 || tokens[n-1] == "(" {
				out = append(out, "0")
			}
		}
		out = append(out, tok)
	}
	return
}

// validate rejects malformed token sequences.
func (ec *exprCompiler) validate() (err error) {
	tokens := ec.tokens
	if len(tokens) == 0 {
		return ErrEmptyExpression
	}

	invalid := ErrParseExpression(strings.TrimSpace(ec.text))

	depth := 0
	opening := true // At the start of the expression or a group.
	operator := false

	for n, tok := range tokens {
		switch {
		case tok == "(":
			depth++
			opening = true
			operator = false
			continue
		case tok == ")":
			if opening || operator || depth == 0 {
				return invalid
			}
			depth--
		case isa.IsOperator(tok):
			if operator {
				return invalid
			}
			if opening && tok != "!" {
				return invalid
			}
			operator = true
			opening = false
			continue
		case tok == "A" && n+1 < len(tokens) && tokens[n+1] == "(":
			return invalid
		}
		opening = false
		operator = false
	}

	if depth != 0 || operator {
		return invalid
	}

	return
}

// emit appends a single instruction.
func (ec *exprCompiler) emit(op isa.Opcode, args ...isa.Operand) {
	ec.codes = append(ec.codes, isa.MakeCode(op, args...))
}

// level compiles tokens into buffer 'depth' until the matching ')' or the
// end of the expression.
func (ec *exprCompiler) level(depth int) (err error) {
	acc := isa.Reg(isa.Buf(depth))
	sign := isa.OP_SET

	for ec.pos < len(ec.tokens) {
		n := ec.pos
		tok := ec.tokens[n]
		ec.pos++

		if op, ok := indirect(ec.tokens, n); ok {
			ec.pos++
			err = ec.group(depth)
			if err != nil {
				return
			}
			inner := isa.Reg(isa.Buf(depth + 1))
			ec.emit(op, inner, inner)
			ec.emit(sign, acc, inner)
			continue
		}

		switch {
		case tok == "(":
			err = ec.group(depth)
			if err != nil {
				return
			}
			ec.emit(sign, acc, isa.Reg(isa.Buf(depth+1)))
		case tok == ")":
			return
		case isa.IsOperator(tok):
			sign, _ = isa.Operator(tok)
		default:
			var arg isa.Operand
			arg, err = ec.resolve(tok)
			if err != nil {
				return
			}
			ec.emit(sign, acc, arg)
		}
	}

	return
}

// group compiles a parenthesised group one buffer deeper.
func (ec *exprCompiler) group(depth int) (err error) {
	if depth+1 >= isa.BUF_COUNT {
		return ErrNestingDepth
	}
	return ec.level(depth + 1)
}
