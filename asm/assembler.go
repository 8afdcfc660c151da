package asm

import (
	"io"
	"log"
	"maps"
	"strings"

	"go.starlark.net/starlark"

	"github.com/ezrec/koala/grid"
	"github.com/ezrec/koala/isa"
)

// Assembler is a two pass compiler from rule source text to a Program.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	predefine map[string]int64 // Predefines
}

// Predefine defines a named constant, or redefines an existing one.
func (asm *Assembler) Predefine(name string, value int64) {
	if asm.predefine == nil {
		asm.predefine = map[string]int64{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// Compile compiles source text with a default assembler.
func Compile(source string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(source))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	rules, err := Extract(input)
	if err != nil {
		return
	}

	return asm.Assemble(rules)
}

// Assemble lays out and compiles rules in declaration order.
//
// The first pass sees every rule at program address 0, with state
// addresses already final, and yields the address table used by the
// second pass. Instruction count never depends on an address, so the
// second pass reproduces the first pass layout.
func (asm *Assembler) Assemble(rules []*Rule) (prog *Program, err error) {
	table := AddressTable{}
	state := 0
	for _, rule := range rules {
		table[rule.Name] = Address{State: state}
		state += rule.Count * grid.RECORD_WORDS
	}

	_, layout, err := asm.pass(rules, table)
	if err != nil {
		return
	}

	prog, final, err := asm.pass(rules, layout)
	if err != nil {
		prog = nil
		return
	}

	if !maps.Equal(layout, final) {
		prog = nil
		err = ErrLayoutUnstable
		return
	}

	if asm.Verbose {
		log.Printf("koala: %d rules, %d instructions, %dx%d grid", len(prog.Order), len(prog.Code), prog.Width, prog.Height)
	}

	return
}

// pass compiles every rule against a fixed address table, returning the
// program and the addresses it allocated.
func (asm *Assembler) pass(rules []*Rule, table AddressTable) (prog *Program, layout AddressTable, err error) {
	prog = &Program{
		Rules: make(map[string]*Rule, len(rules)),
	}
	layout = make(AddressTable, len(rules))

	counts := make(map[string]int, len(rules))
	for _, rule := range rules {
		counts[rule.Name] = rule.Count
	}
	pred := asm.evalEnv(table, counts)

	end := isa.MakeCode(isa.OP_END)

	for _, orig := range rules {
		rule := orig.Clone()
		rule.ProgramAddress = len(prog.Code) + 1
		rule.StateBaseAddress = len(prog.State)
		layout[rule.Name] = Address{Program: rule.ProgramAddress, State: rule.StateBaseAddress}

		for n := range rule.Count {
			prog.State = append(prog.State, rule.Default, 0, 0, int32(rule.ProgramAddress))
			prog.Meta = append(prog.Meta, 0, int32(n), 0, 0)
		}

		prog.Code = append(prog.Code, end)

		err = asm.buildRule(prog, rule, table, pred)
		if err != nil {
			return
		}

		prog.Rules[rule.Name] = rule
		prog.Order = append(prog.Order, rule.Name)
	}

	prog.Code = append(prog.Code, end)

	prog.Width, prog.Height = grid.Dimensions(grid.Records(prog.State))
	prog.State = grid.Pad(prog.State, prog.Width, prog.Height)
	prog.Meta = grid.Pad(prog.Meta, prog.Width, prog.Height)

	return
}

// buildRule compiles the body of a single rule, appending to prog.
func (asm *Assembler) buildRule(prog *Program, rule *Rule, table AddressTable, pred starlark.StringDict) (err error) {
	res := newResolver(table, asm.predefine)

	for _, line := range rule.Body {
		var codes []isa.Code
		var words []string
		var text string

		text, err = expandEval(line.Text, pred)
		if err == nil {
			words = strings.Fields(text)
			if strings.Contains(text, "=") {
				codes, err = assignment(res, text)
			} else {
				codes, err = classic(res, words)
			}
		}
		if err != nil {
			return &ErrSyntax{Rule: rule.Name, LineNo: line.LineNo, Line: line.Text, Err: err}
		}

		op := Opcode{
			Rule:   rule.Name,
			LineNo: line.LineNo,
			Ip:     len(prog.Code),
			Words:  words,
			Codes:  codes,
		}

		if asm.Verbose {
			log.Printf("%v:%d: %04x %v", rule.Name, line.LineNo, op.Ip, op)
		}

		prog.Opcodes = append(prog.Opcodes, op)
		prog.Code = append(prog.Code, codes...)
	}

	return
}

// assignment compiles 'name = expression'.
func assignment(res *resolver, text string) (codes []isa.Code, err error) {
	name, expr, _ := strings.Cut(text, "=")
	name = strings.TrimSpace(name)

	slot, err := res.assign(name)
	if err != nil {
		return
	}

	tokens, err := tokenize(expr)
	if err != nil {
		return
	}

	if len(tokens) == 1 {
		var arg isa.Operand
		arg, err = res.resolve(tokens[0])
		if err != nil {
			return
		}
		codes = []isa.Code{isa.MakeCode(isa.OP_SET, isa.Reg(slot), arg)}
		return
	}

	codes, err = compileExpression(expr, res.resolve)
	if err != nil {
		return
	}

	codes = append(codes, isa.MakeCode(isa.OP_SET, isa.Reg(slot), isa.Reg(isa.SLOT_BUF0)))

	return
}

// classic compiles 'mnemonic arg...'.
func classic(res *resolver, words []string) (codes []isa.Code, err error) {
	inst, ok := isa.Lookup(words[0])
	if !ok {
		err = ErrInstructionInvalid(words[0])
		return
	}

	args := words[1:]
	if len(args) != inst.Arguments {
		err = ErrArgumentCount{Mnemonic: words[0], Want: inst.Arguments, Got: len(args)}
		return
	}

	operands := make([]isa.Operand, len(args))
	for n, word := range args {
		operands[n], err = res.resolve(word)
		if err != nil {
			return
		}
	}

	codes = []isa.Code{isa.MakeCode(inst.Opcode, operands...)}

	return
}
