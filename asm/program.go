package asm

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/koala/grid"
	"github.com/ezrec/koala/isa"
)

// Opcode records the instructions compiled from a single source line.
type Opcode struct {
	Rule   string     // Rule the line belongs to.
	LineNo int        // Source line number.
	Ip     int        // Address of the first instruction.
	Words  []string   // Source words.
	Codes  []isa.Code // Compiled instructions.
}

func (op Opcode) String() string {
	codes := make([]string, len(op.Codes))
	for n, code := range op.Codes {
		codes[n] = code.String()
	}
	return fmt.Sprintf("%v => [%v]", strings.Join(op.Words, " "), strings.Join(codes, "; "))
}

// Program is a compiled rule set: instruction memory plus the initial
// state and metadata memories.
type Program struct {
	Code   []isa.Code // Instruction memory.
	State  []int32    // Initial state memory, Width*Height records.
	Meta   []int32    // Metadata memory, Width*Height records.
	Width  int        // Grid width in cells.
	Height int        // Grid height in cells.

	Rules   map[string]*Rule // Rules by name, with final addresses.
	Order   []string         // Rule names in declaration order.
	Opcodes []Opcode         // Per line debug records.
}

// Debug locates the source line of an instruction.
type Debug struct {
	*Opcode
	Index int // Index of the instruction within the line.
}

// Debug returns the source line that compiled to ip. The returned Opcode
// is nil for separators and addresses outside the program.
func (prog *Program) Debug(ip int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if ip >= op.Ip && ip < op.Ip+len(op.Codes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  ip - op.Ip,
			}
			break
		}
	}

	return
}

// Codes iterates over the instruction memory.
func (prog *Program) Codes() iter.Seq2[int, isa.Code] {
	return func(yield func(ip int, code isa.Code) bool) {
		for ip, code := range prog.Code {
			if !yield(ip, code) {
				return
			}
		}
	}
}

// Binary returns the instruction memory as raw words.
func (prog *Program) Binary() (bins []uint32) {
	bins = make([]uint32, 0, len(prog.Code))
	for _, code := range prog.Codes() {
		bins = append(bins, uint32(code))
	}

	return
}

// Cell returns the record index of an instance of a rule.
func (prog *Program) Cell(rule string, ordinal int) (index int, err error) {
	r, ok := prog.Rules[rule]
	if !ok {
		err = fmt.Errorf("%w: %v", ErrRuleMissing, rule)
		return
	}

	if ordinal < 0 || ordinal >= r.Count {
		err = fmt.Errorf("%w: %v(%d)", ErrOrdinalRange, rule, ordinal)
		return
	}

	index = r.Records() + ordinal

	return
}

// Entry returns the rule whose program starts at ip, if any.
func (prog *Program) Entry(ip int) (rule *Rule) {
	for _, name := range prog.Order {
		if prog.Rules[name].ProgramAddress == ip {
			return prog.Rules[name]
		}
	}
	return
}

// Listing writes a disassembly of the instruction memory.
func (prog *Program) Listing(w io.Writer) (err error) {
	for ip, code := range prog.Codes() {
		if rule := prog.Entry(ip); rule != nil {
			_, err = fmt.Fprintf(w, "%v: ; (%d) = %d, records %d..%d\n",
				rule.Name, rule.Count, rule.Default, rule.Records(), rule.Records()+rule.Count)
			if err != nil {
				return
			}
		}

		comment := ""
		dbg := prog.Debug(ip)
		if dbg.Opcode != nil && dbg.Index == 0 {
			comment = fmt.Sprintf(" ; %d: %v", dbg.LineNo, strings.Join(dbg.Words, " "))
		}

		_, err = fmt.Fprintf(w, "%04x  %08x  %v%v\n", ip, uint32(code), code, comment)
		if err != nil {
			return
		}
	}

	return
}

// Instances returns the initial records of every instance of a rule.
func (prog *Program) Instances(rule string) (records []grid.Record, err error) {
	r, ok := prog.Rules[rule]
	if !ok {
		err = fmt.Errorf("%w: %v", ErrRuleMissing, rule)
		return
	}

	records = make([]grid.Record, r.Count)
	for n := range records {
		records[n] = grid.Get(prog.State, r.Records()+n)
	}

	return
}
