package asm

import (
	"fmt"
	"iter"
	"maps"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/koala/internal"
)

// ruleDefines iterates over the rule derived names: each rule name is its
// first record index, and '<name>_count' its instance count.
func ruleDefines(table AddressTable, counts map[string]int) iter.Seq2[string, int64] {
	return func(yield func(string, int64) bool) {
		for name, addr := range table {
			if !yield(name, int64(addr.State/4)) {
				return
			}
			if !yield(name+"_count", int64(counts[name])) {
				return
			}
		}
	}
}

// Defines returns an iterator over every name visible to a compile-time
// evaluation. Rule names take precedence over predefines.
func (asm *Assembler) Defines(table AddressTable, counts map[string]int) iter.Seq2[string, int64] {
	return internal.IterSeq2Concat(maps.All(asm.predefine), ruleDefines(table, counts))
}

// evalEnv builds the predeclared names of a compile-time evaluation.
func (asm *Assembler) evalEnv(table AddressTable, counts map[string]int) (pred starlark.StringDict) {
	pred = starlark.StringDict{}
	for name, value := range asm.Defines(table, counts) {
		pred[name] = starlark.MakeInt64(value)
	}
	return
}

// parenEval evaluates a single $(...) expression to an integer.
func parenEval(expr string, pred starlark.StringDict) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = &ErrEval{Expr: expr, Err: err}
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = &ErrEval{Expr: expr, Err: ErrParseExpression(expr)}
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = &ErrEval{Expr: expr, Err: ErrParseExpression(expr)}
		return
	}
	return
}

// expandEval replaces every $(...) span of line with its evaluated value.
// Spans are delimited by balanced parentheses.
func expandEval(line string, pred starlark.StringDict) (expanded string, err error) {
	var out strings.Builder

	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			break
		}

		depth := 0
		end := -1
		for n := start + 1; n < len(line); n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 {
				end = n
				break
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start:])
			return
		}

		var value int64
		value, err = parenEval(line[start+2:end], pred)
		if err != nil {
			return
		}

		out.WriteString(line[:start])
		fmt.Fprintf(&out, "%d", value)
		line = line[end+1:]
	}

	out.WriteString(line)
	expanded = out.String()

	return
}
