package asm

import (
	"errors"

	"github.com/ezrec/koala/translate"
)

var f = translate.From

var (
	// Rule table errors
	ErrOrphanLine   = errors.New(f("statement outside rule"))
	ErrRuleMissing  = errors.New(f("rule missing"))
	ErrOrdinalRange = errors.New(f("instance ordinal out of range"))

	// Rule body errors
	ErrTooManyVariables = errors.New(f("too many variables"))
	ErrNestingDepth     = errors.New(f("expression nested too deeply"))
	ErrEmptyExpression  = errors.New(f("empty expression"))

	// Layout errors
	ErrLayoutUnstable = errors.New(f("rule addresses changed between passes"))
)

type ErrRuleName string

func (err ErrRuleName) Error() string {
	return f("invalid rule name %v", string(err))
}

type ErrRuleDuplicate string

func (err ErrRuleDuplicate) Error() string {
	return f("duplicate rule name %v", string(err))
}

type ErrVariableName string

func (err ErrVariableName) Error() string {
	return f("invalid variable name %v", string(err))
}

type ErrVariableReserved string

func (err ErrVariableReserved) Error() string {
	return f("cannot name variable after constant %v", string(err))
}

type ErrUnknownToken string

func (err ErrUnknownToken) Error() string {
	return f("unknown token %v", string(err))
}

type ErrInstructionInvalid string

func (err ErrInstructionInvalid) Error() string {
	return f("unknown instruction %v", string(err))
}

type ErrArgumentCount struct {
	Mnemonic string
	Want     int
	Got      int
}

func (err ErrArgumentCount) Error() string {
	return f("wrong number of arguments for instruction %v: want %d, got %d", err.Mnemonic, err.Want, err.Got)
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("invalid expression %v", string(err))
}

type ErrConstantRange struct {
	Token string
	Value int64
}

func (err ErrConstantRange) Error() string {
	return f("constant %v (%d) out of range 0..255", err.Token, err.Value)
}

// ErrEval reports a failed compile-time $(...) evaluation.
type ErrEval struct {
	Expr string
	Err  error
}

func (err *ErrEval) Error() string {
	return f("$(%v) is not a valid expression: %v", err.Expr, err.Err)
}

func (err *ErrEval) Unwrap() error {
	return err.Err
}

// ErrSyntax locates an error in the source text.
type ErrSyntax struct {
	Rule   string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	if len(err.Rule) == 0 {
		return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
	}
	return f("%v: line %d '%v' %v", err.Rule, err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
