// Package asm compiles koala rule source into a Program.
//
// A source file is a list of rules. Each rule opens with a header
//
//	[prefix#]name[(count)][=default]:
//
// and continues with body lines until the next header. Text after ';' is a
// comment. A body line is either an assignment
//
//	name = expression
//
// or a classic instruction
//
//	mnemonic arg...
//
// Expressions have no precedence; operators apply left to right, with
// parentheses for grouping and R( G( B( for reading another cell's
// channel. A bare rule name is the record index of its first instance,
// '$name' its program address, and $( ... ) is evaluated at compile time.
package asm
