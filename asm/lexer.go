package asm

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer splits rule body text into expression tokens. Two character
// operators are listed before their single character prefixes.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Operator", Pattern: `>=|<=|==|!=|\?\?|[-+*/%&|><!^]`},
	{Name: "Paren", Pattern: `[()]`},
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F_]+|0[bB][01_]+|0[oO][0-7_]+|[0-9][0-9_]*`},
	{Name: "Ident", Pattern: `\$?[a-zA-Z_][a-zA-Z0-9_#]*`},
})

var whitespaceToken = exprLexer.Symbols()["Whitespace"]

// tokenize splits text into expression tokens, dropping whitespace.
func tokenize(text string) (tokens []string, err error) {
	lex, err := exprLexer.LexString("", text)
	if err != nil {
		err = ErrParseExpression(text)
		return
	}

	for {
		var tok lexer.Token
		tok, err = lex.Next()
		if err != nil {
			tokens = nil
			err = ErrParseExpression(text)
			return
		}
		if tok.EOF() {
			break
		}
		if tok.Type == whitespaceToken {
			continue
		}
		tokens = append(tokens, tok.Value)
	}

	return
}
