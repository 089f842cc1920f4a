package lexer

import (
	"github.com/dolthub/swiss"

	"github.com/mna/kerchow/lang/token"
)

// keywordTable maps reserved words and operator/delimiter spellings to
// their token kind, mirroring the compiler's own name→index tables
// (lang/compiler/signature.go) in using a swiss.Map for the lookup.
// Boolean literals ("true"/"false") are recognized separately in classify,
// since both map to the same BOOL kind but carry different values.
var keywordTable = buildKeywordTable()

func buildKeywordTable() *swiss.Map[string, token.Kind] {
	m := swiss.NewMap[string, token.Kind](64)
	entries := map[string]token.Kind{
		":=": token.DEFINE,
		"=>": token.KERCHOW,
		":":  token.COLON,
		"[":  token.LBRACK,
		"]":  token.RBRACK,

		"int":    token.TYPE_INT,
		"float":  token.TYPE_FLOAT,
		"string": token.TYPE_STRING,
		"bool":   token.TYPE_BOOL,

		"+": token.PLUS,
		"-": token.MINUS,
		"*": token.STAR,
		"/": token.SLASH,
		"%": token.PCT,

		"==": token.EQ,
		"!=": token.NEQ,
		"<":  token.LT,
		">":  token.GT,
		"<=": token.LE,
		">=": token.GE,

		"&&": token.AND,
		"||": token.OR,
		"!":  token.NOT,

		"++":  token.CONCAT,
		"@":   token.AT,
		"len": token.LEN,
		"cond": token.COND,
	}
	for k, v := range entries {
		m.Put(k, v)
	}
	return m
}
