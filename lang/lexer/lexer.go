// Package lexer scans source text into token.Tokens: it splits each line on
// a punctuation/string-literal pattern (falling back to whitespace for the
// remainder), recognizes comments and includes, and folds nested array-type
// bracket runs into single TYPE_ARRAY tokens before handing the stream to
// the compiler.
package lexer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mna/kerchow/lang/token"
)

// splitPattern matches the punctuation and string-literal runs that end a
// whitespace-delimited word early: quoted strings, two-character operators,
// and single-character delimiters/operators. Everything between matches is
// split on whitespace. This mirrors tokenize_line's split-then-fallback
// shape from the original tokenizer.
var splitPattern = regexp.MustCompile(`'[^']*'|:=|=>|==|!=|>=|<=|&&|\|\||\+\+|[()\[\]:;,+\-*/%<>@!]`)

// droppedLiterals are punctuation tokens the original tokenizer discards as
// insignificant once the line has been split: grouping parens, commas, and
// statement-ending semicolons play no role in the prefix grammar.
var droppedLiterals = map[string]bool{
	",": true,
	"(": true,
	")": true,
	";": true,
}

// Tokenize scans src (one file's worth of source) into a token stream in
// source order, terminated by a single EOF token. It does not resolve
// "include" directives; use TokenizeFile for that.
func Tokenize(src, filename string) ([]token.Token, error) {
	var toks []token.Token
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lineToks, err := tokenizeLine(line, i+1, filename)
		if err != nil {
			return nil, err
		}
		toks = append(toks, lineToks...)
	}
	toks = append(toks, token.Token{Kind: token.EOF, Pos: token.MakePos(len(lines)+1, 1), File: filename})
	return foldArrayTypes(toks), nil
}

// tokenizeLine splits one line of source into tokens, followed by a
// trailing EOL token. A comment-only or blank line yields just its EOL
// token, which the compiler skips as an empty definition.
func tokenizeLine(line string, lineNo int, filename string) ([]token.Token, error) {
	if idx := commentStart(line); idx >= 0 {
		line = line[:idx]
	}
	if strings.TrimSpace(line) == "" {
		return []token.Token{{Kind: token.EOL, Pos: token.MakePos(lineNo, 1), File: filename}}, nil
	}

	var words []string
	var cols []int
	last := 0
	for _, m := range splitPattern.FindAllStringIndex(line, -1) {
		start, end := m[0], m[1]
		for _, w := range fieldsWithCols(line[last:start], last) {
			words = append(words, w.text)
			cols = append(cols, w.col)
		}
		words = append(words, line[start:end])
		cols = append(cols, start)
		last = end
	}
	for _, w := range fieldsWithCols(line[last:], last) {
		words = append(words, w.text)
		cols = append(cols, w.col)
	}

	var out []token.Token
	for i, w := range words {
		if droppedLiterals[w] {
			continue
		}
		t, err := classify(w, token.MakePos(lineNo, cols[i]+1), filename)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	out = append(out, token.Token{Kind: token.EOL, Pos: token.MakePos(lineNo, len(line)+1), File: filename})
	return out, nil
}

type wordAt struct {
	text string
	col  int
}

// fieldsWithCols splits s on whitespace, recording each field's byte offset
// relative to base for position tracking.
func fieldsWithCols(s string, base int) []wordAt {
	var out []wordAt
	inField := false
	start := 0
	for i, r := range s {
		if r == ' ' || r == '\t' || r == '\r' {
			if inField {
				out = append(out, wordAt{s[start:i], base + start})
				inField = false
			}
			continue
		}
		if !inField {
			start = i
			inField = true
		}
	}
	if inField {
		out = append(out, wordAt{s[start:], base + start})
	}
	return out
}

// commentStart returns the byte offset of a "#" that starts a line comment,
// or -1 if none, skipping over quoted string contents.
func commentStart(line string) int {
	inString := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			inString = !inString
		case '#':
			if !inString {
				return i
			}
		}
	}
	return -1
}

// classify maps one split word to its Token, resolving keywords/operators
// via keywordTable, then literals, then falling back to IDENT.
func classify(w string, pos token.Pos, filename string) (token.Token, error) {
	if k, ok := keywordTable.Get(w); ok {
		return token.Token{Kind: k, Pos: pos, File: filename, Lit: w}, nil
	}

	switch w {
	case "true":
		return token.Token{Kind: token.BOOL, Pos: pos, File: filename, Bool: true}, nil
	case "false":
		return token.Token{Kind: token.BOOL, Pos: pos, File: filename, Bool: false}, nil
	}

	if strings.HasPrefix(w, "'") && strings.HasSuffix(w, "'") && len(w) >= 2 {
		return token.Token{Kind: token.STRING, Pos: pos, File: filename, Lit: w[1 : len(w)-1]}, nil
	}

	if len(w) > 0 && w[0] >= '0' && w[0] <= '9' {
		if strings.Contains(w, ".") {
			f, err := strconv.ParseFloat(w, 64)
			if err != nil {
				return token.Token{}, fmt.Errorf("invalid float literal %q at %d:%d", w, pos.LineCol())
			}
			return token.Token{Kind: token.FLOAT, Pos: pos, File: filename, Lit: w, Float: f}, nil
		}
		n, err := strconv.ParseInt(w, 10, 64)
		if err == nil {
			return token.Token{Kind: token.INT, Pos: pos, File: filename, Lit: w, Int: n}, nil
		}
	}

	return token.Token{Kind: token.IDENT, Pos: pos, File: filename, Lit: w}, nil
}

// foldArrayTypes collapses a "[T]", "[[T]]", ... bracket run immediately
// wrapping a single scalar type keyword into one TYPE_ARRAY token. A type
// keyword never appears as an expression value, so any such run is
// unambiguously a type annotation and not an array literal (whose brackets
// wrap zero or more expressions); grounded on original_source's
// collapse_array_types, which performs the same fold over a type syntax
// that can nest arbitrarily deep.
func foldArrayTypes(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	i := 0
	for i < len(tokens) {
		t := tokens[i]
		if t.Kind == token.LBRACK {
			depth := 0
			j := i
			for j < len(tokens) && tokens[j].Kind == token.LBRACK {
				depth++
				j++
			}
			if j < len(tokens) && isScalarType(tokens[j].Kind) {
				elemKind := tokens[j].Kind
				k := j + 1
				closed := 0
				for k < len(tokens) && tokens[k].Kind == token.RBRACK && closed < depth {
					closed++
					k++
				}
				if closed == depth {
					out = append(out, token.Token{
						Kind:       token.TYPE_ARRAY,
						Pos:        t.Pos,
						File:       t.File,
						ArrayElem:  elemKind,
						ArrayDepth: depth,
					})
					i = k
					continue
				}
			}
		}
		out = append(out, t)
		i++
	}
	return out
}

func isScalarType(k token.Kind) bool {
	switch k {
	case token.TYPE_INT, token.TYPE_FLOAT, token.TYPE_STRING, token.TYPE_BOOL:
		return true
	}
	return false
}

// ReverseForCompile reverses tokens once, the convention the compiler
// expects: it treats the end of the slice as "next", so popping from the
// end of a once-reversed, source-ordered stream replays the tokens in
// their original order.
func ReverseForCompile(tokens []token.Token) []token.Token {
	out := make([]token.Token, len(tokens))
	for i, t := range tokens {
		out[len(tokens)-1-i] = t
	}
	return out
}
