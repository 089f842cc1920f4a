package lexer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/kerchow/lang/lexer"
	"github.com/mna/kerchow/lang/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Basic(t *testing.T) {
	toks, err := lexer.Tokenize("int main := + 2 3", "test.kc")
	require.NoError(t, err)
	require.Equal(t, []token.Kind{
		token.TYPE_INT, token.IDENT, token.DEFINE, token.PLUS, token.INT, token.INT, token.EOL, token.EOF,
	}, kinds(toks))

	require.Equal(t, "main", toks[1].Lit)
	require.Equal(t, int64(2), toks[4].Int)
	require.Equal(t, int64(3), toks[5].Int)
}

func TestTokenize_ParamsAndKerchow(t *testing.T) {
	toks, err := lexer.Tokenize("int addOne := n : int => + n 1", "test.kc")
	require.NoError(t, err)
	require.Equal(t, []token.Kind{
		token.TYPE_INT, token.IDENT, token.DEFINE,
		token.IDENT, token.COLON, token.TYPE_INT, token.KERCHOW,
		token.PLUS, token.IDENT, token.INT,
		token.EOL, token.EOF,
	}, kinds(toks))
}

func TestTokenize_StringAndFloatLiterals(t *testing.T) {
	toks, err := lexer.Tokenize("string main := ++ 'foo' 'bar'\n", "test.kc")
	require.NoError(t, err)
	require.Equal(t, token.STRING, toks[4].Kind)
	require.Equal(t, "foo", toks[4].Lit)
	require.Equal(t, token.STRING, toks[5].Kind)
	require.Equal(t, "bar", toks[5].Lit)

	toks, err = lexer.Tokenize("float main := + 1.5 2.5", "test.kc")
	require.NoError(t, err)
	require.Equal(t, token.FLOAT, toks[4].Kind)
	require.Equal(t, 1.5, toks[4].Float)
	require.Equal(t, token.FLOAT, toks[5].Kind)
	require.Equal(t, 2.5, toks[5].Float)
}

func TestTokenize_BoolLiterals(t *testing.T) {
	toks, err := lexer.Tokenize("bool main := && true false\n", "test.kc")
	require.NoError(t, err)
	require.Equal(t, token.BOOL, toks[4].Kind)
	require.True(t, toks[4].Bool)
	require.Equal(t, token.BOOL, toks[5].Kind)
	require.False(t, toks[5].Bool)
}

func TestTokenize_Comment(t *testing.T) {
	toks, err := lexer.Tokenize("# a comment\nint main := 1\n", "test.kc")
	require.NoError(t, err)
	// the comment-only line contributes only its EOL
	require.Equal(t, token.EOL, toks[0].Kind)
	require.Equal(t, token.TYPE_INT, toks[1].Kind)
}

func TestTokenize_ArrayType(t *testing.T) {
	toks, err := lexer.Tokenize("[int] main := [1 2]\n", "test.kc")
	require.NoError(t, err)
	require.Equal(t, token.TYPE_ARRAY, toks[0].Kind)
	require.Equal(t, token.TYPE_INT, toks[0].ArrayElem)
	require.Equal(t, 1, toks[0].ArrayDepth)
}

func TestTokenize_NestedArrayType(t *testing.T) {
	toks, err := lexer.Tokenize("[[int]] main := [[1] [2]]\n", "test.kc")
	require.NoError(t, err)
	require.Equal(t, token.TYPE_ARRAY, toks[0].Kind)
	require.Equal(t, token.TYPE_INT, toks[0].ArrayElem)
	require.Equal(t, 2, toks[0].ArrayDepth)
}

func TestTokenize_DroppedPunctuation(t *testing.T) {
	// commas and parens play no role in the prefix grammar and are dropped.
	toks, err := lexer.Tokenize("int main := (+ 2, 3)", "test.kc")
	require.NoError(t, err)
	require.Equal(t, []token.Kind{
		token.TYPE_INT, token.IDENT, token.DEFINE, token.PLUS, token.INT, token.INT, token.EOL, token.EOF,
	}, kinds(toks))
}

func TestReverseForCompile(t *testing.T) {
	toks, err := lexer.Tokenize("int main := 1\n", "test.kc")
	require.NoError(t, err)
	rev := lexer.ReverseForCompile(toks)
	require.Equal(t, len(toks), len(rev))
	require.Equal(t, toks[0], rev[len(rev)-1])
	require.Equal(t, toks[len(toks)-1], rev[0])
}

func TestTokenizeFile_Include(t *testing.T) {
	dir := t.TempDir()
	inc := filepath.Join(dir, "included.kc")
	require.NoError(t, os.WriteFile(inc, []byte("int helper := 1"), 0o600))

	main := filepath.Join(dir, "main.kc")
	require.NoError(t, os.WriteFile(main, []byte("include included.kc\nint main := helper"), 0o600))

	toks, err := lexer.TokenizeFile(main)
	require.NoError(t, err)
	require.Equal(t, []token.Kind{
		token.TYPE_INT, token.IDENT, token.DEFINE, token.INT, token.EOL,
		token.TYPE_INT, token.IDENT, token.DEFINE, token.IDENT, token.EOL,
		token.EOF,
	}, kinds(toks))
	require.Equal(t, "helper", toks[1].Lit)
	require.Equal(t, "main", toks[6].Lit)
}
