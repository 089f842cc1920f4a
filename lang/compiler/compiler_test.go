package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/kerchow/lang/compiler"
	"github.com/mna/kerchow/lang/lexer"
)

func compile(t *testing.T, src string) (*compiler.Program, error) {
	t.Helper()
	toks, err := lexer.Tokenize(src, "test.kc")
	require.NoError(t, err)
	return compiler.Compile(lexer.ReverseForCompile(toks))
}

func TestCompile_Basic(t *testing.T) {
	prog, err := compile(t, "int main := + 2 3\n")
	require.NoError(t, err)
	require.Len(t, prog.Chunks, 1)
	require.Equal(t, 0, prog.MainIndex)
}

func TestCompile_RecursiveFunction(t *testing.T) {
	prog, err := compile(t, "int fact := n : int => cond == n 0 1 * n fact - n 1\nint main := fact 5\n")
	require.NoError(t, err)
	require.Len(t, prog.Chunks, 2)
	require.Len(t, prog.Signatures, 2)
}

func TestCompile_NoMain(t *testing.T) {
	_, err := compile(t, "int addOne := n : int => + n 1\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no main")
}

func TestCompile_DuplicateFunctionName(t *testing.T) {
	_, err := compile(t, "int f := 1\nint f := 2\nint main := f\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "already defined")
}

func TestCompile_DuplicateMain(t *testing.T) {
	_, err := compile(t, "int main := 1\nint main := 2\n")
	require.Error(t, err)
}

func TestCompile_TypeMismatchArithmetic(t *testing.T) {
	_, err := compile(t, "int main := + 1 1.0\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "type mismatch")
}

func TestCompile_UnknownSymbol(t *testing.T) {
	_, err := compile(t, "int main := foo\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown symbol")
}

func TestCompile_CondArmTypeMismatch(t *testing.T) {
	_, err := compile(t, "int main := cond true 1 2.0\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "cond arms must match")
}

func TestCompile_CondArmTooLarge(t *testing.T) {
	// A chain of nested additions of the integer literal 1, long enough that
	// the true-arm's compiled length exceeds 255 bytes.
	expr := "1"
	for i := 0; i < 150; i++ {
		expr = "+ 1 " + expr
	}
	_, err := compile(t, "int main := cond true "+expr+" 0\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "255 bytes")
}

func TestCompile_ArrayLiteralTypeMismatch(t *testing.T) {
	_, err := compile(t, "[int] main := [1 2.0]\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "type mismatch")
}

func TestCompile_NestedArrayType(t *testing.T) {
	prog, err := compile(t, "[[int]] main := [[1 2] [3 4]]\n")
	require.NoError(t, err)
	require.Equal(t, "[[int]]", prog.MainType.String())
}
