package machine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/kerchow/lang/compiler"
	"github.com/mna/kerchow/lang/lexer"
	"github.com/mna/kerchow/lang/machine"
)

func compileAndRun(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, err := lexer.Tokenize(src, "test.kc")
	require.NoError(t, err)
	prog, err := compiler.Compile(lexer.ReverseForCompile(toks))
	if err != nil {
		return "", err
	}
	return machine.New(machine.DefaultConfig()).Run(prog)
}

func TestRun_ConcreteScenarios(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"arithmetic", "int main := + 2 3\n", "5"},
		{"recursive factorial", "int fact := n : int => cond == n 0 1 * n fact - n 1\nint main := fact 5\n", "120"},
		{"bool ops", "bool main := && true || false true\n", "true"},
		{"array index", "int main := @ [10 20 30] 1\n", "20"},
		{"string concat", "string main := ++ 'foo' 'bar'\n", "foobar"},
		{"string concat length", "int main := len ++ 'foo' 'bar'\n", "6"},
		{"array concat", "[int] main := ++ [1 2] [3 4]\n", "1234"},
		{"array concat length", "int main := len ++ [1 2] [3 4]\n", "4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := compileAndRun(t, tc.src)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRun_IndexOutOfBounds(t *testing.T) {
	_, err := compileAndRun(t, "int main := @ [1 2] 5\n")
	require.Error(t, err)
	require.Contains(t, err.Error(), "out of range")
}

func TestRun_MaxStepsExceeded(t *testing.T) {
	src := "int loopy := n : int => + 1 loopy n\nint main := loopy 1\n"
	toks, err := lexer.Tokenize(src, "test.kc")
	require.NoError(t, err)
	prog, err := compiler.Compile(lexer.ReverseForCompile(toks))
	require.NoError(t, err)

	_, err = machine.New(machine.Config{MaxSteps: 100, MaxCallDepth: 0}).Run(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "max steps")
}

func TestRun_MaxCallDepthExceeded(t *testing.T) {
	src := "int loopy := n : int => + 1 loopy n\nint main := loopy 1\n"
	toks, err := lexer.Tokenize(src, "test.kc")
	require.NoError(t, err)
	prog, err := compiler.Compile(lexer.ReverseForCompile(toks))
	require.NoError(t, err)

	_, err = machine.New(machine.Config{MaxSteps: 0, MaxCallDepth: 10}).Run(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "max call depth")
}
