package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/kerchow/lang/compiler"
	"github.com/mna/kerchow/lang/lexer"
)

func (c *Cmd) Disasm(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DisasmFiles(ctx, stdio, c.flags["yaml"], args...)
}

func DisasmFiles(ctx context.Context, stdio mainer.Stdio, yamlFormat bool, files ...string) error {
	for _, path := range files {
		tokens, err := lexer.TokenizeFile(path)
		if err != nil {
			return printError(stdio, err)
		}
		prog, err := compiler.Compile(lexer.ReverseForCompile(tokens))
		if err != nil {
			return printError(stdio, err)
		}

		if yamlFormat {
			out, err := compiler.DisassembleYAML(prog)
			if err != nil {
				return printError(stdio, err)
			}
			stdio.Stdout.Write(out)
			continue
		}
		fmt.Fprint(stdio.Stdout, compiler.Disassemble(prog))
	}
	return nil
}
