package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/mna/kerchow/lang/lexer"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	for _, path := range files {
		tokens, err := lexer.TokenizeFile(path)
		if err != nil {
			return printError(stdio, err)
		}
		for _, tok := range tokens {
			fmt.Fprintf(stdio.Stdout, "%s: %s", tok.At(), tok.Kind)
			if tok.Lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", tok.Lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	return nil
}
