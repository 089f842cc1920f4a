package maincmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mna/mainer"

	"github.com/mna/kerchow/internal/config"
	"github.com/mna/kerchow/lang/compiler"
	"github.com/mna/kerchow/lang/lexer"
	"github.com/mna/kerchow/lang/machine"
)

// Run compiles and executes one or more programs, per spec.md §6's CLI: a
// path compiles and runs that file; with no path, an interactive session
// reads definitions from stdin until a blank line, compiles and runs them,
// and loops until a line reading "exit".
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return RunFiles(ctx, stdio, args...)
}

func RunFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	cfg, err := config.Load()
	if err != nil {
		return printError(stdio, err)
	}

	if len(files) == 0 {
		return repl(stdio, cfg)
	}

	for _, path := range files {
		if err := runFile(stdio, cfg, path); err != nil {
			return printError(stdio, err)
		}
	}
	return nil
}

func runFile(stdio mainer.Stdio, cfg machine.Config, path string) error {
	tokens, err := lexer.TokenizeFile(path)
	if err != nil {
		return err
	}
	prog, err := compiler.Compile(lexer.ReverseForCompile(tokens))
	if err != nil {
		return err
	}

	fmt.Fprintln(stdio.Stdout, "Executing")
	start := time.Now()
	result, err := machine.New(cfg).Run(prog)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdio.Stdout, "%s\nExecuted in: %dms\n", result, time.Since(start).Milliseconds())
	return nil
}

// repl reads lines from os.Stdin, accumulating non-blank lines into the
// current definition buffer; a blank line compiles and runs everything
// accumulated so far (and resets the buffer), and a line reading exactly
// "exit" ends the session. mainer.Stdio carries only Stdout/Stderr, so the
// interactive session reads the process' actual standard input directly.
func repl(stdio mainer.Stdio, cfg machine.Config) error {
	in := bufio.NewScanner(os.Stdin)
	var buf strings.Builder

	for in.Scan() {
		line := in.Text()
		if line == "exit" {
			return nil
		}
		if line == "" {
			if buf.Len() > 0 {
				if err := runSource(stdio, cfg, buf.String()); err != nil {
					printError(stdio, err)
				}
				buf.Reset()
			}
			continue
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return in.Err()
}

func runSource(stdio mainer.Stdio, cfg machine.Config, src string) error {
	tokens, err := lexer.Tokenize(src, "<stdin>")
	if err != nil {
		return err
	}
	prog, err := compiler.Compile(lexer.ReverseForCompile(tokens))
	if err != nil {
		return err
	}
	result, err := machine.New(cfg).Run(prog)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdio.Stdout, result)
	return nil
}
