package lexer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mna/kerchow/lang/token"
)

// sourceLine is one physical line of source, tagged with the file it came
// from so diagnostics can point back across an include boundary.
type sourceLine struct {
	file   string
	lineNo int
	text   string
}

// TokenizeFile scans path into a token stream, in source order and
// terminated by one EOF token, resolving "include <path>" lines by
// recursively splicing the target file's lines in place of the include
// directive. Include paths are resolved relative to the including file's
// directory, grounded on original_source's Scanner.load_file.
func TokenizeFile(path string) ([]token.Token, error) {
	lines, err := loadLines(path)
	if err != nil {
		return nil, err
	}

	var toks []token.Token
	for _, l := range lines {
		lineToks, err := tokenizeLine(l.text, l.lineNo, l.file)
		if err != nil {
			return nil, err
		}
		toks = append(toks, lineToks...)
	}
	toks = append(toks, token.Token{Kind: token.EOF, File: path})
	return foldArrayTypes(toks), nil
}

const includePrefix = "include "

func loadLines(path string) ([]sourceLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var out []sourceLine
	for i, raw := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, includePrefix) {
			target := strings.TrimSpace(strings.TrimPrefix(trimmed, includePrefix))
			target = filepath.Join(filepath.Dir(path), target)
			included, err := loadLines(target)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: include %s: %w", path, i+1, target, err)
			}
			out = append(out, included...)
			continue
		}
		out = append(out, sourceLine{file: path, lineNo: i + 1, text: raw})
	}
	return out, nil
}
