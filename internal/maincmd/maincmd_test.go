package maincmd_test

import (
	"bytes"
	"context"
	"flag"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/mna/kerchow/internal/filetest"
	"github.com/mna/kerchow/internal/maincmd"
)

var testUpdateDisasmTests = flag.Bool("test.update-disasm-tests", false, "If set, replace expected disasm test results with actual results.")

// TestDisasmFiles exercises the disasm command end-to-end: lexer, compiler
// and disassembler all run against real source files under testdata/in,
// compared against golden listings under testdata/out, following the
// scanner package's own golden-file test shape.
func TestDisasmFiles(t *testing.T) {
	ctx := context.Background()
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range filetest.SourceFiles(t, srcDir, ".kc") {
		t.Run(fi.Name(), func(t *testing.T) {
			var buf, ebuf bytes.Buffer
			stdio := mainer.Stdio{
				Stdout: &buf,
				Stderr: &ebuf,
			}

			// error is ignored, we just want it to be printed to ebuf
			_ = maincmd.DisasmFiles(ctx, stdio, false, filepath.Join(srcDir, fi.Name()))
			filetest.DiffOutput(t, fi, buf.String(), resultDir, testUpdateDisasmTests)
		})
	}
}
