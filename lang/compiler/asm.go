package compiler

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mna/kerchow/lang/types"
)

// This file implements a human-readable dump of a compiled Program: a
// plain-text per-chunk opcode listing (Disassemble) and a structured YAML
// form (DisassembleYAML) suitable for golden-file comparisons and the
// disasm CLI command. Unlike the source language's own assembler, there is
// no reverse direction (textual form back to Program): nothing in this
// language needs to hand-author bytecode, and its tests compile source text
// through the lexer and compiler instead.

// Disassemble renders prog as a plain-text listing: the constant pool, the
// function signature table, and each chunk's instructions with their byte
// offset, mnemonic and operand.
func Disassemble(prog *Program) string {
	var d dasm
	d.constants(prog)
	d.signatures(prog)
	for i, chunk := range prog.Chunks {
		d.chunk(i, chunk)
	}
	return d.buf.String()
}

type dasm struct {
	buf strings.Builder
}

func (d *dasm) writef(format string, args ...any) {
	fmt.Fprintf(&d.buf, format, args...)
}

func (d *dasm) constants(prog *Program) {
	if len(prog.Constants) == 0 {
		return
	}
	d.writef("constants:\n")
	for i, c := range prog.Constants {
		var sb strings.Builder
		c.Format(&sb)
		d.writef("\t%03d %s\t%s\n", i, c.Kind(), sb.String())
	}
}

func (d *dasm) signatures(prog *Program) {
	if len(prog.Signatures) == 0 {
		return
	}
	d.writef("functions:\n")
	for i, sig := range prog.Signatures {
		d.writef("\t%03d %s(%s) %s", i, sig.Name, joinKinds(sig.ParamTypes), sig.ReturnType)
		if i == prog.MainIndex {
			d.writef("\t# main")
		}
		d.writef("\n")
	}
}

func (d *dasm) chunk(index int, chunk *Chunk) {
	d.writef("function: %s\t# %03d\n", chunk.Name, index)
	d.writef("\tcode:\n")
	cur := &Chunk{code: chunk.code}
	for !cur.AtEnd() {
		offset := cur.cursor
		op, operand := cur.GetInstruction()
		if !op.Valid() {
			d.writef("\t\t%04d\tNullCode\n", offset)
			continue
		}
		if len(operand) == 0 {
			d.writef("\t\t%04d\t%s\n", offset, op)
			continue
		}
		ops := make([]string, len(operand))
		for i, b := range operand {
			ops[i] = fmt.Sprintf("%d", b)
		}
		d.writef("\t\t%04d\t%s\t%s\n", offset, op, strings.Join(ops, " "))
	}
}

func joinKinds(ks []types.Kind) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

// yamlProgram and yamlChunkDump mirror Program/Chunk in a form
// gopkg.in/yaml.v3 can marshal directly, used by DisassembleYAML for a
// structured dump.
type yamlProgram struct {
	Constants []yamlConstant  `yaml:"constants,omitempty"`
	Functions []yamlSignature `yaml:"functions"`
	MainIndex int             `yaml:"main_index"`
	Chunks    []yamlChunkDump `yaml:"chunks"`
}

type yamlConstant struct {
	Kind  string `yaml:"kind"`
	Value string `yaml:"value"`
}

type yamlSignature struct {
	Name       string   `yaml:"name"`
	ParamTypes []string `yaml:"param_types,omitempty"`
	ReturnType string   `yaml:"return_type"`
}

type yamlChunkDump struct {
	Name         string            `yaml:"name"`
	Instructions []yamlInstruction `yaml:"instructions"`
}

type yamlInstruction struct {
	Offset  int    `yaml:"offset"`
	Op      string `yaml:"op"`
	Operand []byte `yaml:"operand,omitempty"`
}

// DisassembleYAML renders prog as a structured YAML document: constants,
// function signatures, and per-chunk instruction listings.
func DisassembleYAML(prog *Program) ([]byte, error) {
	out := yamlProgram{
		MainIndex: prog.MainIndex,
		Chunks:    make([]yamlChunkDump, len(prog.Chunks)),
	}
	for _, c := range prog.Constants {
		var sb strings.Builder
		c.Format(&sb)
		out.Constants = append(out.Constants, yamlConstant{Kind: c.Kind().String(), Value: sb.String()})
	}
	for _, sig := range prog.Signatures {
		paramTypes := make([]string, len(sig.ParamTypes))
		for i, pt := range sig.ParamTypes {
			paramTypes[i] = pt.String()
		}
		out.Functions = append(out.Functions, yamlSignature{
			Name:       sig.Name,
			ParamTypes: paramTypes,
			ReturnType: sig.ReturnType.String(),
		})
	}
	for i, chunk := range prog.Chunks {
		dump := yamlChunkDump{Name: chunk.Name}
		cur := &Chunk{code: chunk.code}
		for !cur.AtEnd() {
			offset := cur.cursor
			op, operand := cur.GetInstruction()
			dump.Instructions = append(dump.Instructions, yamlInstruction{
				Offset:  offset,
				Op:      op.String(),
				Operand: append([]byte(nil), operand...),
			})
		}
		out.Chunks[i] = dump
	}
	return yaml.Marshal(out)
}
