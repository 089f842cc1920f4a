package compiler

// A Chunk is the compiled code of one function definition: a flat,
// append-only byte buffer of opcodes and inline operands, plus a read
// cursor. Chunks are write-once during compilation and read many times
// during execution; the cursor is mutable machine state, reset to zero on
// every fresh call into the chunk.
type Chunk struct {
	Name   string // function name, for disassembly and diagnostics
	code   []byte
	cursor int
}

// PushOpcode appends a single opcode byte.
func (c *Chunk) PushOpcode(op Opcode) {
	c.code = append(c.code, byte(op))
}

// PushByte appends a single raw operand byte.
func (c *Chunk) PushByte(b byte) {
	c.code = append(c.code, b)
}

// AppendChunk copies other's code onto the end of c, used to splice a
// scratch chunk (built to measure a cond arm's length) into the real one.
func (c *Chunk) AppendChunk(other *Chunk) {
	c.code = append(c.code, other.code...)
}

// Length returns the number of bytes written to c so far.
func (c *Chunk) Length() int { return len(c.code) }

// Cursor returns the chunk's current read position.
func (c *Chunk) Cursor() int { return c.cursor }

// SetCursor sets the chunk's read position, used both to reset a chunk to 0
// on a fresh call and by Advance/AdvanceIfFalse to implement relative jumps.
func (c *Chunk) SetCursor(pos int) { c.cursor = pos }

// AtEnd reports whether the cursor has consumed the whole chunk.
func (c *Chunk) AtEnd() bool { return c.cursor >= len(c.code) }

// GetInstruction reads the opcode byte at the cursor, advances past it and
// its fixed-width operand bytes, and returns the opcode together with its
// operand slice. An unrecognized opcode byte decodes to NullCode rather than
// panicking, matching the machine's failure model of aborting the run with
// an error instead of crashing on bad bytecode.
func (c *Chunk) GetInstruction() (Opcode, []byte) {
	op := Opcode(c.code[c.cursor])
	c.cursor++
	if !op.Valid() {
		return op, nil
	}
	width := OperandWidth(op)
	operand := c.code[c.cursor : c.cursor+width]
	c.cursor += width
	return op, operand
}
