// Package machine implements the stack-based virtual machine that executes
// the bytecode Chunks produced by lang/compiler: a value stack, a call
// stack of frames binding a chunk index to its parameter locals, and a
// return-PC stack recording where to resume the caller on Return.
package machine

import (
	"fmt"
	"strings"

	"github.com/mna/kerchow/lang/compiler"
	"github.com/mna/kerchow/lang/types"
)

// Machine interprets a single compiler.Program per Run call. It is not safe
// for concurrent use; each Run call resets all mutable state, so the same
// Machine can be reused across independent runs (spec's single-threaded,
// explicit-reset resource model).
type Machine struct {
	cfg Config

	values    []types.Value
	callStack []callFrame
	returnPCs []int
}

// New returns a Machine bounded by cfg.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

// Run executes prog from its main chunk to completion and returns the
// result formatted according to the main function's declared return type.
func (m *Machine) Run(prog *compiler.Program) (string, error) {
	for _, chunk := range prog.Chunks {
		chunk.SetCursor(0)
	}
	m.values = m.values[:0]
	m.returnPCs = m.returnPCs[:0]
	m.callStack = append(m.callStack[:0], callFrame{chunk: prog.MainIndex})

	steps := 0
	for {
		steps++
		if m.cfg.MaxSteps > 0 && steps > m.cfg.MaxSteps {
			return "", fmt.Errorf("exceeded max steps (%d)", m.cfg.MaxSteps)
		}

		frame := &m.callStack[len(m.callStack)-1]
		chunk := prog.Chunks[frame.chunk]
		op, operand := chunk.GetInstruction()

		switch op {
		case compiler.RETURN:
			if len(m.callStack) == 1 {
				if len(m.values) == 0 {
					return "", fmt.Errorf("main returned with an empty value stack")
				}
				return formatResult(m.values[len(m.values)-1]), nil
			}
			m.callStack = m.callStack[:len(m.callStack)-1]
			retPC := m.returnPCs[len(m.returnPCs)-1]
			m.returnPCs = m.returnPCs[:len(m.returnPCs)-1]
			prog.Chunks[m.callStack[len(m.callStack)-1].chunk].SetCursor(retPC)

		case compiler.CONSTANT:
			m.push(prog.Constants[operand[0]])

		case compiler.ADDI:
			b, a := m.popInt(), m.popInt()
			m.push(a + b)
		case compiler.SUBI:
			b, a := m.popInt(), m.popInt()
			m.push(a - b)
		case compiler.MULI:
			b, a := m.popInt(), m.popInt()
			m.push(a * b)
		case compiler.DIVI:
			b, a := m.popInt(), m.popInt()
			if b == 0 {
				return "", fmt.Errorf("integer division by zero")
			}
			m.push(a / b)
		case compiler.MOD:
			b, a := m.popInt(), m.popInt()
			if b == 0 {
				return "", fmt.Errorf("integer division by zero")
			}
			m.push(a % b)

		case compiler.ADDF:
			b, a := m.popFloat(), m.popFloat()
			m.push(a + b)
		case compiler.SUBF:
			b, a := m.popFloat(), m.popFloat()
			m.push(a - b)
		case compiler.MULF:
			b, a := m.popFloat(), m.popFloat()
			m.push(a * b)
		case compiler.DIVF:
			b, a := m.popFloat(), m.popFloat()
			m.push(a / b)

		case compiler.TRUE:
			m.push(types.True)
		case compiler.FALSE:
			m.push(types.False)

		case compiler.EQUALI:
			b, a := m.popInt(), m.popInt()
			m.push(types.Bool(a == b))
		case compiler.EQUALF:
			b, a := m.popFloat(), m.popFloat()
			m.push(types.Bool(a == b))
		case compiler.EQUALS:
			b, a := m.popString(), m.popString()
			m.push(types.Bool(a == b))
		case compiler.EQUALB:
			b, a := m.popBool(), m.popBool()
			m.push(types.Bool(a == b))

		case compiler.GREATERTHANI:
			b, a := m.popInt(), m.popInt()
			m.push(types.Bool(a > b))
		case compiler.LESSTHANI:
			b, a := m.popInt(), m.popInt()
			m.push(types.Bool(a < b))
		case compiler.GREATERTHANOREQUALI:
			b, a := m.popInt(), m.popInt()
			m.push(types.Bool(a >= b))
		case compiler.LESSTHANOREQUALI:
			b, a := m.popInt(), m.popInt()
			m.push(types.Bool(a <= b))

		case compiler.GREATERTHANF:
			b, a := m.popFloat(), m.popFloat()
			m.push(types.Bool(a > b))
		case compiler.LESSTHANF:
			b, a := m.popFloat(), m.popFloat()
			m.push(types.Bool(a < b))
		case compiler.GREATERTHANOREQUALF:
			b, a := m.popFloat(), m.popFloat()
			m.push(types.Bool(a >= b))
		case compiler.LESSTHANOREQUALF:
			b, a := m.popFloat(), m.popFloat()
			m.push(types.Bool(a <= b))

		case compiler.ADVANCE:
			chunk.SetCursor(chunk.Cursor() + int(operand[0]))

		case compiler.ADVANCEIFFALSE:
			if !bool(m.popBool()) {
				chunk.SetCursor(chunk.Cursor() + int(operand[0]))
			}

		case compiler.NOT:
			m.push(!m.popBool())

		case compiler.STACKLOADLOCALVAR:
			m.push(frame.locals[operand[0]])

		case compiler.FUNCTIONCALL:
			fi, argc := int(operand[0]), int(operand[1])
			args := make([]types.Value, argc)
			for i := argc - 1; i >= 0; i-- {
				args[i] = m.pop()
			}
			if m.cfg.MaxCallDepth > 0 && len(m.callStack) >= m.cfg.MaxCallDepth {
				return "", fmt.Errorf("exceeded max call depth (%d)", m.cfg.MaxCallDepth)
			}
			m.returnPCs = append(m.returnPCs, chunk.Cursor())
			m.callStack = append(m.callStack, callFrame{chunk: fi, locals: args})
			prog.Chunks[fi].SetCursor(0)

		case compiler.CONSTRUCTARRAY:
			n := int(operand[0])
			elems := make([]types.Value, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = m.pop()
			}
			elemKind := types.AnyKind
			if n > 0 {
				elemKind = elems[0].Kind()
			}
			m.push(types.NewArray(elemKind, elems))

		case compiler.CONCATARR:
			b, a := m.popArray(), m.popArray()
			m.push(a.Concat(b))
		case compiler.CONCATSTR:
			b, a := m.popString(), m.popString()
			m.push(a.Concat(b))

		case compiler.LENARR:
			m.push(types.Int(m.popArray().Len()))
		case compiler.LENSTR:
			m.push(types.Int(m.popString().Len()))

		case compiler.INDEX:
			i, a := m.popInt(), m.popArray()
			if i < 0 || int(i) >= a.Len() {
				return "", fmt.Errorf("array index %d out of range (length %d)", i, a.Len())
			}
			m.push(a.At(int(i)))

		case compiler.AND:
			b, a := m.popBool(), m.popBool()
			m.push(a && b)
		case compiler.OR:
			b, a := m.popBool(), m.popBool()
			m.push(a || b)

		default:
			return "", fmt.Errorf("unrecognized opcode %s", op)
		}
	}
}

func (m *Machine) push(v types.Value) {
	m.values = append(m.values, v)
}

func (m *Machine) pop() types.Value {
	v := m.values[len(m.values)-1]
	m.values = m.values[:len(m.values)-1]
	return v
}

// popInt, popFloat, popBool, popString and popArray pop and type-assert the
// top of the value stack. The compiler's typed-opcode selection guarantees
// these assertions hold for any program that reached this opcode, so a
// panic here indicates a compiler bug, not a user error.
func (m *Machine) popInt() types.Int       { return m.pop().(types.Int) }
func (m *Machine) popFloat() types.Float   { return m.pop().(types.Float) }
func (m *Machine) popBool() types.Bool     { return m.pop().(types.Bool) }
func (m *Machine) popString() types.String { return m.pop().(types.String) }
func (m *Machine) popArray() types.Array   { return m.pop().(types.Array) }

func formatResult(v types.Value) string {
	var sb strings.Builder
	v.Format(&sb)
	return sb.String()
}
