// Package compiler implements the single-pass, recursive-descent compiler
// from a prefix-notation token stream to bytecode Chunks. It also provides
// a disassembler to encode a compiled Program in human-readable and YAML
// form.
package compiler

import (
	"fmt"

	"github.com/mna/kerchow/lang/token"
	"github.com/mna/kerchow/lang/types"
)

// A Program is the output of a successful Compile: one Chunk per top-level
// definition, the shared constant pool, the function signature table, and
// the index/type of the definition named main.
type Program struct {
	Chunks     []*Chunk
	Constants  []types.Value
	Signatures []Signature
	MainIndex  int
	MainType   types.Kind
}

// localBinding is one parameter of the definition currently being compiled,
// positionally addressable by StackLoadLocalVar.
type localBinding struct {
	Name string
	Kind types.Kind
}

// compiler holds the mutable state threaded through a single Compile call.
// tokens is consumed last-first: Compile is handed the token stream already
// reversed once by its caller, and next pops from the end of the slice, so
// successive pops replay the tokens in their original source order.
type compiler struct {
	tokens    []token.Token
	sigs      *signatureTable
	constants []types.Value
	locals    []localBinding
}

// Compile compiles tokens (already reversed by the caller, per the
// last-first convention) into a Program. The first error aborts
// compilation; there is no partial, usable output on failure.
func Compile(tokens []token.Token) (*Program, error) {
	c := &compiler{tokens: tokens, sigs: newSignatureTable()}

	var chunks []*Chunk
	mainIndex := -1
	var mainType types.Kind

	for len(c.tokens) > 0 {
		switch c.peek().Kind {
		case token.EOF:
			c.next()
			continue
		case token.EOL:
			c.next()
			continue
		}

		chunk, name, isMain, err := c.consumeDef()
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			continue
		}

		idx := len(chunks)
		chunks = append(chunks, chunk)
		if isMain {
			if mainIndex >= 0 {
				return nil, fmt.Errorf("more than one main function defined")
			}
			mainIndex = idx
			_, sig, _ := c.sigs.lookup(name)
			mainType = sig.ReturnType
		}
	}

	if mainIndex < 0 {
		return nil, fmt.Errorf("no main function defined")
	}
	return &Program{
		Chunks:     chunks,
		Constants:  c.constants,
		Signatures: c.sigs.sigs,
		MainIndex:  mainIndex,
		MainType:   mainType,
	}, nil
}

// peek returns the next token to be consumed without consuming it.
func (c *compiler) peek() token.Token {
	return c.tokens[len(c.tokens)-1]
}

// peekSecond returns the token that would be consumed immediately after the
// next one, used by consumeDef to look ahead for a parameter list.
func (c *compiler) peekSecond() token.Token {
	if len(c.tokens) < 2 {
		return token.Token{Kind: token.EOF}
	}
	return c.tokens[len(c.tokens)-2]
}

// next consumes and returns the next token.
func (c *compiler) next() token.Token {
	t := c.tokens[len(c.tokens)-1]
	c.tokens = c.tokens[:len(c.tokens)-1]
	return t
}

func (c *compiler) expect(k token.Kind) (token.Token, error) {
	t := c.next()
	if t.Kind != k {
		return t, fmt.Errorf("expected %s, got %s at %s", k, t, t.At())
	}
	return t, nil
}

// addConstant appends v to the constant pool and returns its byte index.
func (c *compiler) addConstant(v types.Value) (byte, error) {
	if len(c.constants) >= 256 {
		return 0, fmt.Errorf("too many constants (max 256)")
	}
	idx := len(c.constants)
	c.constants = append(c.constants, v)
	return byte(idx), nil
}

// consumeType parses a single type token (a scalar type keyword, or a
// TYPE_ARRAY token already folded by the lexer from a "[T]" bracket run)
// into its Kind.
func (c *compiler) consumeType() (types.Kind, error) {
	t := c.next()
	switch t.Kind {
	case token.TYPE_INT:
		return types.IntKind, nil
	case token.TYPE_FLOAT:
		return types.FloatKind, nil
	case token.TYPE_STRING:
		return types.StringKind, nil
	case token.TYPE_BOOL:
		return types.BoolKind, nil
	case token.TYPE_ARRAY:
		elem, ok := scalarKind(t.ArrayElem)
		if !ok {
			return types.Kind{}, fmt.Errorf("invalid array element type at %s", t.At())
		}
		k := elem
		for i := 0; i < t.ArrayDepth; i++ {
			k = types.MakeArray(k)
		}
		return k, nil
	}
	return types.Kind{}, fmt.Errorf("expected type, got %s at %s", t, t.At())
}

func scalarKind(k token.Kind) (types.Kind, bool) {
	switch k {
	case token.TYPE_INT:
		return types.IntKind, true
	case token.TYPE_FLOAT:
		return types.FloatKind, true
	case token.TYPE_STRING:
		return types.StringKind, true
	case token.TYPE_BOOL:
		return types.BoolKind, true
	}
	return types.Kind{}, false
}

// consumeDef compiles one top-level definition:
//
//	<Type> <Name> ':=' [ <Name> ':' <Type> ]* '=>'  <Expr>   EOL
//	<Type> <Name> ':='                              <Expr>   EOL
//
// Returns (nil, "", false, nil) for a stray empty-line definition.
func (c *compiler) consumeDef() (*Chunk, string, bool, error) {
	if c.peek().Kind == token.EOL {
		c.next()
		return nil, "", false, nil
	}

	retType, err := c.consumeType()
	if err != nil {
		return nil, "", false, err
	}

	nameTok, err := c.expect(token.IDENT)
	if err != nil {
		return nil, "", false, fmt.Errorf("expected function name: %w", err)
	}
	name := nameTok.Lit

	if _, err := c.expect(token.DEFINE); err != nil {
		return nil, "", false, err
	}

	var params []localBinding
	if c.peek().Kind == token.IDENT && c.peekSecond().Kind == token.COLON {
		for {
			paramName, err := c.expect(token.IDENT)
			if err != nil {
				return nil, "", false, fmt.Errorf("expected parameter name: %w", err)
			}
			if _, err := c.expect(token.COLON); err != nil {
				return nil, "", false, err
			}
			paramType, err := c.consumeType()
			if err != nil {
				return nil, "", false, err
			}
			params = append(params, localBinding{Name: paramName.Lit, Kind: paramType})
			if c.peek().Kind != token.IDENT {
				break
			}
		}
		if _, err := c.expect(token.KERCHOW); err != nil {
			return nil, "", false, err
		}
	}

	paramTypes := make([]types.Kind, len(params))
	for i, p := range params {
		paramTypes[i] = p.Kind
	}
	// Eager registration: the signature is visible to the body about to be
	// compiled, which is what makes direct recursion possible.
	if _, err := c.sigs.register(Signature{Name: name, ParamTypes: paramTypes, ReturnType: retType}); err != nil {
		return nil, "", false, err
	}

	prevLocals := c.locals
	c.locals = params
	chunk := &Chunk{Name: name}
	bodyType, err := c.consumeEval(chunk)
	c.locals = prevLocals
	if err != nil {
		return nil, "", false, err
	}
	if !bodyType.Equal(retType) {
		return nil, "", false, fmt.Errorf("type mismatch, expected %s got %s for %s", retType, bodyType, name)
	}

	if c.peek().Kind == token.EOL {
		c.next()
	}

	chunk.PushOpcode(RETURN)
	return chunk, name, name == "main", nil
}

// consumeEval compiles one prefix expression into chunk, emitting its
// bytecode and returning its inferred type.
func (c *compiler) consumeEval(chunk *Chunk) (types.Kind, error) {
	t := c.next()

	switch t.Kind {
	case token.INT:
		idx, err := c.addConstant(types.Int(t.Int))
		if err != nil {
			return types.Kind{}, err
		}
		chunk.PushOpcode(CONSTANT)
		chunk.PushByte(idx)
		return types.IntKind, nil

	case token.FLOAT:
		idx, err := c.addConstant(types.Float(t.Float))
		if err != nil {
			return types.Kind{}, err
		}
		chunk.PushOpcode(CONSTANT)
		chunk.PushByte(idx)
		return types.FloatKind, nil

	case token.STRING:
		idx, err := c.addConstant(types.String(t.Lit))
		if err != nil {
			return types.Kind{}, err
		}
		chunk.PushOpcode(CONSTANT)
		chunk.PushByte(idx)
		return types.StringKind, nil

	case token.BOOL:
		if t.Bool {
			chunk.PushOpcode(TRUE)
		} else {
			chunk.PushOpcode(FALSE)
		}
		return types.BoolKind, nil

	case token.LBRACK:
		return c.consumeArray(chunk)

	case token.IDENT:
		return c.consumeIdent(t, chunk)

	default:
		if t.Kind.IsOperator() {
			return c.consumeOperator(t, chunk)
		}
	}

	return types.Kind{}, fmt.Errorf("expected an expression, got %s at %s", t, t.At())
}

// consumeArray compiles an array literal: '[' <Expr>* ']'. All elements
// must share one inferred type (Any for an empty literal).
func (c *compiler) consumeArray(chunk *Chunk) (types.Kind, error) {
	var elemType types.Kind
	haveType := false
	count := 0

	for c.peek().Kind != token.RBRACK {
		et, err := c.consumeEval(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !haveType {
			elemType, haveType = et, true
		} else if !elemType.Equal(et) {
			return types.Kind{}, fmt.Errorf("type mismatch in array literal, expected %s got %s", elemType, et)
		}
		count++
		if count > 255 {
			return types.Kind{}, fmt.Errorf("array literal has too many elements (max 255)")
		}
	}
	c.next() // ']'

	if !haveType {
		elemType = types.AnyKind
	}
	chunk.PushOpcode(CONSTRUCTARRAY)
	chunk.PushByte(byte(count))
	return types.MakeArray(elemType), nil
}

// consumeIdent compiles a local-variable reference or a function call.
func (c *compiler) consumeIdent(t token.Token, chunk *Chunk) (types.Kind, error) {
	name := t.Lit

	for i, loc := range c.locals {
		if loc.Name == name {
			chunk.PushOpcode(STACKLOADLOCALVAR)
			chunk.PushByte(byte(i))
			return loc.Kind, nil
		}
	}

	if idx, sig, ok := c.sigs.lookup(name); ok {
		for i, pt := range sig.ParamTypes {
			argType, err := c.consumeEval(chunk)
			if err != nil {
				return types.Kind{}, err
			}
			if !argType.Equal(pt) {
				return types.Kind{}, fmt.Errorf("type mismatch, expected %s got %s for argument %d of %s", pt, argType, i, name)
			}
		}
		chunk.PushOpcode(FUNCTIONCALL)
		chunk.PushByte(byte(idx))
		chunk.PushByte(byte(len(sig.ParamTypes)))
		return sig.ReturnType, nil
	}

	return types.Kind{}, fmt.Errorf("unknown symbol %q at %s", name, t.At())
}

// consumeOperator compiles an operator application, selecting the typed
// opcode that matches the operand types resolved by consumeEval.
func (c *compiler) consumeOperator(op token.Token, chunk *Chunk) (types.Kind, error) {
	switch op.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH:
		xt, yt, err := c.consumeBinaryOperands(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !xt.Equal(yt) || (!xt.IsInt() && !xt.IsFloat()) {
			return types.Kind{}, fmt.Errorf("type mismatch, expected matching int or float operands for %s, got %s and %s", op, xt, yt)
		}
		chunk.PushOpcode(arithOpcode(op.Kind, xt.IsInt()))
		return xt, nil

	case token.PCT:
		xt, yt, err := c.consumeBinaryOperands(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !xt.IsInt() || !yt.IsInt() {
			return types.Kind{}, fmt.Errorf("type mismatch, expected int operands for %%, got %s and %s", xt, yt)
		}
		chunk.PushOpcode(MOD)
		return types.IntKind, nil

	case token.EQ:
		xt, yt, err := c.consumeBinaryOperands(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !xt.Equal(yt) {
			return types.Kind{}, fmt.Errorf("type mismatch, expected matching operands for ==, got %s and %s", xt, yt)
		}
		opc, err := equalOpcode(xt)
		if err != nil {
			return types.Kind{}, err
		}
		chunk.PushOpcode(opc)
		return types.BoolKind, nil

	case token.LT, token.GT, token.LE, token.GE:
		xt, yt, err := c.consumeBinaryOperands(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !xt.Equal(yt) || (!xt.IsInt() && !xt.IsFloat()) {
			return types.Kind{}, fmt.Errorf("type mismatch, expected matching int or float operands for %s, got %s and %s", op, xt, yt)
		}
		chunk.PushOpcode(compareOpcode(op.Kind, xt.IsInt()))
		return types.BoolKind, nil

	case token.AND, token.OR:
		xt, yt, err := c.consumeBinaryOperands(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !xt.IsBool() || !yt.IsBool() {
			return types.Kind{}, fmt.Errorf("type mismatch, expected bool operands for %s, got %s and %s", op, xt, yt)
		}
		if op.Kind == token.AND {
			chunk.PushOpcode(AND)
		} else {
			chunk.PushOpcode(OR)
		}
		return types.BoolKind, nil

	case token.NOT:
		xt, err := c.consumeEval(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !xt.IsBool() {
			return types.Kind{}, fmt.Errorf("type mismatch, expected bool operand for !, got %s", xt)
		}
		chunk.PushOpcode(NOT)
		return types.BoolKind, nil

	case token.CONCAT:
		xt, yt, err := c.consumeBinaryOperands(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !xt.Equal(yt) {
			return types.Kind{}, fmt.Errorf("type mismatch, expected matching operands for ++, got %s and %s", xt, yt)
		}
		switch {
		case xt.IsString():
			chunk.PushOpcode(CONCATSTR)
		case xt.IsArray():
			chunk.PushOpcode(CONCATARR)
		default:
			return types.Kind{}, fmt.Errorf("type mismatch, ++ expects string or array operands, got %s", xt)
		}
		return xt, nil

	case token.AT:
		xt, yt, err := c.consumeBinaryOperands(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		if !xt.IsArray() || !yt.IsInt() {
			return types.Kind{}, fmt.Errorf("type mismatch, @ expects (array, int) operands, got %s and %s", xt, yt)
		}
		chunk.PushOpcode(INDEX)
		return *xt.Elem, nil

	case token.LEN:
		xt, err := c.consumeEval(chunk)
		if err != nil {
			return types.Kind{}, err
		}
		switch {
		case xt.IsArray():
			chunk.PushOpcode(LENARR)
		case xt.IsString():
			chunk.PushOpcode(LENSTR)
		default:
			return types.Kind{}, fmt.Errorf("type mismatch, len expects an array or string operand, got %s", xt)
		}
		return types.IntKind, nil

	case token.COND:
		return c.consumeCond(chunk)
	}

	return types.Kind{}, fmt.Errorf("unsupported operator %s at %s", op, op.At())
}

// consumeBinaryOperands compiles the two operands of a binary operator, in
// source order, into chunk.
func (c *compiler) consumeBinaryOperands(chunk *Chunk) (types.Kind, types.Kind, error) {
	xt, err := c.consumeEval(chunk)
	if err != nil {
		return types.Kind{}, types.Kind{}, err
	}
	yt, err := c.consumeEval(chunk)
	if err != nil {
		return types.Kind{}, types.Kind{}, err
	}
	return xt, yt, nil
}

// consumeCond compiles "cond c x y" by building the true and false arms
// into scratch chunks first to measure their byte lengths, then splicing
// them with a pair of relative jumps:
//
//	<c>
//	AdvanceIfFalse (len(x) + 2)
//	<x>
//	Advance        (len(y))
//	<y>
func (c *compiler) consumeCond(chunk *Chunk) (types.Kind, error) {
	ct, err := c.consumeEval(chunk)
	if err != nil {
		return types.Kind{}, err
	}
	if !ct.IsBool() {
		return types.Kind{}, fmt.Errorf("type mismatch, cond expects a bool condition, got %s", ct)
	}

	xChunk := &Chunk{}
	xt, err := c.consumeEval(xChunk)
	if err != nil {
		return types.Kind{}, err
	}
	yChunk := &Chunk{}
	yt, err := c.consumeEval(yChunk)
	if err != nil {
		return types.Kind{}, err
	}
	if !xt.Equal(yt) {
		return types.Kind{}, fmt.Errorf("type mismatch, cond arms must match, got %s and %s", xt, yt)
	}

	xLen, yLen := xChunk.Length(), yChunk.Length()
	if xLen+2 > 255 {
		return types.Kind{}, fmt.Errorf("cond true-arm too large: jump offset exceeds 255 bytes")
	}
	if yLen > 255 {
		return types.Kind{}, fmt.Errorf("cond false-arm compiles to more than 255 bytes")
	}

	chunk.PushOpcode(ADVANCEIFFALSE)
	chunk.PushByte(byte(xLen + 2))
	chunk.AppendChunk(xChunk)
	chunk.PushOpcode(ADVANCE)
	chunk.PushByte(byte(yLen))
	chunk.AppendChunk(yChunk)

	return xt, nil
}

func arithOpcode(k token.Kind, isInt bool) Opcode {
	switch k {
	case token.PLUS:
		if isInt {
			return ADDI
		}
		return ADDF
	case token.MINUS:
		if isInt {
			return SUBI
		}
		return SUBF
	case token.STAR:
		if isInt {
			return MULI
		}
		return MULF
	case token.SLASH:
		if isInt {
			return DIVI
		}
		return DIVF
	}
	panic("unreachable")
}

func compareOpcode(k token.Kind, isInt bool) Opcode {
	switch k {
	case token.LT:
		if isInt {
			return LESSTHANI
		}
		return LESSTHANF
	case token.GT:
		if isInt {
			return GREATERTHANI
		}
		return GREATERTHANF
	case token.LE:
		if isInt {
			return LESSTHANOREQUALI
		}
		return LESSTHANOREQUALF
	case token.GE:
		if isInt {
			return GREATERTHANOREQUALI
		}
		return GREATERTHANOREQUALF
	}
	panic("unreachable")
}

func equalOpcode(k types.Kind) (Opcode, error) {
	switch {
	case k.IsInt():
		return EQUALI, nil
	case k.IsFloat():
		return EQUALF, nil
	case k.IsBool():
		return EQUALB, nil
	case k.IsString():
		return EQUALS, nil
	}
	return 0, fmt.Errorf("type mismatch, == expects int, float, bool or string operands, got %s", k)
}
