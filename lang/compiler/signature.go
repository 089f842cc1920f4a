package compiler

import (
	"fmt"

	"github.com/dolthub/swiss"

	"github.com/mna/kerchow/lang/types"
)

// A Signature is a compiled function's declared shape: its parameter types,
// in order, and its return type.
type Signature struct {
	Name       string
	ParamTypes []types.Kind
	ReturnType types.Kind
}

// signatureTable is the ordered, byte-indexed function signature table
// (spec §3's "Function Signature" table): an append-only slice addressable
// by index, backed by a swiss.Map for the name lookup consume_eval needs
// when resolving a call. The table is registered into eagerly, before a
// definition's body is compiled, so that body may call its own name
// (direct recursion).
type signatureTable struct {
	sigs  []Signature
	index *swiss.Map[string, int]
}

func newSignatureTable() *signatureTable {
	return &signatureTable{
		index: swiss.NewMap[string, int](8),
	}
}

// register appends sig and returns its byte index, or an error if the name
// is already registered (duplicate function names are rejected at compile
// time) or the table has reached its 256-entry capacity.
func (t *signatureTable) register(sig Signature) (int, error) {
	if _, ok := t.index.Get(sig.Name); ok {
		return 0, fmt.Errorf("function %q is already defined", sig.Name)
	}
	if len(t.sigs) >= 256 {
		return 0, fmt.Errorf("too many function definitions (max 256)")
	}
	idx := len(t.sigs)
	t.sigs = append(t.sigs, sig)
	t.index.Put(sig.Name, idx)
	return idx, nil
}

// lookup returns the index and signature registered under name, if any.
func (t *signatureTable) lookup(name string) (int, Signature, bool) {
	idx, ok := t.index.Get(name)
	if !ok {
		return 0, Signature{}, false
	}
	return idx, t.sigs[idx], true
}

func (t *signatureTable) len() int { return len(t.sigs) }
