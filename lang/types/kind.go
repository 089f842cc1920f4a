package types

import "strings"

// A Kind is a compile-time type. Arrays nest via Elem, and Any is a
// wildcard that unifies with any primitive or, recursively, with any array
// element kind — used only for the element type of an empty array literal.
type Kind struct {
	tag  kindTag
	Elem *Kind // non-nil iff tag == KindArray
}

type kindTag uint8

const (
	KindInt kindTag = iota
	KindFloat
	KindBool
	KindString
	KindArray
	KindAny
)

var (
	IntKind    = Kind{tag: KindInt}
	FloatKind  = Kind{tag: KindFloat}
	BoolKind   = Kind{tag: KindBool}
	StringKind = Kind{tag: KindString}
	AnyKind    = Kind{tag: KindAny}
)

// MakeArray returns the Kind describing an array whose elements have kind
// elem.
func MakeArray(elem Kind) Kind {
	e := elem
	return Kind{tag: KindArray, Elem: &e}
}

func (k Kind) IsArray() bool  { return k.tag == KindArray }
func (k Kind) IsAny() bool    { return k.tag == KindAny }
func (k Kind) IsInt() bool    { return k.tag == KindInt }
func (k Kind) IsFloat() bool  { return k.tag == KindFloat }
func (k Kind) IsBool() bool   { return k.tag == KindBool }
func (k Kind) IsString() bool { return k.tag == KindString }

// Equal reports whether k and other describe the same type, treating Any as
// equal to any primitive or array element (recursively for arrays), per the
// language's single wildcard rule.
func (k Kind) Equal(other Kind) bool {
	if k.tag == KindAny || other.tag == KindAny {
		return true
	}
	if k.tag != other.tag {
		return false
	}
	if k.tag == KindArray {
		return k.Elem.Equal(*other.Elem)
	}
	return true
}

func (k Kind) String() string {
	switch k.tag {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindAny:
		return "any"
	case KindArray:
		return "[" + k.Elem.String() + "]"
	default:
		return "invalid"
	}
}

// ParseKindName maps a scalar type keyword's literal text to its Kind. It
// does not handle array syntax; the lexer folds "[T]" runs into a single
// array Kind before the compiler ever sees them (see lang/lexer).
func ParseKindName(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "int":
		return IntKind, true
	case "float":
		return FloatKind, true
	case "bool":
		return BoolKind, true
	case "string":
		return StringKind, true
	}
	return Kind{}, false
}
