package types

import "strings"

// String is the type of a UTF-8 text value. Go strings are immutable, so no
// explicit ownership bookkeeping is needed to satisfy the language's
// exclusive-payload rule: concatenation always allocates a fresh string
// rather than aliasing either operand.
type String string

var _ Value = String("")

func (s String) Kind() Kind { return StringKind }
func (s String) Format(sb *strings.Builder) {
	sb.WriteString(string(s))
}

func (s String) Len() int { return len(s) }

// Concat returns a fresh string holding s followed by other.
func (s String) Concat(other String) String {
	return s + other
}
