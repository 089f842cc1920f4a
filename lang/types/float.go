package types

import (
	"strconv"
	"strings"
)

// Float is the type of a 64-bit floating point value. Cmp provides a total
// order (NaN sorts greater than +Inf); the machine's float comparison
// opcodes use Go's native float operators instead.
type Float float64

var _ Value = Float(0)

func (f Float) Kind() Kind { return FloatKind }
func (f Float) Format(sb *strings.Builder) {
	sb.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 64))
}

// Cmp performs a three-valued, total-order comparison on floats, treating
// NaN as greater than any other value (including another NaN, which
// compares equal to itself).
func (f Float) Cmp(g Float) int {
	if f > g {
		return +1
	} else if f < g {
		return -1
	} else if f == g {
		return 0
	}
	// at least one operand is NaN
	if f == f {
		return -1 // g is NaN
	} else if g == g {
		return +1 // f is NaN
	}
	return 0 // both NaN
}
