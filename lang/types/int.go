package types

import (
	"strconv"
	"strings"
)

// Int is the type of a signed 64-bit integer value.
type Int int64

var _ Value = Int(0)

func (i Int) Kind() Kind { return IntKind }
func (i Int) Format(sb *strings.Builder) {
	sb.WriteString(strconv.FormatInt(int64(i), 10))
}
