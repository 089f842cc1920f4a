package machine

import "github.com/mna/kerchow/lang/types"

// callFrame records one active invocation: the chunk currently executing and
// the values bound to its parameters (this language's only locals — there is
// no local mutation beyond argument binding).
type callFrame struct {
	chunk  int
	locals []types.Value
}
