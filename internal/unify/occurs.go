package unify

import (
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// occurs reports whether the substitution slot id appears anywhere in
// t's indirect (stub-stripped) subtree (spec §4.3 step 3). It is the
// occurs check guarding against constructing an infinite type, e.g.
// `V = Pointer(V)` (spec §8 S5).
func (c *Context) occurs(id ids.SubstitutionID, t typeterm.Type) (bool, error) {
	if v, ok := t.(*typeterm.Variable); ok && v.IsSameVariableAs(id) {
		return true, nil
	}

	indirect, err := typeterm.IndirectSubtree(t, c.symtab)
	if err != nil {
		return false, err
	}
	for _, child := range indirect {
		if v, ok := child.(*typeterm.Variable); ok && v.IsSameVariableAs(id) {
			return true, nil
		}
	}
	return false, nil
}
