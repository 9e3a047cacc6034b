package unify

import (
	"github.com/vela-lang/typecore/internal/diagnostic"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// unifyObjects implements spec §4.3 step 5, the row-polymorphic object
// rule:
//
//   - Closed x Closed: field sets must match exactly; unify each
//     shared field pairwise.
//   - Closed x Open: the closed side must be a superset of the open
//     side's known fields; the open side's row variable is bound to
//     the extra fields as a fresh closed object (row extension).
//   - Open x Open: the result is open again, with a fresh row variable
//     standing for whatever fields neither side names; known fields
//     from both sides are merged and unified pairwise on overlap.
//
// Grounded on the shape of internal/types/row_unification.go's
// Unifier.unifyRows in the teacher, adapted to this core's single
// ObjectKind{Open,Closed} model rather than the teacher's three
// coexisting record representations (see DESIGN.md).
func (c *Context) unifyObjects(a, b *typeterm.Object, context string) error {
	switch {
	case !a.ObjKind.Open && !b.ObjKind.Open:
		return c.unifyClosedObjects(a, b, context)
	case !a.ObjKind.Open && b.ObjKind.Open:
		return c.unifyClosedWithOpen(a, b, context)
	case a.ObjKind.Open && !b.ObjKind.Open:
		return c.unifyClosedWithOpen(b, a, context)
	default:
		return c.unifyOpenObjects(a, b, context)
	}
}

func (c *Context) unifyClosedObjects(a, b *typeterm.Object, context string) error {
	if len(a.Fields) != len(b.Fields) {
		return diagnostic.NewUnificationFailure(a, b, context)
	}
	for name, at := range a.Fields {
		bt, ok := b.Fields[name]
		if !ok {
			return diagnostic.NewUnificationFailure(a, b, context)
		}
		if err := c.Unify(at, bt, context); err != nil {
			return err
		}
	}
	return nil
}

// unifyClosedWithOpen unifies a closed object (closed) with an open
// one (open): every field the open side names must exist on the
// closed side with a unifiable type, and the open side's row variable
// is bound to a fresh closed object holding the closed side's
// remaining fields (the extension the row variable was standing in
// for).
func (c *Context) unifyClosedWithOpen(closed, open *typeterm.Object, context string) error {
	extension := make(map[string]typeterm.Type, len(closed.Fields))
	for name, ct := range closed.Fields {
		if ot, ok := open.Fields[name]; ok {
			if err := c.Unify(ct, ot, context); err != nil {
				return err
			}
			continue
		}
		extension[name] = ct
	}
	for name := range open.Fields {
		if _, ok := closed.Fields[name]; !ok {
			return diagnostic.NewUnificationFailure(closed, open, context)
		}
	}

	extType := &typeterm.Object{Fields: extension, ObjKind: typeterm.Closed()}
	return c.bind(open.ObjKind.OpenID, extType)
}

// unifyOpenObjects unifies two open objects: fields named by both
// sides must unify pairwise; the result stays open, with a fresh row
// variable representing the union's yet-unknown remainder, and each
// side's row variable is bound to a fresh open object holding the
// other side's fields it didn't already name.
func (c *Context) unifyOpenObjects(a, b *typeterm.Object, context string) error {
	for name, at := range a.Fields {
		if bt, ok := b.Fields[name]; ok {
			if err := c.Unify(at, bt, context); err != nil {
				return err
			}
		}
	}

	tail := c.gen.NextSubstitutionID()
	c.subst[tail] = &typeterm.Variable{SubstitutionID: tail}

	aOnly := make(map[string]typeterm.Type)
	for name, bt := range b.Fields {
		if _, ok := a.Fields[name]; !ok {
			aOnly[name] = bt
		}
	}
	if err := c.bind(a.ObjKind.OpenID, &typeterm.Object{Fields: aOnly, ObjKind: typeterm.Open(tail)}); err != nil {
		return err
	}

	bOnly := make(map[string]typeterm.Type)
	for name, at := range a.Fields {
		if _, ok := b.Fields[name]; !ok {
			bOnly[name] = at
		}
	}
	return c.bind(b.ObjKind.OpenID, &typeterm.Object{Fields: bOnly, ObjKind: typeterm.Open(tail)})
}
