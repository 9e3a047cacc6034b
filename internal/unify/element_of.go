package unify

import (
	"github.com/vela-lang/typecore/internal/diagnostic"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// tryElementOf attempts to solve a tuple-element constraint (spec §9
// Open Question 2). It reports progress=false, err=nil when the
// tuple side is still a bare variable and the constraint must wait for
// a later sweep.
func (c *Context) tryElementOf(ec ElementOf) (progress bool, err error) {
	tuple, err := c.prime(ec.Tuple)
	if err != nil {
		return false, err
	}

	t, ok := tuple.(*typeterm.Tuple)
	if !ok {
		if typeterm.IsMeta(tuple) {
			return false, nil
		}
		return true, diagnostic.NewUnificationFailure(tuple, ec.Elem, ec.Context)
	}

	if ec.Index < 0 || ec.Index >= len(t.Elements) {
		return true, diagnostic.NewUnificationFailure(tuple, ec.Elem, ec.Context)
	}

	return true, c.Unify(t.Elements[ec.Index], ec.Elem, ec.Context)
}

// tryObjectUpdate attempts to solve a `with`-expression constraint
// (spec §9 Open Question 1): Result is Base with Deltas overlaid, once
// Base's field set is known. Deltas may introduce fields absent from
// Base — the delta side is free to extend the base object.
func (c *Context) tryObjectUpdate(ou ObjectUpdate) (progress bool, err error) {
	base, err := c.prime(ou.Base)
	if err != nil {
		return false, err
	}

	b, ok := base.(*typeterm.Object)
	if !ok {
		if typeterm.IsMeta(base) {
			return false, nil
		}
		return true, diagnostic.NewUnificationFailure(base, ou.Result, ou.Context)
	}

	merged := make(map[string]typeterm.Type, len(b.Fields)+len(ou.Deltas))
	for name, ft := range b.Fields {
		merged[name] = ft
	}
	for name, dt := range ou.Deltas {
		if baseField, ok := b.Fields[name]; ok {
			if err := c.Unify(baseField, dt, ou.Context); err != nil {
				return true, err
			}
		}
		merged[name] = dt
	}

	result := &typeterm.Object{Fields: merged, ObjKind: b.ObjKind}
	return true, c.Unify(ou.Result, result, ou.Context)
}

// SolveConstraints processes constraints in emission order,
// accumulating one diagnostic per failing constraint rather than
// stopping at the first (spec §6). ElementOf and ObjectUpdate
// constraints whose structural operand is not yet known are re-queued
// and retried after a full sweep makes progress elsewhere; a sweep
// that resolves nothing new reports every remaining deferred
// constraint as unresolved.
func (c *Context) SolveConstraints(constraints []Constraint) []error {
	var errs []error
	var deferred []Constraint

	for _, ct := range constraints {
		switch v := ct.(type) {
		case Equality:
			if err := c.Unify(v.A, v.B, v.Context); err != nil {
				errs = append(errs, err)
			}
		case Unconstrained:
			// always satisfied
		case ElementOf, ObjectUpdate:
			deferred = append(deferred, v)
		default:
			panic("unify: unknown constraint type")
		}
	}

	for len(deferred) > 0 {
		var next []Constraint
		progressedAny := false

		for _, ct := range deferred {
			var progressed bool
			var err error
			switch v := ct.(type) {
			case ElementOf:
				progressed, err = c.tryElementOf(v)
			case ObjectUpdate:
				progressed, err = c.tryObjectUpdate(v)
			}
			if err != nil {
				errs = append(errs, err)
				progressedAny = true
				continue
			}
			if progressed {
				progressedAny = true
				continue
			}
			next = append(next, ct)
		}

		if !progressedAny {
			for _, ct := range next {
				errs = append(errs, unresolvedConstraintError(ct))
			}
			break
		}
		deferred = next
	}

	return errs
}

func unresolvedConstraintError(ct Constraint) error {
	switch v := ct.(type) {
	case ElementOf:
		return diagnostic.NewUnificationFailure(v.Tuple, v.Elem, v.Context)
	case ObjectUpdate:
		return diagnostic.NewUnificationFailure(v.Base, v.Result, v.Context)
	default:
		return diagnostic.NewUnificationFailure(nil, nil, "")
	}
}
