package unify

import (
	"github.com/vela-lang/typecore/internal/diagnostic"
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// Context holds the state threaded through a single unification pass:
// the symbol table (for stub stripping), the substitution environment
// being built up (spec §4.3 "Input"), and the id generator row
// unification draws fresh tail variables from (shared with whatever
// walker context produced the id's the symtab and constraints already
// reference, per the inherit-and-extend discipline in spec §5). It
// depends only on typeterm.SymbolTable's narrow FollowLink view, which
// *symtab.SymbolTable satisfies structurally.
type Context struct {
	symtab typeterm.SymbolTable
	subst  symtab.SubstitutionEnv
	gen    *ids.Generator
}

// NewContext creates a unification context over an initial
// substitution environment, which must already self-map every
// variable the walker created (spec §3 invariant).
func NewContext(st typeterm.SymbolTable, initial symtab.SubstitutionEnv, gen *ids.Generator) *Context {
	return &Context{symtab: st, subst: initial, gen: gen}
}

// Substitutions returns the current substitution environment.
func (c *Context) Substitutions() symtab.SubstitutionEnv { return c.subst }

// prime follows substitution chains and strips stub layers, per spec
// §4.3 step 1: "if a side is Variable(id) and subst[id] != Variable(id),
// recurse on subst[id]".
func (c *Context) prime(t typeterm.Type) (typeterm.Type, error) {
	for {
		stripped, err := typeterm.StripAllStubLayers(t, c.symtab)
		if err != nil {
			return nil, err
		}
		t = stripped

		v, ok := t.(*typeterm.Variable)
		if !ok {
			return t, nil
		}
		next, has := c.subst[v.SubstitutionID]
		if !has || isSameVariable(next, v.SubstitutionID) {
			return t, nil
		}
		t = next
	}
}

func isSameVariable(t typeterm.Type, id ids.SubstitutionID) bool {
	v, ok := t.(*typeterm.Variable)
	return ok && v.IsSameVariableAs(id)
}

// Unify attempts to unify a and b, mutating the context's substitution
// environment on success (spec §4.3 steps 1-9).
func (c *Context) Unify(a, b typeterm.Type, context string) error {
	pa, err := c.prime(a)
	if err != nil {
		return err
	}
	pb, err := c.prime(b)
	if err != nil {
		return err
	}

	if va, ok := pa.(*typeterm.Variable); ok {
		if vb, ok := pb.(*typeterm.Variable); ok && va.SubstitutionID == vb.SubstitutionID {
			return nil // step 2: equal type variables
		}
		return c.bind(va.SubstitutionID, pb)
	}
	if vb, ok := pb.(*typeterm.Variable); ok {
		return c.bind(vb.SubstitutionID, pa)
	}

	switch ta := pa.(type) {
	case *typeterm.Primitive:
		tb, ok := pb.(*typeterm.Primitive)
		if !ok || !ta.Equals(tb) {
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}
		return nil

	case *typeterm.Opaque:
		// Opaque unifies with any pointer type and with itself (step 6).
		switch pb.(type) {
		case *typeterm.Opaque, *typeterm.Pointer:
			return nil
		default:
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}

	case *typeterm.Pointer:
		if _, ok := pb.(*typeterm.Opaque); ok {
			return nil
		}
		tb, ok := pb.(*typeterm.Pointer)
		if !ok {
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}
		return c.Unify(ta.Inner, tb.Inner, context)

	case *typeterm.Reference:
		tb, ok := pb.(*typeterm.Reference)
		if !ok {
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}
		return c.Unify(ta.Inner, tb.Inner, context)

	case *typeterm.Tuple:
		tb, ok := pb.(*typeterm.Tuple)
		if !ok || len(ta.Elements) != len(tb.Elements) {
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}
		for i := range ta.Elements {
			if err := c.Unify(ta.Elements[i], tb.Elements[i], context); err != nil {
				return err
			}
		}
		return nil

	case *typeterm.Range:
		tb, ok := pb.(*typeterm.Range)
		if !ok || ta.Lo != tb.Lo || ta.Hi != tb.Hi {
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}
		return nil

	case *typeterm.Unit:
		if _, ok := pb.(*typeterm.Unit); ok {
			return nil
		}
		return diagnostic.NewUnificationFailure(pa, pb, context)

	case *typeterm.Union:
		tb, ok := pb.(*typeterm.Union)
		if !ok || ta.Decl.RegistryID != tb.Decl.RegistryID {
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}
		return nil

	case *typeterm.Signature:
		tb, ok := pb.(*typeterm.Signature)
		if !ok {
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}
		return c.unifySignatures(ta, tb, context)

	case *typeterm.Object:
		tb, ok := pb.(*typeterm.Object)
		if !ok {
			return diagnostic.NewUnificationFailure(pa, pb, context)
		}
		return c.unifyObjects(ta, tb, context)

	default:
		return diagnostic.NewUnificationFailure(pa, pb, context)
	}
}

// bind performs the occurs check and, on success, binds id to t (spec
// §4.3 step 3).
func (c *Context) bind(id ids.SubstitutionID, t typeterm.Type) error {
	if v, ok := t.(*typeterm.Variable); ok && v.SubstitutionID == id {
		return nil
	}

	occurs, err := c.occurs(id, t)
	if err != nil {
		return err
	}
	if occurs {
		return diagnostic.NewCyclicType(t)
	}

	c.subst[id] = t
	return nil
}

func (c *Context) unifySignatures(a, b *typeterm.Signature, context string) error {
	fixedParams, extra, err := c.reconcileArity(a, b, context)
	if err != nil {
		return err
	}
	for i := 0; i < fixedParams; i++ {
		if err := c.Unify(a.ParameterTypes[i], b.ParameterTypes[i], context); err != nil {
			return err
		}
	}
	_ = extra // trailing actual parameters on the fixed side are unconstrained
	return c.Unify(a.ReturnType, b.ReturnType, context)
}

// reconcileArity implements spec §4.3 step 4's signature arity rule: a
// variadic signature unifies with a fixed signature of n parameters iff
// n >= min_fixed, with only the first min_fixed parameter types
// unified pairwise; two fixed signatures must match exactly; two
// variadic signatures unify their minimums pairwise.
func (c *Context) reconcileArity(a, b *typeterm.Signature, context string) (fixedParams, extra int, err error) {
	switch {
	case !a.Arity.Variadic && !b.Arity.Variadic:
		if len(a.ParameterTypes) != len(b.ParameterTypes) {
			return 0, 0, diagnostic.NewArityMismatch(len(a.ParameterTypes), len(b.ParameterTypes), "")
		}
		return len(a.ParameterTypes), 0, nil

	case a.Arity.Variadic && !b.Arity.Variadic:
		if len(b.ParameterTypes) < a.Arity.MinFixed {
			return 0, 0, diagnostic.NewArityMismatch(a.Arity.MinFixed, len(b.ParameterTypes), "")
		}
		return a.Arity.MinFixed, len(b.ParameterTypes) - a.Arity.MinFixed, nil

	case !a.Arity.Variadic && b.Arity.Variadic:
		if len(a.ParameterTypes) < b.Arity.MinFixed {
			return 0, 0, diagnostic.NewArityMismatch(b.Arity.MinFixed, len(a.ParameterTypes), "")
		}
		return b.Arity.MinFixed, len(a.ParameterTypes) - b.Arity.MinFixed, nil

	default: // both variadic
		min := a.Arity.MinFixed
		if b.Arity.MinFixed < min {
			min = b.Arity.MinFixed
		}
		return min, 0, nil
	}
}
