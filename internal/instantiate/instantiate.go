// Package instantiate is the interface-only collaborator spec §4.5
// describes: generic-instantiation/universe machinery is stubbed here
// rather than implemented. The package exposes a UniverseStack type,
// which resolution does not take or thread, and the one operation
// built atop an ephemeral unification context
// (structural equality via unification, used to deduplicate artifacts).
//
// Grounded on the teacher's typechecker_core.go pattern of spinning up
// a throwaway unifier to check whether two inferred types could be the
// same type, used there to dedupe overlapping instance resolutions.
package instantiate

import (
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
	"github.com/vela-lang/typecore/internal/unify"
)

// UniverseStack is a plain stack of opaque generic-instantiation scope
// ids; this core never interprets what a UniverseID means. It offers
// Push and Current only. resolve.Helper takes no UniverseStack, so the
// stack is not threaded through resolution.
type UniverseStack []ids.UniverseID

// Push returns a new stack with u appended, leaving the receiver
// unmodified.
func (s UniverseStack) Push(u ids.UniverseID) UniverseStack {
	out := make(UniverseStack, len(s), len(s)+1)
	copy(out, s)
	return append(out, u)
}

// Current returns the innermost universe and whether the stack is
// non-empty.
func (s UniverseStack) Current() (ids.UniverseID, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// CompareByUnification decides structural equality of a and b by
// instantiating an ephemeral unification context seeded with a's and
// b's own free variables self-mapped, and discarding it afterward
// (spec §4.5). Used elsewhere (e.g. deduplicating resolved artifacts)
// to ask "are these the same type" without mutating any real
// substitution environment.
func CompareByUnification(a, b typeterm.Type, st *symtab.SymbolTable) bool {
	ephemeral := symtab.NewSubstitutionEnv()
	selfMapFreeVariables(a, ephemeral)
	selfMapFreeVariables(b, ephemeral)

	gen := ids.NewGenerator(0)
	ctx := unify.NewContext(st, ephemeral, gen)
	return ctx.Unify(a, b, "structural equality check") == nil
}

// selfMapFreeVariables walks t looking for Variables (and open-row
// ids) and self-maps each one in env, so the ephemeral environment
// holds an entry for every variable before unification runs (spec §3
// invariant). Every such variable is therefore unbound in the
// ephemeral Unify call, whatever it may be bound to elsewhere.
func selfMapFreeVariables(t typeterm.Type, env symtab.SubstitutionEnv) {
	switch v := t.(type) {
	case *typeterm.Variable:
		if _, ok := env[v.SubstitutionID]; !ok {
			env[v.SubstitutionID] = v
		}
	case *typeterm.Pointer:
		selfMapFreeVariables(v.Inner, env)
	case *typeterm.Reference:
		selfMapFreeVariables(v.Inner, env)
	case *typeterm.Tuple:
		for _, e := range v.Elements {
			selfMapFreeVariables(e, env)
		}
	case *typeterm.Object:
		for _, name := range v.SortedFieldNames() {
			selfMapFreeVariables(v.Fields[name], env)
		}
		if v.ObjKind.Open {
			id := v.ObjKind.OpenID
			if _, ok := env[id]; !ok {
				env[id] = &typeterm.Variable{SubstitutionID: id}
			}
		}
	case *typeterm.Signature:
		for _, p := range v.ParameterTypes {
			selfMapFreeVariables(p, env)
		}
		selfMapFreeVariables(v.ReturnType, env)
	}
}
