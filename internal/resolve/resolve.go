// Package resolve implements the Resolution Helper (spec §4.4): the
// final pass that turns a post-unification Type, whose immediate
// subtree may still carry variables or stubs, into one whose immediate
// subtree is fully concrete.
//
// Grounded on original_source/src/resolution.rs's BaseResolutionHelper
// and, for the accumulate-don't-throw idiom, on
// internal/types/typechecker_core.go's error handling in the teacher.
package resolve

import (
	"github.com/vela-lang/typecore/internal/diagnostic"
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// Helper resolves types against a fixed substitution environment,
// symbol table and type environment produced by a completed
// inference+unification pass.
type Helper struct {
	symtab  *symtab.SymbolTable
	subst   symtab.SubstitutionEnv
	typeEnv symtab.TypeEnvironment
}

// NewHelper creates a resolution helper over the unifier's final
// substitution environment and the walker's type environment.
func NewHelper(st *symtab.SymbolTable, subst symtab.SubstitutionEnv, typeEnv symtab.TypeEnvironment) *Helper {
	return &Helper{symtab: st, subst: subst, typeEnv: typeEnv}
}

// Resolve returns t with its immediate subtree made fully concrete
// (spec §4.4). A Variable still unresolved after unification, or a
// stub whose link is dangling, is reported as an error rather than
// silently left in the result.
func (h *Helper) Resolve(t typeterm.Type) (typeterm.Type, error) {
	// An open object's row extension lives behind its OpenID substitution
	// slot rather than in ImmediateSubtree, so the concrete-fast-path check
	// below would miss it entirely; route those through the full rebuild
	// unconditionally.
	if obj, ok := t.(*typeterm.Object); !ok || !obj.ObjKind.Open {
		if typeterm.IsImmediateSubtreeConcrete(t) {
			return t, nil
		}
	}

	switch v := t.(type) {
	case *typeterm.Stub:
		stripped, err := typeterm.StripAllStubLayers(t, h.symtab)
		if err != nil {
			return nil, err
		}
		if _, stillStub := stripped.(*typeterm.Stub); stillStub {
			return nil, diagnostic.NewStubTypeMissingSymbolTableEntry(v.Path.Name)
		}
		return h.Resolve(stripped)

	case *typeterm.Variable:
		next, ok := h.subst[v.SubstitutionID]
		if !ok || isSelfMapped(next, v.SubstitutionID) {
			return nil, diagnostic.NewCyclicType(t) // unresolved after unification: reported under the CyclicType kind
		}
		return h.Resolve(next)

	case *typeterm.Pointer:
		inner, err := h.Resolve(v.Inner)
		if err != nil {
			return nil, err
		}
		return &typeterm.Pointer{Inner: inner}, nil

	case *typeterm.Reference:
		inner, err := h.Resolve(v.Inner)
		if err != nil {
			return nil, err
		}
		return &typeterm.Reference{Inner: inner}, nil

	case *typeterm.Tuple:
		elems := make([]typeterm.Type, len(v.Elements))
		for i, e := range v.Elements {
			r, err := h.Resolve(e)
			if err != nil {
				return nil, err
			}
			elems[i] = r
		}
		return &typeterm.Tuple{Elements: elems}, nil

	case *typeterm.Object:
		names := v.SortedFieldNames()
		fields := make(map[string]typeterm.Type, len(names))
		for _, name := range names {
			r, err := h.Resolve(v.Fields[name])
			if err != nil {
				return nil, err
			}
			fields[name] = r
		}
		kind := v.ObjKind
		if kind.Open {
			resolvedKind, err := h.resolveObjectKind(kind)
			if err != nil {
				return nil, err
			}
			return mergeResolvedRow(fields, resolvedKind)
		}
		return &typeterm.Object{Fields: fields, ObjKind: kind}, nil

	case *typeterm.Signature:
		params := make([]typeterm.Type, len(v.ParameterTypes))
		for i, p := range v.ParameterTypes {
			r, err := h.Resolve(p)
			if err != nil {
				return nil, err
			}
			params[i] = r
		}
		ret, err := h.Resolve(v.ReturnType)
		if err != nil {
			return nil, err
		}
		return &typeterm.Signature{ParameterTypes: params, ReturnType: ret, Arity: v.Arity}, nil

	default:
		// Primitive, Opaque, Unit, Range, Union: already concrete, and not
		// reachable here since IsImmediateSubtreeConcrete would have
		// returned true above.
		return t, nil
	}
}

// resolveObjectKind follows an open row's tail variable, if bound, to
// see whether it settled on a concrete extension object.
func (h *Helper) resolveObjectKind(kind typeterm.ObjectKind) (typeterm.Type, error) {
	tail, ok := h.subst[kind.OpenID]
	if !ok || isSelfMapped(tail, kind.OpenID) {
		return nil, nil // still genuinely open: unresolved row, caller keeps the original fields only
	}
	return h.Resolve(tail)
}

// mergeResolvedRow folds a resolved row-tail object's fields into the
// base fields already resolved above, producing a single closed object
// once every row variable in the chain has settled (spec §4.3 step 5's
// row-unification binds the open side's tail to an extension object;
// resolution here collapses that chain into the final concrete
// record).
func mergeResolvedRow(base map[string]typeterm.Type, tail typeterm.Type) (typeterm.Type, error) {
	if tail == nil {
		return &typeterm.Object{Fields: base, ObjKind: typeterm.Closed()}, nil
	}
	tailObj, ok := tail.(*typeterm.Object)
	if !ok {
		return &typeterm.Object{Fields: base, ObjKind: typeterm.Closed()}, nil
	}
	merged := make(map[string]typeterm.Type, len(base)+len(tailObj.Fields))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range tailObj.Fields {
		merged[k] = v
	}
	return &typeterm.Object{Fields: merged, ObjKind: tailObj.ObjKind}, nil
}

func isSelfMapped(t typeterm.Type, id ids.SubstitutionID) bool {
	v, ok := t.(*typeterm.Variable)
	return ok && v.IsSameVariableAs(id)
}

// ResolveByID reads typeID out of the walker's type environment, then
// resolves it (spec §4.4 "resolve_by_id").
func (h *Helper) ResolveByID(typeID ids.TypeID) (typeterm.Type, error) {
	t, ok := h.typeEnv[typeID]
	if !ok {
		return nil, diagnostic.NewMissingEntryForTypeID(typeID)
	}
	return h.Resolve(t)
}
