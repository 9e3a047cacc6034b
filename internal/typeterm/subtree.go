package typeterm

import "fmt"

// SymbolTable is the narrow read-only view onto the external symbol
// table that the type-term model needs: following a stub's link to
// whatever it targets. infer/unify/resolve use the richer
// internal/symtab.SymbolTable, which satisfies this interface
// structurally (see internal/symtab's FollowLink implementation).
type SymbolTable interface {
	FollowLink(LinkPath) (StubTarget, bool)
}

// StubTarget is what a stub's link may resolve to: a type-def's body,
// or a union declaration. Per spec §4.1, encountering anything else
// while stripping is a programming invariant violation.
type StubTarget interface{ isStubTarget() }

// TypeDefTarget is a stub link resolving to a named type alias's body.
type TypeDefTarget struct{ Body Type }

func (TypeDefTarget) isStubTarget() {}

// UnionTarget is a stub link resolving to a union declaration.
type UnionTarget struct{ Decl *UnionDecl }

func (UnionTarget) isStubTarget() {}

// MissingSymbolTableEntry is returned when a stub's link is dangling.
type MissingSymbolTableEntry struct{ Path LinkPath }

func (e *MissingSymbolTableEntry) Error() string {
	return fmt.Sprintf("symbol table missing entry for stub link %q", e.Path.Name)
}

// CyclicStubError is returned when stripping a stub's layers would
// loop forever because a type-def indirectly refers to itself (spec
// §9 design note "Cycles from stubs").
type CyclicStubError struct{ Path LinkPath }

func (e *CyclicStubError) Error() string {
	return fmt.Sprintf("cyclic type definition detected while resolving stub %q", e.Path.Name)
}

// maxStripIterations bounds the stub-strip loop by a generous multiple
// of any realistic registry size, so a genuinely cyclic chain of
// type-defs terminates with CyclicStubError instead of looping
// forever, per spec §9. Overridable via SetMaxStripIterations (wired
// from internal/config's Pass.MaxStripIterations).
var maxStripIterations = 1 << 20

// SetMaxStripIterations overrides the stub-strip loop bound; n must be
// positive. Intended to be called once at process startup from a
// loaded config.Pass, not concurrently with an in-flight resolution
// pass.
func SetMaxStripIterations(n int) {
	if n > 0 {
		maxStripIterations = n
	}
}

// StripAllStubLayers repeatedly follows a stub's link to the target
// declaration and replaces it with the declaration's body until the
// top-level type is no longer a stub. It does not descend into
// substructure (spec §4.1). A visited-path set additionally catches
// cycles well before the hard iteration bound is reached.
func StripAllStubLayers(t Type, st SymbolTable) (Type, error) {
	stub, ok := t.(*Stub)
	if !ok {
		return t, nil
	}

	visited := make(map[LinkPath]bool)
	current := stub

	for i := 0; i < maxStripIterations; i++ {
		if visited[current.Path] {
			return nil, &CyclicStubError{Path: current.Path}
		}
		visited[current.Path] = true

		target, ok := st.FollowLink(current.Path)
		if !ok {
			return nil, &MissingSymbolTableEntry{Path: current.Path}
		}

		var next Type
		switch item := target.(type) {
		case TypeDefTarget:
			next = item.Body
		case UnionTarget:
			next = &Union{Decl: item.Decl}
		default:
			panic(fmt.Sprintf("typeterm: stub link resolved to unsupported target %T (invariant violation: stubs may only target type-defs or unions)", target))
		}

		if nextStub, ok := next.(*Stub); ok {
			current = nextStub
			continue
		}
		return next, nil
	}

	return nil, &CyclicStubError{Path: stub.Path}
}

// ImmediateSubtree returns the direct child types of t, in structural
// order: pointer pointee; reference pointee; tuple elements in order;
// object fields in key order; signature parameter types in order.
// Return type is intentionally excluded (spec §4.1) — this exact set
// matters because the occurs check (through IndirectSubtree) and the
// resolver both rely on it.
func ImmediateSubtree(t Type) []Type {
	switch v := t.(type) {
	case *Pointer:
		return []Type{v.Inner}
	case *Reference:
		return []Type{v.Inner}
	case *Tuple:
		out := make([]Type, len(v.Elements))
		copy(out, v.Elements)
		return out
	case *Object:
		names := v.SortedFieldNames()
		out := make([]Type, len(names))
		for i, n := range names {
			out[i] = v.Fields[n]
		}
		return out
	case *Signature:
		out := make([]Type, len(v.ParameterTypes))
		copy(out, v.ParameterTypes)
		return out
	default:
		return nil
	}
}

// IsImmediateSubtreeConcrete reports whether t itself is not meta, and
// none of its immediate children are meta. Deeper meta types may still
// exist and are the resolver's responsibility (spec §4.1).
func IsImmediateSubtreeConcrete(t Type) bool {
	if IsMeta(t) {
		return false
	}
	for _, child := range ImmediateSubtree(t) {
		if IsMeta(child) {
			return false
		}
	}
	return true
}

// IndirectSubtree returns the stub-stripped transitive subtree of t:
// t's own stripped form is not included, but every descendant is
// visited after stripping any stub layers it carries. Used by the
// occurs check (spec §4.3 step 3), which must see through stubs to
// detect cycles like `V = Pointer(TypeAlias)` where `TypeAlias` itself
// expands to `V`.
func IndirectSubtree(t Type, st SymbolTable) ([]Type, error) {
	stripped, err := StripAllStubLayers(t, st)
	if err != nil {
		return nil, err
	}

	var out []Type
	stack := ImmediateSubtree(stripped)
	for len(stack) > 0 {
		n := len(stack) - 1
		child := stack[n]
		stack = stack[:n]

		strippedChild, err := StripAllStubLayers(child, st)
		if err != nil {
			return nil, err
		}
		out = append(out, strippedChild)
		stack = append(stack, ImmediateSubtree(strippedChild)...)
	}
	return out, nil
}
