// Package symtab provides the name-resolution collaborator this core
// consumes read-only: a registry of declared items plus a link table
// resolving name-use sites to declarations, and the two environments
// (TypeEnvironment, SubstitutionEnv) the inference pipeline threads
// through its phases.
//
// Grounded on the shape of internal/core's registry/NodeID idiom and
// internal/types/env.go's TypeEnv in the teacher, generalized per
// spec §3/§6.
package symtab

import (
	"fmt"

	"github.com/vela-lang/typecore/internal/astir"
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/srcnorm"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// RegistryItem is anything a LinkID may resolve to.
type RegistryItem interface{ isRegistryItem() }

// UnionItem is a declared union type.
type UnionItem struct{ Decl *typeterm.UnionDecl }

func (UnionItem) isRegistryItem() {}

// TypeDefItem is a named type alias.
type TypeDefItem struct {
	Name string
	Body typeterm.Type
}

func (TypeDefItem) isRegistryItem() {}

// FunctionItem is a user-defined function declaration. Node is walked
// afresh by every Reference to it (spec §4.2, "not cached, crucial for
// polymorphic fns") rather than reusing a single cached type, so that
// distinct call sites of the same function don't alias each other's
// type variables.
type FunctionItem struct {
	Name string
	Node *astir.Function
}

func (FunctionItem) isRegistryItem() {}

// ForeignFunctionItem is an extern/foreign function declaration. All
// parameter hints are required for these (spec §4.2 table, "absence is
// a bug").
type ForeignFunctionItem struct {
	Name      string
	Signature *typeterm.Signature
}

func (ForeignFunctionItem) isRegistryItem() {}

// ForeignVarItem is an extern variable declaration with a required
// type hint.
type ForeignVarItem struct {
	Name string
	Type typeterm.Type
}

func (ForeignVarItem) isRegistryItem() {}

// ParameterItem is a function parameter. DeclTypeID is the TypeID the
// walker wrote the parameter's type under when it first visited the
// declaration; references read that entry directly rather than
// re-walking (only Function references get a fresh transient walk).
type ParameterItem struct {
	Name       string
	DeclTypeID ids.TypeID
}

func (ParameterItem) isRegistryItem() {}

// ConstantItem is a top-level constant declaration.
type ConstantItem struct {
	Name       string
	DeclTypeID ids.TypeID
}

func (ConstantItem) isRegistryItem() {}

// BindingItem is a let-binding.
type BindingItem struct {
	Name       string
	DeclTypeID ids.TypeID
}

func (BindingItem) isRegistryItem() {}

// ClosureCaptureItem is a variable captured into a closure's environment.
type ClosureCaptureItem struct {
	Name       string
	DeclTypeID ids.TypeID
}

func (ClosureCaptureItem) isRegistryItem() {}

// SymbolTable is the read-only registry + link table. The walker reads
// it to resolve name-use sites (Reference nodes) and stub targets.
type SymbolTable struct {
	registry map[ids.RegistryID]RegistryItem
	links    map[ids.LinkID]ids.RegistryID
	names    map[ids.LinkID]string
}

// New creates an empty SymbolTable. Populate it with Declare/Link
// before use; it is treated as read-only once inference begins (spec
// §5).
func New() *SymbolTable {
	return &SymbolTable{
		registry: make(map[ids.RegistryID]RegistryItem),
		links:    make(map[ids.LinkID]ids.RegistryID),
		names:    make(map[ids.LinkID]string),
	}
}

// Declare registers an item under a registry id.
func (st *SymbolTable) Declare(id ids.RegistryID, item RegistryItem) {
	st.registry[id] = item
}

// Link associates a name-use site's link id with a previously declared
// registry entry, recording the display name for diagnostics. name is
// normalized (NFC, BOM-stripped) so diagnostics are stable regardless
// of the source encoding a name-use site arrived in.
func (st *SymbolTable) Link(link ids.LinkID, target ids.RegistryID, name string) {
	st.links[link] = target
	st.names[link] = srcnorm.Identifier(name)
}

// Registry looks up a declared item directly by registry id.
func (st *SymbolTable) Registry(id ids.RegistryID) (RegistryItem, bool) {
	item, ok := st.registry[id]
	return item, ok
}

// Resolve follows a link id all the way to its declared RegistryItem,
// for use by the inference walker (Reference and stub-owning rules).
func (st *SymbolTable) Resolve(link ids.LinkID) (RegistryItem, bool) {
	target, ok := st.links[link]
	if !ok {
		return nil, false
	}
	return st.Registry(target)
}

// LinkName returns the display name recorded for a link id, for
// diagnostics (e.g. UnboundVariable{name, location}).
func (st *SymbolTable) LinkName(link ids.LinkID) string {
	return st.names[link]
}

// FollowLink implements typeterm.SymbolTable: it resolves a stub's
// link path to the narrow StubTarget shape (type-def body or union
// decl) that the type-term model is allowed to see.
func (st *SymbolTable) FollowLink(path typeterm.LinkPath) (typeterm.StubTarget, bool) {
	item, ok := st.Resolve(path.Link)
	if !ok {
		return nil, false
	}
	switch v := item.(type) {
	case TypeDefItem:
		return typeterm.TypeDefTarget{Body: v.Body}, true
	case UnionItem:
		return typeterm.UnionTarget{Decl: v.Decl}, true
	default:
		panic(fmt.Sprintf("symtab: link %v targets %T, which is not a valid stub target (stubs may only reference type-defs or unions)", path.Link, item))
	}
}

// TypeEnvironment maps AST-node TypeIDs to the (possibly partial, then
// concrete) type attached to that node.
type TypeEnvironment map[ids.TypeID]typeterm.Type

// NewTypeEnvironment creates an empty type environment.
func NewTypeEnvironment() TypeEnvironment { return make(TypeEnvironment) }

// Clone returns a shallow copy, used when a child walker context must
// not mutate its parent's environment before being merged back in.
func (e TypeEnvironment) Clone() TypeEnvironment {
	out := make(TypeEnvironment, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// SubstitutionEnv maps SubstitutionIDs to types; an id mapped to its
// own Variable means unresolved (spec §3).
type SubstitutionEnv map[ids.SubstitutionID]typeterm.Type

// NewSubstitutionEnv creates an empty substitution environment.
func NewSubstitutionEnv() SubstitutionEnv { return make(SubstitutionEnv) }

// Clone returns a shallow copy.
func (e SubstitutionEnv) Clone() SubstitutionEnv {
	out := make(SubstitutionEnv, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// IsUnresolved reports whether id maps to its own self-map Variable.
func (e SubstitutionEnv) IsUnresolved(id ids.SubstitutionID) bool {
	ty, ok := e[id]
	if !ok {
		return true
	}
	v, ok := ty.(*typeterm.Variable)
	return ok && v.IsSameVariableAs(id)
}
