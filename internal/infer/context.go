// Package infer implements the Inference Walker (spec §4.2): it
// traverses resolved AST nodes, fabricates fresh type variables where
// hints are absent, seeds the type environment, and emits equality
// (and the two deferred-constraint) constraints for the unifier to
// solve.
//
// Grounded on internal/types/typechecker_core.go's CoreTypeChecker /
// inferCore dispatch idiom in the teacher (one method per node kind,
// errors accumulated rather than thrown), generalized to the node set
// and per-node rules in spec §4.2's table.
package infer

import (
	"fmt"

	"github.com/vela-lang/typecore/internal/astir"
	"github.com/vela-lang/typecore/internal/config"
	"github.com/vela-lang/typecore/internal/diagnostic"
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/srcnorm"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
	"github.com/vela-lang/typecore/internal/unify"
)

// Context is a walker context: an id generator, a constraint list, a
// substitution environment, a type environment, and a borrow of the
// symbol table (spec §4.2 "Context object"). inProgress maps a
// Function node currently being walked to its (possibly still
// partial) signature, shared by reference across an entire
// transient() tree (see note on inferFunction): a Reference that
// resolves back to a function already on the walk stack — direct
// recursion — reads that signature instead of re-entering transient's
// fresh walk, which would otherwise recurse forever. The signature is
// keyed in this map rather than looked up via typeEnv because a
// transient child starts with its own empty typeEnv.
type Context struct {
	gen        *ids.Generator
	symtab     *symtab.SymbolTable
	subst      symtab.SubstitutionEnv
	typeEnv    symtab.TypeEnvironment
	cons       []unify.Constraint
	errors     []error
	inProgress map[ids.TypeID]typeterm.Type
	cfg        config.Pass
}

// NewContext creates a root walker context seeded with initialIDCount,
// an empty substitution environment, an empty type environment, and
// the default pass configuration (see NewContextWithConfig to override
// literal-default widths and similar knobs).
func NewContext(st *symtab.SymbolTable, initialIDCount uint64) *Context {
	return NewContextWithConfig(st, initialIDCount, config.Default())
}

// NewContextWithConfig is NewContext with an explicit config.Pass,
// typically loaded via config.Load from the driver (spec §6).
func NewContextWithConfig(st *symtab.SymbolTable, initialIDCount uint64, cfg config.Pass) *Context {
	return &Context{
		gen:        ids.NewGenerator(initialIDCount),
		symtab:     st,
		subst:      symtab.NewSubstitutionEnv(),
		typeEnv:    symtab.NewTypeEnvironment(),
		inProgress: make(map[ids.TypeID]typeterm.Type),
		cfg:        cfg,
	}
}

// InferenceResultData is what a transient child context reports back
// to be merged into its parent (spec §4.2 "transient(n)").
type InferenceResultData struct {
	Constraints []unify.Constraint
	Subst       symtab.SubstitutionEnv
	TypeEnv     symtab.TypeEnvironment
	NextIDCount uint64
	Errors      []error
}

// IntoOverallResult packages the context's accumulated state for the
// unifier/resolver (spec §6, InferenceContext::into_overall_result).
func (c *Context) IntoOverallResult() InferenceResultData {
	return InferenceResultData{
		Constraints: c.cons,
		Subst:       c.subst,
		TypeEnv:     c.typeEnv,
		NextIDCount: c.gen.Counter(),
		Errors:      c.errors,
	}
}

// addError accumulates an error without aborting the walk (spec §7).
func (c *Context) addError(err error) {
	c.errors = append(c.errors, err)
}

// createTypeVariable fabricates a fresh Variable and self-maps it in
// the substitution environment (spec §4.2).
func (c *Context) createTypeVariable(debugName string) *typeterm.Variable {
	id := c.gen.NextSubstitutionID()
	v := &typeterm.Variable{SubstitutionID: id, DebugName: srcnorm.Identifier(debugName)}
	c.subst[id] = v
	return v
}

// addConstraint pushes an Equality(a, b) constraint.
func (c *Context) addConstraint(a, b typeterm.Type, context string) {
	c.cons = append(c.cons, unify.Equality{A: a, B: b, Context: context})
}

// constrain visits n and pushes Equality(expected, n's type).
func (c *Context) constrain(n astir.Expr, expected typeterm.Type, context string) {
	actual := c.Visit(n)
	c.addConstraint(expected, actual, context)
}

// write records n's inferred type in the type environment and returns
// it, the common tail of every per-node rule below.
func (c *Context) write(n astir.Node, ty typeterm.Type) typeterm.Type {
	c.typeEnv[n.TypeID()] = ty
	return ty
}

// transient performs visit(n) in a fresh context that inherits this
// context's id counter, then merges the child's produced data back
// per the inherit-and-extend discipline (spec §4.2), returning n's
// type with any top-level stub layers stripped. Used to give every
// Reference to a function its own fresh walk rather than a cached
// result.
func (c *Context) transient(n astir.Expr) typeterm.Type {
	child := &Context{
		gen:        ids.NewGenerator(c.gen.Counter()),
		symtab:     c.symtab,
		subst:      symtab.NewSubstitutionEnv(),
		typeEnv:    symtab.NewTypeEnvironment(),
		inProgress: c.inProgress, // shared: recursion detection spans the whole transient tree
		cfg:        c.cfg,
	}
	ty := child.Visit(n)
	c.merge(child)

	// Finalize: a transient result is never handed back as a bare
	// top-level stub.
	stripped, err := typeterm.StripAllStubLayers(ty, c.symtab)
	if err != nil {
		c.addError(diagnostic.NewTypeResolutionFailure(ty.String(), err.Error()))
		return ty
	}
	return stripped
}

// merge folds a child context's produced data into c, asserting the
// inherit-and-extend invariants (spec §4.2): the child's id counter
// must not have gone backwards, and none of its substitution ids may
// already exist in the parent (no aliasing of variable slots).
func (c *Context) merge(child *Context) {
	if child.gen.Counter() < c.gen.Counter() {
		panic("infer: child context's id counter went backwards — inherit-and-extend violated")
	}
	for id, ty := range child.subst {
		if _, exists := c.subst[id]; exists {
			panic(fmt.Sprintf("infer: substitution id %s aliased between parent and child context", id))
		}
		c.subst[id] = ty
	}
	for typeID, ty := range child.typeEnv {
		c.typeEnv[typeID] = ty
	}
	c.cons = append(c.cons, child.cons...)
	c.errors = append(c.errors, child.errors...)

	// Absorb the child's advanced counter so subsequently generated ids
	// in c remain globally unique.
	if child.gen.Counter() > c.gen.Counter() {
		c.gen = ids.NewGenerator(child.gen.Counter())
	}
}

// Visit dispatches n to its per-node inference rule (spec §4.2's
// table), writes its type into the type environment, and returns it.
// Any node kind this core doesn't recognize is a caller invariant
// violation, not a recoverable inference failure.
func (c *Context) Visit(n astir.Expr) typeterm.Type {
	switch e := n.(type) {
	case *astir.Literal:
		return c.inferLiteral(e)
	case *astir.Parameter:
		return c.inferParameter(e)
	case *astir.Binding:
		return c.inferBinding(e)
	case *astir.Reference:
		return c.inferReference(e)
	case *astir.Function:
		return c.inferFunction(e)
	case *astir.ForeignFunction:
		return c.inferForeignFunction(e)
	case *astir.CallSite:
		return c.inferCallSite(e)
	case *astir.BinaryOp:
		return c.inferBinaryOp(e)
	case *astir.UnaryOp:
		return c.inferUnaryOp(e)
	case *astir.If:
		return c.inferIf(e)
	case *astir.Match:
		return c.inferMatch(e)
	case *astir.Block:
		return c.inferBlock(e)
	case *astir.ObjectLiteral:
		return c.inferObjectLiteral(e)
	case *astir.ObjectAccess:
		return c.inferObjectAccess(e)
	case *astir.ObjectUpdate:
		return c.inferObjectUpdate(e)
	case *astir.Tuple:
		return c.inferTuple(e)
	case *astir.TupleIndexing:
		return c.inferTupleIndexing(e)
	case *astir.PointerIndexing:
		return c.inferPointerIndexing(e)
	case *astir.PointerAssignment:
		return c.inferPointerAssignment(e)
	case *astir.Cast:
		return c.inferCast(e)
	case *astir.Sizeof:
		return c.inferSizeof(e)
	case *astir.Statement:
		return c.inferStatement(e)
	case *astir.UnionVariantInstance:
		return c.inferUnionVariantInstance(e)
	default:
		panic(fmt.Sprintf("infer: unhandled AST node type %T", n))
	}
}

// integer64Unsigned is the fixed type pointer indices, sizeof results
// and raw byte counts are constrained to (spec §4.2 table).
func integer64Unsigned() *typeterm.Primitive {
	return &typeterm.Primitive{PKind: typeterm.Integer, Width: 64, Signed: false}
}
