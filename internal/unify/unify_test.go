package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
)

func freshContext() (*Context, *ids.Generator) {
	gen := ids.NewGenerator(0)
	return NewContext(symtab.New(), symtab.NewSubstitutionEnv(), gen), gen
}

func i32() *typeterm.Primitive {
	return &typeterm.Primitive{PKind: typeterm.Integer, Width: 32, Signed: true}
}

func boolT() *typeterm.Primitive {
	return &typeterm.Primitive{PKind: typeterm.Bool}
}

func freshVar(gen *ids.Generator) *typeterm.Variable {
	return &typeterm.Variable{SubstitutionID: gen.NextSubstitutionID()}
}

func TestUnify_PrimitivesMatch(t *testing.T) {
	c, _ := freshContext()
	require.NoError(t, c.Unify(i32(), i32(), "test"))
}

func TestUnify_PrimitivesMismatch(t *testing.T) {
	c, _ := freshContext()
	require.Error(t, c.Unify(i32(), boolT(), "test"), "expected unification failure")
}

func TestUnify_VariableBindsToConcrete(t *testing.T) {
	c, gen := freshContext()
	v := freshVar(gen)
	c.subst[v.SubstitutionID] = v

	require.NoError(t, c.Unify(v, i32(), "test"))
	assert.Equal(t, typeterm.Type(i32()), c.subst[v.SubstitutionID])
}

func TestUnify_OccursCheckRejectsSelfReferentialPointer(t *testing.T) {
	c, gen := freshContext()
	v := freshVar(gen)
	c.subst[v.SubstitutionID] = v

	cyclic := &typeterm.Pointer{Inner: v}
	require.Error(t, c.Unify(v, cyclic, "test"), "expected cyclic-type error")
}

func TestUnify_PointerRecursesStructurally(t *testing.T) {
	c, _ := freshContext()
	a := &typeterm.Pointer{Inner: i32()}
	b := &typeterm.Pointer{Inner: i32()}
	require.NoError(t, c.Unify(a, b, "test"))
}

func TestUnify_PointerInnerMismatchFails(t *testing.T) {
	c, _ := freshContext()
	a := &typeterm.Pointer{Inner: i32()}
	b := &typeterm.Pointer{Inner: boolT()}
	require.Error(t, c.Unify(a, b, "test"))
}

func TestUnify_OpaqueUnifiesWithAnyPointer(t *testing.T) {
	c, _ := freshContext()
	opaque := &typeterm.Opaque{}
	ptr := &typeterm.Pointer{Inner: i32()}
	require.NoError(t, c.Unify(opaque, ptr, "test"))
	require.NoError(t, c.Unify(ptr, opaque, "test"), "reversed operand order")
}

func TestUnify_FixedSignatureArityMismatchFails(t *testing.T) {
	c, _ := freshContext()
	a := &typeterm.Signature{ParameterTypes: []typeterm.Type{i32()}, ReturnType: &typeterm.Unit{}}
	b := &typeterm.Signature{ParameterTypes: []typeterm.Type{i32(), i32()}, ReturnType: &typeterm.Unit{}}
	require.Error(t, c.Unify(a, b, "test"), "expected arity mismatch")
}

func TestUnify_VariadicSignatureAcceptsExtraFixedArgs(t *testing.T) {
	c, _ := freshContext()
	variadic := &typeterm.Signature{
		ParameterTypes: []typeterm.Type{&typeterm.Primitive{PKind: typeterm.CString}},
		ReturnType:     &typeterm.Primitive{PKind: typeterm.Integer, Width: 32, Signed: true},
		Arity:          typeterm.VariadicMin(1),
	}
	actual := &typeterm.Signature{
		ParameterTypes: []typeterm.Type{
			&typeterm.Primitive{PKind: typeterm.CString},
			i32(),
			i32(),
		},
		ReturnType: i32(),
	}
	require.NoError(t, c.Unify(variadic, actual, "test"))
}

func TestUnify_TupleElementwise(t *testing.T) {
	c, _ := freshContext()
	a := &typeterm.Tuple{Elements: []typeterm.Type{i32(), boolT()}}
	b := &typeterm.Tuple{Elements: []typeterm.Type{i32(), boolT()}}
	require.NoError(t, c.Unify(a, b, "test"))
}

func TestUnify_TupleArityMismatchFails(t *testing.T) {
	c, _ := freshContext()
	a := &typeterm.Tuple{Elements: []typeterm.Type{i32()}}
	b := &typeterm.Tuple{Elements: []typeterm.Type{i32(), boolT()}}
	require.Error(t, c.Unify(a, b, "test"))
}

func TestUnify_ClosedObjectsExactFieldSet(t *testing.T) {
	c, _ := freshContext()
	a := &typeterm.Object{Fields: map[string]typeterm.Type{"x": i32()}, ObjKind: typeterm.Closed()}
	b := &typeterm.Object{Fields: map[string]typeterm.Type{"x": i32()}, ObjKind: typeterm.Closed()}
	require.NoError(t, c.Unify(a, b, "test"))
}

func TestUnify_ClosedObjectsDifferentFieldsFails(t *testing.T) {
	c, _ := freshContext()
	a := &typeterm.Object{Fields: map[string]typeterm.Type{"x": i32()}, ObjKind: typeterm.Closed()}
	b := &typeterm.Object{Fields: map[string]typeterm.Type{"y": i32()}, ObjKind: typeterm.Closed()}
	require.Error(t, c.Unify(a, b, "test"))
}

func TestUnify_OpenObjectAgainstClosedBindsExtension(t *testing.T) {
	c, gen := freshContext()
	rowVar := gen.NextSubstitutionID()
	c.subst[rowVar] = &typeterm.Variable{SubstitutionID: rowVar}

	closedObj := &typeterm.Object{
		Fields:  map[string]typeterm.Type{"x": i32(), "y": boolT()},
		ObjKind: typeterm.Closed(),
	}
	openObj := &typeterm.Object{
		Fields:  map[string]typeterm.Type{"x": i32()},
		ObjKind: typeterm.Open(rowVar),
	}

	require.NoError(t, c.Unify(closedObj, openObj, "test"))

	bound, ok := c.subst[rowVar].(*typeterm.Object)
	require.True(t, ok, "expected row variable bound to an object, got %T", c.subst[rowVar])
	assert.Contains(t, bound.Fields, "y", "expected extension to carry field %q", "y")
}

func TestUnify_OpenObjectMissingFieldOnClosedSideFails(t *testing.T) {
	c, gen := freshContext()
	rowVar := gen.NextSubstitutionID()
	c.subst[rowVar] = &typeterm.Variable{SubstitutionID: rowVar}

	closedObj := &typeterm.Object{
		Fields:  map[string]typeterm.Type{"x": i32()},
		ObjKind: typeterm.Closed(),
	}
	openObj := &typeterm.Object{
		Fields:  map[string]typeterm.Type{"x": i32(), "z": boolT()},
		ObjKind: typeterm.Open(rowVar),
	}

	require.Error(t, c.Unify(closedObj, openObj, "test"))
}

func TestUnify_UnionsByRegistryIdentity(t *testing.T) {
	c, _ := freshContext()
	declA := &typeterm.UnionDecl{RegistryID: 1, Name: "Option"}
	declB := &typeterm.UnionDecl{RegistryID: 1, Name: "Option"}
	a := &typeterm.Union{Decl: declA}
	b := &typeterm.Union{Decl: declB}
	require.NoError(t, c.Unify(a, b, "test"))

	other := &typeterm.Union{Decl: &typeterm.UnionDecl{RegistryID: 2, Name: "Result"}}
	require.Error(t, c.Unify(a, other, "test"), "expected failure for distinct registry ids")
}

func TestSolveConstraints_ElementOfWaitsForStructuralTuple(t *testing.T) {
	c, gen := freshContext()
	tupleVar := freshVar(gen)
	c.subst[tupleVar.SubstitutionID] = tupleVar
	elem := freshVar(gen)
	c.subst[elem.SubstitutionID] = elem

	constraints := []Constraint{
		ElementOf{Tuple: tupleVar, Index: 1, Elem: elem, Context: "test"},
		Equality{A: tupleVar, B: &typeterm.Tuple{Elements: []typeterm.Type{i32(), boolT()}}, Context: "test"},
	}

	errs := c.SolveConstraints(constraints)
	require.Empty(t, errs)
	assert.Equal(t, typeterm.Type(boolT()), c.subst[elem.SubstitutionID])
}

func TestSolveConstraints_ObjectUpdateOverlaysDeltas(t *testing.T) {
	c, gen := freshContext()
	base := &typeterm.Object{
		Fields:  map[string]typeterm.Type{"x": i32(), "y": boolT()},
		ObjKind: typeterm.Closed(),
	}
	result := freshVar(gen)
	c.subst[result.SubstitutionID] = result

	constraints := []Constraint{
		ObjectUpdate{
			Base:    base,
			Deltas:  map[string]typeterm.Type{"y": boolT()},
			Result:  result,
			Context: "test",
		},
	}

	errs := c.SolveConstraints(constraints)
	require.Empty(t, errs)

	resolved, ok := c.subst[result.SubstitutionID].(*typeterm.Object)
	require.True(t, ok, "expected object result, got %T", c.subst[result.SubstitutionID])
	assert.Len(t, resolved.Fields, 2)
}

func TestSolveConstraints_UnconstrainedNeverFails(t *testing.T) {
	c, _ := freshContext()
	errs := c.SolveConstraints([]Constraint{Unconstrained{}})
	require.Empty(t, errs)
}
