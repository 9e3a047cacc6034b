package infer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vela-lang/typecore/internal/astir"
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/infer"
	"github.com/vela-lang/typecore/internal/resolve"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
	"github.com/vela-lang/typecore/internal/unify"
)

// pipelineResult bundles everything a test needs to both assert on
// unification errors and, past that, resolve any node's concrete type
// — the same three-stage handoff cmd/infercheck/main.go drives.
type pipelineResult struct {
	resolved *resolve.Helper
	errs     []error
}

// runPipeline walks node, unifies every emitted constraint, and wires
// up a Resolver over the resulting substitution/type environments
// (mirroring internal/types/builder_test.go and
// internal/types/row_unification_regression_test.go's
// infer-then-unify-then-inspect-substitution structure in the
// teacher).
func runPipeline(t *testing.T, st *symtab.SymbolTable, node astir.Expr) pipelineResult {
	t.Helper()
	ctx := infer.NewContext(st, 0)
	ctx.Visit(node)
	result := ctx.IntoOverallResult()

	gen := ids.NewGenerator(result.NextIDCount)
	uctx := unify.NewContext(st, result.Subst, gen)
	errs := uctx.SolveConstraints(result.Constraints)

	return pipelineResult{
		resolved: resolve.NewHelper(st, uctx.Substitutions(), result.TypeEnv),
		errs:     errs,
	}
}

func intPrim(width int) *typeterm.Primitive {
	return &typeterm.Primitive{PKind: typeterm.Integer, Width: width, Signed: true}
}

// TestS1_IdentityFunctionCall mirrors spec §8 S1: `fn id(x) = x` called
// with `id(true)` resolves both the parameter and the call's own
// result to Bool.
func TestS1_IdentityFunctionCall(t *testing.T) {
	st := symtab.New()

	param := &astir.Parameter{Base: astir.Base{ID: 1}, Name: "x"}
	paramRef := &astir.Reference{Base: astir.Base{ID: 2}, Link: 100, Name: "x"}
	fn := &astir.Function{
		Base:      astir.Base{ID: 3},
		Name:      "id",
		Signature: astir.Signature{Parameters: []*astir.Parameter{param}},
		Body:      paramRef,
	}
	st.Link(100, 1, "x")
	st.Declare(1, symtab.ParameterItem{Name: "x", DeclTypeID: 1})
	st.Declare(4, symtab.FunctionItem{Name: "id", Node: fn})
	st.Link(200, 4, "id")

	fnRef := &astir.Reference{Base: astir.Base{ID: 5}, Link: 200, Name: "id"}
	arg := &astir.Literal{Base: astir.Base{ID: 6}, Kind: astir.LitBool}
	call := &astir.CallSite{
		Base:         astir.Base{ID: 7},
		CalleeTypeID: 8,
		Callee:       fnRef,
		Arguments:    []astir.Expr{arg},
	}

	pr := runPipeline(t, st, call)
	require.Empty(t, pr.errs, "unexpected unification errors")

	callType, err := pr.resolved.ResolveByID(call.TypeID())
	require.NoError(t, err, "resolving the call's own type")
	assert.Equal(t, &typeterm.Primitive{PKind: typeterm.Bool}, callType, "call result must resolve to Bool")

	paramType, err := pr.resolved.ResolveByID(param.TypeID())
	require.NoError(t, err, "resolving the parameter's declared type")
	assert.Equal(t, &typeterm.Primitive{PKind: typeterm.Bool}, paramType, "parameter must resolve to Bool, the type it was called with")
}

// TestS4_RecursiveFunction mirrors spec §8 S4: a directly recursive
// function walks without looping forever, thanks to the signature
// being registered before the body is walked, and resolves to the
// signature its hints declare.
func TestS4_RecursiveFunction(t *testing.T) {
	st := symtab.New()

	i64 := intPrim(64)
	param := &astir.Parameter{Base: astir.Base{ID: 1}, Name: "n", TypeHint: i64}
	st.Declare(1, symtab.ParameterItem{Name: "n", DeclTypeID: 1})
	st.Link(100, 1, "n")

	fn := &astir.Function{
		Base: astir.Base{ID: 2},
		Name: "fact",
		Signature: astir.Signature{
			Parameters:     []*astir.Parameter{param},
			ReturnTypeHint: i64,
		},
	}
	st.Declare(2, symtab.FunctionItem{Name: "fact", Node: fn})
	st.Link(200, 2, "fact")

	// Body: if n == 0 then 1 else n * fact(n - 1)
	nRef := &astir.Reference{Base: astir.Base{ID: 3}, Link: 100, Name: "n"}
	zero := &astir.Literal{Base: astir.Base{ID: 4}, Kind: astir.LitNumber}
	cond := &astir.BinaryOp{Base: astir.Base{ID: 5}, Op: astir.OpEq, Left: nRef, Right: zero}

	one := &astir.Literal{Base: astir.Base{ID: 6}, Kind: astir.LitNumber}

	nRef2 := &astir.Reference{Base: astir.Base{ID: 7}, Link: 100, Name: "n"}
	factRef := &astir.Reference{Base: astir.Base{ID: 8}, Link: 200, Name: "fact"}
	nRef3 := &astir.Reference{Base: astir.Base{ID: 9}, Link: 100, Name: "n"}
	one2 := &astir.Literal{Base: astir.Base{ID: 10}, Kind: astir.LitNumber}
	nMinusOne := &astir.BinaryOp{Base: astir.Base{ID: 11}, Op: astir.OpSub, Left: nRef3, Right: one2}
	recCall := &astir.CallSite{
		Base:         astir.Base{ID: 12},
		CalleeTypeID: 13,
		Callee:       factRef,
		Arguments:    []astir.Expr{nMinusOne},
	}
	nTimesRec := &astir.BinaryOp{Base: astir.Base{ID: 14}, Op: astir.OpMul, Left: nRef2, Right: recCall}

	body := &astir.If{Base: astir.Base{ID: 15}, Condition: cond, Then: one, Else: nTimesRec}
	fn.Body = body

	pr := runPipeline(t, st, fn)
	require.Empty(t, pr.errs, "unexpected unification errors")

	fnType, err := pr.resolved.ResolveByID(fn.TypeID())
	require.NoError(t, err, "resolving fact's own signature")
	sig, ok := fnType.(*typeterm.Signature)
	require.True(t, ok, "fact must resolve to a Signature, got %T", fnType)
	assert.Equal(t, []typeterm.Type{intPrim(64)}, sig.ParameterTypes)
	assert.Equal(t, intPrim(64), sig.ReturnType)
}

// TestS5_OccursCheckCyclicPointer mirrors spec §8 S5: unifying a
// variable with a pointer to itself fails CyclicType.
func TestS5_OccursCheckCyclicPointer(t *testing.T) {
	st := symtab.New()
	gen := ids.NewGenerator(0)
	uctx := unify.NewContext(st, symtab.NewSubstitutionEnv(), gen)

	v := &typeterm.Variable{SubstitutionID: gen.NextSubstitutionID()}
	uctx.Substitutions()[v.SubstitutionID] = v

	cyclic := &typeterm.Pointer{Inner: v}
	err := uctx.Unify(v, cyclic, "test")
	require.Error(t, err, "expected cyclic type error")
}

// TestS6_VariadicForeignFunction mirrors spec §8 S6: a variadic
// foreign printf unifies against (cstring, i32, cstring) and fails
// with too few arguments.
func TestS6_VariadicForeignFunction(t *testing.T) {
	cstring := &typeterm.Primitive{PKind: typeterm.CString}
	printfSig := &typeterm.Signature{
		ParameterTypes: []typeterm.Type{cstring},
		ReturnType:     intPrim(32),
		Arity:          typeterm.VariadicMin(1),
	}

	st := symtab.New()
	gen := ids.NewGenerator(0)
	uctx := unify.NewContext(st, symtab.NewSubstitutionEnv(), gen)

	actual := &typeterm.Signature{
		ParameterTypes: []typeterm.Type{cstring, intPrim(32), cstring},
		ReturnType:     intPrim(32),
	}
	require.NoError(t, uctx.Unify(printfSig, actual, "test"))

	tooFew := &typeterm.Signature{ReturnType: intPrim(32)}
	err := uctx.Unify(printfSig, tooFew, "test")
	require.Error(t, err, "expected arity mismatch for zero arguments")
}

// TestS2_RowPolymorphicFieldAccess mirrors spec §8 S2: `fn first(o) =
// o.x`, called on `{x: 1, y: true}`, resolves without error, yields
// the field's own type, and the object's row variable collapses to
// the closed two-field argument record rather than a singleton.
func TestS2_RowPolymorphicFieldAccess(t *testing.T) {
	st := symtab.New()

	param := &astir.Parameter{Base: astir.Base{ID: 1}, Name: "o"}
	st.Declare(1, symtab.ParameterItem{Name: "o", DeclTypeID: 1})
	st.Link(100, 1, "o")

	oRef := &astir.Reference{Base: astir.Base{ID: 2}, Link: 100, Name: "o"}
	access := &astir.ObjectAccess{
		Base:       astir.Base{ID: 3},
		BaseTypeID: 4,
		Object:     oRef,
		FieldName:  "x",
	}

	fn := &astir.Function{
		Base:      astir.Base{ID: 5},
		Name:      "first",
		Signature: astir.Signature{Parameters: []*astir.Parameter{param}},
		Body:      access,
	}
	st.Declare(6, symtab.FunctionItem{Name: "first", Node: fn})
	st.Link(200, 6, "first")

	fnRef := &astir.Reference{Base: astir.Base{ID: 7}, Link: 200, Name: "first"}

	xField := &astir.Literal{Base: astir.Base{ID: 8}, Kind: astir.LitNumber}
	yField := &astir.Literal{Base: astir.Base{ID: 9}, Kind: astir.LitBool}
	arg := &astir.ObjectLiteral{
		Base:       astir.Base{ID: 10},
		FieldNames: []string{"x", "y"},
		FieldValues: map[string]astir.Expr{
			"x": xField,
			"y": yField,
		},
	}

	call := &astir.CallSite{
		Base:         astir.Base{ID: 11},
		CalleeTypeID: 12,
		Callee:       fnRef,
		Arguments:    []astir.Expr{arg},
	}

	pr := runPipeline(t, st, call)
	require.Empty(t, pr.errs, "unexpected unification errors")

	callType, err := pr.resolved.ResolveByID(call.TypeID())
	require.NoError(t, err, "resolving the call's own type")
	assert.Equal(t, intPrim(64), callType, "o.x must resolve to the field's own (default int) type")

	baseType, err := pr.resolved.ResolveByID(access.BaseTypeID)
	require.NoError(t, err, "resolving the synthesized base-object type")
	obj, ok := baseType.(*typeterm.Object)
	require.True(t, ok, "base type must resolve to an Object, got %T", baseType)
	assert.False(t, obj.ObjKind.Open, "the row must collapse to Closed once unified with the closed argument record")
	assert.ElementsMatch(t, []string{"x", "y"}, obj.SortedFieldNames(), "the base object must carry both of the argument record's fields, not just the accessed one")
}
