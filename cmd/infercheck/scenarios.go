// Scenarios this demo drives through the pipeline. Each one hand-builds
// a tiny astir tree (parsing/name-resolution are out of this core's
// scope, spec §1) and a symbol table already wired for it, the way
// cmd/typecheck/main.go in the teacher hand-builds ast.Expr trees
// directly rather than invoking a parser.
package main

import (
	"github.com/vela-lang/typecore/internal/astir"
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// scenario is one named pipeline demo: a root expression plus the
// symbol table it was built against.
type scenario struct {
	name        string
	description string
	build       func() (*symtab.SymbolTable, astir.Expr)
}

func intPrim(width int) *typeterm.Primitive {
	return &typeterm.Primitive{PKind: typeterm.Integer, Width: width, Signed: true}
}

var scenarios = []scenario{
	{
		name:        "identity",
		description: `fn id(x) = x; id(true)`,
		build:       buildIdentityCall,
	},
	{
		name:        "let-polymorphism",
		description: `fn id(x) = x; (id(1), id(true))`,
		build:       buildLetPolymorphism,
	},
	{
		name:        "row-polymorphism",
		description: `fn first(o) = o.x; first({x: 1, y: true})`,
		build:       buildRowPolymorphism,
	},
	{
		name:        "recursive-function",
		description: `fn fact(n: i64): i64 = if n == 0 then 1 else n * fact(n - 1)`,
		build:       buildRecursiveFunction,
	},
	{
		name:        "mismatch",
		description: `true + 1 (fails: bool and integer operands)`,
		build:       buildTypeMismatch,
	},
}

// buildIdentityCall builds a single-parameter identity function and
// one call site applying it to a bool literal.
func buildIdentityCall() (*symtab.SymbolTable, astir.Expr) {
	st := symtab.New()

	param := &astir.Parameter{Base: astir.Base{ID: 1}, Name: "x"}
	fn := &astir.Function{
		Base:      astir.Base{ID: 2},
		Name:      "id",
		Signature: astir.Signature{Parameters: []*astir.Parameter{param}},
		Body:      &astir.Reference{Base: astir.Base{ID: 3}, Link: 100, Name: "x"},
	}
	st.Declare(1, symtab.ParameterItem{Name: "x", DeclTypeID: 1})
	st.Link(100, 1, "x")
	st.Declare(2, symtab.FunctionItem{Name: "id", Node: fn})

	call := &astir.CallSite{
		Base:         astir.Base{ID: 4},
		CalleeTypeID: 2,
		Callee:       &astir.Reference{Base: astir.Base{ID: 5}, Link: 101, Name: "id"},
		Arguments:    []astir.Expr{&astir.Literal{Base: astir.Base{ID: 6}, Kind: astir.LitBool}},
	}
	st.Link(101, 2, "id")

	return st, call
}

// buildLetPolymorphism builds the same identity function called twice
// at different types, demonstrating that each Reference gets its own
// fresh transient() walk (spec §4.2) rather than aliasing type
// variables across call sites.
func buildLetPolymorphism() (*symtab.SymbolTable, astir.Expr) {
	st := symtab.New()

	param := &astir.Parameter{Base: astir.Base{ID: 1}, Name: "x"}
	fn := &astir.Function{
		Base:      astir.Base{ID: 2},
		Name:      "id",
		Signature: astir.Signature{Parameters: []*astir.Parameter{param}},
		Body:      &astir.Reference{Base: astir.Base{ID: 3}, Link: 100, Name: "x"},
	}
	st.Declare(1, symtab.ParameterItem{Name: "x", DeclTypeID: 1})
	st.Link(100, 1, "x")
	st.Declare(2, symtab.FunctionItem{Name: "id", Node: fn})
	st.Link(101, 2, "id")
	st.Link(102, 2, "id")

	callInt := &astir.CallSite{
		Base:         astir.Base{ID: 4},
		CalleeTypeID: 2,
		Callee:       &astir.Reference{Base: astir.Base{ID: 5}, Link: 101, Name: "id"},
		Arguments:    []astir.Expr{&astir.Literal{Base: astir.Base{ID: 6}, Kind: astir.LitNumber}},
	}
	callBool := &astir.CallSite{
		Base:         astir.Base{ID: 7},
		CalleeTypeID: 2,
		Callee:       &astir.Reference{Base: astir.Base{ID: 8}, Link: 102, Name: "id"},
		Arguments:    []astir.Expr{&astir.Literal{Base: astir.Base{ID: 9}, Kind: astir.LitBool}},
	}

	tuple := &astir.Tuple{
		Base:     astir.Base{ID: 10},
		Elements: []astir.Expr{callInt, callBool},
	}
	return st, tuple
}

// buildRowPolymorphism builds a function reading a single field off an
// otherwise-unconstrained record parameter, called with a two-field
// record literal — the record's extra field ("y") must not cause a
// unification failure (spec §4.2's row-polymorphic ObjectAccess rule).
func buildRowPolymorphism() (*symtab.SymbolTable, astir.Expr) {
	st := symtab.New()

	param := &astir.Parameter{Base: astir.Base{ID: 1}, Name: "o"}
	fn := &astir.Function{
		Base:      astir.Base{ID: 2},
		Name:      "first",
		Signature: astir.Signature{Parameters: []*astir.Parameter{param}},
		Body: &astir.ObjectAccess{
			Base:       astir.Base{ID: 3},
			BaseTypeID: 4,
			Object:     &astir.Reference{Base: astir.Base{ID: 5}, Link: 100, Name: "o"},
			FieldName:  "x",
		},
	}
	st.Declare(1, symtab.ParameterItem{Name: "o", DeclTypeID: 1})
	st.Link(100, 1, "o")
	st.Declare(2, symtab.FunctionItem{Name: "first", Node: fn})
	st.Link(101, 2, "first")

	record := &astir.ObjectLiteral{
		Base:       astir.Base{ID: 6},
		FieldNames: []string{"x", "y"},
		FieldValues: map[string]astir.Expr{
			"x": &astir.Literal{Base: astir.Base{ID: 7}, Kind: astir.LitNumber},
			"y": &astir.Literal{Base: astir.Base{ID: 8}, Kind: astir.LitBool},
		},
	}
	call := &astir.CallSite{
		Base:         astir.Base{ID: 9},
		CalleeTypeID: 2,
		Callee:       &astir.Reference{Base: astir.Base{ID: 10}, Link: 101, Name: "first"},
		Arguments:    []astir.Expr{record},
	}
	return st, call
}

// buildRecursiveFunction builds `fn fact(n: i64): i64 = if n == 0 then
// 1 else n * fact(n - 1)`, exercising the inProgress self-recursion
// mechanism (spec §4.2 design note): the inner Reference to "fact"
// must resolve to fact's own (still-being-built) signature instead of
// looping transient() forever.
func buildRecursiveFunction() (*symtab.SymbolTable, astir.Expr) {
	st := symtab.New()

	hint := intPrim(64)
	param := &astir.Parameter{Base: astir.Base{ID: 1}, Name: "n", TypeHint: hint}
	st.Declare(1, symtab.ParameterItem{Name: "n", DeclTypeID: 1})
	st.Link(100, 1, "n")

	nRef := func(typeID ids.TypeID) *astir.Reference {
		return &astir.Reference{Base: astir.Base{ID: typeID}, Link: 100, Name: "n"}
	}

	cond := &astir.BinaryOp{
		Base:  astir.Base{ID: 2},
		Op:    astir.OpEq,
		Left:  nRef(3),
		Right: &astir.Literal{Base: astir.Base{ID: 4}, Kind: astir.LitNumber},
	}
	thenBranch := &astir.Literal{Base: astir.Base{ID: 5}, Kind: astir.LitNumber}

	recCall := &astir.CallSite{
		Base:         astir.Base{ID: 6},
		CalleeTypeID: 7,
		Callee:       &astir.Reference{Base: astir.Base{ID: 8}, Link: 101, Name: "fact"},
		Arguments: []astir.Expr{
			&astir.BinaryOp{
				Base:  astir.Base{ID: 9},
				Op:    astir.OpSub,
				Left:  nRef(10),
				Right: &astir.Literal{Base: astir.Base{ID: 11}, Kind: astir.LitNumber},
			},
		},
	}
	elseBranch := &astir.BinaryOp{
		Base:  astir.Base{ID: 12},
		Op:    astir.OpMul,
		Left:  nRef(13),
		Right: recCall,
	}

	body := &astir.If{
		Base:      astir.Base{ID: 14},
		Condition: cond,
		Then:      thenBranch,
		Else:      elseBranch,
	}

	fn := &astir.Function{
		Base: astir.Base{ID: 7},
		Name: "fact",
		Signature: astir.Signature{
			Parameters:     []*astir.Parameter{param},
			ReturnTypeHint: intPrim(64),
		},
		Body: body,
	}
	st.Declare(7, symtab.FunctionItem{Name: "fact", Node: fn})
	st.Link(101, 7, "fact")

	return st, fn
}

// buildTypeMismatch builds `true + 1`: both operands of an arithmetic
// binary op are constrained to the same operand type variable (spec
// §4.2 table), so unifying bool against a number literal's type
// reports a genuine unification failure — this demo's negative case.
func buildTypeMismatch() (*symtab.SymbolTable, astir.Expr) {
	st := symtab.New()
	return st, &astir.BinaryOp{
		Base:  astir.Base{ID: 1},
		Op:    astir.OpAdd,
		Left:  &astir.Literal{Base: astir.Base{ID: 2}, Kind: astir.LitBool},
		Right: &astir.Literal{Base: astir.Base{ID: 3}, Kind: astir.LitNumber},
	}
}
