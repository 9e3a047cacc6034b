package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
)

func i32() *typeterm.Primitive {
	return &typeterm.Primitive{PKind: typeterm.Integer, Width: 32, Signed: true}
}

func TestResolve_ConcreteFastPath(t *testing.T) {
	h := NewHelper(symtab.New(), symtab.NewSubstitutionEnv(), symtab.NewTypeEnvironment())
	got, err := h.Resolve(i32())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(typeterm.Type(i32()), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_FollowsVariableChain(t *testing.T) {
	subst := symtab.NewSubstitutionEnv()
	v1 := ids.SubstitutionID(1)
	v2 := ids.SubstitutionID(2)
	subst[v1] = &typeterm.Variable{SubstitutionID: v2}
	subst[v2] = i32()

	h := NewHelper(symtab.New(), subst, symtab.NewTypeEnvironment())
	got, err := h.Resolve(&typeterm.Variable{SubstitutionID: v1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(typeterm.Type(i32()), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_UnresolvedVariableFails(t *testing.T) {
	subst := symtab.NewSubstitutionEnv()
	v1 := ids.SubstitutionID(1)
	subst[v1] = &typeterm.Variable{SubstitutionID: v1}

	h := NewHelper(symtab.New(), subst, symtab.NewTypeEnvironment())
	if _, err := h.Resolve(&typeterm.Variable{SubstitutionID: v1}); err == nil {
		t.Fatal("expected error for unresolved variable, got nil")
	}
}

func TestResolve_PointerRebuildsRecursively(t *testing.T) {
	subst := symtab.NewSubstitutionEnv()
	v1 := ids.SubstitutionID(1)
	subst[v1] = i32()

	h := NewHelper(symtab.New(), subst, symtab.NewTypeEnvironment())
	got, err := h.Resolve(&typeterm.Pointer{Inner: &typeterm.Variable{SubstitutionID: v1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &typeterm.Pointer{Inner: i32()}
	if diff := cmp.Diff(typeterm.Type(want), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_ObjectFieldsRecurseInKeyOrder(t *testing.T) {
	subst := symtab.NewSubstitutionEnv()
	v1 := ids.SubstitutionID(1)
	subst[v1] = i32()

	obj := &typeterm.Object{
		Fields: map[string]typeterm.Type{
			"a": &typeterm.Variable{SubstitutionID: v1},
			"b": &typeterm.Primitive{PKind: typeterm.Bool},
		},
		ObjKind: typeterm.Closed(),
	}

	h := NewHelper(symtab.New(), subst, symtab.NewTypeEnvironment())
	got, err := h.Resolve(obj)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved, ok := got.(*typeterm.Object)
	if !ok {
		t.Fatalf("expected *typeterm.Object, got %T", got)
	}
	if diff := cmp.Diff(typeterm.Type(i32()), resolved.Fields["a"]); diff != "" {
		t.Errorf("field a mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_OpenRowCollapsesToClosedExtension(t *testing.T) {
	subst := symtab.NewSubstitutionEnv()
	rowVar := ids.SubstitutionID(1)
	subst[rowVar] = &typeterm.Object{
		Fields:  map[string]typeterm.Type{"y": &typeterm.Primitive{PKind: typeterm.Bool}},
		ObjKind: typeterm.Closed(),
	}

	open := &typeterm.Object{
		Fields:  map[string]typeterm.Type{"x": i32()},
		ObjKind: typeterm.Open(rowVar),
	}

	h := NewHelper(symtab.New(), subst, symtab.NewTypeEnvironment())
	got, err := h.Resolve(open)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resolved, ok := got.(*typeterm.Object)
	if !ok {
		t.Fatalf("expected *typeterm.Object, got %T", got)
	}
	if len(resolved.Fields) != 2 {
		t.Fatalf("expected 2 fields after collapsing row extension, got %d: %v", len(resolved.Fields), resolved.Fields)
	}
	if resolved.ObjKind.Open {
		t.Errorf("expected collapsed object to be closed, got open(%v)", resolved.ObjKind.OpenID)
	}
}

func TestResolveByID_MissingEntryFails(t *testing.T) {
	h := NewHelper(symtab.New(), symtab.NewSubstitutionEnv(), symtab.NewTypeEnvironment())
	if _, err := h.ResolveByID(ids.TypeID(99)); err == nil {
		t.Fatal("expected missing-entry error, got nil")
	}
}

func TestResolveByID_ReadsTypeEnvThenResolves(t *testing.T) {
	typeEnv := symtab.NewTypeEnvironment()
	typeEnv[ids.TypeID(1)] = i32()

	h := NewHelper(symtab.New(), symtab.NewSubstitutionEnv(), typeEnv)
	got, err := h.ResolveByID(ids.TypeID(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(typeterm.Type(i32()), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
