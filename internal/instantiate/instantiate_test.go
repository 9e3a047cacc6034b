package instantiate

import (
	"testing"

	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
)

func TestCompareByUnification_IdenticalPrimitivesMatch(t *testing.T) {
	a := &typeterm.Primitive{PKind: typeterm.Integer, Width: 32, Signed: true}
	b := &typeterm.Primitive{PKind: typeterm.Integer, Width: 32, Signed: true}
	if !CompareByUnification(a, b, symtab.New()) {
		t.Fatal("expected identical primitives to compare equal")
	}
}

func TestCompareByUnification_DifferentPrimitivesMismatch(t *testing.T) {
	a := &typeterm.Primitive{PKind: typeterm.Integer, Width: 32, Signed: true}
	b := &typeterm.Primitive{PKind: typeterm.Bool}
	if CompareByUnification(a, b, symtab.New()) {
		t.Fatal("expected distinct primitives to compare unequal")
	}
}

func TestCompareByUnification_DoesNotMutateCallerState(t *testing.T) {
	v := &typeterm.Variable{SubstitutionID: ids.SubstitutionID(1)}
	a := &typeterm.Tuple{Elements: []typeterm.Type{v}}
	b := &typeterm.Tuple{Elements: []typeterm.Type{&typeterm.Primitive{PKind: typeterm.Bool}}}

	if !CompareByUnification(a, b, symtab.New()) {
		t.Fatal("expected free variable to unify with a concrete type")
	}
	// v itself must remain unbound outside the ephemeral context.
	if v.SubstitutionID != ids.SubstitutionID(1) {
		t.Fatalf("variable identity unexpectedly changed")
	}
}

func TestUniverseStack_PushIsImmutable(t *testing.T) {
	base := UniverseStack{1}
	pushed := base.Push(2)

	if len(base) != 1 {
		t.Fatalf("expected base stack untouched, got len %d", len(base))
	}
	cur, ok := pushed.Current()
	if !ok || cur != 2 {
		t.Fatalf("expected current universe 2, got %v (ok=%v)", cur, ok)
	}
}
