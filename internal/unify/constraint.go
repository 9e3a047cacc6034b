// Package unify implements the unification and substitution engine
// (spec §4.3): classical syntactic unification with union-find-like
// substitution, extended for row-polymorphic objects, variadic
// signatures, and the two gaps the spec calls out as implementer
// decisions (tuple-element and `with`-expression constraints).
//
// Grounded on internal/types/unification.go's Unifier.Unify structural
// switch and internal/types/row_unification.go's dedicated row
// unifier in the teacher.
package unify

import (
	"github.com/vela-lang/typecore/internal/typeterm"
)

// Constraint is anything the walker emits for the unifier to solve.
type Constraint interface{ isConstraint() }

// Equality says A and B must unify to the same type (spec §4.3,
// "Equality(a, b)").
type Equality struct {
	A, B    typeterm.Type
	Context string
}

func (Equality) isConstraint() {}

// ElementOf says Elem must equal the type at Index within Tuple, once
// Tuple becomes structural. This is the spec §9 Open Question 2
// addition: tuple indexing has no unsolved-variable escape hatch here,
// it is resolved once the tuple's shape is known.
type ElementOf struct {
	Tuple   typeterm.Type
	Index   int
	Elem    typeterm.Type
	Context string
}

func (ElementOf) isConstraint() {}

// ObjectUpdate says Result must equal Base with Deltas' fields
// overlaid, once Base becomes structural (spec §9 Open Question 1,
// the `with` expression: "deltas object ⊆ base object").
type ObjectUpdate struct {
	Base    typeterm.Type
	Deltas  map[string]typeterm.Type
	Result  typeterm.Type
	Context string
}

func (ObjectUpdate) isConstraint() {}

// Unconstrained is always satisfied without touching the substitution
// environment. It is emitted for union-instance payload constraints on
// the String and Singleton variants, whose declared payload shape is
// underspecified in the original source (spec §9 Open Question 3): "no
// inference rule should fire" until that shape is examined elsewhere.
type Unconstrained struct{}

func (Unconstrained) isConstraint() {}
