// Package typeterm defines the algebra of types used throughout the
// inference core: primitives, pointers, references, tuples, objects,
// signatures, unions, ranges, unit, and the two meta variants (stub and
// variable) that exist only before unification has run.
//
// Grounded on internal/types/types.go of the teacher (sunholo/ailang),
// generalized to the object/stub/variable shapes this spec requires.
package typeterm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vela-lang/typecore/internal/ids"
)

// Type is the closed algebra of types. Every case below implements it.
type Type interface {
	fmt.Stringer
	isType()
}

// Kind tags a Type's variant for switch-free callers that just need to
// compare shapes (e.g. error messages).
type Kind int

const (
	KindPrimitive Kind = iota
	KindPointer
	KindReference
	KindOpaque
	KindTuple
	KindObject
	KindSignature
	KindUnion
	KindRange
	KindUnit
	KindStub
	KindVariable
)

// Primitive is a scalar ground type.
type Primitive struct {
	PKind    PrimitiveKind
	Width    int // bit width, for Integer/Real; zero otherwise
	Signed   bool
}

// PrimitiveKind distinguishes the scalar families.
type PrimitiveKind int

const (
	Integer PrimitiveKind = iota
	Real
	Bool
	Char
	CString
)

func (*Primitive) isType() {}

func (p *Primitive) String() string {
	switch p.PKind {
	case Integer:
		sign := "i"
		if !p.Signed {
			sign = "u"
		}
		return fmt.Sprintf("%s%d", sign, p.Width)
	case Real:
		return fmt.Sprintf("f%d", p.Width)
	case Bool:
		return "bool"
	case Char:
		return "char"
	case CString:
		return "cstring"
	default:
		return "<bad-primitive>"
	}
}

// Equals reports structural equality including width and signedness
// (spec §4.3 step 8).
func (p *Primitive) Equals(other *Primitive) bool {
	return p.PKind == other.PKind && p.Width == other.Width && p.Signed == other.Signed
}

// Pointer is a nominally-distinct-from-Reference pointer type.
type Pointer struct{ Inner Type }

func (*Pointer) isType()        {}
func (p *Pointer) String() string { return fmt.Sprintf("*%s", p.Inner) }

// Reference is a nominally-distinct-from-Pointer reference type.
type Reference struct{ Inner Type }

func (*Reference) isType()        {}
func (r *Reference) String() string { return fmt.Sprintf("&%s", r.Inner) }

// Opaque is an untyped pointer (void*).
type Opaque struct{}

func (*Opaque) isType()        {}
func (*Opaque) String() string { return "opaque" }

// Unit is the type of the absence of a value.
type Unit struct{}

func (*Unit) isType()        {}
func (*Unit) String() string { return "()" }

// Range is a closed numeric interval type [Lo, Hi].
type Range struct{ Lo, Hi uint64 }

func (*Range) isType() {}
func (r *Range) String() string {
	return fmt.Sprintf("range(%d..%d)", r.Lo, r.Hi)
}

// Tuple is an ordered, fixed-length sequence of types.
type Tuple struct{ Elements []Type }

func (*Tuple) isType() {}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ObjectKind distinguishes open (row-polymorphic, extensible) from
// closed (exact field set) records.
type ObjectKind struct {
	// Open is true iff this is an Open(id) kind; OpenID is meaningful
	// only when Open is true.
	Open   bool
	OpenID ids.SubstitutionID
}

// Closed constructs a Closed object kind.
func Closed() ObjectKind { return ObjectKind{} }

// Open constructs an Open(id) object kind.
func Open(id ids.SubstitutionID) ObjectKind { return ObjectKind{Open: true, OpenID: id} }

// Object is a record type: an ordered-by-key field map plus a kind.
type Object struct {
	Fields map[string]Type
	ObjKind ObjectKind
}

func (*Object) isType() {}

// SortedFieldNames returns the object's field names in key order,
// matching the spec's determinism requirement (§3, §5) that the teacher
// met with a BTreeMap in the Rust original.
func (o *Object) SortedFieldNames() []string {
	names := make([]string, 0, len(o.Fields))
	for name := range o.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (o *Object) String() string {
	names := o.SortedFieldNames()
	parts := make([]string, 0, len(names)+1)
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", n, o.Fields[n]))
	}
	if o.ObjKind.Open {
		parts = append(parts, fmt.Sprintf("...%s", o.ObjKind.OpenID))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// ArityMode is either a fixed parameter count, or variadic with a
// declared minimum of fixed parameters (foreign functions only).
type ArityMode struct {
	Variadic  bool
	MinFixed  int // meaningful only when Variadic is true
}

// Fixed constructs a non-variadic arity mode.
func Fixed() ArityMode { return ArityMode{} }

// VariadicMin constructs a variadic arity mode with the given minimum
// number of required fixed parameters.
func VariadicMin(minFixed int) ArityMode { return ArityMode{Variadic: true, MinFixed: minFixed} }

// Signature is a function type.
type Signature struct {
	ParameterTypes []Type
	ReturnType     Type
	Arity          ArityMode
}

func (*Signature) isType() {}
func (s *Signature) String() string {
	parts := make([]string, len(s.ParameterTypes))
	for i, p := range s.ParameterTypes {
		parts[i] = p.String()
	}
	variadic := ""
	if s.Arity.Variadic {
		variadic = fmt.Sprintf(", ...(min %d)", s.Arity.MinFixed)
	}
	return fmt.Sprintf("(%s%s) -> %s", strings.Join(parts, ", "), variadic, s.ReturnType)
}

// UnionVariant is one case of a union declaration.
type UnionVariant struct {
	Name string
	// Payload is nil for variants that carry no data. String and
	// Singleton variant payload shapes are intentionally left
	// unconstrained by the inference rules (spec §9 Open Question 3).
	Payload Type
}

// UnionDecl is the shared, arena/registry-owned declaration a Union
// type points to. Identity for unification purposes is by RegistryID
// (spec §4.3 step 7), not by structural comparison of variants.
type UnionDecl struct {
	RegistryID ids.RegistryID
	Name       string
	Variants   []UnionVariant
}

// Union references a union declaration by shared ownership (spec §9
// design note: "use shared immutable ownership ... with no backward
// edges"); Go's garbage collector makes a plain pointer sufficient.
type Union struct{ Decl *UnionDecl }

func (*Union) isType()        {}
func (u *Union) String() string { return u.Decl.Name }

// Stub is a named indirection targeting a type-def or union via the
// symbol table. It exists only pre-unification.
type Stub struct {
	Path LinkPath
}

// LinkPath identifies what a Stub points to: a link id resolved
// through the symbol table, plus the human-readable path for
// diagnostics.
type LinkPath struct {
	Link ids.LinkID
	Name string
}

func (*Stub) isType()        {}
func (s *Stub) String() string { return fmt.Sprintf("stub(%s)", s.Path.Name) }

// Variable is a type variable: a placeholder bound to a substitution
// slot, replaced by a concrete type once unification resolves it.
type Variable struct {
	SubstitutionID ids.SubstitutionID
	DebugName      string
}

func (*Variable) isType()        {}
func (v *Variable) String() string { return v.DebugName }

// IsSameVariableAs is a structural check used by the occurs check and
// by substitution self-map detection (spec §4.1).
func (v *Variable) IsSameVariableAs(id ids.SubstitutionID) bool {
	return v.SubstitutionID == id
}

// IsMeta reports whether t is a Stub or Variable (spec §4.1).
func IsMeta(t Type) bool {
	switch t.(type) {
	case *Stub, *Variable:
		return true
	default:
		return false
	}
}
