// Package astir defines the shapes of resolved AST nodes this core
// consumes: every typed node carries a pre-assigned TypeID, every
// name-using node carries a LinkID, and literals/parameters/bindings
// may carry an explicit type hint. Parsing and name resolution
// producing these nodes are out of this core's scope (spec §1); this
// package exists only so the walker has something concrete to dispatch
// over.
//
// Grounded on internal/core's CoreExpr/CoreNode embedding idiom in the
// teacher (one marker method per node, a shared base struct for common
// fields), generalized to the node set enumerated in spec §4.2's table.
package astir

import (
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// Node is the base interface for every AST node the walker visits.
type Node interface {
	TypeID() ids.TypeID
}

// Base carries the TypeID every typed node is pre-assigned.
type Base struct {
	ID ids.TypeID
}

func (b Base) TypeID() ids.TypeID { return b.ID }

// Expr is any expression node.
type Expr interface {
	Node
	isExpr()
}

// --- Literals ---

type LitKind int

const (
	LitBool LitKind = iota
	LitString
	LitChar
	LitNumber
	LitNullptr
)

// Literal is a literal value. IsReal is only meaningful when Kind is
// LitNumber. TypeHint, when non-nil, pins the literal's type instead of
// the default (spec §4.2 table).
type Literal struct {
	Base
	Kind     LitKind
	IsReal   bool
	TypeHint typeterm.Type
}

func (*Literal) isExpr() {}

// --- Parameter ---

// Parameter is a function parameter, optionally type-hinted.
type Parameter struct {
	Base
	Name     string
	TypeHint typeterm.Type
}

func (*Parameter) isExpr() {}

// --- Binding (let) ---

// Binding is a let-binding: `let Name[: TypeHint] = Value`.
type Binding struct {
	Base
	Name     string
	TypeHint typeterm.Type
	Value    Expr
}

func (*Binding) isExpr() {}

// --- Reference (name use) ---

// Reference is a use of a previously declared name, resolved to a
// link id via the symbol table.
type Reference struct {
	Base
	Link ids.LinkID
	Name string
}

func (*Reference) isExpr() {}

// --- Closure / Function ---

// Signature is a function's declared parameter list and return-type
// hint, ahead of inference producing the full typeterm.Signature.
type Signature struct {
	Parameters       []*Parameter
	ReturnTypeHint   typeterm.Type
	ReturnTypeHintID ids.TypeID
	Variadic         bool
}

// Function is a closure or named function: its signature is built
// from its parameters and declared return hint, then its body is
// constrained to the return type (spec §4.2 table — the signature is
// written to the type environment *before* the body is walked, to
// support recursion).
type Function struct {
	Base
	Name      string // empty for anonymous closures
	Signature Signature
	Body      Expr
}

func (*Function) isExpr() {}

// ForeignFunction is an extern function declaration. Every parameter
// must carry a hint (spec §4.2 table, "absence is a bug").
type ForeignFunction struct {
	Base
	Name      string
	Signature Signature
}

func (*ForeignFunction) isExpr() {}

// --- Call site ---

// CallSite is a function/closure invocation.
type CallSite struct {
	Base
	CalleeTypeID ids.TypeID
	Callee       Expr
	Arguments    []Expr
}

func (*CallSite) isExpr() {}

// --- Operators ---

type BinaryOpKind int

const (
	OpAdd BinaryOpKind = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpAnd
	OpOr
)

// BinaryOp is a binary operator application.
type BinaryOp struct {
	Base
	Op          BinaryOpKind
	Left, Right Expr
}

func (*BinaryOp) isExpr() {}

type UnaryOpKind int

const (
	OpNot UnaryOpKind = iota
	OpNegate
	OpRefOf
	OpDeref
)

// UnaryOp is a unary operator application.
type UnaryOp struct {
	Base
	Op      UnaryOpKind
	Operand Expr
}

func (*UnaryOp) isExpr() {}

// --- Control flow ---

// If is a conditional expression; Else is nil when there is no else
// branch, in which case the overall type is Unit (spec §4.2 table).
type If struct {
	Base
	Condition  Expr
	Then       Expr
	Else       Expr // nil if absent
}

func (*If) isExpr() {}

// MatchArm is one case of a match expression. Pattern is itself an
// Expr in this simplified IR (e.g. a literal or constructor pattern
// expressed via UnionVariantInstance/Literal shapes); it is constrained
// equal to the subject's type, never visited for its own standalone
// type.
type MatchArm struct {
	Pattern Expr
	Body    Expr
}

// Match is a pattern match over a subject expression, with an
// optional default arm.
type Match struct {
	Base
	Subject Expr
	Arms    []MatchArm
	Default Expr // nil if absent
}

func (*Match) isExpr() {}

// --- Block ---

// Block is a sequence of statements ending in a yield expression whose
// type is the block's overall type. Statements are walked only for
// their effects (constraints/errors), not for their standalone type.
type Block struct {
	Base
	Statements []Expr
	Yield      Expr
}

func (*Block) isExpr() {}

// --- Objects ---

// ObjectLiteral constructs a closed record from field initializers.
type ObjectLiteral struct {
	Base
	FieldNames  []string // key order as written; fields map is unordered
	FieldValues map[string]Expr
}

func (*ObjectLiteral) isExpr() {}

// ObjectAccess reads a single field off a base expression. The base
// expression's synthesized open-record type is recorded under
// BaseTypeID, a second type id distinct from this node's own TypeID —
// ported from original_source/src/inference.rs's ObjectAccess rule,
// which records `base_expr_type_id` alongside the field's own type id.
type ObjectAccess struct {
	Base
	BaseTypeID ids.TypeID
	Object     Expr
	FieldName  string
}

func (*ObjectAccess) isExpr() {}

// ObjectUpdate is the `with` expression: Base ⊆ result, with Deltas
// overlaid (spec §9 Open Question 1).
type ObjectUpdate struct {
	Base
	BaseExpr Expr
	DeltaNames  []string
	DeltaValues map[string]Expr
}

func (*ObjectUpdate) isExpr() {}

// --- Tuples ---

// Tuple constructs a fixed-length tuple from its element expressions.
type Tuple struct {
	Base
	Elements []Expr
}

func (*Tuple) isExpr() {}

// TupleIndexing reads the element at Index off a tuple expression
// (spec §9 Open Question 2: solved via a dedicated ElementOf
// constraint rather than left as an unsolved variable).
type TupleIndexing struct {
	Base
	TupleExpr Expr
	Index     int
}

func (*TupleIndexing) isExpr() {}

// --- Pointers ---

// PointerIndexing indexes a pointer expression; the result type is the
// pointer expression's own type (spec §4.2 table).
type PointerIndexing struct {
	Base
	Pointer Expr
	Index   Expr
}

func (*PointerIndexing) isExpr() {}

// PointerAssignment writes Value through Pointer.
type PointerAssignment struct {
	Base
	Pointer Expr
	Value   Expr
}

func (*PointerAssignment) isExpr() {}

// --- Misc ---

// Cast reinterprets Operand's type as TargetType.
type Cast struct {
	Base
	Operand    Expr
	TargetType typeterm.Type
}

func (*Cast) isExpr() {}

// Sizeof yields the size, in bytes, of Operand's type as an unsigned
// 64-bit integer; Operand itself is not type-checked beyond being a
// valid type reference.
type Sizeof struct {
	Base
	Operand typeterm.Type
}

func (*Sizeof) isExpr() {}

// StatementKind distinguishes the three Unit-typed statement forms.
type StatementKind int

const (
	StmtDiscard StatementKind = iota
	StmtPass
	StmtPlain
)

// Statement is a Discard/Pass/plain statement expression; its type is
// always Unit.
type Statement struct {
	Base
	Kind  StatementKind
	Inner Expr // nil for Pass
}

func (*Statement) isExpr() {}

// UnionVariantInstance constructs an instance of a union's variant.
// Payload is nil for variants with no payload.
type UnionVariantInstance struct {
	Base
	Link        ids.LinkID // resolves to the union declaration
	VariantName string
	Payload     Expr
}

func (*UnionVariantInstance) isExpr() {}
