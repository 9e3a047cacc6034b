// Package diagnostic defines the public error taxonomy shared by the
// walker, unifier and resolver (spec §6/§7): errors accumulate rather
// than throw, so a single pass can report many independent mistakes.
//
// Grounded on internal/types/errors.go's TypeCheckError/Kind/ErrorList
// pattern in the teacher.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/typeterm"
)

// verbose gates whether Error's message spells out unresolved type
// variables' substitution ids alongside their debug names. Off by
// default: a plain debug name reads fine until two distinct variables
// happen to share one, at which point the id disambiguates.
var verbose bool

// SetVerbose toggles substitution-id detail in Error messages, wired
// from config.Pass.VerboseDiagnostics the way typeterm's strip-loop
// bound is wired from config.Pass.MaxStripIterations.
func SetVerbose(v bool) {
	verbose = v
}

// Kind identifies which public error variant an Error carries.
type Kind string

const (
	KindUnificationFailure             Kind = "unification_failure"
	KindUnboundVariable                Kind = "unbound_variable"
	KindCyclicType                     Kind = "cyclic_type"
	KindArityMismatch                  Kind = "arity_mismatch"
	KindMissingSymbolTableEntry        Kind = "missing_symbol_table_entry"
	KindInvalidCallable                Kind = "invalid_callable"
	KindTypeResolutionFailure          Kind = "type_resolution_failure"
	KindMissingEntryForTypeID          Kind = "missing_entry_for_type_id"
	KindStubTypeMissingSymbolTableEntry Kind = "stub_type_missing_symbol_table_entry"
)

// Error is the single public error type this core returns. Its fields
// are a superset covering every Kind; only the fields relevant to Kind
// are populated.
type Error struct {
	Kind Kind

	// UnificationFailure
	Expected typeterm.Type
	Actual   typeterm.Type
	Context  string

	// UnboundVariable
	Name     string
	Location string

	// CyclicType
	Type typeterm.Type

	// ArityMismatch
	ExpectedArity int
	ActualArity   int
	FunctionName  string

	// MissingSymbolTableEntry / MissingEntryForTypeID / StubType...
	ID ids.TypeID

	// InvalidCallable
	ExprType string

	// TypeResolutionFailure
	TypeName string
	Reason   string
}

// describeType renders t the way Error normally does, except in
// verbose mode an unresolved Variable also shows its substitution id
// so two variables with the same (or no) debug name stay distinguishable.
func describeType(t typeterm.Type) string {
	if verbose {
		if v, ok := t.(*typeterm.Variable); ok && v != nil {
			return fmt.Sprintf("%s(sub#%d)", v, v.SubstitutionID)
		}
	}
	return fmt.Sprintf("%s", t)
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindUnificationFailure:
		parts := []string{fmt.Sprintf("cannot unify %s with %s", describeType(e.Expected), describeType(e.Actual))}
		if e.Context != "" {
			parts = append(parts, "in "+e.Context)
		}
		return strings.Join(parts, " ")
	case KindUnboundVariable:
		return fmt.Sprintf("unbound variable %q at %s", e.Name, e.Location)
	case KindCyclicType:
		return fmt.Sprintf("cyclic type: %s", describeType(e.Type))
	case KindArityMismatch:
		if e.FunctionName != "" {
			return fmt.Sprintf("function %q expects %d argument(s), got %d", e.FunctionName, e.ExpectedArity, e.ActualArity)
		}
		return fmt.Sprintf("arity mismatch: expected %d argument(s), got %d", e.ExpectedArity, e.ActualArity)
	case KindMissingSymbolTableEntry:
		return fmt.Sprintf("missing symbol table entry for %v in %s", e.ID, e.Context)
	case KindInvalidCallable:
		return fmt.Sprintf("expression of type %q is not callable in %s", e.ExprType, e.Context)
	case KindTypeResolutionFailure:
		return fmt.Sprintf("failed to resolve type %q: %s", e.TypeName, e.Reason)
	case KindMissingEntryForTypeID:
		return fmt.Sprintf("no entry in type environment for %v", e.ID)
	case KindStubTypeMissingSymbolTableEntry:
		return fmt.Sprintf("stub type %q has no symbol table entry", e.TypeName)
	default:
		return fmt.Sprintf("unknown inference error (kind=%s)", e.Kind)
	}
}

// NewUnificationFailure reports two types that could not be unified.
func NewUnificationFailure(expected, actual typeterm.Type, context string) *Error {
	return &Error{Kind: KindUnificationFailure, Expected: expected, Actual: actual, Context: context}
}

// NewUnboundVariable reports a symbol table lookup failure during
// reference resolution.
func NewUnboundVariable(name, location string) *Error {
	return &Error{Kind: KindUnboundVariable, Name: name, Location: location}
}

// NewCyclicType reports an occurs-check failure.
func NewCyclicType(ty typeterm.Type) *Error {
	return &Error{Kind: KindCyclicType, Type: ty}
}

// NewArityMismatch reports a callable arity mismatch.
func NewArityMismatch(expected, actual int, functionName string) *Error {
	return &Error{Kind: KindArityMismatch, ExpectedArity: expected, ActualArity: actual, FunctionName: functionName}
}

// NewMissingSymbolTableEntry reports a dangling id during lookup.
func NewMissingSymbolTableEntry(id ids.TypeID, context string) *Error {
	return &Error{Kind: KindMissingSymbolTableEntry, ID: id, Context: context}
}

// NewInvalidCallable reports a call site whose callee is not callable.
func NewInvalidCallable(exprType, context string) *Error {
	return &Error{Kind: KindInvalidCallable, ExprType: exprType, Context: context}
}

// NewTypeResolutionFailure reports a failed stub-stripping attempt.
func NewTypeResolutionFailure(typeName, reason string) *Error {
	return &Error{Kind: KindTypeResolutionFailure, TypeName: typeName, Reason: reason}
}

// NewMissingEntryForTypeID reports that the resolver was asked to
// resolve a TypeID absent from the type environment.
func NewMissingEntryForTypeID(id ids.TypeID) *Error {
	return &Error{Kind: KindMissingEntryForTypeID, ID: id}
}

// NewStubTypeMissingSymbolTableEntry reports a dangling stub link
// encountered during resolution.
func NewStubTypeMissingSymbolTableEntry(typeName string) *Error {
	return &Error{Kind: KindStubTypeMissingSymbolTableEntry, TypeName: typeName}
}

// List is a convenience alias for an accumulated error batch, matching
// the teacher's ErrorList idiom.
type List []*Error

func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	parts := make([]string, 0, len(l)+1)
	parts = append(parts, fmt.Sprintf("%d errors:", len(l)))
	for i, e := range l {
		parts = append(parts, fmt.Sprintf("[%d] %s", i+1, e.Error()))
	}
	return strings.Join(parts, "\n")
}
