// Package ids defines the identifier kinds threaded through the
// inference pipeline: substitution slots, AST node types, generic
// instantiation universes, and external registry/link handles.
package ids

import "fmt"

// SubstitutionID tags a slot in a SubstitutionEnv (a type variable).
type SubstitutionID uint64

func (id SubstitutionID) String() string { return fmt.Sprintf("s%d", uint64(id)) }

// TypeID tags the type attached to an AST node in a TypeEnvironment.
type TypeID uint64

func (id TypeID) String() string { return fmt.Sprintf("ty%d", uint64(id)) }

// UniverseID tags a generic instantiation scope. This core threads
// universes through resolution without interpreting them (spec §4.5).
type UniverseID uint64

func (id UniverseID) String() string { return fmt.Sprintf("u%d", uint64(id)) }

// RegistryID tags an entry in the external symbol table's registry.
type RegistryID uint64

// LinkID tags a name-use site's link to a RegistryID.
type LinkID uint64

// Generator issues monotonically increasing, globally unique
// SubstitutionIDs from a single shared counter, threaded through a
// walk by value (Counter()/NewGenerator(counter)) the way the
// inference context inherits and merges child counters (spec §4.2
// "Inherit-and-extend discipline").
type Generator struct {
	counter uint64
}

// NewGenerator creates a generator seeded at initialCount.
func NewGenerator(initialCount uint64) *Generator {
	return &Generator{counter: initialCount}
}

// Counter returns the current counter value, suitable for seeding a
// child generator that inherits it.
func (g *Generator) Counter() uint64 {
	return g.counter
}

// NextSubstitutionID issues a fresh SubstitutionID.
func (g *Generator) NextSubstitutionID() SubstitutionID {
	g.counter++
	return SubstitutionID(g.counter)
}
