package core

import "github.com/sable-lang/sable/internal/diag"

// Env is the host elaborator reached through synchronous oracles. All
// oracles are referentially transparent for the duration of a check;
// errors they return are propagated unchanged.
type Env interface {
	// Reduce normalizes a term enough to remove metavariable and
	// blocked constructors at the head.
	Reduce(t Term) (Term, error)

	// DefOf yields the definition kind of a name.
	DefOf(n Name) (DefKind, error)

	// MutualBlockOf returns the ordered mutual block containing n,
	// including n itself.
	MutualBlockOf(n Name) ([]Name, error)

	// RangesOf returns diagnostic ranges for a name's occurrences,
	// used as termination witnesses of every call to that name.
	RangesOf(n Name) []diag.Span
}
