package diag

import "fmt"

// Stage identifies which checker phase produced the diagnostic.
type Stage string

const (
	StageFixture     Stage = "fixture"
	StageTermination Stage = "termination"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Fixture errors
	CodeFixtureSyntax        Code = "FIXTURE_SYNTAX"
	CodeFixtureUnknownName   Code = "FIXTURE_UNKNOWN_NAME"
	CodeFixtureDuplicateName Code = "FIXTURE_DUPLICATE_NAME"

	// Termination verdicts
	CodeTermNonTerminating Code = "TERM_NON_TERMINATING"

	// Internal invariant violations. These must not occur on well-typed
	// input; they are surfaced as fatal diagnostics and never caught
	// inside the checker.
	CodeImpossibleHeadArity     Code = "IMPOSSIBLE_HEAD_ARITY"
	CodeImpossibleShape         Code = "IMPOSSIBLE_MATRIX_SHAPE"
	CodeImpossibleBlockedTerm   Code = "IMPOSSIBLE_BLOCKED_TERM"
	CodeImpossibleLevelBounds   Code = "IMPOSSIBLE_LEVEL_BOUNDS"
	CodeImpossibleMissingClause Code = "IMPOSSIBLE_MISSING_CLAUSE"
)

// Span represents a location in a source document.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid returns true if the span has valid location information.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// LabeledSpan represents a span with an optional label.
type LabeledSpan struct {
	Span  Span
	Label string
	Style string // "primary" or "secondary" - primary spans are emphasized
}

// Diagnostic is a checker diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span // Primary span
	// LabeledSpans allows multiple spans with labels. Each span's Style
	// decides whether it is rendered as primary or secondary.
	LabeledSpans []LabeledSpan
	Notes        []string
	Help         string
}

// WithLabeledSpan adds a labeled span to the diagnostic.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style string) Diagnostic {
	if style == "" {
		style = "primary"
	}
	d.LabeledSpans = append(d.LabeledSpans, LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

// WithPrimarySpan adds a primary labeled span.
func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "primary")
}

// WithSecondarySpan adds a secondary labeled span.
func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, "secondary")
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
