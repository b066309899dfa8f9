package diag

import (
	"strings"
	"testing"
)

func TestSpan_String(t *testing.T) {
	s := Span{Filename: "prog.yaml", Line: 4, Column: 9}
	if got := s.String(); got != "prog.yaml:4:9" {
		t.Errorf("unexpected span string: %q", got)
	}

	anon := Span{Line: 4, Column: 9}
	if got := anon.String(); got != "4:9" {
		t.Errorf("unexpected anonymous span string: %q", got)
	}
}

func TestSpan_IsValid(t *testing.T) {
	if (Span{}).IsValid() {
		t.Error("zero span must be invalid")
	}
	if !(Span{Line: 1, Column: 1}).IsValid() {
		t.Error("1:1 must be valid")
	}
}

func TestDiagnostic_Builders(t *testing.T) {
	d := Diagnostic{
		Stage:    StageTermination,
		Severity: SeverityError,
		Code:     CodeTermNonTerminating,
		Message:  "termination checking failed",
	}
	d = d.WithPrimarySpan(Span{Line: 1, Column: 1}, "call here")
	d = d.WithSecondarySpan(Span{Line: 2, Column: 1}, "and here")
	d = d.WithNote("behaviour: [≤]")
	d = d.WithHelp("make some argument structurally smaller")

	if len(d.LabeledSpans) != 2 {
		t.Fatalf("expected 2 labeled spans, got %d", len(d.LabeledSpans))
	}
	if d.LabeledSpans[0].Style != "primary" || d.LabeledSpans[1].Style != "secondary" {
		t.Errorf("span styles wrong: %+v", d.LabeledSpans)
	}
	if len(d.Notes) != 1 || d.Help == "" {
		t.Errorf("notes/help not recorded: %+v", d)
	}
}

func TestFormatter_SimpleOutput(t *testing.T) {
	var sb strings.Builder
	f := NewFormatterTo(&sb)

	f.Format(Diagnostic{
		Severity: SeverityError,
		Code:     CodeTermNonTerminating,
		Message:  "termination checking failed for spin",
	})

	out := sb.String()
	if !strings.Contains(out, "error[TERM_NON_TERMINATING]: termination checking failed for spin") {
		t.Errorf("missing header in output:\n%s", out)
	}
}

func TestFormatter_SpanWithoutSource(t *testing.T) {
	var sb strings.Builder
	f := NewFormatterTo(&sb)

	f.Format(Diagnostic{
		Severity: SeverityError,
		Code:     CodeFixtureUnknownName,
		Message:  `unknown name "g"`,
		Span:     Span{Filename: "no-such-file.yaml", Line: 3, Column: 7},
	})

	out := sb.String()
	if !strings.Contains(out, "no-such-file.yaml:3:7") {
		t.Errorf("missing span location in output:\n%s", out)
	}
}
