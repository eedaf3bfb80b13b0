package scoring

import (
	"testing"
	"time"

	"github.com/dreamypudu/prototipo-6/internal/content"
)

var testTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func expected(id, actionType, targetRef string, constraints map[string]string) ExpectedAction {
	return ExpectedAction{
		ID:          id,
		NodeID:      "n-1",
		OptionID:    "n-1-a",
		ActionType:  actionType,
		TargetRef:   targetRef,
		Constraints: constraints,
		CreatedAt:   testTime,
		MechanicID:  "dialogue",
	}
}

func canonical(id, actionType, targetRef string, context map[string]string) CanonicalAction {
	return CanonicalAction{
		ID:          id,
		MechanicID:  "desk",
		ActionType:  actionType,
		TargetRef:   targetRef,
		CommittedAt: testTime,
		Context:     context,
	}
}

func TestCompareMatchesByTypeAndTarget(t *testing.T) {
	exp := []ExpectedAction{expected("e-1", "deliver_document", "doc-plan", nil)}
	can := []CanonicalAction{canonical("c-1", "deliver_document", "doc-plan", nil)}

	got := Compare(exp, can, nil, Options{})
	if len(got) != 1 {
		t.Fatalf("expected one comparison, got %d", len(got))
	}
	if got[0].Outcome != OutcomeMatched || got[0].CanonicalActionID != "c-1" {
		t.Fatalf("comparison = %+v", got[0])
	}
	if got[0].Deviation != nil {
		t.Fatalf("matched comparison carries a deviation: %+v", got[0].Deviation)
	}
}

func TestCompareMismatchCarriesDeviation(t *testing.T) {
	exp := []ExpectedAction{expected("e-1", "deliver_document", "doc-plan", nil)}
	can := []CanonicalAction{canonical("c-1", "deliver_document", "doc-other", nil)}

	got := Compare(exp, can, nil, Options{})
	if len(got) != 1 || got[0].Outcome != OutcomeMismatched {
		t.Fatalf("comparisons = %+v", got)
	}
	if got[0].Deviation["target_ref"] != "doc-other" {
		t.Fatalf("deviation = %+v", got[0].Deviation)
	}
}

func TestCompareRightTargetBeatsWrongOne(t *testing.T) {
	exp := []ExpectedAction{expected("e-1", "deliver_document", "doc-plan", nil)}
	can := []CanonicalAction{
		canonical("c-wrong", "deliver_document", "doc-other", nil),
		canonical("c-right", "deliver_document", "doc-plan", nil),
	}

	got := Compare(exp, can, nil, Options{})
	if len(got) != 1 || got[0].Outcome != OutcomeMatched || got[0].CanonicalActionID != "c-right" {
		t.Fatalf("comparisons = %+v", got)
	}
}

func TestCompareConstraints(t *testing.T) {
	exp := []ExpectedAction{expected("e-1", "confirm_schedule", "seq-review",
		map[string]string{"day": "3"})}

	t.Run("constraint satisfied", func(t *testing.T) {
		can := []CanonicalAction{canonical("c-1", "confirm_schedule", "seq-review",
			map[string]string{"day": "3", "slot": "evening"})}
		got := Compare(exp, can, nil, Options{})
		if len(got) != 1 || got[0].Outcome != OutcomeMatched {
			t.Fatalf("comparisons = %+v", got)
		}
	})

	t.Run("constraint violated", func(t *testing.T) {
		can := []CanonicalAction{canonical("c-1", "confirm_schedule", "seq-review",
			map[string]string{"day": "5"})}
		got := Compare(exp, can, nil, Options{})
		if len(got) != 1 || got[0].Outcome != OutcomeMismatched {
			t.Fatalf("comparisons = %+v", got)
		}
		if got[0].Deviation["day"] != "5" {
			t.Fatalf("deviation = %+v", got[0].Deviation)
		}
	})
}

func TestCompareNotDoneOnlyWhenRequested(t *testing.T) {
	exp := []ExpectedAction{expected("e-1", "send_report", "report-weekly", nil)}

	if got := Compare(exp, nil, nil, Options{}); len(got) != 0 {
		t.Fatalf("unanswered expectation compared early: %+v", got)
	}

	got := Compare(exp, nil, nil, Options{IncludeNotDone: true})
	if len(got) != 1 || got[0].Outcome != OutcomeNotDone {
		t.Fatalf("comparisons = %+v", got)
	}
	if got[0].CanonicalActionID != "" {
		t.Fatalf("not_done comparison references a canonical action")
	}
}

func TestCompareNeverReprocessesCoveredEntries(t *testing.T) {
	exp := []ExpectedAction{
		expected("e-1", "deliver_document", "doc-plan", nil),
		expected("e-2", "send_report", "report-weekly", nil),
	}
	can := []CanonicalAction{canonical("c-1", "deliver_document", "doc-plan", nil)}

	first := Compare(exp, can, nil, Options{})
	if len(first) != 1 || first[0].ExpectedActionID != "e-1" {
		t.Fatalf("first batch = %+v", first)
	}

	// Same inputs plus the accumulated comparisons: empty batch.
	second := Compare(exp, can, first, Options{})
	if len(second) != 0 {
		t.Fatalf("second batch must be empty, got %+v", second)
	}

	// The game-end pass picks up only the still-uncovered entry.
	final := Compare(exp, can, first, Options{IncludeNotDone: true})
	if len(final) != 1 || final[0].ExpectedActionID != "e-2" || final[0].Outcome != OutcomeNotDone {
		t.Fatalf("final batch = %+v", final)
	}
}

func TestDuplicateRegistrationProducesDuplicateEntries(t *testing.T) {
	// Re-selecting an option appends a second expectation with its own id;
	// both get their own comparison.
	spec := content.ExpectedActionSpec{ActionType: "deliver_document", TargetRef: "doc-plan"}
	e1 := NewExpected("n-1", "n-1-a", spec, "dialogue", testTime)
	e2 := NewExpected("n-1", "n-1-a", spec, "dialogue", testTime)
	if e1.ID == e2.ID {
		t.Fatalf("duplicate registrations must have distinct ids")
	}

	can := []CanonicalAction{canonical("c-1", "deliver_document", "doc-plan", nil)}
	got := Compare([]ExpectedAction{e1, e2}, can, nil, Options{})
	if len(got) != 2 {
		t.Fatalf("expected two comparisons, got %d", len(got))
	}
}
