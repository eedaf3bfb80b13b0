package engine

import (
	"errors"
	"testing"

	"github.com/dreamypudu/prototipo-6/internal/content"
	"github.com/dreamypudu/prototipo-6/internal/scoring"
)

func TestTickCountdownAdvancesSlot(t *testing.T) {
	rules := testRules()
	rules.PeriodSeconds = 2
	s := testSession(t, nil, nil, rules)
	s.Start("Robin")

	s.Tick()
	st := s.Snapshot()
	if st.Clock.Slot != content.SlotMorning || st.Clock.CountdownSeconds != 1 {
		t.Fatalf("after one tick: %+v", st.Clock)
	}

	s.Tick()
	st = s.Snapshot()
	if st.Clock.Slot != content.SlotAfternoon {
		t.Fatalf("countdown exhaustion must advance the slot: %+v", st.Clock)
	}
	if st.Clock.CountdownSeconds != rules.PeriodSeconds {
		t.Fatalf("countdown not reset: %d", st.Clock.CountdownSeconds)
	}
}

func TestTickIgnoredWhilePaused(t *testing.T) {
	s := testSession(t,
		[]content.Sequence{mainSequence()},
		map[content.SequenceID]content.TriggerPoint{"seq-main": {Day: 1, Slot: content.SlotMorning}},
		testRules(),
	)
	s.Start("Robin") // Inevitable sequence pauses the clock immediately.

	before := s.Snapshot().Clock
	for i := 0; i < 50; i++ {
		s.Tick()
	}
	after := s.Snapshot().Clock
	if before != after {
		t.Fatalf("paused clock moved: %+v -> %+v", before, after)
	}
}

func TestManualAdvanceMatchesAutomaticPath(t *testing.T) {
	rules := testRules()
	rules.PeriodSeconds = 1
	auto := testSession(t, nil, nil, rules)
	auto.Start("Robin")
	manual := testSession(t, nil, nil, rules)
	manual.Start("Robin")

	for i := 0; i < 4; i++ {
		auto.Tick()
		if err := manual.AdvanceTime(); err != nil {
			t.Fatalf("manual advance %d: %v", i, err)
		}
	}

	a, m := auto.Snapshot().Clock, manual.Snapshot().Clock
	if a.Day != m.Day || a.Slot != m.Slot {
		t.Fatalf("paths diverged: auto %+v, manual %+v", a, m)
	}
	if len(auto.Snapshot().History) != len(manual.Snapshot().History) {
		t.Fatalf("history diverged")
	}
}

func TestWinHaltsSession(t *testing.T) {
	rules := testRules()
	rules.MinProgress = 10
	s := testSession(t,
		[]content.Sequence{mainSequence()},
		map[content.SequenceID]content.TriggerPoint{"seq-main": {Day: 1, Slot: content.SlotMorning}},
		rules,
	)
	s.Start("Robin")

	if err := s.StartMeeting(); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 3; i++ {
		selectOnly(t, s)
		if i < 2 {
			if err := s.ContinueMeeting(); err != nil {
				t.Fatalf("continue: %v", err)
			}
		}
	}

	// n-3-a pushed progress to the threshold. The final meeting must still
	// offer its closing transitions.
	st := s.Snapshot()
	if st.Status != StatusWon {
		t.Fatalf("status = %s, want won", st.Status)
	}
	wantActions(t, s, ActionEndSequence)

	if err := s.EndMeeting(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := s.ConcludeMeeting(); err != nil {
		t.Fatalf("conclude: %v", err)
	}
	if err := s.AdvanceTime(); err == nil {
		t.Fatalf("advance after win must be rejected")
	}
	if got := s.Snapshot().AvailableActions(); len(got) != 0 {
		t.Fatalf("won session still offers actions: %v", got)
	}
}

func TestPlanMeetingReschedulesAndRecordsAction(t *testing.T) {
	s := testSession(t,
		[]content.Sequence{mainSequence()},
		map[content.SequenceID]content.TriggerPoint{"seq-main": {Day: 2, Slot: content.SlotMorning}},
		testRules(),
	)
	s.Start("Robin")

	if err := s.PlanMeeting("seq-main", 3, content.SlotEvening); err != nil {
		t.Fatalf("plan: %v", err)
	}

	st := s.Snapshot()
	if got := st.Schedule["seq-main"]; got.Day != 3 || got.Slot != content.SlotEvening {
		t.Fatalf("schedule = %+v", got)
	}
	if len(st.Canonical) != 1 {
		t.Fatalf("expected one canonical action, got %d", len(st.Canonical))
	}
	a := st.Canonical[0]
	if a.ActionType != "confirm_schedule" || a.TargetRef != "seq-main" {
		t.Fatalf("canonical action = %+v", a)
	}
	if a.Context["day"] != "3" || a.Context["slot"] != "evening" {
		t.Fatalf("canonical context = %+v", a.Context)
	}

	// Unknown sequences are a content defect: logged no-op, no error.
	if err := s.PlanMeeting("seq-missing", 4, content.SlotMorning); err != nil {
		t.Fatalf("planning unknown sequence must not error: %v", err)
	}
	if got := len(s.Snapshot().Canonical); got != 1 {
		t.Fatalf("no-op plan recorded an action: %d", got)
	}
}

func TestPlanMeetingRejectsPastTrigger(t *testing.T) {
	s := testSession(t,
		[]content.Sequence{mainSequence()},
		map[content.SequenceID]content.TriggerPoint{"seq-main": {Day: 3, Slot: content.SlotMorning}},
		testRules(),
	)
	s.Start("Robin")
	if err := s.AdvanceTime(); err != nil {
		t.Fatalf("advance: %v", err)
	}

	// Day 1 afternoon now; day 1 morning is behind the clock.
	err := s.PlanMeeting("seq-main", 1, content.SlotMorning)
	if !errors.Is(err, ErrPastTrigger) {
		t.Fatalf("got %v, want ErrPastTrigger", err)
	}
	st := s.Snapshot()
	if got := st.Schedule["seq-main"]; got.Day != 3 || got.Slot != content.SlotMorning {
		t.Fatalf("rejected plan mutated the schedule: %+v", got)
	}
	if len(st.Canonical) != 0 {
		t.Fatalf("rejected plan recorded an action: %+v", st.Canonical)
	}

	// The current position itself is a valid target.
	if err := s.PlanMeeting("seq-main", 1, content.SlotAfternoon); err != nil {
		t.Fatalf("plan to current position: %v", err)
	}
}

func TestFulfillCommitmentRecordsDelivery(t *testing.T) {
	s := startedMainSequence(t)
	if err := s.StartMeeting(); err != nil {
		t.Fatalf("start: %v", err)
	}
	selectOnly(t, s)
	if err := s.ContinueMeeting(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	selectOnly(t, s) // Creates the "Send the memo" commitment.
	if err := s.ContinueMeeting(); err != nil {
		t.Fatalf("continue: %v", err)
	}
	selectOnly(t, s)
	if err := s.EndMeeting(); err != nil {
		t.Fatalf("end: %v", err)
	}
	if err := s.ConcludeMeeting(); err != nil {
		t.Fatalf("conclude: %v", err)
	}

	if err := s.FulfillCommitment("sponsor", "Send the memo", "doc-memo"); err != nil {
		t.Fatalf("fulfill: %v", err)
	}

	st := s.Snapshot()
	sponsor, _, _ := st.stakeholderByRole("sponsor")
	if got := sponsor.Commitments[0].Status.String(); got != "fulfilled" {
		t.Fatalf("commitment status = %s", got)
	}
	if len(st.Canonical) != 1 || st.Canonical[0].ActionType != "deliver_document" {
		t.Fatalf("delivery not recorded: %+v", st.Canonical)
	}

	// Fulfilled commitments never break at rollover.
	for i := 0; i < 12; i++ {
		if err := s.AdvanceTime(); err != nil {
			break
		}
	}
	sponsor, _, _ = s.Snapshot().stakeholderByRole("sponsor")
	if got := sponsor.Commitments[0].Status.String(); got != "fulfilled" {
		t.Fatalf("fulfilled commitment transitioned to %s", got)
	}
}

func TestCompareNowIsIncremental(t *testing.T) {
	s := startedMainSequence(t)
	if err := s.StartMeeting(); err != nil {
		t.Fatalf("start: %v", err)
	}
	selectOnly(t, s) // Registers the deliver_document expectation.

	s.RecordCanonicalAction("desk", "deliver_document", "doc-plan", "v1", nil)

	first := s.CompareNow()
	if len(first) != 1 || first[0].Outcome != scoring.OutcomeMatched {
		t.Fatalf("first batch = %+v", first)
	}

	second := s.CompareNow()
	if len(second) != 0 {
		t.Fatalf("second pass must be empty, got %+v", second)
	}
}

func TestFinishClosesOutUnmetExpectations(t *testing.T) {
	s := startedMainSequence(t)
	if err := s.StartMeeting(); err != nil {
		t.Fatalf("start: %v", err)
	}
	selectOnly(t, s) // Expectation registered, never acted on.

	report := s.Finish()
	if report.Final.Clock.Paused != true {
		t.Fatalf("finished session should freeze the clock")
	}
	if len(report.Final.Comparisons) != 1 {
		t.Fatalf("comparisons = %+v", report.Final.Comparisons)
	}
	if report.Final.Comparisons[0].Outcome != scoring.OutcomeNotDone {
		t.Fatalf("outcome = %s, want not_done", report.Final.Comparisons[0].Outcome)
	}
	if report.SessionID != s.ID() || report.PlayerName != "Robin" {
		t.Fatalf("report identity wrong: %+v", report)
	}
}

func TestResetRestoresInitialValues(t *testing.T) {
	s := startedMainSequence(t)
	if err := s.StartMeeting(); err != nil {
		t.Fatalf("start: %v", err)
	}
	selectOnly(t, s)

	s.Reset()
	st := s.Snapshot()
	if len(st.Decisions) != 0 || len(st.Expected) != 0 || st.Focus != nil {
		t.Fatalf("reset left residue: %+v", st)
	}
	sponsor, _, _ := st.stakeholderByRole("sponsor")
	if sponsor.Trust != 60 {
		t.Fatalf("trust = %d, want authored 60", sponsor.Trust)
	}
}
