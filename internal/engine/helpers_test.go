package engine

import (
	"testing"
	"time"

	"github.com/dreamypudu/prototipo-6/internal/content"
)

func intp(v int) *int { return &v }

func testSeeds() []content.StakeholderSeed {
	return []content.StakeholderSeed{
		{ID: "stk-sponsor", Name: "Marta", Role: "sponsor", Trust: 60, Support: 10, MinSupport: -20, MaxSupport: 40},
		{ID: "stk-techlead", Name: "Jonas", Role: "techlead", Trust: 50, Support: 0, MinSupport: -30, MaxSupport: 30},
		{ID: "stk-secretary", Name: "Ana", Role: "secretary", Trust: 50, Support: 0, MinSupport: 0, MaxSupport: 0},
	}
}

func testNodes() []content.Node {
	return []content.Node{
		{
			ID: "n-1", StakeholderRole: "sponsor", Dialogue: "Morning, {playerName}.",
			Options: []content.Option{{
				ID: "n-1-a", Text: "First answer",
				Consequences: content.Consequences{TrustChange: 5, DialogueResponse: "Good, {playerName}."},
				ExpectedActions: []content.ExpectedActionSpec{
					{ActionType: "deliver_document", TargetRef: "doc-plan", RuleID: "r-1"},
				},
			}},
		},
		{
			ID: "n-2", StakeholderRole: "sponsor", Dialogue: "Second item.",
			Options: []content.Option{{
				ID: "n-2-a", Text: "Second answer",
				Consequences: content.Consequences{
					SupportChange: 100, // Clamped to the sponsor's max.
					Commitment:    &content.CommitmentSpec{Description: "Send the memo", DueInDays: 2},
				},
			}},
		},
		{
			ID: "n-3", StakeholderRole: "sponsor", Dialogue: "Last item.",
			Options: []content.Option{{
				ID: "n-3-a", Text: "Closing answer",
				Consequences: content.Consequences{BudgetChange: -1000, ProjectProgressChange: 10},
			}},
		},
		{
			ID: "n-solo", StakeholderRole: "techlead", Dialogue: "Got a minute, {playerName}?",
			Options: []content.Option{{
				ID: "n-solo-a", Text: "Always",
				Consequences: content.Consequences{TrustChange: 200, DialogueResponse: "Appreciated."},
			}},
		},
		{
			ID: "n-crisis", StakeholderRole: "sponsor", Dialogue: "The numbers are red.",
			Options: []content.Option{{
				ID: "n-crisis-a", Text: "I will fix it",
				Consequences: content.Consequences{BudgetChange: 5000},
			}},
		},
	}
}

// testSession builds a session over the given sequences and schedule, using
// the shared seed/node set and a fixed logical clock for timestamps.
func testSession(t *testing.T, sequences []content.Sequence, schedule map[content.SequenceID]content.TriggerPoint, rules Rules) *Session {
	t.Helper()
	cat, err := content.NewCatalog(testSeeds(), testNodes(), sequences, schedule)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	s := NewSession(cat, rules)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func testRules() Rules {
	r := DefaultRules()
	r.PeriodSeconds = 10
	r.Seed = 7
	return r
}

// mainSequence is the three-node inevitable meeting used across tests.
func mainSequence() content.Sequence {
	return content.Sequence{
		ID:              "seq-main",
		StakeholderRole: "sponsor",
		Nodes:           []content.NodeID{"n-1", "n-2", "n-3"},
		InitialDialogue: "Come in, {playerName}.",
		FinalDialogue:   "That is all, {playerName}.",
		Inevitable:      true,
	}
}

func proactiveSequence() content.Sequence {
	return content.Sequence{
		ID:              "seq-checkin",
		StakeholderRole: "techlead",
		Nodes:           []content.NodeID{"n-solo"},
		InitialDialogue: "Jonas looks up.",
		FinalDialogue:   "Back to the terminals.",
	}
}

// selectOnly picks the first option on the currently presented node.
func selectOnly(t *testing.T, s *Session) {
	t.Helper()
	st := s.Snapshot()
	if st.Focus == nil {
		t.Fatalf("no focus to select on")
	}
	node, ok := s.catalog.Node(st.Focus.Nodes[st.Focus.Index])
	if !ok {
		t.Fatalf("missing node %s", st.Focus.Nodes[st.Focus.Index])
	}
	if err := s.SelectOption(node.Options[0].ID); err != nil {
		t.Fatalf("select option on %s: %v", node.ID, err)
	}
}
