package stakeholders

import (
	"testing"

	"github.com/dreamypudu/prototipo-6/internal/content"
)

func sponsor() *Stakeholder {
	return FromSeed(content.StakeholderSeed{
		ID: "stk-1", Name: "Marta", Role: "sponsor",
		Trust: 90, Support: 10, MinSupport: -20, MaxSupport: 40,
	})
}

func TestClampInvariants(t *testing.T) {
	s := sponsor()

	s.AdjustTrust(1000)
	if s.Trust != 100 {
		t.Fatalf("trust = %d, want 100", s.Trust)
	}
	s.AdjustTrust(-1000)
	if s.Trust != 0 {
		t.Fatalf("trust = %d, want 0", s.Trust)
	}

	s.AdjustSupport(1000)
	if s.Support != s.MaxSupport {
		t.Fatalf("support = %d, want %d", s.Support, s.MaxSupport)
	}
	s.AdjustSupport(-1000)
	if s.Support != s.MinSupport {
		t.Fatalf("support = %d, want %d", s.Support, s.MinSupport)
	}
}

func TestSeedClampedIntoBounds(t *testing.T) {
	s := FromSeed(content.StakeholderSeed{
		ID: "stk-2", Role: "techlead",
		Trust: 300, Support: -500, MinSupport: -30, MaxSupport: 30,
	})
	if s.Trust != 100 || s.Support != -30 {
		t.Fatalf("seed not clamped: trust %d support %d", s.Trust, s.Support)
	}
}

func TestRolloverBreaksOnlyOverdueCommitments(t *testing.T) {
	s := sponsor()
	s.Promise("Overdue", 5)
	s.Promise("Due today", 6)
	s.Promise("Future", 9)

	eff := s.Rollover(6, false)
	if eff.NewlyBroken != 1 {
		t.Fatalf("newly broken = %d, want 1", eff.NewlyBroken)
	}
	if s.Commitments[0].Status != CommitmentBroken {
		t.Fatalf("overdue commitment = %s", s.Commitments[0].Status)
	}
	if s.Commitments[1].Status != CommitmentPending || s.Commitments[2].Status != CommitmentPending {
		t.Fatalf("non-overdue commitments transitioned: %+v", s.Commitments)
	}
	if s.Trust != 70 {
		t.Fatalf("trust = %d, want 70", s.Trust)
	}
}

func TestRolloverPenaltyScalesPerCommitment(t *testing.T) {
	s := sponsor()
	s.Promise("One", 2)
	s.Promise("Two", 3)

	eff := s.Rollover(10, false)
	if eff.NewlyBroken != 2 {
		t.Fatalf("newly broken = %d, want 2", eff.NewlyBroken)
	}
	if s.Trust != 50 {
		t.Fatalf("trust = %d, want 50", s.Trust)
	}

	// Trust floors at zero no matter how many commitments break at once.
	s2 := sponsor()
	s2.Trust = 30
	for i := 0; i < 5; i++ {
		s2.Promise("Broken", 1)
	}
	s2.Rollover(10, false)
	if s2.Trust != 0 {
		t.Fatalf("trust = %d, want floor 0", s2.Trust)
	}
}

func TestCommitmentTransitionsAreMonotonic(t *testing.T) {
	s := sponsor()
	s.Promise("Deliverable", 3)
	if !s.Fulfill("Deliverable") {
		t.Fatalf("fulfill failed")
	}

	// A fulfilled commitment never breaks, however many rollovers pass.
	for day := 4; day < 10; day++ {
		s.Rollover(day, false)
	}
	if s.Commitments[0].Status != CommitmentFulfilled {
		t.Fatalf("fulfilled commitment became %s", s.Commitments[0].Status)
	}

	// Fulfilling a broken commitment is not possible.
	s.Promise("Late", 4)
	s.Rollover(12, false)
	if s.Fulfill("Late") {
		t.Fatalf("broken commitment fulfilled")
	}
	if s.Commitments[1].Status != CommitmentBroken {
		t.Fatalf("broken commitment became %s", s.Commitments[1].Status)
	}
}

func TestNeglectPenalty(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		lastMetDay int
		strict     bool
		wantTrust  int
		wantFlag   bool
	}{
		{name: "never met under strict", role: "sponsor", lastMetDay: 0, strict: true, wantTrust: 88, wantFlag: true},
		{name: "met recently under strict", role: "sponsor", lastMetDay: 8, strict: true, wantTrust: 90, wantFlag: false},
		{name: "met long ago under strict", role: "sponsor", lastMetDay: 2, strict: true, wantTrust: 88, wantFlag: true},
		{name: "default ruleset ignores neglect", role: "sponsor", lastMetDay: 0, strict: false, wantTrust: 90, wantFlag: false},
		{name: "secretary exempt", role: RoleSecretary, lastMetDay: 0, strict: true, wantTrust: 90, wantFlag: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sponsor()
			s.Role = tt.role
			s.LastMetDay = tt.lastMetDay

			eff := s.Rollover(10, tt.strict)
			if s.Trust != tt.wantTrust {
				t.Fatalf("trust = %d, want %d", s.Trust, tt.wantTrust)
			}
			if eff.NeglectApplied != tt.wantFlag {
				t.Fatalf("neglect applied = %v, want %v", eff.NeglectApplied, tt.wantFlag)
			}
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := sponsor()
	s.Promise("Deliverable", 3)

	c := s.Clone()
	c.AdjustTrust(-50)
	c.Commitments[0].Status = CommitmentBroken

	if s.Trust != 90 {
		t.Fatalf("clone mutation leaked into trust: %d", s.Trust)
	}
	if s.Commitments[0].Status != CommitmentPending {
		t.Fatalf("clone mutation leaked into commitments")
	}
}
