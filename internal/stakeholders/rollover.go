package stakeholders

// Day-rollover erosion rules. Applied once per day boundary, never per slot.
const (
	// BrokenCommitmentPenalty is the trust cost per commitment that newly
	// breaks in a rollover, applied once per commitment.
	BrokenCommitmentPenalty = 20

	// NeglectPenalty is the flat trust cost under the strict ruleset when a
	// stakeholder has gone unmet for more than NeglectAfterDays.
	NeglectPenalty   = 2
	NeglectAfterDays = 3

	// CriticalTrustThreshold marks the relationship as critical below it.
	CriticalTrustThreshold = 30
)

// RolloverEffect reports what a single day rollover did to one stakeholder.
type RolloverEffect struct {
	NewlyBroken    int
	NeglectApplied bool
	BecameCritical bool
}

// Rollover applies one day boundary to the stakeholder in place: pending
// commitments with dayDue before the new day break (one-way), trust drops by
// the per-commitment penalty, and under the strict ruleset an unmet
// stakeholder loses the flat neglect penalty. The secretary role is exempt
// from neglect. The critical flag flips at most once per call.
func (s *Stakeholder) Rollover(newDay int, strict bool) RolloverEffect {
	var eff RolloverEffect

	for i := range s.Commitments {
		c := &s.Commitments[i]
		if c.Status == CommitmentPending && c.DayDue < newDay {
			c.Status = CommitmentBroken
			eff.NewlyBroken++
		}
	}
	if eff.NewlyBroken > 0 {
		s.AdjustTrust(-BrokenCommitmentPenalty * eff.NewlyBroken)
	}

	if strict && s.Role != RoleSecretary {
		unmet := s.LastMetDay == 0 || newDay-s.LastMetDay > NeglectAfterDays
		if unmet {
			s.AdjustTrust(-NeglectPenalty)
			eff.NeglectApplied = true
		}
	}

	if s.Status == StatusNormal && s.Trust < CriticalTrustThreshold {
		s.Status = StatusCritical
		eff.BecameCritical = true
	}

	return eff
}
