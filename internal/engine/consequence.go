package engine

import (
	"log/slog"

	"github.com/dreamypudu/prototipo-6/internal/content"
	"github.com/dreamypudu/prototipo-6/internal/scoring"
	"github.com/dreamypudu/prototipo-6/internal/stakeholders"
)

// mechanicDialogue identifies the dialogue engine in the action logs; other
// mechanics pass their own id through the canonical-action sink.
const mechanicDialogue = "dialogue"

// applyOption applies an option's consequence bundle to the state clone:
// clamped relational and global deltas, commitment creation, the explicit
// decision entry, and expectation registration. Everything lands on the same
// clone, so the caller publishes it as one atomic step.
func (s *Session) applyOption(st *State, node content.Node, opt content.Option) {
	c := opt.Consequences

	sh, _, ok := st.stakeholderByRole(node.StakeholderRole)
	if !ok {
		slog.Warn("content defect: node references missing stakeholder role",
			"node", node.ID, "role", node.StakeholderRole)
	} else {
		if c.TrustChange != 0 {
			sh.AdjustTrust(c.TrustChange)
		}
		if c.SupportChange != 0 {
			sh.AdjustSupport(c.SupportChange)
		}
		if c.Commitment != nil {
			sh.Promise(c.Commitment.Description, st.Clock.Day+c.Commitment.DueInDays)
		}
	}

	st.Global.Budget += c.BudgetChange
	st.Global.Reputation = clampPercent(st.Global.Reputation + c.ReputationChange)
	st.Global.ProjectProgress = clampPercent(st.Global.ProjectProgress + c.ProjectProgressChange)

	st.Decisions = append(st.Decisions, Decision{
		NodeID:          node.ID,
		OptionID:        opt.ID,
		OptionText:      opt.Text,
		StakeholderRole: node.StakeholderRole,
		Day:             st.Clock.Day,
		Slot:            st.Clock.Slot,
		Consequences:    c,
		At:              s.now(),
	})

	for _, spec := range opt.ExpectedActions {
		st.Expected = append(st.Expected,
			scoring.NewExpected(node.ID, opt.ID, spec, mechanicDialogue, s.now()))
	}

	st.CompletedScenarios[node.ID] = true

	if st.Status == StatusPlaying && st.Global.ProjectProgress >= s.rules.MinProgress {
		st.Status = StatusWon
		st.addWarning("The project has reached its target. The board is satisfied.")
		slog.Info("session won", "progress", st.Global.ProjectProgress, "day", st.Clock.Day)
	}
}

// clampPercent bounds reputation and project progress to 0..100, same range
// as trust.
func clampPercent(v int) int {
	return stakeholders.ClampTrust(v)
}
