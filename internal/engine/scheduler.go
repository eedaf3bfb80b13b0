package engine

import (
	"log/slog"

	"github.com/dreamypudu/prototipo-6/internal/content"
)

// pendingTrigger resolves which sequence must preempt free play at the
// current clock position, honoring the strict priority order: inevitable
// first, then contingent. An uncompleted inevitable stays pending once its
// trigger point has been reached, so a trigger crossed while another meeting
// held focus catches up at the next free slot instead of being lost.
// Iteration follows the catalog's lexicographic id order, so an authoring tie
// always resolves to the same sequence; the losers are surfaced as a
// diagnostic and fire on later ticks.
func (s *Session) pendingTrigger(st *State) (content.Sequence, bool) {
	var matches []content.Sequence
	for _, sid := range s.catalog.SequenceIDs() {
		seq, ok := s.catalog.Sequence(sid)
		if !ok || !seq.Inevitable || st.CompletedSequences[sid] {
			continue
		}
		tp, scheduled := st.Schedule[sid]
		if scheduled && tp.Reached(st.Clock.Day, st.Clock.Slot) {
			matches = append(matches, seq)
		}
	}
	if len(matches) > 0 {
		if len(matches) > 1 {
			ids := make([]content.SequenceID, len(matches))
			for i, m := range matches {
				ids[i] = m.ID
			}
			slog.Warn("authoring conflict: multiple inevitable sequences pending at once",
				"day", st.Clock.Day, "slot", st.Clock.Slot.String(), "sequences", ids, "picked", ids[0])
		}
		return matches[0], true
	}

	for _, sid := range s.catalog.SequenceIDs() {
		seq, ok := s.catalog.Sequence(sid)
		if !ok || !seq.Contingent || st.CompletedSequences[sid] {
			continue
		}
		if contingentSatisfied(st, seq) {
			return seq, true
		}
	}

	return content.Sequence{}, false
}

// contingentSatisfied evaluates a contingent rule against current state. All
// configured thresholds must hold. A missing target stakeholder makes the
// predicate false; a rule with no thresholds never fires.
func contingentSatisfied(st *State, seq content.Sequence) bool {
	r := seq.Rules
	if r == nil {
		return false
	}
	if r.BudgetBelow == nil && r.TrustBelow == nil && r.SupportBelow == nil {
		return false
	}

	if r.BudgetBelow != nil && st.Global.Budget >= *r.BudgetBelow {
		return false
	}

	if r.TrustBelow != nil || r.SupportBelow != nil {
		role := r.Role
		if role == "" {
			role = seq.StakeholderRole
		}
		target, _, ok := st.stakeholderByRole(role)
		if !ok {
			return false
		}
		if r.TrustBelow != nil && target.Trust >= *r.TrustBelow {
			return false
		}
		if r.SupportBelow != nil && target.Support >= *r.SupportBelow {
			return false
		}
	}

	return true
}

// checkTriggers starts the pending scheduled sequence, if any, pausing the
// clock first so no automatic advancement happens mid-meeting. No-op while a
// meeting is in focus or after the session is won.
func (s *Session) checkTriggers(st *State) {
	if st.Focus != nil || st.Status != StatusPlaying {
		return
	}
	seq, ok := s.pendingTrigger(st)
	if !ok {
		return
	}
	st.Clock.Paused = true
	s.beginSequence(st, seq, true)
	slog.Info("scheduled meeting preempts free play",
		"sequence", seq.ID, "day", st.Clock.Day, "slot", st.Clock.Slot.String())
}
