package engine

import (
	"fmt"
	"log/slog"

	"github.com/dreamypudu/prototipo-6/internal/content"
	"github.com/dreamypudu/prototipo-6/internal/stakeholders"
)

// advanceClock moves the clock one slot forward on the state clone and
// resets the countdown. Manual skips and countdown exhaustion both come
// through here; there is no second advancement path.
//
// On a day boundary it snapshots the pre-advance stakeholder list into the
// history under the day that just ended, then runs rollover processing.
// Returns true when a new day began.
func advanceClock(st *State, rules Rules) bool {
	endedDay := st.Clock.Day
	next := st.Clock.Slot + 1
	st.Clock.CountdownSeconds = rules.PeriodSeconds

	if next < content.SlotCount {
		st.Clock.Slot = next
		return false
	}

	// Day boundary: snapshot first, exactly once per day.
	if _, dup := st.History[endedDay]; !dup {
		snap := make([]stakeholders.Stakeholder, len(st.Stakeholders))
		for i, s := range st.Stakeholders {
			snap[i] = *s.Clone()
		}
		st.History[endedDay] = snap
	}

	st.Clock.Slot = 0
	st.Clock.Day++

	if st.Status == StatusPlaying {
		rolloverDay(st, rules)
	}
	return true
}

// rolloverDay applies day-boundary erosion to every stakeholder: overdue
// commitments break, trust drops, and governance warnings surface.
func rolloverDay(st *State, rules Rules) {
	day := st.Clock.Day
	for _, s := range st.Stakeholders {
		eff := s.Rollover(day, rules.Strict)
		if eff.NewlyBroken > 0 {
			st.addWarning(fmt.Sprintf(
				"Governance alert: a commitment to %s went unfulfilled. Trust has dropped sharply.", s.Name))
			slog.Info("commitments broken at rollover",
				"stakeholder", s.Role, "count", eff.NewlyBroken, "trust", s.Trust, "day", day)
		}
		if eff.NeglectApplied {
			slog.Debug("neglect penalty applied", "stakeholder", s.Role, "trust", s.Trust, "day", day)
		}
		if eff.BecameCritical {
			st.addWarning(fmt.Sprintf(
				"Governance alert: your relationship with %s has become critical.", s.Name))
		}
	}
}
