package engine

// Rules is the session ruleset: period length, win threshold, and the
// optional strict variant with its neglect penalty. Two authored
// configurations exist today — the default one and the strict per-meeting-day
// one — so everything here stays plain data.
type Rules struct {
	// PeriodSeconds is the countdown length of one time slot.
	PeriodSeconds int

	// MinProgress is the project progress at which the session is won.
	MinProgress int

	// Strict enables the neglect trust penalty at day rollover.
	Strict bool

	// Seed drives every stochastic decision point (meeting cancellation).
	Seed int64

	// MoodCancelThreshold is the mood sample below which a stakeholder
	// cancels a proactive meeting. Zero disables cancellation.
	MoodCancelThreshold float64

	// Initial global resources.
	StartBudget     int
	StartReputation int
}

// DefaultRules returns the standard configuration.
func DefaultRules() Rules {
	return Rules{
		PeriodSeconds:       60,
		MinProgress:         100,
		Strict:              false,
		Seed:                1,
		MoodCancelThreshold: 0,
		StartBudget:         50000,
		StartReputation:     50,
	}
}
