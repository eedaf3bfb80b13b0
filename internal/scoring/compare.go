package scoring

// Outcome classifies one expected action after reconciliation.
type Outcome string

const (
	OutcomeMatched    Outcome = "matched"
	OutcomeMismatched Outcome = "mismatched"
	OutcomeNotDone    Outcome = "not_done"
)

// Comparison pairs an expectation with the canonical action (if any) that
// answered it. Deviation carries the parameter differences behind a
// mismatch.
type Comparison struct {
	ExpectedActionID  string            `json:"expected_action_id"`
	CanonicalActionID string            `json:"canonical_action_id,omitempty"`
	Outcome           Outcome           `json:"outcome"`
	Deviation         map[string]string `json:"deviation,omitempty"`
}

// Options controls a comparison pass. IncludeNotDone is set only once, at
// session end, to close out expectations the player never acted on.
type Options struct {
	IncludeNotDone bool
}

// Compare diffs the expected log against the canonical log and returns only
// the comparisons not already present in existing. Pure: no input is
// mutated, and an expected entry already covered is never reprocessed, so a
// second pass over the same inputs yields an empty batch.
func Compare(expected []ExpectedAction, canonical []CanonicalAction, existing []Comparison, opts Options) []Comparison {
	covered := make(map[string]bool, len(existing))
	for _, c := range existing {
		covered[c.ExpectedActionID] = true
	}

	var out []Comparison
	for _, exp := range expected {
		if covered[exp.ID] {
			continue
		}

		act, found := bestMatch(canonical, exp)
		if !found {
			if opts.IncludeNotDone {
				out = append(out, Comparison{
					ExpectedActionID: exp.ID,
					Outcome:          OutcomeNotDone,
				})
			}
			continue
		}

		dev := deviation(exp, act)
		outcome := OutcomeMatched
		if len(dev) > 0 {
			outcome = OutcomeMismatched
		}
		out = append(out, Comparison{
			ExpectedActionID:  exp.ID,
			CanonicalActionID: act.ID,
			Outcome:           outcome,
			Deviation:         dev,
		})
	}
	return out
}

// bestMatch returns the first canonical action of the expected type whose
// target also matches, so a wrong-target action performed earlier does not
// shadow a correct one performed later. Falls back to the first same-type
// action when no target matches.
func bestMatch(canonical []CanonicalAction, exp ExpectedAction) (CanonicalAction, bool) {
	var fallback CanonicalAction
	haveFallback := false
	for _, a := range canonical {
		if a.ActionType != exp.ActionType {
			continue
		}
		if exp.TargetRef == "" || a.TargetRef == exp.TargetRef {
			return a, true
		}
		if !haveFallback {
			fallback = a
			haveFallback = true
		}
	}
	return fallback, haveFallback
}

// deviation lists the parameters where the canonical action diverges from
// the expectation. Empty means a full match.
func deviation(exp ExpectedAction, act CanonicalAction) map[string]string {
	dev := map[string]string{}
	if exp.TargetRef != "" && exp.TargetRef != act.TargetRef {
		dev["target_ref"] = act.TargetRef
	}
	for key, want := range exp.Constraints {
		got, ok := act.Context[key]
		if !ok || got != want {
			dev[key] = got
		}
	}
	if len(dev) == 0 {
		return nil
	}
	return dev
}
