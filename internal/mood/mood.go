// Package mood decides whether a stakeholder cancels a scheduled meeting.
// The decision is a smooth noise field over (day, stakeholder), seeded once
// per session, so the same seed always cancels the same meetings — tests can
// pin the outcome by pinning the seed.
package mood

import opensimplex "github.com/ojrac/opensimplex-go"

// Field samples stakeholder mood from normalized simplex noise.
type Field struct {
	noise     opensimplex.Noise
	threshold float64
}

// NewField creates a mood field. Samples below threshold cancel the meeting;
// a threshold of 0 disables cancellation entirely.
func NewField(seed int64, threshold float64) *Field {
	return &Field{
		noise:     opensimplex.NewNormalized(seed),
		threshold: threshold,
	}
}

// Sample returns the mood value in [0, 1) for a stakeholder ordinal on a day.
// Frequencies are deliberately irrational-ish so neighboring days and
// stakeholders decorrelate.
func (f *Field) Sample(day, ordinal int) float64 {
	return f.noise.Eval2(float64(day)*0.73, float64(ordinal)*1.31)
}

// Cancels reports whether the stakeholder's mood sinks the meeting.
func (f *Field) Cancels(day, ordinal int) bool {
	if f.threshold <= 0 {
		return false
	}
	return f.Sample(day, ordinal) < f.threshold
}
