// Package stakeholders holds the per-stakeholder relational model: trust,
// support, commitments, and the day-rollover rules that erode them.
package stakeholders

import "github.com/dreamypudu/prototipo-6/internal/content"

// CommitmentStatus tracks a promised deliverable through its lifecycle.
// Transitions are monotonic: pending may become fulfilled or broken, and
// neither of those ever reverts.
type CommitmentStatus uint8

const (
	CommitmentPending CommitmentStatus = iota
	CommitmentFulfilled
	CommitmentBroken
)

var commitmentNames = [...]string{"pending", "fulfilled", "broken"}

func (s CommitmentStatus) String() string {
	if int(s) < len(commitmentNames) {
		return commitmentNames[s]
	}
	return "unknown"
}

// Commitment is a promise made to a stakeholder with a due day.
type Commitment struct {
	Description string           `json:"description"`
	DayDue      int              `json:"day_due"`
	Status      CommitmentStatus `json:"status"`
}

// Status flags whether the relationship needs governance attention.
type Status uint8

const (
	StatusNormal Status = iota
	StatusCritical
)

func (s Status) String() string {
	if s == StatusCritical {
		return "critical"
	}
	return "normal"
}

// RoleSecretary is the non-relational role: no last-met tracking, no neglect
// penalty, support pinned at zero by authored bounds.
const RoleSecretary = "secretary"

// Stakeholder is one NPC the player must manage. Mutated only through
// consequence application and day rollover; never destroyed mid-session.
type Stakeholder struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Portrait string `json:"portrait"`

	Trust      int    `json:"trust"`   // 0..100
	Support    int    `json:"support"` // MinSupport..MaxSupport
	MinSupport int    `json:"min_support"`
	MaxSupport int    `json:"max_support"`
	Status     Status `json:"status"`

	// LastMetDay is 0 until the first concluded meeting (days start at 1).
	LastMetDay  int          `json:"last_met_day"`
	Commitments []Commitment `json:"commitments"`
}

// FromSeed builds a session stakeholder from its authored initial values,
// clamping the seed into its own bounds.
func FromSeed(seed content.StakeholderSeed) *Stakeholder {
	s := &Stakeholder{
		ID:         seed.ID,
		Name:       seed.Name,
		Role:       seed.Role,
		Portrait:   seed.Portrait,
		Trust:      ClampTrust(seed.Trust),
		MinSupport: seed.MinSupport,
		MaxSupport: seed.MaxSupport,
	}
	s.Support = s.clampSupport(seed.Support)
	return s
}

// Clone returns a deep copy. The session container relies on this for its
// copy-on-write snapshots.
func (s *Stakeholder) Clone() *Stakeholder {
	out := *s
	out.Commitments = make([]Commitment, len(s.Commitments))
	copy(out.Commitments, s.Commitments)
	return &out
}

// ClampTrust bounds a trust value to 0..100.
func ClampTrust(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func (s *Stakeholder) clampSupport(v int) int {
	if v < s.MinSupport {
		return s.MinSupport
	}
	if v > s.MaxSupport {
		return s.MaxSupport
	}
	return v
}

// AdjustTrust applies a trust delta with clamping.
func (s *Stakeholder) AdjustTrust(delta int) {
	s.Trust = ClampTrust(s.Trust + delta)
}

// AdjustSupport applies a support delta clamped to the stakeholder's own
// asymmetric bounds.
func (s *Stakeholder) AdjustSupport(delta int) {
	s.Support = s.clampSupport(s.Support + delta)
}

// Promise appends a pending commitment due on the given absolute day.
func (s *Stakeholder) Promise(description string, dayDue int) {
	s.Commitments = append(s.Commitments, Commitment{
		Description: description,
		DayDue:      dayDue,
		Status:      CommitmentPending,
	})
}

// Fulfill marks the first pending commitment matching the description as
// fulfilled. Returns false if no pending commitment matches.
func (s *Stakeholder) Fulfill(description string) bool {
	for i := range s.Commitments {
		if s.Commitments[i].Status == CommitmentPending && s.Commitments[i].Description == description {
			s.Commitments[i].Status = CommitmentFulfilled
			return true
		}
	}
	return false
}
