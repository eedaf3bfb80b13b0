package engine

import (
	"time"

	"github.com/dreamypudu/prototipo-6/internal/content"
	"github.com/dreamypudu/prototipo-6/internal/scoring"
	"github.com/dreamypudu/prototipo-6/internal/stakeholders"
)

// GameStatus is the session's lifecycle state. There is deliberately no
// "lost" status: budget or reputation collapse only accumulates warnings.
type GameStatus uint8

const (
	StatusPlaying GameStatus = iota
	StatusWon
)

func (g GameStatus) String() string {
	if g == StatusWon {
		return "won"
	}
	return "playing"
}

// Global holds the session-wide resources. Budget is unclamped and may go
// negative (deficit); reputation and project progress stay in 0..100.
type Global struct {
	Budget          int `json:"budget"`
	Reputation      int `json:"reputation"`
	ProjectProgress int `json:"project_progress"`
}

// Clock is the discrete game clock: day, slot, and the countdown to the next
// automatic advancement.
type Clock struct {
	Day              int              `json:"day"`
	Slot             content.TimeSlot `json:"time_slot"`
	CountdownSeconds int              `json:"countdown_seconds"`
	Paused           bool             `json:"paused"`
}

// Warning is an advisory governance notice shown to the player. Warnings
// never terminate the session.
type Warning struct {
	Day  int    `json:"day"`
	Text string `json:"text"`
	Read bool   `json:"read"`
}

// Decision is one explicit dialogue choice, logged for the session export.
type Decision struct {
	NodeID          content.NodeID       `json:"node_id"`
	OptionID        content.OptionID     `json:"option_id"`
	OptionText      string               `json:"option_text"`
	StakeholderRole string               `json:"stakeholder"`
	Day             int                  `json:"day"`
	Slot            content.TimeSlot     `json:"time_slot"`
	Consequences    content.Consequences `json:"consequences"`
	At              time.Time            `json:"at"`
}

// PlayerEvent is a free-form entry in the player actions log: non-scored
// activity any mechanic wants remembered.
type PlayerEvent struct {
	Event    string            `json:"event"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Day      int               `json:"day"`
	Slot     content.TimeSlot  `json:"time_slot"`
	At       time.Time         `json:"timestamp"`
}

// SequencePhase tracks the dialogue state machine of the focused meeting.
type SequencePhase uint8

const (
	PhaseNotStarted SequencePhase = iota
	PhaseInProgress
	PhaseAwaitingConclusion
)

// Focus is the one meeting currently in front of the player. A Focus with an
// empty SequenceID is a proactive single-scenario interaction that concludes
// straight after its only node.
type Focus struct {
	SequenceID      content.SequenceID `json:"sequence_id,omitempty"`
	StakeholderRole string             `json:"stakeholder_role"`
	Nodes           []content.NodeID   `json:"nodes"`
	Index           int                `json:"index"`
	Phase           SequencePhase      `json:"phase"`
	Chosen          bool               `json:"chosen"`
	Dialogue        string             `json:"dialogue"` // Current rendered text.
	PausedClock     bool               `json:"paused_clock"`
}

// single reports whether this focus is a bare scenario with no enclosing
// sequence.
func (f *Focus) single() bool { return f.SequenceID == "" }

// last reports whether the current node is the final one.
func (f *Focus) last() bool { return f.Index == len(f.Nodes)-1 }

// State is the complete session state. It is treated as immutable: every
// operation clones it, mutates the clone, and publishes the clone wholesale,
// so a rendering layer holding an old pointer always sees a consistent
// snapshot.
type State struct {
	PlayerName string     `json:"player_name"`
	Status     GameStatus `json:"status"`
	Clock      Clock      `json:"clock"`
	Global     Global     `json:"global"`

	Stakeholders []*stakeholders.Stakeholder `json:"stakeholders"`

	// Schedule is the mutable copy of the catalog's trigger map, editable by
	// the planning mechanic.
	Schedule map[content.SequenceID]content.TriggerPoint `json:"schedule"`

	CompletedSequences map[content.SequenceID]bool `json:"completed_sequences"`
	CompletedScenarios map[content.NodeID]bool     `json:"completed_scenarios"`

	Focus    *Focus    `json:"focus,omitempty"`
	Warnings []Warning `json:"warnings"`

	// History snapshots the stakeholder list once per completed day. Entries
	// are written at rollover and never touched again.
	History map[int][]stakeholders.Stakeholder `json:"history"`

	Expected    []scoring.ExpectedAction  `json:"expected_actions"`
	Canonical   []scoring.CanonicalAction `json:"canonical_actions"`
	Comparisons []scoring.Comparison      `json:"comparisons"`
	Decisions   []Decision                `json:"explicit_decisions"`
	PlayerLog   []PlayerEvent             `json:"player_actions_log"`
}

// clone produces the next-state candidate. Stakeholders and logs are copied;
// History day slices are shared across clones, which is safe because an entry
// is written once at rollover and never rewritten.
func (st *State) clone() *State {
	out := *st

	out.Stakeholders = make([]*stakeholders.Stakeholder, len(st.Stakeholders))
	for i, s := range st.Stakeholders {
		out.Stakeholders[i] = s.Clone()
	}

	out.Schedule = make(map[content.SequenceID]content.TriggerPoint, len(st.Schedule))
	for k, v := range st.Schedule {
		out.Schedule[k] = v
	}
	out.CompletedSequences = make(map[content.SequenceID]bool, len(st.CompletedSequences))
	for k, v := range st.CompletedSequences {
		out.CompletedSequences[k] = v
	}
	out.CompletedScenarios = make(map[content.NodeID]bool, len(st.CompletedScenarios))
	for k, v := range st.CompletedScenarios {
		out.CompletedScenarios[k] = v
	}
	out.History = make(map[int][]stakeholders.Stakeholder, len(st.History))
	for k, v := range st.History {
		out.History[k] = v
	}

	out.Warnings = append([]Warning(nil), st.Warnings...)
	out.Expected = append([]scoring.ExpectedAction(nil), st.Expected...)
	out.Canonical = append([]scoring.CanonicalAction(nil), st.Canonical...)
	out.Comparisons = append([]scoring.Comparison(nil), st.Comparisons...)
	out.Decisions = append([]Decision(nil), st.Decisions...)
	out.PlayerLog = append([]PlayerEvent(nil), st.PlayerLog...)

	if st.Focus != nil {
		f := *st.Focus
		f.Nodes = append([]content.NodeID(nil), st.Focus.Nodes...)
		out.Focus = &f
	}

	return &out
}

// stakeholderByRole resolves a stakeholder and its authored ordinal by role.
func (st *State) stakeholderByRole(role string) (*stakeholders.Stakeholder, int, bool) {
	for i, s := range st.Stakeholders {
		if s.Role == role {
			return s, i, true
		}
	}
	return nil, 0, false
}

// addWarning appends an unread warning stamped with the current day.
func (st *State) addWarning(text string) {
	st.Warnings = append(st.Warnings, Warning{Day: st.Clock.Day, Text: text})
}

// Player action names, as dispatched by the external interaction layer.
const (
	ActionStartSequence    = "start_meeting_sequence"
	ActionContinueSequence = "continue_meeting_sequence"
	ActionSelectOption     = "select_option"
	ActionEndSequence      = "end_meeting_sequence"
	ActionConclude         = "conclude_meeting"
	ActionStartProactive   = "start_proactive_meeting"
	ActionAdvanceTime      = "advance_time"
	ActionPlanMeeting      = "plan_meeting"
)

// AvailableActions lists the player actions valid in this state. During a
// meeting the list narrows to exactly the transitions the dialogue state
// machine allows, so an invalid continue past the last node is never offered.
// A won session still offers its in-meeting actions until the final meeting
// closes; free play after the win offers nothing.
func (st *State) AvailableActions() []string {
	if st.Focus == nil {
		if st.Status != StatusPlaying {
			return nil
		}
		return []string{ActionStartProactive, ActionAdvanceTime, ActionPlanMeeting}
	}
	f := st.Focus
	switch f.Phase {
	case PhaseNotStarted:
		return []string{ActionStartSequence}
	case PhaseInProgress:
		if !f.Chosen {
			return []string{ActionSelectOption}
		}
		if f.single() {
			return []string{ActionConclude}
		}
		if f.last() {
			return []string{ActionEndSequence}
		}
		return []string{ActionContinueSequence}
	case PhaseAwaitingConclusion:
		return []string{ActionConclude}
	}
	return nil
}
