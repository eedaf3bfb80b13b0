// Package content holds the authored catalogs: stakeholder seeds, scenario
// nodes, dialogue options, and meeting sequences. Everything in this package
// is immutable session input, resolved by id lookup and never mutated.
package content

import "strings"

// TimeSlot is one period of the in-game day.
type TimeSlot uint8

const (
	SlotMorning TimeSlot = iota
	SlotAfternoon
	SlotEvening

	SlotCount = 3
)

var slotNames = [SlotCount]string{"morning", "afternoon", "evening"}

func (t TimeSlot) String() string {
	if int(t) < len(slotNames) {
		return slotNames[t]
	}
	return "unknown"
}

// ParseSlot resolves a slot name. Returns false for unknown names.
func ParseSlot(name string) (TimeSlot, bool) {
	for i, n := range slotNames {
		if n == name {
			return TimeSlot(i), true
		}
	}
	return 0, false
}

// Typed identifiers for the three catalog kinds.
type (
	NodeID     string
	OptionID   string
	SequenceID string
)

// StakeholderSeed holds a stakeholder's authored initial values.
type StakeholderSeed struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Portrait   string `json:"portrait"`
	Trust      int    `json:"trust"`
	Support    int    `json:"support"`
	MinSupport int    `json:"min_support"`
	MaxSupport int    `json:"max_support"`
}

// CommitmentSpec describes a promise an option makes on the player's behalf:
// a deliverable owed to the stakeholder some days from now.
type CommitmentSpec struct {
	Description string `json:"description"`
	DueInDays   int    `json:"due_in_days"`
}

// ExpectedActionSpec is the authored expectation attached to an option: the
// action the player is supposed to perform after choosing it. Field shapes
// follow the session-export schema (action_type, target_ref, constraints,
// rule_id).
type ExpectedActionSpec struct {
	ActionType  string            `json:"action_type"`
	TargetRef   string            `json:"target_ref"`
	Constraints map[string]string `json:"constraints,omitempty"`
	RuleID      string            `json:"rule_id,omitempty"`
}

// Consequences bundles the state deltas and follow-up dialogue attached to an
// option. Zero-valued deltas are simply not applied.
type Consequences struct {
	TrustChange           int             `json:"trust_change,omitempty"`
	SupportChange         int             `json:"support_change,omitempty"`
	BudgetChange          int             `json:"budget_change,omitempty"`
	ReputationChange      int             `json:"reputation_change,omitempty"`
	ProjectProgressChange int             `json:"project_progress_change,omitempty"`
	DialogueResponse      string          `json:"dialogue_response,omitempty"`
	Commitment            *CommitmentSpec `json:"commitment,omitempty"`
}

// Option is one selectable choice on a scenario node.
type Option struct {
	ID              OptionID             `json:"option_id"`
	Text            string               `json:"text"`
	Consequences    Consequences         `json:"consequences"`
	ExpectedActions []ExpectedActionSpec `json:"expected_actions,omitempty"`
}

// Node is one dialogue beat: template text plus its selectable options.
type Node struct {
	ID              NodeID   `json:"node_id"`
	StakeholderRole string   `json:"stakeholder_role"`
	Dialogue        string   `json:"dialogue"`
	Options         []Option `json:"options"`
}

// Option looks up an option on the node by id.
func (n Node) Option(id OptionID) (Option, bool) {
	for _, o := range n.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// ContingentRules is the threshold predicate of a contingent sequence. All
// configured thresholds must hold for the rule to fire; nil means the
// threshold is not configured. Role, when set, names a different stakeholder
// than the sequence's own.
type ContingentRules struct {
	BudgetBelow  *int   `json:"budget_below,omitempty"`
	TrustBelow   *int   `json:"trust_below,omitempty"`
	SupportBelow *int   `json:"support_below,omitempty"`
	Role         string `json:"role,omitempty"`
}

// Sequence is a scripted multi-node conversation with one stakeholder.
// Inevitable and Contingent are mutually exclusive; a sequence with neither
// flag is proactive, reachable only through direct player interaction.
type Sequence struct {
	ID              SequenceID       `json:"sequence_id"`
	StakeholderRole string           `json:"stakeholder_role"`
	Nodes           []NodeID         `json:"nodes"`
	InitialDialogue string           `json:"initial_dialogue"`
	FinalDialogue   string           `json:"final_dialogue"`
	Inevitable      bool             `json:"is_inevitable"`
	Contingent      bool             `json:"is_contingent"`
	Rules           *ContingentRules `json:"contingent_rules,omitempty"`
}

// TriggerPoint is the {day, slot} position where a scheduled sequence fires.
type TriggerPoint struct {
	Day  int      `json:"day"`
	Slot TimeSlot `json:"slot"`
}

// Reached reports whether the trigger point is at or before the given clock
// position.
func (tp TriggerPoint) Reached(day int, slot TimeSlot) bool {
	return tp.Day < day || (tp.Day == day && tp.Slot <= slot)
}

// RenderDialogue substitutes the player-name placeholder in authored text.
func RenderDialogue(template, playerName string) string {
	return strings.ReplaceAll(template, "{playerName}", playerName)
}
