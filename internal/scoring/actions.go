// Package scoring reconciles what the authored content expected the player
// to do against what the player actually did. Expected actions are registered
// at option selection; canonical actions are emitted by every mechanic; the
// comparison pass diffs the two logs into a scorecard.
package scoring

import (
	"time"

	"github.com/google/uuid"

	"github.com/dreamypudu/prototipo-6/internal/content"
)

// ExpectedAction is one authored expectation, keyed back to the node/option
// that registered it. Append-only: re-selecting an option appends a duplicate.
type ExpectedAction struct {
	ID          string            `json:"expected_action_id"`
	NodeID      content.NodeID    `json:"source_node_id"`
	OptionID    content.OptionID  `json:"source_option_id"`
	ActionType  string            `json:"action_type"`
	TargetRef   string            `json:"target_ref"`
	Constraints map[string]string `json:"constraints,omitempty"`
	RuleID      string            `json:"rule_id,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	MechanicID  string            `json:"mechanic_id"`
}

// NewExpected materializes an authored spec into a registered expectation.
func NewExpected(nodeID content.NodeID, optionID content.OptionID, spec content.ExpectedActionSpec, mechanicID string, at time.Time) ExpectedAction {
	return ExpectedAction{
		ID:          uuid.NewString(),
		NodeID:      nodeID,
		OptionID:    optionID,
		ActionType:  spec.ActionType,
		TargetRef:   spec.TargetRef,
		Constraints: spec.Constraints,
		RuleID:      spec.RuleID,
		CreatedAt:   at,
		MechanicID:  mechanicID,
	}
}

// CanonicalAction is a timestamped record of something the player really did,
// emitted by any mechanic. Append-only log.
type CanonicalAction struct {
	ID          string            `json:"canonical_action_id"`
	MechanicID  string            `json:"mechanic_id"`
	ActionType  string            `json:"action_type"`
	TargetRef   string            `json:"target_ref"`
	ValueFinal  string            `json:"value_final,omitempty"`
	CommittedAt time.Time         `json:"committed_at"`
	Context     map[string]string `json:"context,omitempty"`
}

// NewCanonical records a performed action.
func NewCanonical(mechanicID, actionType, targetRef, valueFinal string, at time.Time, context map[string]string) CanonicalAction {
	return CanonicalAction{
		ID:          uuid.NewString(),
		MechanicID:  mechanicID,
		ActionType:  actionType,
		TargetRef:   targetRef,
		ValueFinal:  valueFinal,
		CommittedAt: at,
		Context:     context,
	}
}
