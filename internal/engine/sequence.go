package engine

import (
	"errors"
	"log/slog"

	"github.com/dreamypudu/prototipo-6/internal/content"
	"github.com/dreamypudu/prototipo-6/internal/stakeholders"
)

// Dialogue state machine errors. All of them fail closed: the published
// state is unchanged when one is returned.
var (
	ErrMeetingActive   = errors.New("a meeting is already in focus")
	ErrNoMeeting       = errors.New("no meeting in focus")
	ErrMeetingBlocked  = errors.New("a scheduled meeting is pending and blocks proactive play")
	ErrMeetingCanceled = errors.New("the stakeholder canceled the meeting")
	ErrNotStarted      = errors.New("the meeting has not been started")
	ErrChoiceRequired  = errors.New("an option must be selected first")
	ErrAlreadyChosen   = errors.New("an option was already selected on this node")
	ErrNoNextNode      = errors.New("no next node in the sequence")
	ErrNotLastNode     = errors.New("the sequence has nodes remaining")
	ErrNotConcludable  = errors.New("the meeting is not awaiting conclusion")
	ErrUnknownOption   = errors.New("unknown option for the current node")
	ErrSessionOver     = errors.New("the session is not in a playing state")
	ErrPastTrigger     = errors.New("the trigger point is already past")
)

// beginSequence puts a sequence in focus in its not-started phase, showing
// the initial dialogue. The caller decides whether the clock pauses.
func (s *Session) beginSequence(st *State, seq content.Sequence, pausedClock bool) {
	st.Focus = &Focus{
		SequenceID:      seq.ID,
		StakeholderRole: seq.StakeholderRole,
		Nodes:           append([]content.NodeID(nil), seq.Nodes...),
		Phase:           PhaseNotStarted,
		Dialogue:        content.RenderDialogue(seq.InitialDialogue, st.PlayerName),
		PausedClock:     pausedClock,
	}
}

// startMeeting transitions the focused sequence to its first node.
func (s *Session) startMeeting(st *State) error {
	f := st.Focus
	if f == nil {
		return ErrNoMeeting
	}
	if f.Phase != PhaseNotStarted {
		return ErrAlreadyChosen
	}
	f.Phase = PhaseInProgress
	f.Index = 0
	f.Chosen = false
	s.presentNode(st)
	return nil
}

// presentNode renders the current node's dialogue into the focus. A missing
// node is a content defect: logged, dialogue left empty, no crash.
func (s *Session) presentNode(st *State) {
	f := st.Focus
	node, ok := s.catalog.Node(f.Nodes[f.Index])
	if !ok {
		slog.Warn("content defect: sequence references missing node",
			"sequence", f.SequenceID, "node", f.Nodes[f.Index])
		f.Dialogue = ""
		return
	}
	f.Dialogue = content.RenderDialogue(node.Dialogue, st.PlayerName)
}

// selectOption applies the chosen option on the currently presented node:
// consequences, decision log, expectation registration, and the follow-up
// dialogue, all on the same clone so the caller observes a single atomic
// step.
func (s *Session) selectOption(st *State, optionID content.OptionID) error {
	f := st.Focus
	if f == nil {
		return ErrNoMeeting
	}
	if f.Phase != PhaseInProgress {
		return ErrNotStarted
	}
	if f.Chosen {
		return ErrAlreadyChosen
	}

	node, ok := s.catalog.Node(f.Nodes[f.Index])
	if !ok {
		// Content defect already logged at presentation; nothing to apply.
		slog.Warn("content defect: option selected on missing node",
			"sequence", f.SequenceID, "node", f.Nodes[f.Index])
		return nil
	}
	opt, ok := node.Option(optionID)
	if !ok {
		return ErrUnknownOption
	}

	s.applyOption(st, node, opt)
	f.Chosen = true
	f.Dialogue = content.RenderDialogue(opt.Consequences.DialogueResponse, st.PlayerName)
	return nil
}

// continueMeeting advances to the next node. Only offered when a next node
// exists; a call past the last node fails closed.
func (s *Session) continueMeeting(st *State) error {
	f := st.Focus
	if f == nil {
		return ErrNoMeeting
	}
	if f.Phase != PhaseInProgress {
		return ErrNotStarted
	}
	if !f.Chosen {
		return ErrChoiceRequired
	}
	if f.single() || f.last() {
		return ErrNoNextNode
	}
	f.Index++
	f.Chosen = false
	s.presentNode(st)
	return nil
}

// endMeeting moves a fully traversed sequence into its conclusion phase,
// showing the final dialogue.
func (s *Session) endMeeting(st *State) error {
	f := st.Focus
	if f == nil {
		return ErrNoMeeting
	}
	if f.Phase != PhaseInProgress {
		return ErrNotStarted
	}
	if !f.Chosen {
		return ErrChoiceRequired
	}
	if !f.last() {
		return ErrNotLastNode
	}
	if f.single() {
		// Single scenarios conclude directly, there is no final dialogue.
		return ErrNotConcludable
	}

	seq, ok := s.catalog.Sequence(f.SequenceID)
	final := ""
	if ok {
		final = seq.FinalDialogue
	}
	f.Phase = PhaseAwaitingConclusion
	f.Dialogue = content.RenderDialogue(final, st.PlayerName)
	return nil
}

// concludeMeeting closes the focused meeting: progress sets, last-met
// bookkeeping, one clock period consumed through the same advancement path
// as the countdown, and focus released back to free play or the scheduler.
func (s *Session) concludeMeeting(st *State) error {
	f := st.Focus
	if f == nil {
		return ErrNoMeeting
	}

	concludable := f.Phase == PhaseAwaitingConclusion ||
		(f.Phase == PhaseInProgress && f.single() && f.Chosen)
	if !concludable {
		return ErrNotConcludable
	}

	if f.SequenceID != "" {
		st.CompletedSequences[f.SequenceID] = true
	}

	if sh, _, ok := st.stakeholderByRole(f.StakeholderRole); ok {
		if sh.Role != stakeholders.RoleSecretary {
			sh.LastMetDay = st.Clock.Day
		}
	} else {
		slog.Warn("content defect: meeting concluded with missing stakeholder",
			"sequence", f.SequenceID, "role", f.StakeholderRole)
	}

	wasPaused := f.PausedClock
	st.Focus = nil
	if wasPaused {
		st.Clock.Paused = false
	}

	if advanceClock(st, s.rules) {
		slog.Info("a new day has begun", "day", st.Clock.Day)
	}
	s.checkTriggers(st)
	return nil
}

// startProactive begins a player-initiated meeting with a stakeholder. The
// same blocking check the scheduler uses gates it: a pending inevitable or
// satisfied contingent sequence wins, and the attempt surfaces the blocking
// notice instead of silently failing. The stakeholder's mood may cancel the
// meeting outright — deterministically, from the session seed.
func (s *Session) startProactive(st *State, role string) error {
	if st.Focus != nil {
		return ErrMeetingActive
	}
	if st.Status != StatusPlaying {
		return ErrSessionOver
	}

	if blocking, ok := s.pendingTrigger(st); ok {
		st.addWarning("A scheduled meeting demands your attention before anything else.")
		slog.Info("proactive meeting blocked by scheduled sequence",
			"role", role, "blocking", blocking.ID)
		return ErrMeetingBlocked
	}

	sh, ordinal, ok := st.stakeholderByRole(role)
	if !ok {
		slog.Warn("content defect: proactive meeting with unknown stakeholder role", "role", role)
		return ErrNoMeeting
	}

	if s.mood.Cancels(st.Clock.Day, ordinal) {
		st.PlayerLog = append(st.PlayerLog, PlayerEvent{
			Event:    "meeting_canceled",
			Metadata: map[string]string{"role": role},
			Day:      st.Clock.Day,
			Slot:     st.Clock.Slot,
			At:       s.now(),
		})
		slog.Info("stakeholder canceled the meeting", "role", role, "name", sh.Name, "day", st.Clock.Day)
		return ErrMeetingCanceled
	}

	seq, ok := s.catalog.ProactiveSequenceFor(role, st.CompletedSequences)
	if !ok {
		slog.Warn("no proactive sequence available for stakeholder", "role", role)
		return ErrNoMeeting
	}

	// Proactive meetings do not force a pause; the clock keeps running.
	s.beginSequence(st, seq, false)
	return nil
}

// startScenario begins a proactive single-scenario interaction: one node, no
// enclosing sequence, concluding directly after its option is selected. The
// same blocking and re-trigger gates apply as for proactive sequences.
func (s *Session) startScenario(st *State, nodeID content.NodeID) error {
	if st.Focus != nil {
		return ErrMeetingActive
	}
	if st.Status != StatusPlaying {
		return ErrSessionOver
	}
	if blocking, ok := s.pendingTrigger(st); ok {
		st.addWarning("A scheduled meeting demands your attention before anything else.")
		slog.Info("scenario blocked by scheduled sequence", "node", nodeID, "blocking", blocking.ID)
		return ErrMeetingBlocked
	}
	if st.CompletedScenarios[nodeID] {
		return ErrNoMeeting
	}

	node, ok := s.catalog.Node(nodeID)
	if !ok {
		slog.Warn("content defect: unknown scenario node", "node", nodeID)
		return ErrNoMeeting
	}

	st.Focus = &Focus{
		StakeholderRole: node.StakeholderRole,
		Nodes:           []content.NodeID{node.ID},
		Phase:           PhaseInProgress,
		Dialogue:        content.RenderDialogue(node.Dialogue, st.PlayerName),
	}
	return nil
}
