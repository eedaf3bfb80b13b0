// Package engine is the simulation core: a deterministic game clock, the
// event scheduler that arbitrates which scripted sequence preempts free
// play, the dialogue sequence state machine, and the session container that
// publishes copy-on-write state snapshots.
package engine

import (
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dreamypudu/prototipo-6/internal/content"
	"github.com/dreamypudu/prototipo-6/internal/mood"
	"github.com/dreamypudu/prototipo-6/internal/scoring"
	"github.com/dreamypudu/prototipo-6/internal/stakeholders"
)

// Session owns one simulation run. Writers serialize on the mutex; readers
// take the current state pointer without locking and always see a fully
// consistent snapshot, because every mutation replaces the state wholesale.
type Session struct {
	id      string
	catalog *content.Catalog
	rules   Rules
	mood    *mood.Field
	now     func() time.Time

	startedAt time.Time

	mu    sync.Mutex
	state atomic.Pointer[State]
}

// NewSession wires a session over an authored catalog. The clock starts
// paused until Start seeds the player.
func NewSession(cat *content.Catalog, rules Rules) *Session {
	s := &Session{
		id:      uuid.NewString(),
		catalog: cat,
		rules:   rules,
		mood:    mood.NewField(rules.Seed, rules.MoodCancelThreshold),
		now:     time.Now,
	}
	s.state.Store(s.initialState(""))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Rules returns the active ruleset.
func (s *Session) Rules() Rules { return s.rules }

// Snapshot returns the current state. The pointer is immutable; callers may
// read it for as long as they like.
func (s *Session) Snapshot() *State { return s.state.Load() }

func (s *Session) initialState(playerName string) *State {
	st := &State{
		PlayerName: playerName,
		Status:     StatusPlaying,
		Clock: Clock{
			Day:              1,
			Slot:             content.SlotMorning,
			CountdownSeconds: s.rules.PeriodSeconds,
			Paused:           playerName == "",
		},
		Global: Global{
			Budget:     s.rules.StartBudget,
			Reputation: s.rules.StartReputation,
		},
		Schedule:           s.catalog.Schedule(),
		CompletedSequences: make(map[content.SequenceID]bool),
		CompletedScenarios: make(map[content.NodeID]bool),
		History:            make(map[int][]stakeholders.Stakeholder),
	}
	for _, seed := range s.catalog.Stakeholders() {
		st.Stakeholders = append(st.Stakeholders, stakeholders.FromSeed(seed))
	}
	return st
}

// Start seeds the clock and progress sets for a named player and immediately
// checks the day-1 schedule, so an inevitable sequence at {day 1, morning}
// preempts free play before the first tick.
func (s *Session) Start(playerName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.initialState(playerName)
	s.startedAt = s.now()
	s.checkTriggers(st)
	s.state.Store(st)
	slog.Info("session started", "session", s.id, "player", playerName, "strict", s.rules.Strict)
}

// Reset tears the session down to authored initial values, keeping the
// session id.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Store(s.initialState(""))
	slog.Info("session reset", "session", s.id)
}

// mutate runs op on a clone of the current state and publishes the clone
// only if op succeeds, so failed operations leave no observable change.
func (s *Session) mutate(op func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.Load().clone()
	if err := op(st); err != nil {
		return err
	}
	s.state.Store(st)
	return nil
}

// Tick is the one autonomous driver: it decrements the countdown and, on
// exhaustion, advances the clock through the same path manual advancement
// uses, then lets the scheduler claim the new position. Ticks while paused or
// after the session is won are dropped; during a non-pausing proactive
// meeting the countdown keeps running. A missed decrement is acceptable, a
// double advance is not — the writer mutex guarantees the latter.
func (s *Session) Tick() {
	_ = s.mutate(func(st *State) error {
		if st.Clock.Paused || st.Status != StatusPlaying {
			return nil
		}
		st.Clock.CountdownSeconds--
		if st.Clock.CountdownSeconds > 0 {
			s.checkTriggers(st)
			return nil
		}
		if advanceClock(st, s.rules) {
			slog.Info("a new day has begun", "day", st.Clock.Day)
		}
		s.checkTriggers(st)
		return nil
	})
}

// AdvanceTime skips the remaining countdown, advancing exactly one slot.
func (s *Session) AdvanceTime() error {
	return s.mutate(func(st *State) error {
		if st.Focus != nil {
			return ErrMeetingActive
		}
		if st.Status != StatusPlaying {
			return ErrSessionOver
		}
		if advanceClock(st, s.rules) {
			slog.Info("a new day has begun", "day", st.Clock.Day)
		}
		s.checkTriggers(st)
		return nil
	})
}

// StartProactiveMeeting begins a player-initiated meeting with the given
// stakeholder role. A blocked or canceled attempt still publishes state: the
// blocking notice and the cancellation log entry must survive the failure.
func (s *Session) StartProactiveMeeting(role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.Load().clone()
	err := s.startProactive(st, role)
	if err == nil || errors.Is(err, ErrMeetingBlocked) || errors.Is(err, ErrMeetingCanceled) {
		s.state.Store(st)
	}
	return err
}

// StartScenario begins a proactive single-scenario interaction with one node
// and no enclosing sequence.
func (s *Session) StartScenario(nodeID content.NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state.Load().clone()
	err := s.startScenario(st, nodeID)
	if err == nil || errors.Is(err, ErrMeetingBlocked) {
		s.state.Store(st)
	}
	return err
}

// StartMeeting, ContinueMeeting, SelectOption, EndMeeting and ConcludeMeeting
// drive the focused dialogue sequence; see the state machine in sequence.go.
func (s *Session) StartMeeting() error {
	return s.mutate(func(st *State) error { return s.startMeeting(st) })
}

func (s *Session) ContinueMeeting() error {
	return s.mutate(func(st *State) error { return s.continueMeeting(st) })
}

func (s *Session) SelectOption(optionID content.OptionID) error {
	return s.mutate(func(st *State) error { return s.selectOption(st, optionID) })
}

func (s *Session) EndMeeting() error {
	return s.mutate(func(st *State) error { return s.endMeeting(st) })
}

func (s *Session) ConcludeMeeting() error {
	return s.mutate(func(st *State) error { return s.concludeMeeting(st) })
}

// PlanMeeting moves a sequence's trigger point to a position at or after the
// current clock — the planning mechanic. The confirmed schedule is a scorable
// action, so it lands in the canonical log.
func (s *Session) PlanMeeting(seqID content.SequenceID, day int, slot content.TimeSlot) error {
	return s.mutate(func(st *State) error {
		if _, ok := s.catalog.Sequence(seqID); !ok {
			slog.Warn("content defect: planning unknown sequence", "sequence", seqID)
			return nil
		}
		if st.CompletedSequences[seqID] {
			return nil
		}
		if day < st.Clock.Day || (day == st.Clock.Day && slot < st.Clock.Slot) {
			return ErrPastTrigger
		}
		st.Schedule[seqID] = content.TriggerPoint{Day: day, Slot: slot}
		st.Canonical = append(st.Canonical, scoring.NewCanonical(
			"planner", "confirm_schedule", string(seqID), "", s.now(),
			map[string]string{"day": strconv.Itoa(day), "slot": slot.String()},
		))
		return nil
	})
}

// RecordCanonicalAction is the action log sink: any mechanic calls it when
// the player performs a real, scorable action.
func (s *Session) RecordCanonicalAction(mechanicID, actionType, targetRef, valueFinal string, context map[string]string) {
	_ = s.mutate(func(st *State) error {
		st.Canonical = append(st.Canonical,
			scoring.NewCanonical(mechanicID, actionType, targetRef, valueFinal, s.now(), context))
		return nil
	})
}

// RecordPlayerEvent appends a non-scored entry to the player actions log.
func (s *Session) RecordPlayerEvent(event string, metadata map[string]string) {
	_ = s.mutate(func(st *State) error {
		st.PlayerLog = append(st.PlayerLog, PlayerEvent{
			Event:    event,
			Metadata: metadata,
			Day:      st.Clock.Day,
			Slot:     st.Clock.Slot,
			At:       s.now(),
		})
		return nil
	})
}

// FulfillCommitment marks a pending promise to a stakeholder as delivered
// and records the delivery as a canonical action.
func (s *Session) FulfillCommitment(role, description, targetRef string) error {
	return s.mutate(func(st *State) error {
		sh, _, ok := st.stakeholderByRole(role)
		if !ok {
			slog.Warn("content defect: fulfilling commitment for unknown role", "role", role)
			return nil
		}
		if !sh.Fulfill(description) {
			slog.Warn("no pending commitment matches", "role", role, "description", description)
			return nil
		}
		st.Canonical = append(st.Canonical, scoring.NewCanonical(
			"desk", "deliver_document", targetRef, description, s.now(), nil))
		return nil
	})
}

// CompareNow runs an incremental comparison pass, appending only comparisons
// for expected entries not yet covered.
func (s *Session) CompareNow() []scoring.Comparison {
	var batch []scoring.Comparison
	_ = s.mutate(func(st *State) error {
		batch = scoring.Compare(st.Expected, st.Canonical, st.Comparisons, scoring.Options{})
		st.Comparisons = append(st.Comparisons, batch...)
		return nil
	})
	return batch
}

// ReadWarnings marks every warning read and returns the snapshot.
func (s *Session) ReadWarnings() []Warning {
	var out []Warning
	_ = s.mutate(func(st *State) error {
		for i := range st.Warnings {
			st.Warnings[i].Read = true
		}
		out = append([]Warning(nil), st.Warnings...)
		return nil
	})
	return out
}

// Report is the end-of-session bundle handed to the scoring consumer.
type Report struct {
	SessionID  string
	PlayerName string
	StartedAt  time.Time
	EndedAt    time.Time
	Final      *State
}

// Finish closes the session: the one comparison pass with not-done entries
// included runs here, then the final state is frozen into the report.
func (s *Session) Finish() *Report {
	var final *State
	_ = s.mutate(func(st *State) error {
		batch := scoring.Compare(st.Expected, st.Canonical, st.Comparisons,
			scoring.Options{IncludeNotDone: true})
		st.Comparisons = append(st.Comparisons, batch...)
		st.Clock.Paused = true
		final = st
		return nil
	})

	slog.Info("session finished",
		"session", s.id,
		"status", final.Status.String(),
		"day", final.Clock.Day,
		"decisions", len(final.Decisions),
		"comparisons", len(final.Comparisons),
	)

	return &Report{
		SessionID:  s.id,
		PlayerName: final.PlayerName,
		StartedAt:  s.startedAt,
		EndedAt:    s.now(),
		Final:      final,
	}
}
