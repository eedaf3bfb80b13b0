// Package api serves the session over HTTP for an external rendering layer.
// GET endpoints are read-only snapshot observation; the POST action endpoint
// is the dispatch interface every player interaction comes through.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dreamypudu/prototipo-6/internal/content"
	"github.com/dreamypudu/prototipo-6/internal/engine"
)

// Server exposes one session.
type Server struct {
	Session *engine.Session
	Port    int
	// AdminKey guards the reset endpoint. Empty disables it.
	AdminKey string
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	actionLimiter := NewRateLimiter(120, time.Minute)

	mux := http.NewServeMux()

	// Read-only snapshot endpoints.
	mux.HandleFunc("/api/v1/state", s.handleState)
	mux.HandleFunc("/api/v1/stakeholders", s.handleStakeholders)
	mux.HandleFunc("/api/v1/warnings", s.handleWarnings)
	mux.HandleFunc("/api/v1/scorecard", s.handleScorecard)
	mux.HandleFunc("/api/v1/history", s.handleHistory)
	mux.HandleFunc("/api/v1/schedule", s.handleSchedule)

	// Player action dispatch.
	mux.HandleFunc("/api/v1/action", RateLimitMiddleware(actionLimiter, s.handleAction))

	// Admin.
	mux.HandleFunc("/api/v1/reset", s.adminOnly(s.handleReset))

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "")

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins. Set
// CORS_ORIGINS to a comma-separated list; localhost dev servers are always
// allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled", http.StatusForbidden)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != s.AdminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.Session.Snapshot()
	writeJSON(w, map[string]any{
		"session_id":        s.Session.ID(),
		"status":            st.Status.String(),
		"clock":             st.Clock,
		"global":            st.Global,
		"focus":             st.Focus,
		"available_actions": st.AvailableActions(),
	})
}

func (s *Server) handleStakeholders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.Snapshot().Stakeholders)
}

func (s *Server) handleWarnings(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		writeJSON(w, s.Session.ReadWarnings())
		return
	}
	writeJSON(w, s.Session.Snapshot().Warnings)
}

func (s *Server) handleScorecard(w http.ResponseWriter, r *http.Request) {
	st := s.Session.Snapshot()
	writeJSON(w, map[string]any{
		"expected_actions":  st.Expected,
		"canonical_actions": st.Canonical,
		"comparisons":       st.Comparisons,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.Snapshot().History)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Session.Snapshot().Schedule)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.Session.Reset()
	writeJSON(w, map[string]string{"status": "reset"})
}

// actionRequest is the dispatch envelope the rendering layer posts.
type actionRequest struct {
	Type     string `json:"type"`
	Role     string `json:"role,omitempty"`
	NodeID   string `json:"node_id,omitempty"`
	OptionID string `json:"option_id,omitempty"`

	// Planning fields.
	SequenceID string `json:"sequence_id,omitempty"`
	Day        int    `json:"day,omitempty"`
	Slot       string `json:"slot,omitempty"`

	// Canonical action sink fields.
	MechanicID string            `json:"mechanic_id,omitempty"`
	ActionType string            `json:"action_type,omitempty"`
	TargetRef  string            `json:"target_ref,omitempty"`
	ValueFinal string            `json:"value_final,omitempty"`
	Context    map[string]string `json:"context,omitempty"`

	// Commitment fulfilment.
	Description string `json:"description,omitempty"`

	// Player log fields.
	Event    string            `json:"event,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid action payload", http.StatusBadRequest)
		return
	}

	var err error
	switch req.Type {
	case engine.ActionStartProactive:
		err = s.Session.StartProactiveMeeting(req.Role)
	case engine.ActionStartSequence:
		err = s.Session.StartMeeting()
	case engine.ActionSelectOption:
		err = s.Session.SelectOption(content.OptionID(req.OptionID))
	case engine.ActionContinueSequence:
		err = s.Session.ContinueMeeting()
	case engine.ActionEndSequence:
		err = s.Session.EndMeeting()
	case engine.ActionConclude:
		err = s.Session.ConcludeMeeting()
	case engine.ActionAdvanceTime:
		err = s.Session.AdvanceTime()
	case "start_scenario":
		err = s.Session.StartScenario(content.NodeID(req.NodeID))
	case engine.ActionPlanMeeting:
		slot, ok := content.ParseSlot(req.Slot)
		if !ok {
			http.Error(w, "unknown time slot", http.StatusBadRequest)
			return
		}
		err = s.Session.PlanMeeting(content.SequenceID(req.SequenceID), req.Day, slot)
	case "record_canonical_action":
		s.Session.RecordCanonicalAction(req.MechanicID, req.ActionType, req.TargetRef, req.ValueFinal, req.Context)
	case "fulfill_commitment":
		err = s.Session.FulfillCommitment(req.Role, req.Description, req.TargetRef)
	case "record_player_event":
		s.Session.RecordPlayerEvent(req.Event, req.Metadata)
	default:
		http.Error(w, "unknown action type", http.StatusBadRequest)
		return
	}

	if err != nil {
		// Transition rejections are part of normal play; surface them as a
		// structured notice, not a server failure.
		status := http.StatusConflict
		if errors.Is(err, engine.ErrUnknownOption) {
			status = http.StatusBadRequest
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error":             err.Error(),
			"available_actions": s.Session.Snapshot().AvailableActions(),
		})
		return
	}

	st := s.Session.Snapshot()
	writeJSON(w, map[string]any{
		"status":            st.Status.String(),
		"clock":             st.Clock,
		"global":            st.Global,
		"focus":             st.Focus,
		"available_actions": st.AvailableActions(),
	})
}
