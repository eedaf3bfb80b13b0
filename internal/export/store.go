// Package export persists finished sessions to SQLite for the scoring
// consumer. The table shapes follow the assessment backend's ingest schema:
// sessions, explicit_decisions, expected_actions, canonical_actions,
// comparisons, player_actions_log, session_state.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/dreamypudu/prototipo-6/internal/engine"
)

// Store wraps a SQLite connection for session export.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		player_name TEXT,
		status TEXT NOT NULL,
		final_day INTEGER NOT NULL,
		start_time TEXT,
		end_time TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS explicit_decisions (
		decision_id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		node_id TEXT,
		option_id TEXT,
		option_text TEXT,
		stakeholder TEXT,
		day INTEGER,
		time_slot TEXT,
		consequences TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS expected_actions (
		expected_action_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		source_node_id TEXT,
		source_option_id TEXT,
		action_type TEXT,
		target_ref TEXT,
		constraints TEXT,
		rule_id TEXT,
		created_at INTEGER,
		mechanic_id TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS canonical_actions (
		canonical_action_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		mechanic_id TEXT,
		action_type TEXT,
		target_ref TEXT,
		value_final TEXT,
		committed_at INTEGER,
		context TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS comparisons (
		comparison_id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		expected_action_id TEXT,
		canonical_action_id TEXT,
		outcome TEXT,
		deviation TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS player_actions_log (
		player_action_id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		event TEXT,
		metadata TEXT,
		day INTEGER,
		time_slot TEXT,
		timestamp INTEGER,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS session_state (
		session_id TEXT PRIMARY KEY,
		stakeholders TEXT,
		global_state TEXT,
		warnings TEXT,
		FOREIGN KEY (session_id) REFERENCES sessions(session_id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_decisions_session ON explicit_decisions(session_id);
	CREATE INDEX IF NOT EXISTS idx_expected_session ON expected_actions(session_id);
	CREATE INDEX IF NOT EXISTS idx_canonical_session ON canonical_actions(session_id);
	CREATE INDEX IF NOT EXISTS idx_comparisons_session ON comparisons(session_id);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// SaveReport writes a finished session in one transaction.
func (st *Store) SaveReport(r *engine.Report) error {
	final := r.Final

	tx, err := st.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT OR REPLACE INTO sessions
		(session_id, player_name, status, final_day, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.PlayerName, final.Status.String(), final.Clock.Day,
		r.StartedAt.UTC().Format(time.RFC3339), r.EndedAt.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	for _, d := range final.Decisions {
		consJSON, _ := json.Marshal(d.Consequences)
		_, err := tx.Exec(`INSERT INTO explicit_decisions
			(session_id, node_id, option_id, option_text, stakeholder, day, time_slot, consequences)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.SessionID, d.NodeID, d.OptionID, d.OptionText, d.StakeholderRole,
			d.Day, d.Slot.String(), string(consJSON),
		)
		if err != nil {
			return fmt.Errorf("insert decision %s/%s: %w", d.NodeID, d.OptionID, err)
		}
	}

	expStmt, err := tx.Preparex(`INSERT INTO expected_actions
		(expected_action_id, session_id, source_node_id, source_option_id,
		 action_type, target_ref, constraints, rule_id, created_at, mechanic_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer expStmt.Close()
	for _, e := range final.Expected {
		constraintsJSON, _ := json.Marshal(e.Constraints)
		_, err := expStmt.Exec(e.ID, r.SessionID, e.NodeID, e.OptionID,
			e.ActionType, e.TargetRef, string(constraintsJSON), e.RuleID,
			e.CreatedAt.UnixMilli(), e.MechanicID)
		if err != nil {
			return fmt.Errorf("insert expected action %s: %w", e.ID, err)
		}
	}

	canStmt, err := tx.Preparex(`INSERT INTO canonical_actions
		(canonical_action_id, session_id, mechanic_id, action_type, target_ref,
		 value_final, committed_at, context)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer canStmt.Close()
	for _, c := range final.Canonical {
		contextJSON, _ := json.Marshal(c.Context)
		_, err := canStmt.Exec(c.ID, r.SessionID, c.MechanicID, c.ActionType,
			c.TargetRef, c.ValueFinal, c.CommittedAt.UnixMilli(), string(contextJSON))
		if err != nil {
			return fmt.Errorf("insert canonical action %s: %w", c.ID, err)
		}
	}

	for _, cmp := range final.Comparisons {
		devJSON, _ := json.Marshal(cmp.Deviation)
		_, err := tx.Exec(`INSERT INTO comparisons
			(session_id, expected_action_id, canonical_action_id, outcome, deviation)
			VALUES (?, ?, ?, ?, ?)`,
			r.SessionID, cmp.ExpectedActionID, cmp.CanonicalActionID,
			string(cmp.Outcome), string(devJSON),
		)
		if err != nil {
			return fmt.Errorf("insert comparison for %s: %w", cmp.ExpectedActionID, err)
		}
	}

	for _, p := range final.PlayerLog {
		metaJSON, _ := json.Marshal(p.Metadata)
		_, err := tx.Exec(`INSERT INTO player_actions_log
			(session_id, event, metadata, day, time_slot, timestamp)
			VALUES (?, ?, ?, ?, ?, ?)`,
			r.SessionID, p.Event, string(metaJSON), p.Day, p.Slot.String(), p.At.UnixMilli(),
		)
		if err != nil {
			return fmt.Errorf("insert player event %q: %w", p.Event, err)
		}
	}

	stakeholdersJSON, _ := json.Marshal(final.Stakeholders)
	globalJSON, _ := json.Marshal(final.Global)
	warningsJSON, _ := json.Marshal(final.Warnings)
	_, err = tx.Exec(`INSERT OR REPLACE INTO session_state
		(session_id, stakeholders, global_state, warnings) VALUES (?, ?, ?, ?)`,
		r.SessionID, string(stakeholdersJSON), string(globalJSON), string(warningsJSON),
	)
	if err != nil {
		return fmt.Errorf("insert session state: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	slog.Info("session exported",
		"session", r.SessionID,
		"decisions", len(final.Decisions),
		"expected", len(final.Expected),
		"canonical", len(final.Canonical),
		"comparisons", len(final.Comparisons),
	)
	return nil
}
