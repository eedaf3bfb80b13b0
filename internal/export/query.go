package export

// Read side used by the sessionreport CLI.

// SessionRow is one exported session.
type SessionRow struct {
	SessionID  string `db:"session_id"`
	PlayerName string `db:"player_name"`
	Status     string `db:"status"`
	FinalDay   int    `db:"final_day"`
	StartTime  string `db:"start_time"`
	EndTime    string `db:"end_time"`
	CreatedAt  string `db:"created_at"`
}

// ComparisonRow is one scorecard line joined back to its expectation.
type ComparisonRow struct {
	ExpectedActionID  string `db:"expected_action_id"`
	CanonicalActionID string `db:"canonical_action_id"`
	Outcome           string `db:"outcome"`
	Deviation         string `db:"deviation"`
	ActionType        string `db:"action_type"`
	TargetRef         string `db:"target_ref"`
	SourceNodeID      string `db:"source_node_id"`
	SourceOptionID    string `db:"source_option_id"`
}

// DecisionRow is one explicit dialogue decision.
type DecisionRow struct {
	NodeID      string `db:"node_id"`
	OptionID    string `db:"option_id"`
	OptionText  string `db:"option_text"`
	Stakeholder string `db:"stakeholder"`
	Day         int    `db:"day"`
	TimeSlot    string `db:"time_slot"`
}

// ListSessions returns exported sessions, newest first.
func (st *Store) ListSessions(limit int) ([]SessionRow, error) {
	var rows []SessionRow
	err := st.conn.Select(&rows,
		`SELECT session_id, player_name, status, final_day, start_time, end_time, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	return rows, err
}

// Session returns one exported session by id.
func (st *Store) Session(sessionID string) (SessionRow, error) {
	var row SessionRow
	err := st.conn.Get(&row,
		`SELECT session_id, player_name, status, final_day, start_time, end_time, created_at
		 FROM sessions WHERE session_id = ?`, sessionID)
	return row, err
}

// Comparisons returns the scorecard for a session.
func (st *Store) Comparisons(sessionID string) ([]ComparisonRow, error) {
	var rows []ComparisonRow
	err := st.conn.Select(&rows,
		`SELECT c.expected_action_id,
		        COALESCE(c.canonical_action_id, '') AS canonical_action_id,
		        c.outcome,
		        COALESCE(c.deviation, '') AS deviation,
		        COALESCE(e.action_type, '') AS action_type,
		        COALESCE(e.target_ref, '') AS target_ref,
		        COALESCE(e.source_node_id, '') AS source_node_id,
		        COALESCE(e.source_option_id, '') AS source_option_id
		 FROM comparisons c
		 LEFT JOIN expected_actions e ON e.expected_action_id = c.expected_action_id
		 WHERE c.session_id = ?
		 ORDER BY c.comparison_id`, sessionID)
	return rows, err
}

// Decisions returns the explicit decision log for a session in order.
func (st *Store) Decisions(sessionID string) ([]DecisionRow, error) {
	var rows []DecisionRow
	err := st.conn.Select(&rows,
		`SELECT COALESCE(node_id, '') AS node_id,
		        COALESCE(option_id, '') AS option_id,
		        COALESCE(option_text, '') AS option_text,
		        COALESCE(stakeholder, '') AS stakeholder,
		        day, time_slot
		 FROM explicit_decisions WHERE session_id = ? ORDER BY decision_id`, sessionID)
	return rows, err
}
