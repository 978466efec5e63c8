package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// Role values for Session.Role
const (
	RoleHost   = "host"
	RoleClient = "client"
)

// Session is one finished host or client connection
type Session struct {
	ID           int64
	Role         string
	Peer         string
	Transport    string
	StartedAt    time.Time
	EndedAt      time.Time
	Frames       int64
	Bytes        int64
	Outcome      string
	ErrorMessage string
}

// Duration is the wall time the session was connected
func (s Session) Duration() time.Duration {
	return s.EndedAt.Sub(s.StartedAt)
}

// SaveSession records s and sets its ID
func (db *DB) SaveSession(s *Session) error {
	query := `
		INSERT INTO sessions (
			role, peer, transport, started_at, ended_at,
			frames, bytes, outcome, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorMessage sql.NullString
	if s.ErrorMessage != "" {
		errorMessage = sql.NullString{String: s.ErrorMessage, Valid: true}
	}

	result, err := db.conn.Exec(query,
		s.Role, s.Peer, s.Transport, s.StartedAt.UTC(), s.EndedAt.UTC(),
		s.Frames, s.Bytes, s.Outcome, errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %w", err)
	}

	s.ID = id
	return nil
}

// RecentSessions returns up to limit sessions, newest first
func (db *DB) RecentSessions(limit int) ([]Session, error) {
	query := `
		SELECT
			id, role, peer, transport, started_at, ended_at,
			frames, bytes, outcome, error_message
		FROM sessions
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`

	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var errorMessage sql.NullString

		err := rows.Scan(
			&s.ID, &s.Role, &s.Peer, &s.Transport, &s.StartedAt, &s.EndedAt,
			&s.Frames, &s.Bytes, &s.Outcome, &errorMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		if errorMessage.Valid {
			s.ErrorMessage = errorMessage.String
		}

		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// CountSessions returns the number of recorded sessions
func (db *DB) CountSessions() (int64, error) {
	var n int64
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
