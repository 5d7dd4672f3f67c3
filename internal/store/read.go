package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sdkloader/internal/trace"
)

// ErrNotFound is returned when a session ID is not in the store.
var ErrNotFound = errors.New("session not found")

// ReadSession returns a session with its queue and trace.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	err := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, created_seq, pass, injected, loaded
		FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Scenario, &sess.CreatedSeq, &sess.Pass, &sess.Injected, &sess.Loaded)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("read session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Session{}, fmt.Errorf("read session %s: %w", id, err)
	}

	if sess.Queue, err = s.ReadQueue(ctx, id); err != nil {
		return Session{}, err
	}
	if sess.Trace, err = s.ReadTrace(ctx, id); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// ListSessions returns session headers (no queue or trace) ordered by
// creation. An empty scenario lists every session.
//
// Returns an empty slice (not nil) if there are none.
func (s *Store) ListSessions(ctx context.Context, scenario string) ([]Session, error) {
	query := `
		SELECT id, scenario, created_seq, pass, injected, loaded
		FROM sessions`
	var args []any
	if scenario != "" {
		query += ` WHERE scenario = ?`
		args = append(args, scenario)
	}
	query += ` ORDER BY created_seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []Session{}
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Scenario, &sess.CreatedSeq, &sess.Pass, &sess.Injected, &sess.Loaded); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadTrace returns a session's trace ordered by seq.
// Returns an empty slice (not nil) if the session has none.
func (s *Store) ReadTrace(ctx context.Context, sessionID string) ([]trace.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, method, payload
		FROM trace_events
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	events := []trace.Event{}
	for rows.Next() {
		var (
			ev      trace.Event
			kind    string
			payload string
		)
		if err := rows.Scan(&ev.Seq, &kind, &ev.Method, &payload); err != nil {
			return nil, fmt.Errorf("scan trace event: %w", err)
		}
		ev.Kind = trace.Kind(kind)
		if ev.Args, err = unmarshalPayload(payload); err != nil {
			return nil, fmt.Errorf("trace event %d: %w", ev.Seq, err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trace: %w", err)
	}
	return events, nil
}

// ReadQueue returns a session's queue entries ordered by seq.
// Returns an empty slice (not nil) if the session has none.
func (s *Store) ReadQueue(ctx context.Context, sessionID string) ([]QueueRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, method, payload
		FROM queue_entries
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query queue: %w", err)
	}
	defer rows.Close()

	records := []QueueRecord{}
	for rows.Next() {
		var (
			rec     QueueRecord
			payload string
		)
		if err := rows.Scan(&rec.Seq, &rec.Kind, &rec.Method, &payload); err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}
		if rec.Payload, err = unmarshalPayload(payload); err != nil {
			return nil, fmt.Errorf("queue entry %d: %w", rec.Seq, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue: %w", err)
	}
	return records, nil
}
