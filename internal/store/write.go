package store

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteSession inserts a session with its queue and trace in one
// transaction. Uses ON CONFLICT DO NOTHING for idempotency: writing a
// session ID twice leaves the first write in place.
//
// The session's CreatedSeq is assigned here, one past the highest stored.
func (s *Store) WriteSession(ctx context.Context, sess *Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write session: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO sessions (id, scenario, created_seq, pass, injected, loaded)
		VALUES (?, ?, (SELECT COALESCE(MAX(created_seq), 0) + 1 FROM sessions), ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, sess.Scenario, sess.Pass, sess.Injected, sess.Loaded)
	if err != nil {
		return fmt.Errorf("write session: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		// Already recorded.
		return nil
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT created_seq FROM sessions WHERE id = ?`, sess.ID,
	).Scan(&sess.CreatedSeq); err != nil {
		return fmt.Errorf("write session: read created_seq: %w", err)
	}

	if err := writeQueue(ctx, tx, sess.ID, sess.Queue); err != nil {
		return err
	}
	for _, ev := range sess.Trace {
		payload, err := marshalPayload(ev.Args)
		if err != nil {
			return fmt.Errorf("write trace event %d: %w", ev.Seq, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO trace_events (session_id, seq, kind, method, payload)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, sess.ID, ev.Seq, string(ev.Kind), ev.Method, payload); err != nil {
			return fmt.Errorf("write trace event %d: %w", ev.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write session: commit: %w", err)
	}
	return nil
}

func writeQueue(ctx context.Context, tx *sql.Tx, sessionID string, records []QueueRecord) error {
	for _, rec := range records {
		payload, err := marshalPayload(rec.Payload)
		if err != nil {
			return fmt.Errorf("write queue entry %d: %w", rec.Seq, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO queue_entries (session_id, seq, kind, method, payload)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`, sessionID, rec.Seq, rec.Kind, rec.Method, payload); err != nil {
			return fmt.Errorf("write queue entry %d: %w", rec.Seq, err)
		}
	}
	return nil
}
