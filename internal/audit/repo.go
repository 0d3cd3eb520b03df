package audit

import (
	"context"
	"database/sql"
	"errors"
)

// Repository persists audit events in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores one event. Duplicate IDs are ignored so redelivered queue
// payloads stay idempotent.
func (r *Repository) Insert(ctx context.Context, evt Event) error {
	if evt.ID == "" {
		return errors.New("event id required")
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session_audit (id, username, kind, occurred_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING
	`, evt.ID, evt.Username, string(evt.Kind), evt.At)
	return err
}

// RecentByUser returns the latest events for a username, newest first.
func (r *Repository) RecentByUser(ctx context.Context, username string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, kind, occurred_at
		FROM session_audit
		WHERE username = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, username, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var evt Event
		var kind string
		if err := rows.Scan(&evt.ID, &evt.Username, &kind, &evt.At); err != nil {
			return nil, err
		}
		evt.Kind = Kind(kind)
		events = append(events, evt)
	}
	return events, rows.Err()
}
