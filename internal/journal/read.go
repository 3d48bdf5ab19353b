package journal

import (
	"context"
	"fmt"
	"time"
)

// Events returns journal rows in append order. A non-empty session
// restricts the result to that engine session; an empty session
// returns everything.
func (j *Journal) Events(ctx context.Context, session string) ([]Event, error) {
	query := `
		SELECT id, session, kind, module, assembly, integration, caller, target, wrapper, detail, created_at
		FROM events
	`
	var args []any
	if session != "" {
		query += " WHERE session = ?"
		args = append(args, session)
	}
	query += " ORDER BY id"

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var kind, createdAt string
		if err := rows.Scan(&ev.ID, &ev.Session, &kind, &ev.Module, &ev.Assembly,
			&ev.Integration, &ev.Caller, &ev.Target, &ev.Wrapper, &ev.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = Kind(kind)
		if t, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			ev.CreatedAt = t
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}
