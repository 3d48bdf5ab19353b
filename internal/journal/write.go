package journal

import (
	"context"
	"fmt"
)

// Append inserts one event row. The event's ID and CreatedAt are
// assigned by the database and ignored on input.
func (j *Journal) Append(ctx context.Context, ev Event) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events
		(session, kind, module, assembly, integration, caller, target, wrapper, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ev.Session,
		string(ev.Kind),
		ev.Module,
		ev.Assembly,
		ev.Integration,
		ev.Caller,
		ev.Target,
		ev.Wrapper,
		ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}
