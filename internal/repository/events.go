package repository

import (
	"context"
	"time"

	"github.com/george-michael9/Abrar-system/internal/model"
)

const eventColumns = `id, name, event_type, description, start_at, end_at, location, status, created_at, updated_at`

func (s *Store) CreateEvent(ctx context.Context, event model.Event) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (id, name, event_type, description, start_at, end_at, location, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, event.ID, event.Name, event.Type, event.Description, event.StartAt, event.EndAt, event.Location, event.Status, event.CreatedAt, event.UpdatedAt)
	return err
}

func (s *Store) GetEventByID(ctx context.Context, eventID string) (model.Event, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, eventID)
	return scanEvent(row)
}

func (s *Store) ListEvents(ctx context.Context, statuses ...model.EventStatus) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if len(statuses) > 0 {
		query += ` WHERE status = ANY($1)`
		list := make([]string, len(statuses))
		for i, status := range statuses {
			list[i] = string(status)
		}
		args = append(args, list)
	}
	query += ` ORDER BY start_at`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (s *Store) UpdateEvent(ctx context.Context, event model.Event) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE events
		SET name = $1, event_type = $2, description = $3, start_at = $4, end_at = $5, location = $6, status = $7, updated_at = $8
		WHERE id = $9
	`, event.Name, event.Type, event.Description, event.StartAt, event.EndAt, event.Location, event.Status, time.Now().UTC(), event.ID)
	return err
}

func (s *Store) DeleteEvent(ctx context.Context, eventID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, eventID)
	return err
}

// RollEventStatuses advances upcoming events that have started to ongoing
// and ongoing events that have ended to completed. Returns the number of
// rows touched.
func (s *Store) RollEventStatuses(ctx context.Context, now time.Time) (int64, error) {
	started, err := s.pool.Exec(ctx, `
		UPDATE events SET status = 'ongoing', updated_at = $1
		WHERE status = 'upcoming' AND start_at <= $1
	`, now)
	if err != nil {
		return 0, err
	}
	ended, err := s.pool.Exec(ctx, `
		UPDATE events SET status = 'completed', updated_at = $1
		WHERE status = 'ongoing' AND end_at < $1
	`, now)
	if err != nil {
		return started.RowsAffected(), err
	}
	return started.RowsAffected() + ended.RowsAffected(), nil
}

func scanEvent(row rowScanner) (model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Name,
		&event.Type,
		&event.Description,
		&event.StartAt,
		&event.EndAt,
		&event.Location,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	return event, err
}
