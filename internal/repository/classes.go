package repository

import (
	"context"
	"time"

	"github.com/george-michael9/Abrar-system/internal/db"
	"github.com/george-michael9/Abrar-system/internal/model"
)

const classColumns = `id, name, description, schedule_day, schedule_time, location, age_group, is_active, created_at, updated_at`

func (s *Store) CreateClass(ctx context.Context, class model.Class) error {
	return s.withTx(ctx, func(q db.Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO classes (id, name, description, schedule_day, schedule_time, location, age_group, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, class.ID, class.Name, class.Description, class.ScheduleDay, class.ScheduleTime, class.Location, class.AgeGroup, class.IsActive, class.CreatedAt, class.UpdatedAt)
		if err != nil {
			return err
		}
		return insertClassKhadems(ctx, q, class.ID, class.KhademIDs)
	})
}

func (s *Store) GetClassByID(ctx context.Context, classID string) (model.Class, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, classID)
	class, err := scanClass(row)
	if err != nil {
		return model.Class{}, err
	}
	class.KhademIDs, err = s.listClassKhadems(ctx, classID)
	return class, err
}

func (s *Store) ListClasses(ctx context.Context) ([]model.Class, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+classColumns+` FROM classes ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range classes {
		classes[i].KhademIDs, err = s.listClassKhadems(ctx, classes[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return classes, nil
}

// ListClassesByKhadem returns the classes a khadem serves: the class pinned
// on the user record, if any, otherwise every class listing them as khadem.
func (s *Store) ListClassesByKhadem(ctx context.Context, userID string) ([]model.Class, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.ClassID != nil {
		class, err := s.GetClassByID(ctx, *user.ClassID)
		if err != nil {
			return nil, err
		}
		return []model.Class{class}, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT `+classColumns+`
		FROM classes
		WHERE id IN (SELECT class_id FROM class_khadems WHERE user_id = $1)
		ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var classes []model.Class
	for rows.Next() {
		class, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		classes = append(classes, class)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range classes {
		classes[i].KhademIDs, err = s.listClassKhadems(ctx, classes[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return classes, nil
}

func (s *Store) UpdateClass(ctx context.Context, class model.Class) error {
	return s.withTx(ctx, func(q db.Querier) error {
		_, err := q.Exec(ctx, `
			UPDATE classes
			SET name = $1, description = $2, schedule_day = $3, schedule_time = $4, location = $5, age_group = $6, is_active = $7, updated_at = $8
			WHERE id = $9
		`, class.Name, class.Description, class.ScheduleDay, class.ScheduleTime, class.Location, class.AgeGroup, class.IsActive, time.Now().UTC(), class.ID)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, `DELETE FROM class_khadems WHERE class_id = $1`, class.ID); err != nil {
			return err
		}
		return insertClassKhadems(ctx, q, class.ID, class.KhademIDs)
	})
}

func (s *Store) DeleteClass(ctx context.Context, classID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM classes WHERE id = $1`, classID)
	return err
}

func (s *Store) listClassKhadems(ctx context.Context, classID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id FROM class_khadems WHERE class_id = $1 ORDER BY user_id`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertClassKhadems(ctx context.Context, q db.Querier, classID string, userIDs []string) error {
	for _, userID := range userIDs {
		if _, err := q.Exec(ctx, `
			INSERT INTO class_khadems (class_id, user_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, classID, userID); err != nil {
			return err
		}
	}
	return nil
}

func scanClass(row rowScanner) (model.Class, error) {
	var class model.Class
	err := row.Scan(
		&class.ID,
		&class.Name,
		&class.Description,
		&class.ScheduleDay,
		&class.ScheduleTime,
		&class.Location,
		&class.AgeGroup,
		&class.IsActive,
		&class.CreatedAt,
		&class.UpdatedAt,
	)
	return class, err
}
