package repository

import (
	"context"

	"github.com/george-michael9/Abrar-system/internal/model"
)

// AddScore appends one score record. There is no update or delete path;
// the scores table is an append-only log.
func (s *Store) AddScore(ctx context.Context, score model.Score) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scores (id, event_id, makhdoum_id, score, entered_by, entered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, score.ID, score.EventID, score.MakhdoumID, score.Score, score.EnteredBy, score.EnteredAt)
	return err
}

func (s *Store) ListScores(ctx context.Context) ([]model.Score, error) {
	return s.queryScores(ctx, `SELECT id, event_id, makhdoum_id, score, entered_by, entered_at FROM scores ORDER BY entered_at`)
}

func (s *Store) ListScoresByEvent(ctx context.Context, eventID string) ([]model.Score, error) {
	return s.queryScores(ctx, `SELECT id, event_id, makhdoum_id, score, entered_by, entered_at FROM scores WHERE event_id = $1 ORDER BY entered_at`, eventID)
}

func (s *Store) queryScores(ctx context.Context, query string, args ...any) ([]model.Score, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []model.Score
	for rows.Next() {
		var score model.Score
		if err := rows.Scan(&score.ID, &score.EventID, &score.MakhdoumID, &score.Score, &score.EnteredBy, &score.EnteredAt); err != nil {
			return nil, err
		}
		scores = append(scores, score)
	}
	return scores, rows.Err()
}
