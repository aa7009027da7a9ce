package repository

import (
	"context"
	"time"

	"github.com/george-michael9/Abrar-system/internal/db"
	"github.com/george-michael9/Abrar-system/internal/model"
)

const teamColumns = `id, name, motto, icon, primary_color, created_at, updated_at`

func (s *Store) CreateTeam(ctx context.Context, team model.Team) error {
	return s.withTx(ctx, func(q db.Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO teams (id, name, motto, icon, primary_color, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, team.ID, team.Name, team.Motto, team.Icon, team.PrimaryColor, team.CreatedAt, team.UpdatedAt)
		if err != nil {
			return err
		}
		for _, classID := range team.ClassIDs {
			if err := assignClassTx(ctx, q, team.ID, classID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetTeamByID(ctx context.Context, teamID string) (model.Team, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, teamID)
	team, err := scanTeam(row)
	if err != nil {
		return model.Team{}, err
	}
	team.ClassIDs, err = s.listTeamClasses(ctx, teamID)
	return team, err
}

// ListTeams returns teams in creation order. The leaderboard relies on this
// order to keep tie-breaks stable between recomputations.
func (s *Store) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range teams {
		teams[i].ClassIDs, err = s.listTeamClasses(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (s *Store) UpdateTeam(ctx context.Context, team model.Team) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE teams
		SET name = $1, motto = $2, icon = $3, primary_color = $4, updated_at = $5
		WHERE id = $6
	`, team.Name, team.Motto, team.Icon, team.PrimaryColor, time.Now().UTC(), team.ID)
	return err
}

func (s *Store) DeleteTeam(ctx context.Context, teamID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, teamID)
	return err
}

// AssignClassToTeam moves a class to the given team, stripping it from any
// previous team in the same transaction so the class is a member of exactly
// one team afterwards.
func (s *Store) AssignClassToTeam(ctx context.Context, teamID, classID string) error {
	return s.withTx(ctx, func(q db.Querier) error {
		return assignClassTx(ctx, q, teamID, classID)
	})
}

func (s *Store) UnassignClass(ctx context.Context, classID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM team_classes WHERE class_id = $1`, classID)
	return err
}

func assignClassTx(ctx context.Context, q db.Querier, teamID, classID string) error {
	if _, err := q.Exec(ctx, `DELETE FROM team_classes WHERE class_id = $1`, classID); err != nil {
		return err
	}
	_, err := q.Exec(ctx, `INSERT INTO team_classes (team_id, class_id) VALUES ($1, $2)`, teamID, classID)
	return err
}

func (s *Store) listTeamClasses(ctx context.Context, teamID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT class_id FROM team_classes WHERE team_id = $1 ORDER BY class_id`, teamID)
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

func scanTeam(row rowScanner) (model.Team, error) {
	var team model.Team
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.Motto,
		&team.Icon,
		&team.PrimaryColor,
		&team.CreatedAt,
		&team.UpdatedAt,
	)
	return team, err
}
