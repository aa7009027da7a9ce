package repository

import (
	"context"
	"time"

	"github.com/george-michael9/Abrar-system/internal/model"
)

const userColumns = `id, email, password_hash, full_name, role, phone, photo_url, class_id, is_active, last_login_at, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, role, phone, photo_url, class_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, user.ID, user.Email, user.PasswordHash, user.FullName, user.Role, user.Phone, user.PhotoURL, user.ClassID, user.IsActive, user.CreatedAt, user.UpdatedAt)
	return err
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *Store) UpdateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users
		SET email = $1, full_name = $2, role = $3, phone = $4, photo_url = $5, class_id = $6, is_active = $7, updated_at = $8
		WHERE id = $9
	`, user.Email, user.FullName, user.Role, user.Phone, user.PhotoURL, user.ClassID, user.IsActive, time.Now().UTC(), user.ID)
	return err
}

func (s *Store) UpdateUserPassword(ctx context.Context, userID, passwordHash string) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`, passwordHash, time.Now().UTC(), userID)
	return err
}

// ApproveUser promotes a pending account to its assigned role.
func (s *Store) ApproveUser(ctx context.Context, userID string, role model.Role) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`, role, time.Now().UTC(), userID)
	return err
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	return err
}

func (s *Store) TouchLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := s.pool.Exec(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, userID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Role,
		&user.Phone,
		&user.PhotoURL,
		&user.ClassID,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
