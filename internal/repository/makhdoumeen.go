package repository

import (
	"context"
	"time"

	"github.com/george-michael9/Abrar-system/internal/db"
	"github.com/george-michael9/Abrar-system/internal/model"
)

const makhdoumColumns = `id, code, full_name, date_of_birth, class_id, mother_name, mother_phone, father_name, father_phone, emergency_contact, address, area, diseases_allergies, medications, special_needs, is_active, created_at, updated_at`

// CreateMakhdoum assigns the next sequential code and inserts the record in
// one transaction. The unique constraint on code makes the loser of a
// concurrent create fail instead of silently duplicating a badge number.
func (s *Store) CreateMakhdoum(ctx context.Context, makhdoum *model.Makhdoum) error {
	return s.withTx(ctx, func(q db.Querier) error {
		rows, err := q.Query(ctx, `SELECT code FROM makhdoumeen`)
		if err != nil {
			return err
		}
		defer rows.Close()

		var codes []string
		for rows.Next() {
			var code string
			if err := rows.Scan(&code); err != nil {
				return err
			}
			codes = append(codes, code)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		makhdoum.Code = NextCode(codes)

		_, err = q.Exec(ctx, `
			INSERT INTO makhdoumeen (id, code, full_name, date_of_birth, class_id, mother_name, mother_phone, father_name, father_phone, emergency_contact, address, area, diseases_allergies, medications, special_needs, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		`, makhdoum.ID, makhdoum.Code, makhdoum.FullName, makhdoum.DateOfBirth, makhdoum.ClassID,
			makhdoum.MotherName, makhdoum.MotherPhone, makhdoum.FatherName, makhdoum.FatherPhone,
			makhdoum.EmergencyContact, makhdoum.Address, makhdoum.Area, makhdoum.DiseasesAllergies,
			makhdoum.Medications, makhdoum.SpecialNeeds, makhdoum.IsActive, makhdoum.CreatedAt, makhdoum.UpdatedAt)
		return err
	})
}

func (s *Store) GetMakhdoumByID(ctx context.Context, makhdoumID string) (model.Makhdoum, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+makhdoumColumns+` FROM makhdoumeen WHERE id = $1`, makhdoumID)
	return scanMakhdoum(row)
}

func (s *Store) GetMakhdoumByCode(ctx context.Context, code string) (model.Makhdoum, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+makhdoumColumns+` FROM makhdoumeen WHERE code = $1`, code)
	return scanMakhdoum(row)
}

// ListMakhdoumeen returns children ordered by code. classID narrows to one
// class; activeOnly hides soft-deleted records.
func (s *Store) ListMakhdoumeen(ctx context.Context, classID string, activeOnly bool) ([]model.Makhdoum, error) {
	query := `SELECT ` + makhdoumColumns + ` FROM makhdoumeen`
	var args []any
	switch {
	case classID != "" && activeOnly:
		query += ` WHERE class_id = $1 AND is_active ORDER BY code`
		args = append(args, classID)
	case classID != "":
		query += ` WHERE class_id = $1 ORDER BY code`
		args = append(args, classID)
	case activeOnly:
		query += ` WHERE is_active ORDER BY code`
	default:
		query += ` ORDER BY code`
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var makhdoumeen []model.Makhdoum
	for rows.Next() {
		makhdoum, err := scanMakhdoum(rows)
		if err != nil {
			return nil, err
		}
		makhdoumeen = append(makhdoumeen, makhdoum)
	}
	return makhdoumeen, rows.Err()
}

func (s *Store) UpdateMakhdoum(ctx context.Context, makhdoum model.Makhdoum) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE makhdoumeen
		SET full_name = $1, date_of_birth = $2, class_id = $3, mother_name = $4, mother_phone = $5,
		    father_name = $6, father_phone = $7, emergency_contact = $8, address = $9, area = $10,
		    diseases_allergies = $11, medications = $12, special_needs = $13, is_active = $14, updated_at = $15
		WHERE id = $16
	`, makhdoum.FullName, makhdoum.DateOfBirth, makhdoum.ClassID, makhdoum.MotherName, makhdoum.MotherPhone,
		makhdoum.FatherName, makhdoum.FatherPhone, makhdoum.EmergencyContact, makhdoum.Address, makhdoum.Area,
		makhdoum.DiseasesAllergies, makhdoum.Medications, makhdoum.SpecialNeeds, makhdoum.IsActive,
		time.Now().UTC(), makhdoum.ID)
	return err
}

// DeactivateMakhdoum soft-deletes; the record and its code stay reserved.
func (s *Store) DeactivateMakhdoum(ctx context.Context, makhdoumID string) error {
	_, err := s.pool.Exec(ctx, `UPDATE makhdoumeen SET is_active = false, updated_at = $1 WHERE id = $2`, time.Now().UTC(), makhdoumID)
	return err
}

func scanMakhdoum(row rowScanner) (model.Makhdoum, error) {
	var makhdoum model.Makhdoum
	err := row.Scan(
		&makhdoum.ID,
		&makhdoum.Code,
		&makhdoum.FullName,
		&makhdoum.DateOfBirth,
		&makhdoum.ClassID,
		&makhdoum.MotherName,
		&makhdoum.MotherPhone,
		&makhdoum.FatherName,
		&makhdoum.FatherPhone,
		&makhdoum.EmergencyContact,
		&makhdoum.Address,
		&makhdoum.Area,
		&makhdoum.DiseasesAllergies,
		&makhdoum.Medications,
		&makhdoum.SpecialNeeds,
		&makhdoum.IsActive,
		&makhdoum.CreatedAt,
		&makhdoum.UpdatedAt,
	)
	return makhdoum, err
}
