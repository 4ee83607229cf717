package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const cvColumns = `id, user_id, title, template_id, content, created_at, updated_at`

func scanCV(row scanner) (*CV, error) {
	var cv CV
	var content []byte
	if err := row.Scan(&cv.ID, &cv.UserID, &cv.Title, &cv.TemplateID, &content,
		&cv.CreatedAt, &cv.UpdatedAt); err != nil {
		return nil, err
	}
	cv.Content = content
	return &cv, nil
}

// CreateCV inserts a CV for a candidate
func (db *DB) CreateCV(ctx context.Context, input *CVInput) (*CV, error) {
	cv, err := scanCV(db.pool.QueryRow(ctx,
		`INSERT INTO cvs (user_id, title, template_id, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+cvColumns,
		input.UserID, input.Title, input.TemplateID, []byte(input.Content),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create cv: %w", err)
	}
	return cv, nil
}

// GetCVByID retrieves a CV by ID
func (db *DB) GetCVByID(ctx context.Context, id uuid.UUID) (*CV, error) {
	cv, err := scanCV(db.pool.QueryRow(ctx, `SELECT `+cvColumns+` FROM cvs WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cv: %w", err)
	}
	return cv, nil
}

// ListCVsByUser lists a candidate's CVs, most recently edited first
func (db *DB) ListCVsByUser(ctx context.Context, userID uuid.UUID) ([]CV, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+cvColumns+` FROM cvs WHERE user_id = $1 ORDER BY updated_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cvs: %w", err)
	}
	defer rows.Close()

	cvs := []CV{}
	for rows.Next() {
		cv, err := scanCV(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cv: %w", err)
		}
		cvs = append(cvs, *cv)
	}
	return cvs, rows.Err()
}

// UpdateCV replaces a CV's title, template and content. Returns nil, nil if
// the CV does not exist.
func (db *DB) UpdateCV(ctx context.Context, id uuid.UUID, input *CVInput) (*CV, error) {
	cv, err := scanCV(db.pool.QueryRow(ctx,
		`UPDATE cvs SET title = $1, template_id = $2, content = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+cvColumns,
		input.Title, input.TemplateID, []byte(input.Content), id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update cv: %w", err)
	}
	return cv, nil
}

// DeleteCV removes a CV
func (db *DB) DeleteCV(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM cvs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete cv: %w", err)
	}
	return nil
}
