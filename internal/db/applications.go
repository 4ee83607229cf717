package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// applicationSelect joins the posting, its company and the applicant so
// list views need no follow-up queries.
const applicationSelect = `SELECT a.id, a.user_id, a.job_id, a.cv_id, a.cover_letter, a.status, a.notes,
        a.applied_at, a.updated_at,
        j.id, j.title, j.user_id, c.name,
        u.name, u.email
 FROM applications a
 JOIN job_postings j ON j.id = a.job_id
 JOIN companies c ON c.id = j.company_id
 JOIN users u ON u.id = a.user_id`

const applicationOrder = `ORDER BY a.applied_at DESC, a.id DESC`

func scanApplication(row scanner) (*Application, error) {
	var a Application
	var job ApplicationJob
	var applicant ApplicantSummary
	err := row.Scan(&a.ID, &a.UserID, &a.JobID, &a.CVID, &a.CoverLetter, &a.Status, &a.Notes,
		&a.AppliedAt, &a.UpdatedAt,
		&job.ID, &job.Title, &job.OwnerID, &job.CompanyName,
		&applicant.Name, &applicant.Email)
	if err != nil {
		return nil, err
	}
	a.Job = &job
	a.Applicant = &applicant
	return &a, nil
}

func (db *DB) queryApplications(ctx context.Context, where string, arg any) ([]Application, error) {
	rows, err := db.pool.Query(ctx, applicationSelect+" WHERE "+where+" "+applicationOrder, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// CreateApplication submits an application. Returns ErrDuplicate if the
// candidate already applied to the posting.
func (db *DB) CreateApplication(ctx context.Context, input *ApplicationCreateInput) (*Application, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, job_id, cv_id, cover_letter)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		input.UserID, input.JobID, input.CVID, input.CoverLetter,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return db.GetApplicationByID(ctx, id)
}

// ApplicationExists reports whether a candidate already applied to a posting
func (db *DB) ApplicationExists(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE user_id = $1 AND job_id = $2)`,
		userID, jobID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application: %w", err)
	}
	return exists, nil
}

// GetApplicationByID retrieves an application with its job and applicant
func (db *DB) GetApplicationByID(ctx context.Context, id uuid.UUID) (*Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx, applicationSelect+" WHERE a.id = $1", id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// ListApplicationsByUser lists a candidate's own applications
func (db *DB) ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]Application, error) {
	return db.queryApplications(ctx, "a.user_id = $1", userID)
}

// ListApplicationsByRecruiter lists applications to any posting the recruiter owns
func (db *DB) ListApplicationsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]Application, error) {
	return db.queryApplications(ctx, "j.user_id = $1", recruiterID)
}

// ListApplicationsByJob lists applications to one posting
func (db *DB) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]Application, error) {
	return db.queryApplications(ctx, "a.job_id = $1", jobID)
}

// UpdateApplication applies a review update. Returns nil, nil if the
// application does not exist.
func (db *DB) UpdateApplication(ctx context.Context, id uuid.UUID, upd *ApplicationUpdate) (*Application, error) {
	var status *string
	if upd.Status != nil {
		s := string(*upd.Status)
		status = &s
	}

	tag, err := db.pool.Exec(ctx,
		`UPDATE applications SET
		     status = COALESCE($1, status),
		     notes = COALESCE($2, notes),
		     updated_at = NOW()
		 WHERE id = $3`,
		status, upd.Notes, id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, nil
	}
	return db.GetApplicationByID(ctx, id)
}

// DeleteApplication withdraws an application
func (db *DB) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	if _, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}
