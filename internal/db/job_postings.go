package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// jobPostingSelect joins the owning company so every posting carries its
// company summary.
const jobPostingSelect = `SELECT j.id, j.company_id, j.user_id, j.title, j.description, j.requirements,
        j.benefits, j.salary_min, j.salary_max, j.salary_currency, j.location, j.industry,
        j.level, j.type, j.status, j.posted_date, j.updated_at,
        c.id, c.name, c.logo, c.location
 FROM job_postings j
 JOIN companies c ON c.id = j.company_id`

// jobPostingOrder is the feed order: newest first, id breaks ties so paging
// is stable.
const jobPostingOrder = `ORDER BY j.posted_date DESC, j.id DESC`

func scanJobPosting(row scanner) (*JobPosting, error) {
	var p JobPosting
	var c CompanySummary
	err := row.Scan(&p.ID, &p.CompanyID, &p.UserID, &p.Title, &p.Description, &p.Requirements,
		&p.Benefits, &p.Salary.Min, &p.Salary.Max, &p.Salary.Currency, &p.Location, &p.Industry,
		&p.Level, &p.Type, &p.Status, &p.PostedDate, &p.UpdatedAt,
		&c.ID, &c.Name, &c.Logo, &c.Location)
	if err != nil {
		return nil, err
	}
	p.Company = &c
	return &p, nil
}

func collectJobPostings(rows pgx.Rows) ([]JobPosting, error) {
	defer rows.Close()

	postings := []JobPosting{}
	for rows.Next() {
		p, err := scanJobPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate job postings: %w", err)
	}
	return postings, nil
}

// CountJobPostings counts postings matching where
func (db *DB) CountJobPostings(ctx context.Context, where Clause) (int, error) {
	var args Args
	query := "SELECT COUNT(*) FROM job_postings j " + whereSQL(where, &args)

	var total int
	if err := db.pool.QueryRow(ctx, query, args.Values()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count job postings: %w", err)
	}
	return total, nil
}

// FindJobPostings returns postings matching where in feed order. A limit of
// zero or less returns every match.
func (db *DB) FindJobPostings(ctx context.Context, where Clause, limit, offset int) ([]JobPosting, error) {
	var args Args
	query := jobPostingSelect + " " + whereSQL(where, &args) + " " + jobPostingOrder

	if limit > 0 {
		query += " LIMIT " + args.Add(limit)
	}
	if offset > 0 {
		query += " OFFSET " + args.Add(offset)
	}

	rows, err := db.pool.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	return collectJobPostings(rows)
}

// GetJobPostingByID retrieves a posting by its ID regardless of status
func (db *DB) GetJobPostingByID(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	p, err := scanJobPosting(db.pool.QueryRow(ctx, jobPostingSelect+" WHERE j.id = $1", id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return p, nil
}

// ListJobPostingsByUser lists every posting a recruiter created, any status
func (db *DB) ListJobPostingsByUser(ctx context.Context, userID uuid.UUID) ([]JobPosting, error) {
	rows, err := db.pool.Query(ctx, jobPostingSelect+" WHERE j.user_id = $1 "+jobPostingOrder, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings by user: %w", err)
	}
	return collectJobPostings(rows)
}

// CreateJobPosting inserts a posting and returns it with its company summary
func (db *DB) CreateJobPosting(ctx context.Context, input *JobPostingCreateInput) (*JobPosting, error) {
	status := input.Status
	if status == "" {
		status = JobStatusActive
	}
	currency := input.Salary.Currency
	if currency == "" {
		currency = DefaultSalaryCurrency
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (company_id, user_id, title, description, requirements, benefits,
		                           salary_min, salary_max, salary_currency, location, industry,
		                           level, type, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		input.CompanyID, input.UserID, input.Title, input.Description, input.Requirements,
		input.Benefits, input.Salary.Min, input.Salary.Max, currency, input.Location,
		input.Industry, input.Level, input.Type, status,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}

	return db.GetJobPostingByID(ctx, id)
}

// UpdateJobPosting applies a partial update. Returns nil, nil if the posting
// does not exist.
func (db *DB) UpdateJobPosting(ctx context.Context, id uuid.UUID, upd *JobPostingUpdate) (*JobPosting, error) {
	var sets []string
	var args Args

	set := func(column string, value any) {
		sets = append(sets, column+" = "+args.Add(value))
	}

	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.Requirements != nil {
		set("requirements", *upd.Requirements)
	}
	if upd.Benefits != nil {
		set("benefits", *upd.Benefits)
	}
	if upd.Salary != nil {
		set("salary_min", upd.Salary.Min)
		set("salary_max", upd.Salary.Max)
		currency := upd.Salary.Currency
		if currency == "" {
			currency = DefaultSalaryCurrency
		}
		set("salary_currency", currency)
	}
	if upd.Location != nil {
		set("location", *upd.Location)
	}
	if upd.Industry != nil {
		set("industry", *upd.Industry)
	}
	if upd.Level != nil {
		set("level", *upd.Level)
	}
	if upd.Type != nil {
		set("type", *upd.Type)
	}
	if upd.Status != nil {
		set("status", string(*upd.Status))
	}

	if len(sets) > 0 {
		sets = append(sets, "updated_at = NOW()")
		query := fmt.Sprintf("UPDATE job_postings SET %s WHERE id = %s",
			strings.Join(sets, ", "), args.Add(id))
		tag, err := db.pool.Exec(ctx, query, args.Values()...)
		if err != nil {
			return nil, fmt.Errorf("failed to update job posting: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, nil
		}
	}

	return db.GetJobPostingByID(ctx, id)
}

// DeleteJobPosting removes a posting and, by cascade, its applications
func (db *DB) DeleteJobPosting(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job posting: %w", err)
	}
	return nil
}

// CloseStaleJobPostings closes active postings posted before cutoff and
// returns how many were closed.
func (db *DB) CloseStaleJobPostings(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE job_postings SET status = 'closed', updated_at = NOW()
		 WHERE status = 'active' AND posted_date < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to close stale job postings: %w", err)
	}
	return tag.RowsAffected(), nil
}
