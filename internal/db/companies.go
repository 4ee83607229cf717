package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Company Methods
// -----------------------------------------------------------------------------

const companyColumns = `id, user_id, name, name_normalized, logo, cover_image, description,
        size, website, industry, location, rating, review_count, created_at, updated_at`

func scanCompany(row scanner) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.NameNormalized, &c.Logo, &c.CoverImage,
		&c.Description, &c.Size, &c.Website, &c.Industry, &c.Location, &c.Rating,
		&c.ReviewCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCompanies(rows pgx.Rows) ([]Company, error) {
	defer rows.Close()

	companies := []Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate companies: %w", err)
	}
	return companies, nil
}

// CreateCompany inserts a company. Returns ErrDuplicate when another company
// already has the same normalized name.
func (db *DB) CreateCompany(ctx context.Context, input *CompanyCreateInput) (*Company, error) {
	normalized := NormalizeName(input.Name)
	if normalized == "" {
		return nil, fmt.Errorf("company name cannot be empty")
	}

	c, err := scanCompany(db.pool.QueryRow(ctx,
		`INSERT INTO companies (user_id, name, name_normalized, logo, cover_image, description,
		                        size, website, industry, location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+companyColumns,
		input.UserID, strings.TrimSpace(input.Name), normalized, input.Logo, input.CoverImage,
		input.Description, input.Size, input.Website, input.Industry, input.Location,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create company: %w", err)
	}
	return c, nil
}

// GetCompanyByID retrieves a company by its UUID, without reviews
func (db *DB) GetCompanyByID(ctx context.Context, id uuid.UUID) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// GetCompanyByNormalizedName retrieves a company by its normalized name
func (db *DB) GetCompanyByNormalizedName(ctx context.Context, normalized string) (*Company, error) {
	c, err := scanCompany(db.pool.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE name_normalized = $1`, normalized))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// ListCompanies lists companies with optional filters, best rated first
func (db *DB) ListCompanies(ctx context.Context, opts ListCompaniesOptions) ([]Company, int, error) {
	var conditions []string
	var args Args

	if opts.Name != "" {
		conditions = append(conditions, "name ILIKE "+args.Add(ContainsPattern(opts.Name)))
	}
	if opts.Industry != "" {
		conditions = append(conditions, "industry = "+args.Add(opts.Industry))
	}
	if opts.Location != "" {
		conditions = append(conditions, "location ILIKE "+args.Add(ContainsPattern(opts.Location)))
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies "+whereClause, args.Values()...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM companies %s
		 ORDER BY rating DESC, created_at DESC, id DESC
		 LIMIT %s OFFSET %s`,
		companyColumns, whereClause, args.Add(limit), args.Add(offset))

	rows, err := db.pool.Query(ctx, query, args.Values()...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	companies, err := collectCompanies(rows)
	if err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// ListTopCompanies returns the n best rated companies
func (db *DB) ListTopCompanies(ctx context.Context, n int) ([]Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies
		 ORDER BY rating DESC, review_count DESC, id DESC
		 LIMIT $1`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list top companies: %w", err)
	}
	return collectCompanies(rows)
}

// ListCompaniesByUser lists the companies a recruiter owns
func (db *DB) ListCompaniesByUser(ctx context.Context, userID uuid.UUID) ([]Company, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies by user: %w", err)
	}
	return collectCompanies(rows)
}

// UpdateCompany applies a partial update. Returns nil, nil if the company
// does not exist and ErrDuplicate if a rename collides with another company.
func (db *DB) UpdateCompany(ctx context.Context, id uuid.UUID, upd *CompanyUpdate) (*Company, error) {
	var name, normalized *string
	if upd.Name != nil {
		n := strings.TrimSpace(*upd.Name)
		norm := NormalizeName(n)
		if norm == "" {
			return nil, fmt.Errorf("company name cannot be empty")
		}
		name, normalized = &n, &norm
	}

	c, err := scanCompany(db.pool.QueryRow(ctx,
		`UPDATE companies SET
		     name = COALESCE($1, name),
		     name_normalized = COALESCE($2, name_normalized),
		     logo = COALESCE($3, logo),
		     cover_image = COALESCE($4, cover_image),
		     description = COALESCE($5, description),
		     size = COALESCE($6, size),
		     website = COALESCE($7, website),
		     industry = COALESCE($8, industry),
		     location = COALESCE($9, location),
		     updated_at = NOW()
		 WHERE id = $10
		 RETURNING `+companyColumns,
		name, normalized, upd.Logo, upd.CoverImage, upd.Description, upd.Size,
		upd.Website, upd.Industry, upd.Location, id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update company: %w", err)
	}
	return c, nil
}

// ListCompanyReviews lists a company's reviews, newest first
func (db *DB) ListCompanyReviews(ctx context.Context, companyID uuid.UUID) ([]CompanyReview, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, company_id, user_id, rating, title, position, employment_status,
		        pros, cons, comment, created_at
		 FROM company_reviews WHERE company_id = $1
		 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company reviews: %w", err)
	}
	defer rows.Close()

	reviews := []CompanyReview{}
	for rows.Next() {
		var r CompanyReview
		if err := rows.Scan(&r.ID, &r.CompanyID, &r.UserID, &r.Rating, &r.Title, &r.Position,
			&r.EmploymentStatus, &r.Pros, &r.Cons, &r.Comment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan company review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// AddCompanyReview records a review and refreshes the company's rating in one
// transaction. Returns ErrDuplicate if the user already reviewed the company.
func (db *DB) AddCompanyReview(ctx context.Context, input *CompanyReviewInput) (*Company, error) {
	var company *Company
	err := pgx.BeginFunc(ctx, db.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO company_reviews (company_id, user_id, rating, title, position,
			                              employment_status, pros, cons, comment)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			input.CompanyID, input.UserID, input.Rating, input.Title, input.Position,
			input.EmploymentStatus, input.Pros, input.Cons, input.Comment,
		)
		if err != nil {
			return err
		}

		ratings, err := companyRatings(ctx, tx, input.CompanyID)
		if err != nil {
			return err
		}

		company, err = scanCompany(tx.QueryRow(ctx,
			`UPDATE companies SET rating = $1, review_count = $2, updated_at = NOW()
			 WHERE id = $3
			 RETURNING `+companyColumns,
			AverageRating(ratings), len(ratings), input.CompanyID,
		))
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to add company review: %w", err)
	}
	return company, nil
}

// companyRatings loads every rating given to a company
func companyRatings(ctx context.Context, tx pgx.Tx, companyID uuid.UUID) ([]int, error) {
	rows, err := tx.Query(ctx, `SELECT rating FROM company_reviews WHERE company_id = $1`, companyID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int])
}

// RefreshCompanyRatings recomputes rating and review_count for every company
// whose stored values have drifted from its reviews. Returns the number of
// companies corrected.
func (db *DB) RefreshCompanyRatings(ctx context.Context) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE companies c SET
		     rating = agg.rating,
		     review_count = agg.review_count,
		     updated_at = NOW()
		 FROM (
		     SELECT c2.id,
		            COALESCE(ROUND(AVG(r.rating)::numeric, 1), 0)::double precision AS rating,
		            COUNT(r.id)::int AS review_count
		     FROM companies c2
		     LEFT JOIN company_reviews r ON r.company_id = c2.id
		     GROUP BY c2.id
		 ) agg
		 WHERE agg.id = c.id
		   AND (c.rating <> agg.rating OR c.review_count <> agg.review_count)`)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh company ratings: %w", err)
	}
	return tag.RowsAffected(), nil
}
