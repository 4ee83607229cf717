package jobsearch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/job-board/internal/db"
	"golang.org/x/sync/errgroup"
)

// Store is the read side of the job postings collection the engine queries.
// Implementations must be safe for concurrent reads.
type Store interface {
	CountJobPostings(ctx context.Context, where db.Clause) (int, error)
	FindJobPostings(ctx context.Context, where db.Clause, limit, offset int) ([]db.JobPosting, error)
}

// ResultPage is one page of search results.
type ResultPage struct {
	Items      []db.JobPosting
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}

// RetrievalError reports that the store could not be queried.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("job search %s failed: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Engine runs job searches against a Store. It holds no per-request state
// and may be shared between goroutines.
type Engine struct {
	store  Store
	limits Limits
}

// NewEngine creates an Engine. Zero-valued limits fall back to DefaultLimits.
func NewEngine(store Store, limits Limits) *Engine {
	if limits.DefaultPageSize < 1 {
		limits.DefaultPageSize = DefaultPageSize
	}
	if limits.MaxPageSize < 1 {
		limits.MaxPageSize = MaxPageSize
	}
	return &Engine{store: store, limits: limits}
}

// Search returns the requested page of active postings matching f, newest
// first. A page past the end is empty, not an error. Store failures are
// returned as *RetrievalError.
func (e *Engine) Search(ctx context.Context, f Filter) (*ResultPage, error) {
	f = e.limits.Normalize(f)
	pred := Build(f)
	offset := (f.Page - 1) * f.PageSize

	var (
		total int
		items []db.JobPosting
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := e.store.CountJobPostings(gctx, pred)
		if err != nil {
			return &RetrievalError{Op: "count", Err: err}
		}
		total = n
		return nil
	})
	g.Go(func() error {
		found, err := e.store.FindJobPostings(gctx, pred, f.PageSize, offset)
		if err != nil {
			return &RetrievalError{Op: "fetch", Err: err}
		}
		items = found
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if items == nil {
		items = []db.JobPosting{}
	}
	return &ResultPage{
		Items:      items,
		TotalCount: total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: totalPages(total, f.PageSize),
	}, nil
}

func totalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Latest returns the n most recently posted active postings.
func (e *Engine) Latest(ctx context.Context, n int) ([]db.JobPosting, error) {
	return e.find(ctx, "latest", ActiveStatus(), n)
}

// Similar returns up to n other active postings that share the given
// posting's industry or company.
func (e *Engine) Similar(ctx context.Context, p *db.JobPosting, n int) ([]db.JobPosting, error) {
	pred := All(ActiveStatus(), ExcludeID(p.ID), Any(Industry(p.Industry), CompanyIs(p.CompanyID)))
	return e.find(ctx, "similar", pred, n)
}

// ByCompany returns every active posting of a company.
func (e *Engine) ByCompany(ctx context.Context, companyID uuid.UUID) ([]db.JobPosting, error) {
	return e.find(ctx, "by company", All(ActiveStatus(), CompanyIs(companyID)), 0)
}

func (e *Engine) find(ctx context.Context, op string, pred Predicate, limit int) ([]db.JobPosting, error) {
	items, err := e.store.FindJobPostings(ctx, pred, limit, 0)
	if err != nil {
		return nil, &RetrievalError{Op: op, Err: err}
	}
	if items == nil {
		items = []db.JobPosting{}
	}
	return items, nil
}
