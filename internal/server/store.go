package server

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonathan/job-board/internal/db"
	"github.com/jonathan/job-board/internal/jobsearch"
)

// UserStore is the account persistence used by UserService
type UserStore interface {
	CreateUser(ctx context.Context, input *db.UserCreateInput) (*db.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateUserProfile(ctx context.Context, id uuid.UUID, upd *db.UserProfileUpdate) (*db.User, error)
}

// Store is everything the API reads and writes. *db.DB implements it.
type Store interface {
	jobsearch.Store
	UserStore

	Ping(ctx context.Context) error

	GetJobPostingByID(ctx context.Context, id uuid.UUID) (*db.JobPosting, error)
	ListJobPostingsByUser(ctx context.Context, userID uuid.UUID) ([]db.JobPosting, error)
	CreateJobPosting(ctx context.Context, input *db.JobPostingCreateInput) (*db.JobPosting, error)
	UpdateJobPosting(ctx context.Context, id uuid.UUID, upd *db.JobPostingUpdate) (*db.JobPosting, error)
	DeleteJobPosting(ctx context.Context, id uuid.UUID) error

	CreateCompany(ctx context.Context, input *db.CompanyCreateInput) (*db.Company, error)
	GetCompanyByID(ctx context.Context, id uuid.UUID) (*db.Company, error)
	ListCompanies(ctx context.Context, opts db.ListCompaniesOptions) ([]db.Company, int, error)
	ListTopCompanies(ctx context.Context, n int) ([]db.Company, error)
	ListCompaniesByUser(ctx context.Context, userID uuid.UUID) ([]db.Company, error)
	UpdateCompany(ctx context.Context, id uuid.UUID, upd *db.CompanyUpdate) (*db.Company, error)
	ListCompanyReviews(ctx context.Context, companyID uuid.UUID) ([]db.CompanyReview, error)
	AddCompanyReview(ctx context.Context, input *db.CompanyReviewInput) (*db.Company, error)

	CreateCV(ctx context.Context, input *db.CVInput) (*db.CV, error)
	GetCVByID(ctx context.Context, id uuid.UUID) (*db.CV, error)
	ListCVsByUser(ctx context.Context, userID uuid.UUID) ([]db.CV, error)
	UpdateCV(ctx context.Context, id uuid.UUID, input *db.CVInput) (*db.CV, error)
	DeleteCV(ctx context.Context, id uuid.UUID) error

	CreateApplication(ctx context.Context, input *db.ApplicationCreateInput) (*db.Application, error)
	ApplicationExists(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	GetApplicationByID(ctx context.Context, id uuid.UUID) (*db.Application, error)
	ListApplicationsByUser(ctx context.Context, userID uuid.UUID) ([]db.Application, error)
	ListApplicationsByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]db.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]db.Application, error)
	UpdateApplication(ctx context.Context, id uuid.UUID, upd *db.ApplicationUpdate) (*db.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error
}

var _ Store = (*db.DB)(nil)
