package db

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the publication state of a posting
type JobStatus string

// Posting states. Only active postings are publicly searchable.
const (
	JobStatusActive JobStatus = "active"
	JobStatusDraft  JobStatus = "draft"
	JobStatusClosed JobStatus = "closed"
)

// DefaultSalaryCurrency is applied when a posting declares a salary without a currency
const DefaultSalaryCurrency = "VND"

// IsValid reports whether s is a known posting state
func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusActive, JobStatusDraft, JobStatusClosed:
		return true
	}
	return false
}

// Salary is a posting's declared pay range. Either bound may be absent.
type Salary struct {
	Min      *int64 `json:"min"`
	Max      *int64 `json:"max"`
	Currency string `json:"currency"`
}

// CompanySummary is the slice of a company embedded in posting responses
type CompanySummary struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Logo     string    `json:"logo,omitempty"`
	Location string    `json:"location,omitempty"`
}

// JobPosting represents a published (or draft) job
type JobPosting struct {
	ID           uuid.UUID       `json:"id"`
	CompanyID    uuid.UUID       `json:"company_id"`
	UserID       uuid.UUID       `json:"user_id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Requirements string          `json:"requirements"`
	Benefits     string          `json:"benefits"`
	Salary       Salary          `json:"salary"`
	Location     string          `json:"location"`
	Industry     string          `json:"industry"`
	Level        string          `json:"level"`
	Type         string          `json:"type"`
	Status       JobStatus       `json:"status"`
	PostedDate   time.Time       `json:"posted_date"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Company      *CompanySummary `json:"company,omitempty"`
}

// IsActive reports whether the posting is publicly visible
func (p *JobPosting) IsActive() bool {
	return p.Status == JobStatusActive
}

// JobPostingCreateInput contains the fields for creating a posting
type JobPostingCreateInput struct {
	CompanyID    uuid.UUID
	UserID       uuid.UUID
	Title        string
	Description  string
	Requirements string
	Benefits     string
	Salary       Salary
	Location     string
	Industry     string
	Level        string
	Type         string
	Status       JobStatus
}

// JobPostingUpdate carries a partial update; nil fields are left unchanged.
// Salary replaces the whole range when set.
type JobPostingUpdate struct {
	Title        *string
	Description  *string
	Requirements *string
	Benefits     *string
	Salary       *Salary
	Location     *string
	Industry     *string
	Level        *string
	Type         *string
	Status       *JobStatus
}
