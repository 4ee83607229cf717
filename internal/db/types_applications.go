package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/job-board/internal/appstatus"
)

// Application is a candidate's application to a posting with one of their CVs
type Application struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	JobID       uuid.UUID        `json:"job_id"`
	CVID        uuid.UUID        `json:"cv_id"`
	CoverLetter string           `json:"cover_letter"`
	Status      appstatus.Status `json:"status"`
	Notes       string           `json:"notes"`
	AppliedAt   time.Time        `json:"applied_at"`
	UpdatedAt   time.Time        `json:"updated_at"`

	// Populated by joins
	Job       *ApplicationJob   `json:"job,omitempty"`
	Applicant *ApplicantSummary `json:"applicant,omitempty"`
}

// ApplicationJob summarizes the posting an application targets
type ApplicationJob struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	OwnerID     uuid.UUID `json:"-"`
	CompanyName string    `json:"company_name"`
}

// ApplicantSummary identifies the candidate behind an application
type ApplicantSummary struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ApplicationCreateInput contains the fields for submitting an application
type ApplicationCreateInput struct {
	UserID      uuid.UUID
	JobID       uuid.UUID
	CVID        uuid.UUID
	CoverLetter string
}

// ApplicationUpdate carries a recruiter's review update; nil fields are left unchanged
type ApplicationUpdate struct {
	Status *appstatus.Status
	Notes  *string
}
