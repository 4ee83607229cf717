package types

import (
	"errors"

	"github.com/google/uuid"
)

// ErrSalaryRange is returned when a salary's minimum exceeds its maximum
var ErrSalaryRange = errors.New("salary min must not exceed salary max")

// SalaryInput is a posting's pay range as submitted
type SalaryInput struct {
	Min      *int64 `json:"min,omitempty" validate:"omitempty,gte=0"`
	Max      *int64 `json:"max,omitempty" validate:"omitempty,gte=0"`
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
}

func (s *SalaryInput) check() error {
	if s != nil && s.Min != nil && s.Max != nil && *s.Min > *s.Max {
		return ErrSalaryRange
	}
	return nil
}

// CreateJobRequest is the body of POST /api/jobs
type CreateJobRequest struct {
	CompanyID    uuid.UUID    `json:"company_id" validate:"required"`
	Title        string       `json:"title" validate:"required,max=200"`
	Description  string       `json:"description" validate:"required"`
	Requirements string       `json:"requirements"`
	Benefits     string       `json:"benefits"`
	Salary       *SalaryInput `json:"salary,omitempty"`
	Location     string       `json:"location" validate:"required,max=200"`
	Industry     string       `json:"industry" validate:"required,catalog=industries"`
	Level        string       `json:"level,omitempty" validate:"omitempty,catalog=job-levels"`
	Type         string       `json:"type,omitempty" validate:"omitempty,catalog=job-types"`
	Status       string       `json:"status,omitempty" validate:"omitempty,oneof=active draft closed"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return r.Salary.check()
}

// UpdateJobRequest is the body of PUT /api/jobs/{id}. Omitted fields are left
// unchanged; a salary replaces the whole range.
type UpdateJobRequest struct {
	Title        *string      `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  *string      `json:"description,omitempty" validate:"omitempty,min=1"`
	Requirements *string      `json:"requirements,omitempty"`
	Benefits     *string      `json:"benefits,omitempty"`
	Salary       *SalaryInput `json:"salary,omitempty"`
	Location     *string      `json:"location,omitempty" validate:"omitempty,min=1,max=200"`
	Industry     *string      `json:"industry,omitempty" validate:"omitempty,catalog=industries"`
	Level        *string      `json:"level,omitempty" validate:"omitempty,catalog=job-levels"`
	Type         *string      `json:"type,omitempty" validate:"omitempty,catalog=job-types"`
	Status       *string      `json:"status,omitempty" validate:"omitempty,oneof=active draft closed"`
}

// Validate validates the UpdateJobRequest using the validator.
func (r *UpdateJobRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	return r.Salary.check()
}
