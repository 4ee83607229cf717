package types

import "github.com/google/uuid"

// CreateApplicationRequest is the body of POST /api/applications
type CreateApplicationRequest struct {
	JobID       uuid.UUID `json:"job_id" validate:"required"`
	CVID        uuid.UUID `json:"cv_id" validate:"required"`
	CoverLetter string    `json:"cover_letter,omitempty" validate:"omitempty,max=5000"`
}

// Validate validates the CreateApplicationRequest using the validator.
func (r *CreateApplicationRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateApplicationRequest is the body of PUT /api/applications/{id}
type UpdateApplicationRequest struct {
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=pending reviewing interviewed accepted rejected"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=5000"`
}

// Validate validates the UpdateApplicationRequest using the validator.
func (r *UpdateApplicationRequest) Validate() error {
	return validate.Struct(r)
}
