package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CV templates a candidate can render their CV with
const (
	CVTemplateSimple       = "simple"
	CVTemplateModern       = "modern"
	CVTemplateProfessional = "professional"
)

// CV is a candidate's curriculum vitae. Content is a JSON document whose
// shape is enforced by the cv_content schema before it reaches the database.
type CV struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Title      string          `json:"title"`
	TemplateID string          `json:"template_id"`
	Content    json.RawMessage `json:"content"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CVInput contains the fields for creating or replacing a CV
type CVInput struct {
	UserID     uuid.UUID
	Title      string
	TemplateID string
	Content    json.RawMessage
}
