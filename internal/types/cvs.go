package types

import "encoding/json"

// CVRequest is the body of POST /api/cvs and PUT /api/cvs/{id}. Content is
// checked separately against the CV content schema.
type CVRequest struct {
	Title      string          `json:"title" validate:"required,max=200"`
	TemplateID string          `json:"template_id,omitempty" validate:"omitempty,oneof=simple modern professional"`
	Content    json.RawMessage `json:"content,omitempty"`
}

// Validate validates the CVRequest using the validator.
func (r *CVRequest) Validate() error {
	return validate.Struct(r)
}
