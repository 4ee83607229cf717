package types

// CreateCompanyRequest is the body of POST /api/companies. Logo and cover
// image are URLs.
type CreateCompanyRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Logo        string `json:"logo,omitempty" validate:"omitempty,url"`
	CoverImage  string `json:"cover_image,omitempty" validate:"omitempty,url"`
	Description string `json:"description,omitempty"`
	Size        string `json:"size,omitempty" validate:"omitempty,catalog=company-sizes"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Industry    string `json:"industry,omitempty" validate:"omitempty,catalog=industries"`
	Location    string `json:"location,omitempty" validate:"omitempty,max=200"`
}

// Validate validates the CreateCompanyRequest using the validator.
func (r *CreateCompanyRequest) Validate() error {
	return validate.Struct(r)
}

// UpdateCompanyRequest is the body of PUT /api/companies/{id}
type UpdateCompanyRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Logo        *string `json:"logo,omitempty" validate:"omitempty,url"`
	CoverImage  *string `json:"cover_image,omitempty" validate:"omitempty,url"`
	Description *string `json:"description,omitempty"`
	Size        *string `json:"size,omitempty" validate:"omitempty,catalog=company-sizes"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
	Industry    *string `json:"industry,omitempty" validate:"omitempty,catalog=industries"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=200"`
}

// Validate validates the UpdateCompanyRequest using the validator.
func (r *UpdateCompanyRequest) Validate() error {
	return validate.Struct(r)
}

// CreateReviewRequest is the body of POST /api/companies/{id}/reviews
type CreateReviewRequest struct {
	Rating           int    `json:"rating" validate:"required,min=1,max=5"`
	Title            string `json:"title,omitempty" validate:"omitempty,max=200"`
	Position         string `json:"position,omitempty" validate:"omitempty,max=200"`
	EmploymentStatus string `json:"employment_status,omitempty" validate:"omitempty,oneof=current former"`
	Pros             string `json:"pros,omitempty"`
	Cons             string `json:"cons,omitempty"`
	Comment          string `json:"comment,omitempty"`
}

// Validate validates the CreateReviewRequest using the validator.
func (r *CreateReviewRequest) Validate() error {
	return validate.Struct(r)
}
