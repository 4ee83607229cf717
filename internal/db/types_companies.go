package db

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company represents an employer profile owned by a recruiter
type Company struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	Name           string          `json:"name"`
	NameNormalized string          `json:"-"`
	Logo           string          `json:"logo"`
	CoverImage     string          `json:"cover_image"`
	Description    string          `json:"description"`
	Size           string          `json:"size"`
	Website        string          `json:"website"`
	Industry       string          `json:"industry"`
	Location       string          `json:"location"`
	Rating         float64         `json:"rating"`
	ReviewCount    int             `json:"review_count"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Reviews        []CompanyReview `json:"reviews,omitempty"`
}

// CompanyReview is a single employee review of a company
type CompanyReview struct {
	ID               uuid.UUID `json:"id"`
	CompanyID        uuid.UUID `json:"company_id"`
	UserID           uuid.UUID `json:"user_id"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title"`
	Position         string    `json:"position"`
	EmploymentStatus string    `json:"employment_status"`
	Pros             string    `json:"pros"`
	Cons             string    `json:"cons"`
	Comment          string    `json:"comment"`
	CreatedAt        time.Time `json:"created_at"`
}

// CompanyCreateInput contains the fields for creating a company
type CompanyCreateInput struct {
	UserID      uuid.UUID
	Name        string
	Logo        string
	CoverImage  string
	Description string
	Size        string
	Website     string
	Industry    string
	Location    string
}

// CompanyUpdate carries a partial update; nil fields are left unchanged
type CompanyUpdate struct {
	Name        *string
	Logo        *string
	CoverImage  *string
	Description *string
	Size        *string
	Website     *string
	Industry    *string
	Location    *string
}

// CompanyReviewInput contains the fields for reviewing a company
type CompanyReviewInput struct {
	CompanyID        uuid.UUID
	UserID           uuid.UUID
	Rating           int
	Title            string
	Position         string
	EmploymentStatus string
	Pros             string
	Cons             string
	Comment          string
}

// ListCompaniesOptions contains filters for listing companies
type ListCompaniesOptions struct {
	Name     string // case-insensitive substring
	Industry string // exact match
	Location string // case-insensitive substring
	Limit    int
	Offset   int
}

var nonAlphanumeric = regexp.MustCompile(`[^\p{L}\p{N}]`)

// NormalizeName produces the uniqueness key for a company name:
// lowercase with everything but letters and digits removed.
func NormalizeName(name string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "")
}

// AverageRating returns the mean of ratings rounded to one decimal place,
// or 0 when there are none.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}
