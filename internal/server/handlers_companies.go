package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jonathan/job-board/internal/db"
	"github.com/jonathan/job-board/internal/types"
)

const topCompanies = 3

// parseQueryInt parses a positive integer query parameter with default and
// max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := strings.TrimSpace(r.URL.Query().Get(key))
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 1 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// handleListCompanies lists companies, best rated first
func (s *Server) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parseQueryInt(r, "page", 1, 0)
	limit := parseQueryInt(r, "limit", 10, 100)

	companies, total, err := s.store.ListCompanies(r.Context(), db.ListCompaniesOptions{
		Name:     strings.TrimSpace(q.Get("name")),
		Industry: strings.TrimSpace(q.Get("industry")),
		Location: strings.TrimSpace(q.Get("location")),
		Limit:    limit,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":   true,
		"total":     total,
		"page":      page,
		"pages":     (total + limit - 1) / limit,
		"companies": companies,
	})
}

// handleTopCompanies returns the best rated companies
func (s *Server) handleTopCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.store.ListTopCompanies(r.Context(), topCompanies)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, companies)
}

// handleGetCompany retrieves a company with its reviews
func (s *Server) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "id", "company")
	if err != nil {
		writeError(w, r, err)
		return
	}

	company, err := s.store.GetCompanyByID(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if company == nil {
		writeError(w, r, &ErrNotFound{Resource: "company"})
		return
	}

	reviews, err := s.store.ListCompanyReviews(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	company.Reviews = reviews

	s.jsonResponse(w, http.StatusOK, company)
}

// handleMyCompanies lists the recruiter's companies
func (s *Server) handleMyCompanies(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	companies, err := s.store.ListCompaniesByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, companies)
}

func (s *Server) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req types.CreateCompanyRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	company, err := s.store.CreateCompany(r.Context(), &db.CompanyCreateInput{
		UserID:      userID,
		Name:        req.Name,
		Logo:        req.Logo,
		CoverImage:  req.CoverImage,
		Description: req.Description,
		Size:        req.Size,
		Website:     req.Website,
		Industry:    req.Industry,
		Location:    req.Location,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = &ErrConflict{Message: "a company with this name already exists"}
		}
		writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, company)
}

func (s *Server) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	companyID, err := pathID(r, "id", "company")
	if err != nil {
		writeError(w, r, err)
		return
	}

	company, err := s.store.GetCompanyByID(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if company == nil {
		writeError(w, r, &ErrNotFound{Resource: "company"})
		return
	}
	if company.UserID != userID {
		writeError(w, r, &ErrForbidden{Reason: "you may not modify this company"})
		return
	}

	var req types.UpdateCompanyRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateCompany(r.Context(), companyID, &db.CompanyUpdate{
		Name:        req.Name,
		Logo:        req.Logo,
		CoverImage:  req.CoverImage,
		Description: req.Description,
		Size:        req.Size,
		Website:     req.Website,
		Industry:    req.Industry,
		Location:    req.Location,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = &ErrConflict{Message: "a company with this name already exists"}
		}
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, &ErrNotFound{Resource: "company"})
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleAddReview records the caller's review and returns the company with
// its refreshed rating
func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	companyID, err := pathID(r, "id", "company")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req types.CreateReviewRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	company, err := s.store.GetCompanyByID(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if company == nil {
		writeError(w, r, &ErrNotFound{Resource: "company"})
		return
	}

	updated, err := s.store.AddCompanyReview(r.Context(), &db.CompanyReviewInput{
		CompanyID:        companyID,
		UserID:           userID,
		Rating:           req.Rating,
		Title:            req.Title,
		Position:         req.Position,
		EmploymentStatus: req.EmploymentStatus,
		Pros:             req.Pros,
		Cons:             req.Cons,
		Comment:          req.Comment,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = &ErrConflict{Message: "you have already reviewed this company"}
		}
		writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "Review added",
		"company": updated,
	})
}
