package server

import (
	"errors"
	"log"
	"net/http"

	"github.com/jonathan/job-board/internal/catalog"
	"github.com/jonathan/job-board/internal/db"
	"github.com/jonathan/job-board/internal/events"
	"github.com/jonathan/job-board/internal/jobsearch"
	"github.com/jonathan/job-board/internal/types"
)

const (
	highlightedJobs = 4
	similarJobs     = 3
)

// handleSearchJobs serves the public job search
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	filter := jobsearch.ParseQuery(r.URL.Query())

	page, err := s.search.Search(r.Context(), filter)
	if err != nil {
		var re *jobsearch.RetrievalError
		if errors.As(err, &re) {
			log.Printf("[search] %v", re)
		} else {
			log.Printf("[search] unexpected error: %v", err)
		}
		s.jsonResponse(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Server error",
		})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   page.TotalCount,
		"page":    page.Page,
		"pages":   page.TotalPages,
		"jobs":    page.Items,
	})
}

// handleHighlightedJobs returns the newest active postings for the home page
func (s *Server) handleHighlightedJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.search.Latest(r.Context(), highlightedJobs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleGetJob returns a posting and a few similar active postings
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := pathID(r, "id", "job")
	if err != nil {
		writeError(w, r, err)
		return
	}

	job, err := s.store.GetJobPostingByID(r.Context(), jobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if job == nil {
		writeError(w, r, &ErrNotFound{Resource: "job"})
		return
	}

	similar, err := s.search.Similar(r.Context(), job, similarJobs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job":         job,
		"similarJobs": similar,
	})
}

// handleCompanyJobs lists a company's active postings
func (s *Server) handleCompanyJobs(w http.ResponseWriter, r *http.Request) {
	companyID, err := pathID(r, "companyId", "company")
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

	jobs, err := s.search.ByCompany(r.Context(), companyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleMyJobs lists every posting the recruiter created, any status
func (s *Server) handleMyJobs(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	jobs, err := s.store.ListJobPostingsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req types.CreateJobRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	company, err := s.store.GetCompanyByID(r.Context(), req.CompanyID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if company == nil || company.UserID != userID {
		writeError(w, r, &ErrValidation{Field: "company_id", Message: "you may not post jobs for this company"})
		return
	}

	input := &db.JobPostingCreateInput{
		CompanyID:    req.CompanyID,
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Benefits:     req.Benefits,
		Salary:       salaryFromInput(req.Salary),
		Location:     req.Location,
		Industry:     req.Industry,
		Level:        req.Level,
		Type:         req.Type,
		Status:       db.JobStatus(req.Status),
	}
	if input.Type == "" {
		input.Type = catalog.DefaultJobType
	}
	if input.Status == "" {
		input.Status = db.JobStatusActive
	}

	job, err := s.store.CreateJobPosting(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if job.IsActive() {
		events.Emit(r.Context(), s.events, events.JobPosted(job.ID, job.CompanyID, job.Title))
	}
	s.jsonResponse(w, http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.ownedJob(w, r)
	if !ok {
		return
	}

	var req types.UpdateJobRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	upd := &db.JobPostingUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Benefits:     req.Benefits,
		Location:     req.Location,
		Industry:     req.Industry,
		Level:        req.Level,
		Type:         req.Type,
	}
	if req.Salary != nil {
		salary := salaryFromInput(req.Salary)
		upd.Salary = &salary
	}
	if req.Status != nil {
		status := db.JobStatus(*req.Status)
		upd.Status = &status
	}

	updated, err := s.store.UpdateJobPosting(r.Context(), job.ID, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, &ErrNotFound{Resource: "job"})
		return
	}

	// A draft going live counts as a new posting for subscribers
	if !job.IsActive() && updated.IsActive() {
		events.Emit(r.Context(), s.events, events.JobPosted(updated.ID, updated.CompanyID, updated.Title))
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.ownedJob(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteJobPosting(r.Context(), job.ID); err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}

func (s *Server) ownedJob(w http.ResponseWriter, r *http.Request) (*db.JobPosting, bool) {
	return s.ownedJobByPath(w, r, "id")
}

// ownedJobByPath loads the posting named by the given path value and checks
// the caller created it. It writes the error response itself.
func (s *Server) ownedJobByPath(w http.ResponseWriter, r *http.Request, name string) (*db.JobPosting, bool) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}

	jobID, err := pathID(r, name, "job")
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}

	job, err := s.store.GetJobPostingByID(r.Context(), jobID)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	if job == nil {
		writeError(w, r, &ErrNotFound{Resource: "job"})
		return nil, false
	}
	if job.UserID != userID {
		writeError(w, r, &ErrForbidden{Reason: "you may not modify this job"})
		return nil, false
	}
	return job, true
}

// salaryFromInput converts a submitted salary, defaulting the currency
func salaryFromInput(in *types.SalaryInput) db.Salary {
	salary := db.Salary{Currency: db.DefaultSalaryCurrency}
	if in == nil {
		return salary
	}
	salary.Min, salary.Max = in.Min, in.Max
	if in.Currency != "" {
		salary.Currency = in.Currency
	}
	return salary
}
