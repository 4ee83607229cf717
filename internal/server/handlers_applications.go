package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/job-board/internal/appstatus"
	"github.com/jonathan/job-board/internal/db"
	"github.com/jonathan/job-board/internal/events"
	"github.com/jonathan/job-board/internal/types"
)

// handleListApplications lists a candidate's own applications, or for a
// recruiter the applications to their postings
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, role, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var apps []db.Application
	switch role {
	case types.RoleCandidate:
		apps, err = s.store.ListApplicationsByUser(r.Context(), userID)
	case types.RoleRecruiter:
		apps, err = s.store.ListApplicationsByRecruiter(r.Context(), userID)
	default:
		err = &ErrForbidden{}
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

// handleGetApplication shows an application to its applicant or to the
// recruiter who owns the posting
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	app, err := s.loadApplication(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if app.UserID != userID && jobOwner(app) != userID.String() {
		writeError(w, r, &ErrForbidden{Reason: "you may not view this application"})
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

func (s *Server) handleJobApplications(w http.ResponseWriter, r *http.Request) {
	job, ok := s.ownedJobByPath(w, r, "jobId")
	if !ok {
		return
	}

	apps, err := s.store.ListApplicationsByJob(r.Context(), job.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, apps)
}

func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req types.CreateApplicationRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := s.store.GetJobPostingByID(r.Context(), req.JobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if job == nil {
		writeError(w, r, &ErrNotFound{Resource: "job"})
		return
	}
	if !job.IsActive() {
		writeError(w, r, &ErrValidation{Field: "job_id", Message: "job is not accepting applications"})
		return
	}

	cv, err := s.store.GetCVByID(r.Context(), req.CVID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cv == nil || cv.UserID != userID {
		writeError(w, r, &ErrValidation{Field: "cv_id", Message: "invalid CV"})
		return
	}

	exists, err := s.store.ApplicationExists(r.Context(), userID, job.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if exists {
		writeError(w, r, &ErrConflict{Message: "you have already applied to this job"})
		return
	}

	app, err := s.store.CreateApplication(r.Context(), &db.ApplicationCreateInput{
		UserID:      userID,
		JobID:       job.ID,
		CVID:        cv.ID,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			err = &ErrConflict{Message: "you have already applied to this job"}
		}
		writeError(w, r, err)
		return
	}

	events.Emit(r.Context(), s.events, events.ApplicationCreated(app.ID, app.JobID, app.UserID))
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"success":     true,
		"message":     "Application submitted",
		"application": app,
	})
}

// handleUpdateApplication lets the posting's recruiter move an application
// through the review workflow and keep notes on it
func (s *Server) handleUpdateApplication(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	app, err := s.loadApplication(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if jobOwner(app) != userID.String() {
		writeError(w, r, &ErrForbidden{Reason: "you may not update this application"})
		return
	}

	var req types.UpdateApplicationRequest
	if err := decodeRequest(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	upd := &db.ApplicationUpdate{Notes: req.Notes}
	if req.Status != nil {
		next, err := appstatus.Parse(*req.Status)
		if err != nil {
			writeError(w, r, &ErrValidation{Field: "status", Message: err.Error()})
			return
		}
		if !appstatus.CanTransition(app.Status, next) {
			writeError(w, r, &ErrInvalidTransition{From: string(app.Status), To: string(next)})
			return
		}
		upd.Status = &next
	}

	updated, err := s.store.UpdateApplication(r.Context(), app.ID, upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, &ErrNotFound{Resource: "application"})
		return
	}

	if updated.Status != app.Status {
		events.Emit(r.Context(), s.events,
			events.ApplicationStatusChanged(updated.ID, string(app.Status), string(updated.Status)))
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteApplication withdraws the caller's application
func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	app, err := s.loadApplication(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if app.UserID != userID {
		writeError(w, r, &ErrForbidden{Reason: "you may not withdraw this application"})
		return
	}

	if err := s.store.DeleteApplication(r.Context(), app.ID); err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Application withdrawn"})
}

func (s *Server) loadApplication(r *http.Request) (*db.Application, error) {
	appID, err := pathID(r, "id", "application")
	if err != nil {
		return nil, err
	}
	app, err := s.store.GetApplicationByID(r.Context(), appID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, &ErrNotFound{Resource: "application"}
	}
	return app, nil
}

// jobOwner returns the ID of the recruiter who owns the application's
// posting, or "" when the posting was not joined
func jobOwner(app *db.Application) string {
	if app.Job == nil {
		return ""
	}
	return app.Job.OwnerID.String()
}
