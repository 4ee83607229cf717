package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jonathan/job-board/internal/db"
	"github.com/jonathan/job-board/internal/schemas"
	"github.com/jonathan/job-board/internal/types"
)

func (s *Server) handleListCVs(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cvs, err := s.store.ListCVsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cvs)
}

// handleGetCV returns a CV to its owner or to any recruiter
func (s *Server) handleGetCV(w http.ResponseWriter, r *http.Request) {
	userID, role, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cv, err := s.loadCV(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cv.UserID != userID && role != types.RoleRecruiter {
		writeError(w, r, &ErrForbidden{Reason: "you may not view this CV"})
		return
	}
	s.jsonResponse(w, http.StatusOK, cv)
}

func (s *Server) handleCreateCV(w http.ResponseWriter, r *http.Request) {
	userID, _, err := identity(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	input, err := decodeCV(w, r, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cv, err := s.store.CreateCV(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, cv)
}

func (s *Server) handleUpdateCV(w http.ResponseWriter, r *http.Request) {
	cv, err := s.ownedCV(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	input, err := decodeCV(w, r, cv.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.store.UpdateCV(r.Context(), cv.ID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, &ErrNotFound{Resource: "CV"})
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCV(w http.ResponseWriter, r *http.Request) {
	cv, err := s.ownedCV(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.store.DeleteCV(r.Context(), cv.ID); err != nil {
		writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "CV deleted"})
}

func (s *Server) loadCV(r *http.Request) (*db.CV, error) {
	cvID, err := pathID(r, "id", "CV")
	if err != nil {
		return nil, err
	}
	cv, err := s.store.GetCVByID(r.Context(), cvID)
	if err != nil {
		return nil, err
	}
	if cv == nil {
		return nil, &ErrNotFound{Resource: "CV"}
	}
	return cv, nil
}

func (s *Server) ownedCV(r *http.Request) (*db.CV, error) {
	userID, _, err := identity(r)
	if err != nil {
		return nil, err
	}
	cv, err := s.loadCV(r)
	if err != nil {
		return nil, err
	}
	if cv.UserID != userID {
		return nil, &ErrForbidden{Reason: "you may not modify this CV"}
	}
	return cv, nil
}

// decodeCV reads a CV body and checks its content against the CV schema
func decodeCV(w http.ResponseWriter, r *http.Request, owner uuid.UUID) (*db.CVInput, error) {
	var req types.CVRequest
	if err := decodeRequest(w, r, &req); err != nil {
		return nil, err
	}

	content := req.Content
	if len(content) == 0 || string(content) == "null" {
		content = json.RawMessage(`{}`)
	}
	if err := schemas.ValidateCVContent(content); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			return nil, &ErrValidation{Field: "content", Message: strings.Join(ve.Fields(), "; ")}
		}
		return nil, err
	}

	template := req.TemplateID
	if template == "" {
		template = db.CVTemplateSimple
	}

	return &db.CVInput{
		UserID:     owner,
		Title:      req.Title,
		TemplateID: template,
		Content:    content,
	}, nil
}
