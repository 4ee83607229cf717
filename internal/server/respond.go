package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/job-board/internal/server/middleware"
	"github.com/jonathan/job-board/internal/types"
)

// maxBodyBytes caps request bodies; CV content is the largest payload
const maxBodyBytes = 1 << 20

type validatable interface {
	Validate() error
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// writeError maps err to a status code and writes {"error": ...}. Internal
// errors are logged and reported as "Server error" so causes never leak.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[%s] %s failed: %v", r.Method, r.URL.Path, err)
		writeJSON(w, status, map[string]string{"error": "Server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeRequest decodes a JSON body into req and validates it
func decodeRequest(w http.ResponseWriter, r *http.Request, req validatable) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		return &ErrValidation{Message: "Invalid request body"}
	}
	if err := req.Validate(); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError converts validator errors to ErrValidation, reporting the
// first failing field.
func validationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	var already *ErrValidation
	if errors.As(err, &already) {
		return already
	}
	return &ErrValidation{Message: err.Error()}
}

// pathID parses the named path value as a UUID. A malformed ID cannot name
// an existing resource, so it reports ErrNotFound.
func pathID(r *http.Request, name, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, &ErrNotFound{Resource: resource}
	}
	return id, nil
}

// identity returns the authenticated caller. Routes that call it are
// wrapped in the auth middleware, so a missing identity is an internal error.
func identity(r *http.Request) (uuid.UUID, types.Role, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, "", err
	}
	return userID, middleware.GetRole(r), nil
}
