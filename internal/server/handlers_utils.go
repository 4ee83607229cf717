package server

import (
	"net/http"

	"github.com/jonathan/job-board/internal/catalog"
)

// handleCatalog serves one of the fixed lookup lists used by client forms
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	items, ok := catalog.List(catalog.Kind(r.PathValue("kind")))
	if !ok {
		writeError(w, r, &ErrNotFound{Resource: "list"})
		return
	}
	s.jsonResponse(w, http.StatusOK, items)
}
