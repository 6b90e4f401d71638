package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/server/middleware"
)

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// ownedCV loads the CV named by the {id} path value and checks that the
// authenticated user owns it. A CV belonging to someone else reads as not
// found. A nil record with a false second return means the response has been
// written already.
func (s *Server) ownedCV(w http.ResponseWriter, r *http.Request) (*db.CVRecord, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}

	cvID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid CV id")
		return nil, false
	}

	record, err := s.store.GetCV(r.Context(), cvID)
	if err != nil {
		log.Printf("Error loading CV %s: %v", cvID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load CV")
		return nil, false
	}
	if record == nil || record.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "CV not found")
		return nil, false
	}
	return record, true
}
