package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/fvs"
	"github.com/jonathan/career-docs/internal/schemas"
	"github.com/jonathan/career-docs/internal/server/middleware"
	"github.com/jonathan/career-docs/internal/types"
)

// cvResponse is the API shape of a stored CV.
type cvResponse struct {
	ID          uuid.UUID       `json:"id"`
	Document    *types.SourceCV `json:"document,omitempty"`
	ContentHash string          `json:"content_hash"`
	CreatedAt   string          `json:"created_at"`
}

// handleUploadCV validates an uploaded source CV against its schema, checks a
// fact baseline can be extracted from it, and stores it.
func (s *Server) handleUploadCV(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		Document json.RawMessage `json:"document"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Document) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "document is required")
		return
	}

	if err := schemas.Validate(schemas.SourceCV, req.Document); err != nil {
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			s.errorResponse(w, http.StatusBadRequest, ve.Error())
			return
		}
		log.Printf("Error validating CV schema: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "schema validation failed")
		return
	}

	var cv types.SourceCV
	if err := json.Unmarshal(req.Document, &cv); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid CV document")
		return
	}

	// Reject documents no baseline can be extracted from; they could never
	// anchor validation later.
	if _, err := fvs.ExtractBaseline(&cv); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	cvID, err := s.store.SaveCV(r.Context(), userID, &cv)
	if err != nil {
		log.Printf("Error saving CV: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to save CV")
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"id": cvID})
}

// handleListCVs lists the authenticated user's CVs without their documents.
func (s *Server) handleListCVs(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := s.store.ListCVs(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing CVs: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list CVs")
		return
	}

	out := make([]cvResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, cvResponse{
			ID:          rec.ID,
			ContentHash: rec.ContentHash,
			CreatedAt:   rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"cvs": out})
}

// handleGetCV returns one stored CV with its document.
func (s *Server) handleGetCV(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedCV(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, cvResponse{
		ID:          record.ID,
		Document:    &record.Document,
		ContentHash: record.ContentHash,
		CreatedAt:   record.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// handleGetBaseline returns the fact baseline extracted from a stored CV.
func (s *Server) handleGetBaseline(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedCV(w, r)
	if !ok {
		return
	}

	baseline, err := fvs.ExtractBaseline(&record.Document)
	if err != nil {
		log.Printf("Error extracting baseline for CV %s: %v", record.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to extract baseline")
		return
	}

	skills := make([]string, 0, len(baseline.VerifiableSkills))
	for skill := range baseline.VerifiableSkills {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"full_name":         baseline.FullName,
		"contact":           baseline.Contact,
		"work_history":      baseline.WorkHistory,
		"education":         baseline.Education,
		"verifiable_skills": skills,
	})
}
