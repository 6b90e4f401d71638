package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/server/middleware"
	"github.com/jonathan/career-docs/internal/types"
)

// documentResponse is the API shape of a stored generated document.
type documentResponse struct {
	ID         uuid.UUID         `json:"id"`
	CVID       uuid.UUID         `json:"cv_id"`
	Kind       db.GeneratedKind  `json:"kind"`
	Company    string            `json:"company,omitempty"`
	RoleTitle  string            `json:"role_title,omitempty"`
	Document   json.RawMessage   `json:"document,omitempty"`
	Code       types.Code        `json:"code"`
	Violations []types.Violation `json:"violations,omitempty"`
	CreatedAt  string            `json:"created_at"`
}

func toDocumentResponse(doc *db.GeneratedDocument, includeBody bool) documentResponse {
	resp := documentResponse{
		ID:         doc.ID,
		CVID:       doc.CVID,
		Kind:       doc.Kind,
		Company:    doc.Company,
		RoleTitle:  doc.RoleTitle,
		Code:       doc.Code,
		Violations: doc.Violations,
		CreatedAt:  doc.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if includeBody {
		resp.Document = doc.Document
	}
	return resp
}

// handleListDocuments lists generated documents for a CV, optionally filtered
// by ?kind=tailored_cv|vpr.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedCV(w, r)
	if !ok {
		return
	}

	kind := db.GeneratedKind(r.URL.Query().Get("kind"))
	if kind != "" && kind != db.KindTailoredCV && kind != db.KindVPR {
		s.errorResponse(w, http.StatusBadRequest, "invalid kind")
		return
	}

	docs, err := s.store.ListGeneratedDocuments(r.Context(), record.ID, kind)
	if err != nil {
		log.Printf("Error listing documents for CV %s: %v", record.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for i := range docs {
		out = append(out, toDocumentResponse(&docs[i], false))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"documents": out})
}

// handleGetDocument returns one generated document with its body.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	docID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid document id")
		return
	}

	doc, err := s.store.GetGeneratedDocument(r.Context(), docID)
	if err != nil {
		log.Printf("Error loading document %s: %v", docID, err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to load document")
		return
	}
	if doc == nil || doc.UserID != userID {
		s.errorResponse(w, http.StatusNotFound, "document not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, toDocumentResponse(doc, true))
}
