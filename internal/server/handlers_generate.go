package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/generator"
	"github.com/jonathan/career-docs/internal/types"
)

// generationResponse is the API shape for accepted generated documents.
// Violations are included only on success, where they are at most warnings.
type generationResponse struct {
	Success    bool              `json:"success"`
	Code       types.Code        `json:"code"`
	DocumentID string            `json:"document_id,omitempty"`
	Document   any               `json:"document,omitempty"`
	Violations []types.Violation `json:"violations,omitempty"`
}

// handleTailor generates a tailored CV gated by fact verification.
func (s *Server) handleTailor(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedCV(w, r)
	if !ok {
		return
	}

	var req types.TailorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CVID = record.ID.String()
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	res := s.generator.TailorCV(r.Context(), &record.Document, req.JobPosting)
	s.auditGeneration(r, record, db.KindTailoredCV, res.Code, validationOf(res.Data))

	if !res.Success {
		if res.Code.IsRejection() {
			s.errorResponse(w, StatusForCode(res.Code), rejectionMessage)
		} else {
			s.errorResponse(w, StatusForCode(res.Code), res.Error)
		}
		return
	}

	docID := s.persistDocument(r, record, db.KindTailoredCV, req.Company, req.RoleTitle, res.Data.Document, res.Code, res.Data.Validation.Violations)
	s.jsonResponse(w, http.StatusOK, generationResponse{
		Success:    true,
		Code:       res.Code,
		DocumentID: docID,
		Document:   res.Data.Document,
		Violations: res.Data.Validation.Violations,
	})
}

// handleVPR generates a Value Proposition Report gated by fact verification.
func (s *Server) handleVPR(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedCV(w, r)
	if !ok {
		return
	}

	var req types.VPRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.CVID = record.ID.String()
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	input := generator.VPRInput{
		Company:    req.Company,
		RoleTitle:  req.RoleTitle,
		JobPosting: req.JobPosting,
	}
	if req.CompanyURL != "" && s.researcher != nil {
		context, err := s.researcher(r.Context(), req.Company, []string{req.CompanyURL})
		if err != nil {
			// Research is best effort; generation proceeds without it.
			log.Printf("Company research failed for %s: %v", req.Company, err)
		} else {
			input.CompanyContext = context
		}
	}

	res := s.generator.GenerateVPR(r.Context(), &record.Document, input)
	s.auditGeneration(r, record, db.KindVPR, res.Code, validationOf(res.Data))

	if !res.Success {
		if res.Code.IsRejection() {
			s.errorResponse(w, StatusForCode(res.Code), rejectionMessage)
		} else {
			s.errorResponse(w, StatusForCode(res.Code), res.Error)
		}
		return
	}

	docID := s.persistDocument(r, record, db.KindVPR, req.Company, req.RoleTitle, res.Data.Document, res.Code, res.Data.Validation.Violations)
	s.jsonResponse(w, http.StatusOK, generationResponse{
		Success:    true,
		Code:       res.Code,
		DocumentID: docID,
		Document:   res.Data.Document,
		Violations: res.Data.Validation.Violations,
	})
}

// handleGapQuestions generates gap-analysis questions for a CV against a job
// posting.
func (s *Server) handleGapQuestions(w http.ResponseWriter, r *http.Request) {
	record, ok := s.ownedCV(w, r)
	if !ok {
		return
	}

	var req struct {
		JobPosting string `json:"job_posting"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.JobPosting == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_posting is required")
		return
	}

	res := s.generator.GenerateGapQuestions(r.Context(), &record.Document, req.JobPosting)
	if !res.Success {
		s.errorResponse(w, StatusForCode(res.Code), res.Error)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"questions": res.Data})
}

// validationOf extracts the validation result from a generation outcome,
// tolerating nil on both levels.
func validationOf(data any) *types.ValidationResult {
	switch d := data.(type) {
	case *generator.TailorOutcome:
		if d != nil {
			return d.Validation
		}
	case *generator.VPROutcome:
		if d != nil {
			return d.Validation
		}
	}
	return nil
}

// auditGeneration records the verification verdict regardless of outcome.
func (s *Server) auditGeneration(r *http.Request, record *db.CVRecord, kind db.GeneratedKind, code types.Code, validation *types.ValidationResult) {
	var violations []types.Violation
	if validation != nil {
		violations = validation.Violations
	}
	if err := s.store.SaveValidationAudit(r.Context(), record.ID, kind, code, violations); err != nil {
		log.Printf("Error saving validation audit for CV %s: %v", record.ID, err)
	}
}

// persistDocument stores an accepted generated document, returning its ID or
// empty string when persistence fails. A storage failure does not fail the
// request; the caller already holds the document.
func (s *Server) persistDocument(r *http.Request, record *db.CVRecord, kind db.GeneratedKind, company, roleTitle string, document any, code types.Code, violations []types.Violation) string {
	payload, err := json.Marshal(document)
	if err != nil {
		log.Printf("Error encoding generated document: %v", err)
		return ""
	}
	id, err := s.store.SaveGeneratedDocument(r.Context(), &db.GeneratedDocument{
		CVID:       record.ID,
		UserID:     record.UserID,
		Kind:       kind,
		Company:    company,
		RoleTitle:  roleTitle,
		Document:   payload,
		Code:       code,
		Violations: violations,
	})
	if err != nil {
		log.Printf("Error saving generated document: %v", err)
		return ""
	}
	return id.String()
}
