package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-docs/internal/types"
)

// SaveGeneratedDocument stores a generation output with its verification
// verdict and returns the new document ID. Callers only persist documents that
// passed the FVS gate; the verdict (code and any warning-tier violations) is
// kept for audit.
func (db *DB) SaveGeneratedDocument(ctx context.Context, doc *GeneratedDocument) (uuid.UUID, error) {
	violations, err := json.Marshal(doc.Violations)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal violations: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO generated_documents (cv_id, user_id, kind, company, role_title, document, code, violations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		doc.CVID, doc.UserID, doc.Kind, doc.Company, doc.RoleTitle, doc.Document, doc.Code, violations,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save generated document: %w", err)
	}
	return id, nil
}

// GetGeneratedDocument retrieves a generated document by ID. Returns nil when
// not found.
func (db *DB) GetGeneratedDocument(ctx context.Context, id uuid.UUID) (*GeneratedDocument, error) {
	doc := &GeneratedDocument{}
	var violations []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, cv_id, user_id, kind, company, role_title, document, code, violations, created_at
		 FROM generated_documents WHERE id = $1`,
		id,
	).Scan(&doc.ID, &doc.CVID, &doc.UserID, &doc.Kind, &doc.Company, &doc.RoleTitle,
		&doc.Document, &doc.Code, &violations, &doc.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get generated document: %w", err)
	}

	if len(violations) > 0 {
		if err := json.Unmarshal(violations, &doc.Violations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal violations: %w", err)
		}
	}
	return doc, nil
}

// ListGeneratedDocuments returns generated documents for a CV, newest first,
// optionally filtered by kind.
func (db *DB) ListGeneratedDocuments(ctx context.Context, cvID uuid.UUID, kind GeneratedKind) ([]GeneratedDocument, error) {
	query := `SELECT id, cv_id, user_id, kind, company, role_title, document, code, violations, created_at
		 FROM generated_documents WHERE cv_id = $1`
	args := []any{cvID}
	if kind != "" {
		query += ` AND kind = $2`
		args = append(args, kind)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list generated documents: %w", err)
	}
	defer rows.Close()

	var docs []GeneratedDocument
	for rows.Next() {
		var doc GeneratedDocument
		var violations []byte
		if err := rows.Scan(&doc.ID, &doc.CVID, &doc.UserID, &doc.Kind, &doc.Company, &doc.RoleTitle,
			&doc.Document, &doc.Code, &violations, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generated document row: %w", err)
		}
		if len(violations) > 0 {
			if err := json.Unmarshal(violations, &doc.Violations); err != nil {
				return nil, fmt.Errorf("failed to unmarshal violations: %w", err)
			}
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read generated document rows: %w", err)
	}
	return docs, nil
}

// SaveValidationAudit records one fact-verification call, including rejected
// documents that were never persisted.
func (db *DB) SaveValidationAudit(ctx context.Context, cvID uuid.UUID, kind GeneratedKind, code types.Code, violations []types.Violation) error {
	data, err := json.Marshal(violations)
	if err != nil {
		return fmt.Errorf("failed to marshal violations: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO validation_audits (cv_id, kind, code, violations)
		 VALUES ($1, $2, $3, $4)`,
		cvID, kind, code, data,
	)
	if err != nil {
		return fmt.Errorf("failed to save validation audit: %w", err)
	}
	return nil
}
