package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/career-docs/internal/types"
)

// ContentHash computes the hex SHA-256 of a source CV's canonical JSON form.
// Baseline caches key on this hash so a re-uploaded CV invalidates naturally.
func ContentHash(cv *types.SourceCV) (string, error) {
	data, err := json.Marshal(cv)
	if err != nil {
		return "", fmt.Errorf("failed to marshal CV for hashing: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// SaveCV stores a source CV for a user and returns its ID.
func (db *DB) SaveCV(ctx context.Context, userID uuid.UUID, cv *types.SourceCV) (uuid.UUID, error) {
	document, err := json.Marshal(cv)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal CV: %w", err)
	}
	hash, err := ContentHash(cv)
	if err != nil {
		return uuid.Nil, err
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO source_cvs (user_id, document, content_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		userID, document, hash,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save CV: %w", err)
	}
	return id, nil
}

// GetCV retrieves a source CV by ID. Returns nil when not found.
func (db *DB) GetCV(ctx context.Context, id uuid.UUID) (*CVRecord, error) {
	record := &CVRecord{}
	var document []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, document, content_hash, created_at
		 FROM source_cvs WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.UserID, &document, &record.ContentHash, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get CV: %w", err)
	}

	if err := json.Unmarshal(document, &record.Document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal CV document: %w", err)
	}
	return record, nil
}

// ListCVs returns all source CVs for a user, newest first.
func (db *DB) ListCVs(ctx context.Context, userID uuid.UUID) ([]CVRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, document, content_hash, created_at
		 FROM source_cvs WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list CVs: %w", err)
	}
	defer rows.Close()

	var records []CVRecord
	for rows.Next() {
		var record CVRecord
		var document []byte
		if err := rows.Scan(&record.ID, &record.UserID, &document, &record.ContentHash, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan CV row: %w", err)
		}
		if err := json.Unmarshal(document, &record.Document); err != nil {
			return nil, fmt.Errorf("failed to unmarshal CV document: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read CV rows: %w", err)
	}
	return records, nil
}
