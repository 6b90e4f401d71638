package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-docs/internal/types"
)

// UserRecord is a stored user account.
type UserRecord struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ToAPI converts a stored user to its API representation.
func (u *UserRecord) ToAPI() *types.User {
	return &types.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// CVRecord is a stored source CV. ContentHash is the hex SHA-256 of the
// canonical JSON document; baseline caching keys on it so a re-uploaded CV
// never serves a stale baseline.
type CVRecord struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Document    types.SourceCV
	ContentHash string
	CreatedAt   time.Time
}

// GeneratedKind distinguishes stored generated documents.
type GeneratedKind string

// Generated document kinds.
const (
	KindTailoredCV GeneratedKind = "tailored_cv"
	KindVPR        GeneratedKind = "vpr"
)

// GeneratedDocument is a stored generation output together with its fact
// verification verdict. Only documents free of critical violations are
// persisted; the verdict is kept for audit.
type GeneratedDocument struct {
	ID         uuid.UUID
	CVID       uuid.UUID
	UserID     uuid.UUID
	Kind       GeneratedKind
	Company    string
	RoleTitle  string
	Document   []byte // JSON of the tailored CV or VPR
	Code       types.Code
	Violations []types.Violation
	CreatedAt  time.Time
}

// ValidationAudit records one fact-verification call for diagnostics, whether
// or not the document was persisted.
type ValidationAudit struct {
	ID         uuid.UUID
	CVID       uuid.UUID
	Kind       GeneratedKind
	Code       types.Code
	Violations []types.Violation
	CreatedAt  time.Time
}
