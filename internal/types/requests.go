package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is shared by all request Validate methods; validator instances are
// safe for concurrent use and cache struct metadata.
var validate = validator.New()

// RegisterRequest represents the request to create a new user account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User represents a user account for API responses.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginResponse carries the authenticated user and a signed JWT.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UploadCVRequest represents a source CV upload. The document itself is
// validated against the source CV JSON schema before parsing.
type UploadCVRequest struct {
	Document SourceCV `json:"document" validate:"required"`
}

// TailorRequest asks the system to tailor a stored source CV to a job posting.
type TailorRequest struct {
	CVID       string `json:"cv_id" validate:"required,uuid"`
	JobPosting string `json:"job_posting" validate:"required,min=1"`
	Company    string `json:"company,omitempty"`
	RoleTitle  string `json:"role_title,omitempty"`
}

// VPRRequest asks the system to generate a Value Proposition Report for a
// stored source CV against a target company.
type VPRRequest struct {
	CVID       string `json:"cv_id" validate:"required,uuid"`
	Company    string `json:"company" validate:"required,min=1"`
	RoleTitle  string `json:"role_title" validate:"required,min=1"`
	JobPosting string `json:"job_posting,omitempty"`
	CompanyURL string `json:"company_url,omitempty"`
}

// Validate validates the RegisterRequest.
func (r *RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TailorRequest.
func (r *TailorRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the VPRRequest.
func (r *VPRRequest) Validate() error {
	return validate.Struct(r)
}
