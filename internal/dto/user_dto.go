package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	Email            string  `json:"email"             validate:"required,email"`
	Password         string  `json:"password"          validate:"required,min=8"`
	FullName         string  `json:"full_name"         validate:"required,min=2"`
	IdentityDocument string  `json:"identity_document" validate:"required,min=4"`
	PhoneNumber      *string `json:"phone_number"`
	Role             string  `json:"role"              validate:"required,oneof=admin manager employee"`
	EstablishmentID  uint    `json:"establishment_id"  validate:"required,min=1"`
}

// UpdateUserRequest applies field-level changes; zero values are skipped.
type UpdateUserRequest struct {
	Email            string  `json:"email"             validate:"omitempty,email"`
	FullName         string  `json:"full_name"         validate:"omitempty,min=2"`
	IdentityDocument string  `json:"identity_document" validate:"omitempty,min=4"`
	PhoneNumber      *string `json:"phone_number"`
	Role             string  `json:"role"              validate:"omitempty,oneof=admin manager employee"`
	EstablishmentID  *uint   `json:"establishment_id"`
	Password         string  `json:"password"          validate:"omitempty,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID                 uint       `json:"id"`
	Email              string     `json:"email"`
	FullName           string     `json:"full_name"`
	IdentityDocument   string     `json:"identity_document"`
	PhoneNumber        *string    `json:"phone_number,omitempty"`
	Role               string     `json:"role"`
	EstablishmentID    uint       `json:"establishment_id"`
	Active             bool       `json:"active"`
	MustChangePassword bool       `json:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`

	// Populated on login from the affiliated establishment
	EstablishmentName string `json:"establishment_name,omitempty"`
	MaxCapacity       *int   `json:"max_capacity,omitempty"`
}
