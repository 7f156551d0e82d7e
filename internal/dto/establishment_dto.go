package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// AdminUserSpec describes the administrator account optionally created
// together with a new establishment, in the same transaction.
type AdminUserSpec struct {
	Email            string  `json:"email"             validate:"required,email"`
	Password         string  `json:"password"          validate:"required,min=8"`
	FullName         string  `json:"full_name"         validate:"required,min=2"`
	IdentityDocument string  `json:"identity_document" validate:"required,min=4"`
	PhoneNumber      *string `json:"phone_number"`
}

type CreateEstablishmentRequest struct {
	Name        string  `json:"name"         validate:"required,min=2"`
	Description *string `json:"description"`
	MaxCapacity *int    `json:"max_capacity" validate:"omitempty,min=1"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"        validate:"omitempty,email"`

	// Admin, when present, is created atomically with the establishment.
	Admin *AdminUserSpec `json:"admin" validate:"omitempty"`
}

// UpdateEstablishmentRequest applies field-level changes; nil/zero values
// are skipped. Update never runs through the create path.
type UpdateEstablishmentRequest struct {
	Name        string  `json:"name"         validate:"omitempty,min=2"`
	Description *string `json:"description"`
	MaxCapacity *int    `json:"max_capacity" validate:"omitempty,min=1"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	PhoneNumber *string `json:"phone_number"`
	Email       *string `json:"email"        validate:"omitempty,email"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EstablishmentResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	MaxCapacity *int      `json:"max_capacity,omitempty"`
	Address     *string   `json:"address,omitempty"`
	City        *string   `json:"city,omitempty"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Email       *string   `json:"email,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`

	// AdminUserID is set when an admin account was created with the establishment.
	AdminUserID *uint `json:"admin_user_id,omitempty"`
}

type OpeningResponse struct {
	ID              uint       `json:"id"`
	EstablishmentID uint       `json:"establishment_id"`
	UserID          uint       `json:"user_id"`
	OpenedAt        time.Time  `json:"opened_at"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
	Status          string     `json:"status"`
}
