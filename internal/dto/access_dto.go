package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegisterEntryRequest struct {
	UserID          uint `json:"user_id"          validate:"required,min=1"`
	EstablishmentID uint `json:"establishment_id" validate:"required,min=1"`
}

// EntryByDocumentRequest is the terminal check-in path: front-desk scanners
// identify visitors by identity document, not account id.
type EntryByDocumentRequest struct {
	IdentityDocument string `json:"identity_document" validate:"required,min=4"`
	EstablishmentID  uint   `json:"establishment_id"  validate:"required,min=1"`
}

type RegisterExitRequest struct {
	UserID          uint `json:"user_id"          validate:"required,min=1"`
	EstablishmentID uint `json:"establishment_id" validate:"required,min=1"`
}
