package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CurrentCapacityResponse struct {
	EstablishmentName string `json:"establishment_name"`
	CurrentOccupancy  int    `json:"current_occupancy"`
	// MaxCapacity nil means the establishment is unbounded
	MaxCapacity *int `json:"max_capacity,omitempty"`
}

// AccessHistoryRow is one entry/exit pair in the history listing.
// Closed records report floor((exit - entry) in minutes); open records
// report zero minutes and InProgress=true so callers never see an
// undefined duration.
type AccessHistoryRow struct {
	FullName         string     `json:"full_name"`
	IdentityDocument string     `json:"identity_document"`
	EntryAt          time.Time  `json:"entry_at"`
	ExitAt           *time.Time `json:"exit_at,omitempty"`
	DurationMinutes  int        `json:"duration_minutes"`
	InProgress       bool       `json:"in_progress"`
}

// HourlyAverageRow is the average concurrent occupancy for one
// hour-of-day bucket over the queried date range.
type HourlyAverageRow struct {
	Hour             int             `json:"hour"` // 0–23
	AverageOccupancy decimal.Decimal `json:"average_occupancy"`
}
