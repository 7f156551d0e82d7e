package model

import (
	"time"
)

// Opening statuses.
const (
	OpeningStatusOpen   = "open"
	OpeningStatusClosed = "closed"
)

// EstablishmentOpening is an operational "open for business" period,
// distinct from a user's access session. At most one opening with
// Status "open" may exist per establishment.
type EstablishmentOpening struct {
	ID              uint      `gorm:"primaryKey"`
	EstablishmentID uint      `gorm:"not null;index"`
	UserID          uint      `gorm:"not null"`
	OpenedAt        time.Time `gorm:"not null"`
	ClosedAt        *time.Time
	Status          string `gorm:"type:varchar(20);not null;default:'open'"`

	Establishment Establishment `gorm:"foreignKey:EstablishmentID"`
	User          User          `gorm:"foreignKey:UserID"`
}
