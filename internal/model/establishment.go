package model

import (
	"time"
)

// Establishment is a physical venue with an optional occupancy limit.
// MaxCapacity nil means unlimited.
type Establishment struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description *string
	MaxCapacity *int
	Address     *string
	City        *string
	PhoneNumber *string
	Email       *string
	Active      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time

	Users         []User                 `gorm:"foreignKey:EstablishmentID"`
	AccessRecords []AccessRecord         `gorm:"foreignKey:EstablishmentID"`
	Openings      []EstablishmentOpening `gorm:"foreignKey:EstablishmentID"`
}
