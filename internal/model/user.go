package model

import (
	"time"
)

// User roles.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// User is an account affiliated with exactly one establishment.
// Deactivation is soft (Active flag); a hard delete path exists for
// account removal requests.
type User struct {
	ID              uint   `gorm:"primaryKey"`
	Email           string `gorm:"uniqueIndex;not null"`
	PasswordHash    string `gorm:"not null"`
	FullName        string `gorm:"not null"`
	IdentityDocument string `gorm:"uniqueIndex;not null"`
	PhoneNumber     *string
	Role            string `gorm:"type:varchar(20);not null"`
	EstablishmentID uint   `gorm:"not null;index"`
	Active          bool   `gorm:"not null;default:true"`
	// MustChangePassword forces a password rotation on next login
	MustChangePassword bool `gorm:"not null;default:false"`
	CreatedAt          time.Time
	LastLoginAt        *time.Time

	Establishment Establishment  `gorm:"foreignKey:EstablishmentID"`
	AccessRecords []AccessRecord `gorm:"foreignKey:UserID"`
}
