package model

import (
	"time"
)

// AccessRecord is one entry/exit session of a user at an establishment.
// A record with ExitAt == nil is an open session; a user may hold at most
// one open record at a time (also guarded by a partial unique index).
// Records are created on entry and mutated exactly once, on exit.
type AccessRecord struct {
	ID              int64     `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;index"`
	EstablishmentID uint      `gorm:"not null;index"`
	EntryAt         time.Time `gorm:"not null;index"`
	ExitAt          *time.Time

	User          User          `gorm:"foreignKey:UserID"`
	Establishment Establishment `gorm:"foreignKey:EstablishmentID"`
}

// Open reports whether the session has not been closed yet.
func (r *AccessRecord) Open() bool { return r.ExitAt == nil }
