package service

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
// Every mutating operation goes through here: begin before any write,
// commit only when fn returns nil, roll back otherwise. No partial
// writes are visible outside a completed commit.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// isNotFound reports whether a repository lookup came back empty.
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
