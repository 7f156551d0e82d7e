package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/AmpolStack/AccessControlPlatform/internal/model"
)

type AccessRepository interface {
	DB() *gorm.DB
	CreateTx(tx *gorm.DB, rec *model.AccessRecord) error
	// FindOpenByUserTx returns the user's open session regardless of
	// establishment (the one-open-session rule is per user, globally).
	FindOpenByUserTx(tx *gorm.DB, userID uint) (*model.AccessRecord, error)
	// FindOpenByUserAtTx returns the most recent open session of the user
	// at the given establishment.
	FindOpenByUserAtTx(tx *gorm.DB, userID, establishmentID uint) (*model.AccessRecord, error)
	CountOpenByEstablishmentTx(tx *gorm.DB, establishmentID uint) (int64, error)
	SaveTx(tx *gorm.DB, rec *model.AccessRecord) error

	// Read paths for reporting — consistent snapshot reads, no transaction.
	CountOpenByEstablishment(ctx context.Context, establishmentID uint) (int64, error)
	// ListEntriesInRange returns records whose entry falls in [start, end],
	// user preloaded, ordered by entry time.
	ListEntriesInRange(ctx context.Context, establishmentID uint, start, end time.Time) ([]model.AccessRecord, error)
	// ListOverlappingRange returns records whose presence interval
	// intersects [start, end], for occupancy bucketing.
	ListOverlappingRange(ctx context.Context, establishmentID uint, start, end time.Time) ([]model.AccessRecord, error)
}

type accessRepo struct{ db *gorm.DB }

func NewAccessRepository(db *gorm.DB) AccessRepository { return &accessRepo{db: db} }

func (r *accessRepo) DB() *gorm.DB { return r.db }

func (r *accessRepo) CreateTx(tx *gorm.DB, rec *model.AccessRecord) error {
	return tx.Create(rec).Error
}

func (r *accessRepo) FindOpenByUserTx(tx *gorm.DB, userID uint) (*model.AccessRecord, error) {
	var rec model.AccessRecord
	err := tx.Where("user_id = ? AND exit_at IS NULL", userID).First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *accessRepo) FindOpenByUserAtTx(tx *gorm.DB, userID, establishmentID uint) (*model.AccessRecord, error) {
	var rec model.AccessRecord
	err := tx.
		Where("user_id = ? AND establishment_id = ? AND exit_at IS NULL", userID, establishmentID).
		Order("entry_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *accessRepo) CountOpenByEstablishmentTx(tx *gorm.DB, establishmentID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.AccessRecord{}).
		Where("establishment_id = ? AND exit_at IS NULL", establishmentID).
		Count(&count).Error
	return count, err
}

func (r *accessRepo) SaveTx(tx *gorm.DB, rec *model.AccessRecord) error {
	return tx.Save(rec).Error
}

func (r *accessRepo) CountOpenByEstablishment(ctx context.Context, establishmentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.AccessRecord{}).
		Where("establishment_id = ? AND exit_at IS NULL", establishmentID).
		Count(&count).Error
	return count, err
}

func (r *accessRepo) ListEntriesInRange(ctx context.Context, establishmentID uint, start, end time.Time) ([]model.AccessRecord, error) {
	var recs []model.AccessRecord
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("establishment_id = ? AND entry_at BETWEEN ? AND ?", establishmentID, start, end).
		Order("entry_at ASC").
		Find(&recs).Error
	return recs, err
}

func (r *accessRepo) ListOverlappingRange(ctx context.Context, establishmentID uint, start, end time.Time) ([]model.AccessRecord, error) {
	var recs []model.AccessRecord
	err := r.db.WithContext(ctx).
		Where("establishment_id = ? AND entry_at <= ? AND (exit_at IS NULL OR exit_at >= ?)", establishmentID, end, start).
		Order("entry_at ASC").
		Find(&recs).Error
	return recs, err
}
