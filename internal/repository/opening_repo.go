package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AmpolStack/AccessControlPlatform/internal/model"
)

type OpeningRepository interface {
	DB() *gorm.DB
	CreateTx(tx *gorm.DB, o *model.EstablishmentOpening) error
	FindOpenByEstablishmentTx(tx *gorm.DB, establishmentID uint) (*model.EstablishmentOpening, error)
	SaveTx(tx *gorm.DB, o *model.EstablishmentOpening) error
	ListByEstablishment(ctx context.Context, establishmentID uint) ([]model.EstablishmentOpening, error)
}

type openingRepo struct{ db *gorm.DB }

func NewOpeningRepository(db *gorm.DB) OpeningRepository { return &openingRepo{db: db} }

func (r *openingRepo) DB() *gorm.DB { return r.db }

func (r *openingRepo) CreateTx(tx *gorm.DB, o *model.EstablishmentOpening) error {
	return tx.Create(o).Error
}

func (r *openingRepo) FindOpenByEstablishmentTx(tx *gorm.DB, establishmentID uint) (*model.EstablishmentOpening, error) {
	var o model.EstablishmentOpening
	err := tx.
		Where("establishment_id = ? AND closed_at IS NULL", establishmentID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *openingRepo) SaveTx(tx *gorm.DB, o *model.EstablishmentOpening) error {
	return tx.Save(o).Error
}

func (r *openingRepo) ListByEstablishment(ctx context.Context, establishmentID uint) ([]model.EstablishmentOpening, error) {
	var out []model.EstablishmentOpening
	err := r.db.WithContext(ctx).
		Where("establishment_id = ?", establishmentID).
		Order("opened_at DESC").
		Find(&out).Error
	return out, err
}
