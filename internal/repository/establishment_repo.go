package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AmpolStack/AccessControlPlatform/internal/model"
)

type EstablishmentRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, e *model.Establishment) error
	CreateTx(tx *gorm.DB, e *model.Establishment) error
	FindByID(ctx context.Context, id uint) (*model.Establishment, error)
	// FindForUpdateTx takes a row-level lock on the establishment inside tx.
	// Every entry registration and opening change locks this row first, so
	// the capacity check and the insert are serialized per establishment.
	FindForUpdateTx(tx *gorm.DB, id uint) (*model.Establishment, error)
	List(ctx context.Context, includeInactive bool) ([]model.Establishment, error)
	Update(ctx context.Context, e *model.Establishment) error
	SetActive(ctx context.Context, id uint, active bool) error
}

type establishmentRepo struct{ db *gorm.DB }

func NewEstablishmentRepository(db *gorm.DB) EstablishmentRepository {
	return &establishmentRepo{db: db}
}

func (r *establishmentRepo) DB() *gorm.DB { return r.db }

func (r *establishmentRepo) Create(ctx context.Context, e *model.Establishment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *establishmentRepo) CreateTx(tx *gorm.DB, e *model.Establishment) error {
	return tx.Create(e).Error
}

func (r *establishmentRepo) FindByID(ctx context.Context, id uint) (*model.Establishment, error) {
	var e model.Establishment
	err := r.db.WithContext(ctx).First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *establishmentRepo) FindForUpdateTx(tx *gorm.DB, id uint) (*model.Establishment, error) {
	var e model.Establishment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *establishmentRepo) List(ctx context.Context, includeInactive bool) ([]model.Establishment, error) {
	var out []model.Establishment
	q := r.db.WithContext(ctx)
	if !includeInactive {
		q = q.Where("active = true")
	}
	err := q.Order("id ASC").Find(&out).Error
	return out, err
}

func (r *establishmentRepo) Update(ctx context.Context, e *model.Establishment) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *establishmentRepo) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Establishment{}).Where("id = ?", id).Update("active", active).Error
}
