package service

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/AmpolStack/AccessControlPlatform/internal/model"
)

// ── In-memory repositories ───────────────────────────────────────────────────
// DB() returns nil so runTx runs callbacks directly, no database needed.

type memUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (r *memUserRepo) DB() *gorm.DB { return nil }

func (r *memUserRepo) add(u *model.User) *model.User {
	if u.ID == 0 {
		u.ID = r.nextID
		r.nextID++
	}
	u.CreatedAt = time.Now()
	r.users[u.ID] = u
	return u
}

func (r *memUserRepo) Create(_ context.Context, u *model.User) error {
	r.add(u)
	return nil
}

func (r *memUserRepo) CreateTx(_ *gorm.DB, u *model.User) error {
	r.add(u)
	return nil
}

func (r *memUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindActiveByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) FindActiveByDocument(_ context.Context, document string) (*model.User, error) {
	for _, u := range r.users {
		if u.IdentityDocument == document && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUserRepo) ExistsByEmail(_ context.Context, email string, excludeID uint) (bool, error) {
	for _, u := range r.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) ExistsByDocument(_ context.Context, document string, excludeID uint) (bool, error) {
	for _, u := range r.users {
		if u.ID != excludeID && u.IdentityDocument == document {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUserRepo) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) SoftDelete(_ context.Context, id uint) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *memUserRepo) Reactivate(_ context.Context, id uint) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

func (r *memUserRepo) HardDelete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memEstablishmentRepo struct {
	estabs map[uint]*model.Establishment
	nextID uint
}

func newMemEstablishmentRepo() *memEstablishmentRepo {
	return &memEstablishmentRepo{estabs: make(map[uint]*model.Establishment), nextID: 1}
}

func (r *memEstablishmentRepo) DB() *gorm.DB { return nil }

func (r *memEstablishmentRepo) add(e *model.Establishment) *model.Establishment {
	if e.ID == 0 {
		e.ID = r.nextID
		r.nextID++
	}
	e.CreatedAt = time.Now()
	r.estabs[e.ID] = e
	return e
}

func (r *memEstablishmentRepo) Create(_ context.Context, e *model.Establishment) error {
	r.add(e)
	return nil
}

func (r *memEstablishmentRepo) CreateTx(_ *gorm.DB, e *model.Establishment) error {
	r.add(e)
	return nil
}

func (r *memEstablishmentRepo) FindByID(_ context.Context, id uint) (*model.Establishment, error) {
	e, ok := r.estabs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *memEstablishmentRepo) FindForUpdateTx(_ *gorm.DB, id uint) (*model.Establishment, error) {
	e, ok := r.estabs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *memEstablishmentRepo) List(_ context.Context, includeInactive bool) ([]model.Establishment, error) {
	var out []model.Establishment
	for _, e := range r.estabs {
		if includeInactive || e.Active {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *memEstablishmentRepo) Update(_ context.Context, e *model.Establishment) error {
	r.estabs[e.ID] = e
	return nil
}

func (r *memEstablishmentRepo) SetActive(_ context.Context, id uint, active bool) error {
	if e, ok := r.estabs[id]; ok {
		e.Active = active
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memAccessRepo struct {
	records []*model.AccessRecord
	users   *memUserRepo
	nextID  int64
}

func newMemAccessRepo(users *memUserRepo) *memAccessRepo {
	return &memAccessRepo{users: users, nextID: 1}
}

func (r *memAccessRepo) DB() *gorm.DB { return nil }

func (r *memAccessRepo) CreateTx(_ *gorm.DB, rec *model.AccessRecord) error {
	rec.ID = r.nextID
	r.nextID++
	r.records = append(r.records, rec)
	return nil
}

func (r *memAccessRepo) FindOpenByUserTx(_ *gorm.DB, userID uint) (*model.AccessRecord, error) {
	for _, rec := range r.records {
		if rec.UserID == userID && rec.Open() {
			return rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAccessRepo) FindOpenByUserAtTx(_ *gorm.DB, userID, establishmentID uint) (*model.AccessRecord, error) {
	var latest *model.AccessRecord
	for _, rec := range r.records {
		if rec.UserID == userID && rec.EstablishmentID == establishmentID && rec.Open() {
			if latest == nil || rec.EntryAt.After(latest.EntryAt) {
				latest = rec
			}
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (r *memAccessRepo) CountOpenByEstablishmentTx(_ *gorm.DB, establishmentID uint) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if rec.EstablishmentID == establishmentID && rec.Open() {
			n++
		}
	}
	return n, nil
}

func (r *memAccessRepo) SaveTx(_ *gorm.DB, rec *model.AccessRecord) error {
	for i, existing := range r.records {
		if existing.ID == rec.ID {
			r.records[i] = rec
			return nil
		}
	}
	r.records = append(r.records, rec)
	return nil
}

func (r *memAccessRepo) CountOpenByEstablishment(_ context.Context, establishmentID uint) (int64, error) {
	return r.CountOpenByEstablishmentTx(nil, establishmentID)
}

func (r *memAccessRepo) ListEntriesInRange(_ context.Context, establishmentID uint, start, end time.Time) ([]model.AccessRecord, error) {
	var out []model.AccessRecord
	for _, rec := range r.records {
		if rec.EstablishmentID != establishmentID {
			continue
		}
		if rec.EntryAt.Before(start) || rec.EntryAt.After(end) {
			continue
		}
		copied := *rec
		if r.users != nil {
			if u, ok := r.users.users[rec.UserID]; ok {
				copied.User = *u
			}
		}
		out = append(out, copied)
	}
	return out, nil
}

func (r *memAccessRepo) ListOverlappingRange(_ context.Context, establishmentID uint, start, end time.Time) ([]model.AccessRecord, error) {
	var out []model.AccessRecord
	for _, rec := range r.records {
		if rec.EstablishmentID != establishmentID {
			continue
		}
		if rec.EntryAt.After(end) {
			continue
		}
		if rec.ExitAt != nil && rec.ExitAt.Before(start) {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

// ─────────────────────────────────────────────────────────────────────────────

type memOpeningRepo struct {
	openings []*model.EstablishmentOpening
	nextID   uint
}

func newMemOpeningRepo() *memOpeningRepo { return &memOpeningRepo{nextID: 1} }

func (r *memOpeningRepo) DB() *gorm.DB { return nil }

func (r *memOpeningRepo) CreateTx(_ *gorm.DB, o *model.EstablishmentOpening) error {
	o.ID = r.nextID
	r.nextID++
	r.openings = append(r.openings, o)
	return nil
}

func (r *memOpeningRepo) FindOpenByEstablishmentTx(_ *gorm.DB, establishmentID uint) (*model.EstablishmentOpening, error) {
	for _, o := range r.openings {
		if o.EstablishmentID == establishmentID && o.ClosedAt == nil {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memOpeningRepo) SaveTx(_ *gorm.DB, o *model.EstablishmentOpening) error {
	for i, existing := range r.openings {
		if existing.ID == o.ID {
			r.openings[i] = o
			return nil
		}
	}
	r.openings = append(r.openings, o)
	return nil
}

func (r *memOpeningRepo) ListByEstablishment(_ context.Context, establishmentID uint) ([]model.EstablishmentOpening, error) {
	var out []model.EstablishmentOpening
	for _, o := range r.openings {
		if o.EstablishmentID == establishmentID {
			out = append(out, *o)
		}
	}
	return out, nil
}
