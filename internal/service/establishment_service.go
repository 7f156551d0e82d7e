package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/AmpolStack/AccessControlPlatform/internal/dto"
	"github.com/AmpolStack/AccessControlPlatform/internal/hashing"
	"github.com/AmpolStack/AccessControlPlatform/internal/model"
	"github.com/AmpolStack/AccessControlPlatform/internal/repository"
)

type EstablishmentService interface {
	Create(ctx context.Context, req dto.CreateEstablishmentRequest) (*dto.EstablishmentResponse, error)
	Get(ctx context.Context, id uint) (*dto.EstablishmentResponse, error)
	List(ctx context.Context, includeInactive bool) ([]dto.EstablishmentResponse, error)
	Update(ctx context.Context, id uint, req dto.UpdateEstablishmentRequest) (*dto.EstablishmentResponse, error)
	Deactivate(ctx context.Context, id uint) error
	Reactivate(ctx context.Context, id uint) error
	Open(ctx context.Context, establishmentID, userID uint) (*dto.OpeningResponse, error)
	Close(ctx context.Context, establishmentID, userID uint) (*dto.OpeningResponse, error)
	ListOpenings(ctx context.Context, establishmentID uint) ([]dto.OpeningResponse, error)
}

type establishmentService struct {
	estabs   repository.EstablishmentRepository
	users    repository.UserRepository
	openings repository.OpeningRepository
	hasher   *hashing.Hasher
}

func NewEstablishmentService(
	estabs repository.EstablishmentRepository,
	users repository.UserRepository,
	openings repository.OpeningRepository,
	hasher *hashing.Hasher,
) EstablishmentService {
	return &establishmentService{estabs: estabs, users: users, openings: openings, hasher: hasher}
}

// ── Create ────────────────────────────────────────────────────────────────────
// Establishment and its optional admin account are one atomic unit: if the
// admin insert fails (duplicate email/document), the establishment row is
// rolled back too.

func (s *establishmentService) Create(ctx context.Context, req dto.CreateEstablishmentRequest) (*dto.EstablishmentResponse, error) {
	if req.Admin != nil {
		if dup, err := s.users.ExistsByEmail(ctx, req.Admin.Email, 0); err != nil {
			return nil, dataAccessf(err, "create establishment: email check")
		} else if dup {
			return nil, Validation("a user with this email already exists")
		}
		if dup, err := s.users.ExistsByDocument(ctx, req.Admin.IdentityDocument, 0); err != nil {
			return nil, dataAccessf(err, "create establishment: document check")
		} else if dup {
			return nil, Validation("a user with this identity document already exists")
		}
	}

	estab := &model.Establishment{
		Name:        req.Name,
		Description: req.Description,
		MaxCapacity: req.MaxCapacity,
		Address:     req.Address,
		City:        req.City,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Active:      true,
	}

	var adminID *uint
	txErr := runTx(ctx, s.estabs.DB(), func(tx *gorm.DB) error {
		if err := s.estabs.CreateTx(tx, estab); err != nil {
			return dataAccessf(err, "create establishment")
		}
		if req.Admin == nil {
			return nil
		}

		hash, err := s.hasher.Hash(req.Admin.Password)
		if err != nil {
			return dataAccessf(err, "create establishment: hash admin password")
		}
		admin := &model.User{
			Email:            req.Admin.Email,
			PasswordHash:     hash,
			FullName:         req.Admin.FullName,
			IdentityDocument: req.Admin.IdentityDocument,
			PhoneNumber:      req.Admin.PhoneNumber,
			Role:             model.RoleAdmin,
			EstablishmentID:  estab.ID,
			Active:           true,
			// new admins set their own password on first login
			MustChangePassword: true,
		}
		if err := s.users.CreateTx(tx, admin); err != nil {
			return dataAccessf(err, "create establishment: create admin")
		}
		adminID = &admin.ID
		return nil
	})
	if txErr != nil {
		return nil, asServiceError(txErr)
	}

	resp := establishmentToResponse(estab)
	resp.AdminUserID = adminID
	return resp, nil
}

func (s *establishmentService) Get(ctx context.Context, id uint) (*dto.EstablishmentResponse, error) {
	estab, err := s.estabs.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("establishment not found")
		}
		return nil, dataAccessf(err, "get establishment %d", id)
	}
	return establishmentToResponse(estab), nil
}

func (s *establishmentService) List(ctx context.Context, includeInactive bool) ([]dto.EstablishmentResponse, error) {
	estabs, err := s.estabs.List(ctx, includeInactive)
	if err != nil {
		return nil, dataAccessf(err, "list establishments")
	}
	out := make([]dto.EstablishmentResponse, len(estabs))
	for i := range estabs {
		out[i] = *establishmentToResponse(&estabs[i])
	}
	return out, nil
}

// ── Update ────────────────────────────────────────────────────────────────────
// Direct field-level mutation plus save — updating is a distinct operation
// from creation, never a re-run of the create path.

func (s *establishmentService) Update(ctx context.Context, id uint, req dto.UpdateEstablishmentRequest) (*dto.EstablishmentResponse, error) {
	estab, err := s.estabs.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("establishment not found")
		}
		return nil, dataAccessf(err, "update establishment %d", id)
	}

	if req.Name != "" {
		estab.Name = req.Name
	}
	if req.Description != nil {
		estab.Description = req.Description
	}
	if req.MaxCapacity != nil {
		estab.MaxCapacity = req.MaxCapacity
	}
	if req.Address != nil {
		estab.Address = req.Address
	}
	if req.City != nil {
		estab.City = req.City
	}
	if req.PhoneNumber != nil {
		estab.PhoneNumber = req.PhoneNumber
	}
	if req.Email != nil {
		estab.Email = req.Email
	}

	if err := s.estabs.Update(ctx, estab); err != nil {
		return nil, dataAccessf(err, "update establishment %d", id)
	}
	return establishmentToResponse(estab), nil
}

func (s *establishmentService) Deactivate(ctx context.Context, id uint) error {
	if _, err := s.estabs.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return NotFound("establishment not found")
		}
		return dataAccessf(err, "deactivate establishment %d", id)
	}
	if err := s.estabs.SetActive(ctx, id, false); err != nil {
		return dataAccessf(err, "deactivate establishment %d", id)
	}
	return nil
}

func (s *establishmentService) Reactivate(ctx context.Context, id uint) error {
	if _, err := s.estabs.FindByID(ctx, id); err != nil {
		if isNotFound(err) {
			return NotFound("establishment not found")
		}
		return dataAccessf(err, "reactivate establishment %d", id)
	}
	if err := s.estabs.SetActive(ctx, id, true); err != nil {
		return dataAccessf(err, "reactivate establishment %d", id)
	}
	return nil
}

// ── Open / Close ──────────────────────────────────────────────────────────────
// Same single-open invariant as access records, scoped per establishment.
// The establishment row lock serializes concurrent open attempts.

func (s *establishmentService) Open(ctx context.Context, establishmentID, userID uint) (*dto.OpeningResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("user not found")
		}
		return nil, dataAccessf(err, "open establishment: find user %d", userID)
	}
	if !user.Active {
		return nil, NotFound("user not found")
	}

	var opening *model.EstablishmentOpening
	txErr := runTx(ctx, s.openings.DB(), func(tx *gorm.DB) error {
		estab, err := s.estabs.FindForUpdateTx(tx, establishmentID)
		if err != nil {
			if isNotFound(err) {
				return NotFound("establishment not found")
			}
			return dataAccessf(err, "open establishment: lock %d", establishmentID)
		}
		if !estab.Active {
			return NotFound("establishment not found")
		}

		if _, err := s.openings.FindOpenByEstablishmentTx(tx, establishmentID); err == nil {
			return Conflict(fmt.Sprintf("%s is already open", estab.Name))
		} else if !isNotFound(err) {
			return dataAccessf(err, "open establishment: opening lookup")
		}

		opening = &model.EstablishmentOpening{
			EstablishmentID: establishmentID,
			UserID:          userID,
			OpenedAt:        time.Now(),
			Status:          model.OpeningStatusOpen,
		}
		if err := s.openings.CreateTx(tx, opening); err != nil {
			return dataAccessf(err, "open establishment: create opening")
		}
		return nil
	})
	if txErr != nil {
		return nil, asServiceError(txErr)
	}

	return openingToResponse(opening), nil
}

func (s *establishmentService) Close(ctx context.Context, establishmentID, userID uint) (*dto.OpeningResponse, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if isNotFound(err) {
			return nil, NotFound("user not found")
		}
		return nil, dataAccessf(err, "close establishment: find user %d", userID)
	}

	var opening *model.EstablishmentOpening
	txErr := runTx(ctx, s.openings.DB(), func(tx *gorm.DB) error {
		estab, err := s.estabs.FindForUpdateTx(tx, establishmentID)
		if err != nil {
			if isNotFound(err) {
				return NotFound("establishment not found")
			}
			return dataAccessf(err, "close establishment: lock %d", establishmentID)
		}

		opening, err = s.openings.FindOpenByEstablishmentTx(tx, establishmentID)
		if err != nil {
			if isNotFound(err) {
				return Conflict(fmt.Sprintf("%s is not open", estab.Name))
			}
			return dataAccessf(err, "close establishment: opening lookup")
		}

		now := time.Now()
		opening.ClosedAt = &now
		opening.Status = model.OpeningStatusClosed
		if err := s.openings.SaveTx(tx, opening); err != nil {
			return dataAccessf(err, "close establishment: save opening")
		}
		return nil
	})
	if txErr != nil {
		return nil, asServiceError(txErr)
	}

	return openingToResponse(opening), nil
}

func (s *establishmentService) ListOpenings(ctx context.Context, establishmentID uint) ([]dto.OpeningResponse, error) {
	if _, err := s.estabs.FindByID(ctx, establishmentID); err != nil {
		if isNotFound(err) {
			return nil, NotFound("establishment not found")
		}
		return nil, dataAccessf(err, "list openings: find establishment %d", establishmentID)
	}
	openings, err := s.openings.ListByEstablishment(ctx, establishmentID)
	if err != nil {
		return nil, dataAccessf(err, "list openings for %d", establishmentID)
	}
	out := make([]dto.OpeningResponse, len(openings))
	for i := range openings {
		out[i] = *openingToResponse(&openings[i])
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func establishmentToResponse(e *model.Establishment) *dto.EstablishmentResponse {
	return &dto.EstablishmentResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		MaxCapacity: e.MaxCapacity,
		Address:     e.Address,
		City:        e.City,
		PhoneNumber: e.PhoneNumber,
		Email:       e.Email,
		Active:      e.Active,
		CreatedAt:   e.CreatedAt,
	}
}

func openingToResponse(o *model.EstablishmentOpening) *dto.OpeningResponse {
	return &dto.OpeningResponse{
		ID:              o.ID,
		EstablishmentID: o.EstablishmentID,
		UserID:          o.UserID,
		OpenedAt:        o.OpenedAt,
		ClosedAt:        o.ClosedAt,
		Status:          o.Status,
	}
}
