package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/AmpolStack/AccessControlPlatform/internal/model"
	"github.com/AmpolStack/AccessControlPlatform/internal/repository"
	"github.com/AmpolStack/AccessControlPlatform/internal/worker"
)

type AccessService interface {
	RegisterEntry(ctx context.Context, userID, establishmentID uint) (string, error)
	// RegisterEntryByDocument is the front-desk path: visitors are
	// identified by identity document at terminals.
	RegisterEntryByDocument(ctx context.Context, identityDocument string, establishmentID uint) (string, error)
	RegisterExit(ctx context.Context, userID, establishmentID uint) (string, error)
}

type accessService struct {
	access     repository.AccessRepository
	users      repository.UserRepository
	estabs     repository.EstablishmentRepository
	dispatcher *worker.Dispatcher
}

func NewAccessService(
	access repository.AccessRepository,
	users repository.UserRepository,
	estabs repository.EstablishmentRepository,
	dispatcher *worker.Dispatcher,
) AccessService {
	return &accessService{access: access, users: users, estabs: estabs, dispatcher: dispatcher}
}

// ── RegisterEntry ─────────────────────────────────────────────────────────────
// The existence check, the open-session check, the capacity check, and the
// insert all run inside one transaction holding a row lock on the
// establishment. Concurrent entries to the same establishment serialize on
// that lock, so two requests can never both pass a stale capacity check.

func (s *accessService) RegisterEntry(ctx context.Context, userID, establishmentID uint) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return "", NotFound("user not found")
		}
		return "", dataAccessf(err, "register entry: find user %d", userID)
	}
	if !user.Active {
		return "", NotFound("user not found")
	}
	return s.registerEntry(ctx, user, establishmentID)
}

func (s *accessService) RegisterEntryByDocument(ctx context.Context, identityDocument string, establishmentID uint) (string, error) {
	user, err := s.users.FindActiveByDocument(ctx, identityDocument)
	if err != nil {
		if isNotFound(err) {
			return "", NotFound("user not found")
		}
		return "", dataAccessf(err, "register entry: find document")
	}
	return s.registerEntry(ctx, user, establishmentID)
}

func (s *accessService) registerEntry(ctx context.Context, user *model.User, establishmentID uint) (string, error) {
	var (
		estab     *model.Establishment
		occupancy int64
	)

	txErr := runTx(ctx, s.access.DB(), func(tx *gorm.DB) error {
		var err error
		// Lock the establishment row first: this serializes the
		// check-then-insert per establishment.
		estab, err = s.estabs.FindForUpdateTx(tx, establishmentID)
		if err != nil {
			if isNotFound(err) {
				return NotFound("establishment not found")
			}
			return dataAccessf(err, "register entry: lock establishment %d", establishmentID)
		}
		if !estab.Active {
			return NotFound("establishment not found")
		}

		if _, err = s.access.FindOpenByUserTx(tx, user.ID); err == nil {
			return Conflict(fmt.Sprintf("%s already has an open session", user.FullName))
		} else if !isNotFound(err) {
			return dataAccessf(err, "register entry: open session lookup")
		}

		occupancy, err = s.access.CountOpenByEstablishmentTx(tx, establishmentID)
		if err != nil {
			return dataAccessf(err, "register entry: occupancy count")
		}
		if estab.MaxCapacity != nil && occupancy >= int64(*estab.MaxCapacity) {
			return Conflict(fmt.Sprintf("%s is at full capacity (%d)", estab.Name, *estab.MaxCapacity))
		}

		rec := &model.AccessRecord{
			UserID:          user.ID,
			EstablishmentID: establishmentID,
			EntryAt:         time.Now(),
		}
		if err := s.access.CreateTx(tx, rec); err != nil {
			return dataAccessf(err, "register entry: create record")
		}
		occupancy++
		return nil
	})
	if txErr != nil {
		return "", asServiceError(txErr)
	}

	// The entry that fills the last slot triggers an async alert so staff
	// know the door is closed. Best-effort — fire & forget.
	if s.dispatcher != nil && estab.MaxCapacity != nil && occupancy >= int64(*estab.MaxCapacity) {
		to := ""
		if estab.Email != nil {
			to = *estab.Email
		}
		err := s.dispatcher.EnqueueCapacityAlert(ctx, worker.CapacityAlertPayload{
			EstablishmentID:   estab.ID,
			EstablishmentName: estab.Name,
			ToEmail:           to,
			Occupancy:         int(occupancy),
			MaxCapacity:       *estab.MaxCapacity,
		})
		if err != nil {
			log.Warn().Err(err).Uint("establishment_id", estab.ID).Msg("failed to enqueue capacity alert")
		}
	}

	return fmt.Sprintf("entry registered for %s at %s", user.FullName, estab.Name), nil
}

// ── RegisterExit ──────────────────────────────────────────────────────────────

func (s *accessService) RegisterExit(ctx context.Context, userID, establishmentID uint) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return "", NotFound("user not found")
		}
		return "", dataAccessf(err, "register exit: find user %d", userID)
	}

	txErr := runTx(ctx, s.access.DB(), func(tx *gorm.DB) error {
		rec, err := s.access.FindOpenByUserAtTx(tx, userID, establishmentID)
		if err != nil {
			if isNotFound(err) {
				return Conflict(fmt.Sprintf("%s has no open session at this establishment", user.FullName))
			}
			return dataAccessf(err, "register exit: open session lookup")
		}

		now := time.Now()
		rec.ExitAt = &now
		if err := s.access.SaveTx(tx, rec); err != nil {
			return dataAccessf(err, "register exit: close record")
		}
		return nil
	})
	if txErr != nil {
		return "", asServiceError(txErr)
	}

	return fmt.Sprintf("exit registered for %s", user.FullName), nil
}

// asServiceError passes typed errors through and wraps anything else
// (driver errors surfaced by the transaction itself) as data access.
func asServiceError(err error) error {
	if KindOf(err) != KindUnknown {
		return err
	}
	return DataAccess(err)
}
