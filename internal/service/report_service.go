package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AmpolStack/AccessControlPlatform/internal/dto"
	"github.com/AmpolStack/AccessControlPlatform/internal/infra"
	"github.com/AmpolStack/AccessControlPlatform/internal/model"
	"github.com/AmpolStack/AccessControlPlatform/internal/repository"
)

type ReportService interface {
	CurrentCapacity(ctx context.Context, establishmentID uint) (*dto.CurrentCapacityResponse, error)
	AccessHistory(ctx context.Context, establishmentID uint, start, end time.Time) ([]dto.AccessHistoryRow, error)
	AccessHistoryPDF(ctx context.Context, establishmentID uint, start, end time.Time) ([]byte, error)
	HourlyAverages(ctx context.Context, establishmentID uint, start, end time.Time) ([]dto.HourlyAverageRow, error)
}

type reportService struct {
	access repository.AccessRepository
	estabs repository.EstablishmentRepository
	// now is swappable for deterministic duration math in tests
	now func() time.Time
}

func NewReportService(access repository.AccessRepository, estabs repository.EstablishmentRepository) ReportService {
	return &reportService{access: access, estabs: estabs, now: time.Now}
}

// ── CurrentCapacity ───────────────────────────────────────────────────────────

func (s *reportService) CurrentCapacity(ctx context.Context, establishmentID uint) (*dto.CurrentCapacityResponse, error) {
	estab, err := s.estabs.FindByID(ctx, establishmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("establishment not found")
		}
		return nil, dataAccessf(err, "current capacity: find establishment %d", establishmentID)
	}

	open, err := s.access.CountOpenByEstablishment(ctx, establishmentID)
	if err != nil {
		return nil, dataAccessf(err, "current capacity: occupancy count")
	}

	return &dto.CurrentCapacityResponse{
		EstablishmentName: estab.Name,
		CurrentOccupancy:  int(open),
		MaxCapacity:       estab.MaxCapacity,
	}, nil
}

// ── AccessHistory ─────────────────────────────────────────────────────────────
// Lists every record whose entry falls in [start, end]. Closed records get
// floor((exit - entry) in minutes); open records get DurationMinutes 0 and
// InProgress=true so the duration is never undefined.

func (s *reportService) AccessHistory(ctx context.Context, establishmentID uint, start, end time.Time) ([]dto.AccessHistoryRow, error) {
	if end.Before(start) {
		return nil, Validation("end date must not precede start date")
	}
	if _, err := s.estabs.FindByID(ctx, establishmentID); err != nil {
		if isNotFound(err) {
			return nil, NotFound("establishment not found")
		}
		return nil, dataAccessf(err, "access history: find establishment %d", establishmentID)
	}

	recs, err := s.access.ListEntriesInRange(ctx, establishmentID, start, end)
	if err != nil {
		return nil, dataAccessf(err, "access history: list records")
	}

	rows := make([]dto.AccessHistoryRow, len(recs))
	for i, rec := range recs {
		row := dto.AccessHistoryRow{
			FullName:         rec.User.FullName,
			IdentityDocument: rec.User.IdentityDocument,
			EntryAt:          rec.EntryAt,
			ExitAt:           rec.ExitAt,
		}
		if rec.ExitAt != nil {
			row.DurationMinutes = int(rec.ExitAt.Sub(rec.EntryAt) / time.Minute)
		} else {
			row.InProgress = true
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *reportService) AccessHistoryPDF(ctx context.Context, establishmentID uint, start, end time.Time) ([]byte, error) {
	estab, err := s.estabs.FindByID(ctx, establishmentID)
	if err != nil {
		if isNotFound(err) {
			return nil, NotFound("establishment not found")
		}
		return nil, dataAccessf(err, "history pdf: find establishment %d", establishmentID)
	}
	rows, err := s.AccessHistory(ctx, establishmentID, start, end)
	if err != nil {
		return nil, err
	}
	out, err := infra.BuildAccessHistoryPDF(estab.Name, start, end, rows)
	if err != nil {
		return nil, DataAccess(err)
	}
	return out, nil
}

// ── HourlyAverages ────────────────────────────────────────────────────────────
// Average concurrent occupancy per hour-of-day over the date range: for each
// hour slot in [start, end], count the records present during that slot, sum
// the counts into the slot's hour-of-day bucket, and divide by the number of
// calendar days in the range. Open records count as present until min(now, end).

func (s *reportService) HourlyAverages(ctx context.Context, establishmentID uint, start, end time.Time) ([]dto.HourlyAverageRow, error) {
	if end.Before(start) {
		return nil, Validation("end date must not precede start date")
	}
	if _, err := s.estabs.FindByID(ctx, establishmentID); err != nil {
		if isNotFound(err) {
			return nil, NotFound("establishment not found")
		}
		return nil, dataAccessf(err, "hourly averages: find establishment %d", establishmentID)
	}

	recs, err := s.access.ListOverlappingRange(ctx, establishmentID, start, end)
	if err != nil {
		return nil, dataAccessf(err, "hourly averages: list records")
	}

	counts := hourlyPresenceCounts(recs, start, end, s.now())
	days := calendarDays(start, end)

	rows := make([]dto.HourlyAverageRow, 24)
	denom := decimal.NewFromInt(int64(days))
	for h := 0; h < 24; h++ {
		rows[h] = dto.HourlyAverageRow{
			Hour:             h,
			AverageOccupancy: decimal.NewFromInt(int64(counts[h])).Div(denom).Round(2),
		}
	}
	return rows, nil
}

// hourlyPresenceCounts walks hour slots across [start, end] and tallies, per
// hour-of-day, how many record intervals intersect each slot.
func hourlyPresenceCounts(recs []model.AccessRecord, start, end, now time.Time) [24]int {
	var counts [24]int
	slotStart := start.Truncate(time.Hour)
	for slot := slotStart; slot.Before(end); slot = slot.Add(time.Hour) {
		slotEnd := slot.Add(time.Hour)
		for _, rec := range recs {
			exit := now
			if rec.ExitAt != nil {
				exit = *rec.ExitAt
			}
			if exit.After(end) {
				exit = end
			}
			if rec.EntryAt.Before(slotEnd) && exit.After(slot) {
				counts[slot.Hour()]++
			}
		}
	}
	return counts
}

// calendarDays counts the calendar dates touched by [start, end], minimum 1.
func calendarDays(start, end time.Time) int {
	s := start.Truncate(24 * time.Hour)
	e := end.Truncate(24 * time.Hour)
	days := int(e.Sub(s)/(24*time.Hour)) + 1
	if days < 1 {
		days = 1
	}
	return days
}
