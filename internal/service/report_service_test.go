package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmpolStack/AccessControlPlatform/internal/model"
)

func timePtr(t time.Time) *time.Time { return &t }

func newReportFixture(now time.Time) (*reportService, *memUserRepo, *memEstablishmentRepo, *memAccessRepo) {
	users := newMemUserRepo()
	estabs := newMemEstablishmentRepo()
	access := newMemAccessRepo(users)

	estabs.add(&model.Establishment{Name: "Main Hall", MaxCapacity: intPtr(100), Active: true})
	users.add(&model.User{
		Email: "ana@example.com", FullName: "Ana Torres",
		IdentityDocument: "11111111", Role: model.RoleEmployee,
		EstablishmentID: 1, Active: true,
	})

	svc := &reportService{access: access, estabs: estabs, now: func() time.Time { return now }}
	return svc, users, estabs, access
}

func TestCurrentCapacity(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	svc, _, _, access := newReportFixture(now)
	ctx := context.Background()

	access.records = append(access.records,
		&model.AccessRecord{ID: 1, UserID: 1, EstablishmentID: 1, EntryAt: now.Add(-2 * time.Hour)},
		&model.AccessRecord{ID: 2, UserID: 1, EstablishmentID: 1, EntryAt: now.Add(-3 * time.Hour), ExitAt: timePtr(now.Add(-time.Hour))},
	)

	resp, err := svc.CurrentCapacity(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Main Hall", resp.EstablishmentName)
	assert.Equal(t, 1, resp.CurrentOccupancy)
	assert.Equal(t, 100, *resp.MaxCapacity)
}

func TestCurrentCapacityUnknownEstablishment(t *testing.T) {
	svc, _, _, _ := newReportFixture(time.Now())

	_, err := svc.CurrentCapacity(context.Background(), 9)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAccessHistoryDurations(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	svc, _, _, access := newReportFixture(now)

	entry := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	access.records = append(access.records,
		// closed: 95 minutes inside
		&model.AccessRecord{ID: 1, UserID: 1, EstablishmentID: 1, EntryAt: entry, ExitAt: timePtr(entry.Add(95 * time.Minute))},
		// still open
		&model.AccessRecord{ID: 2, UserID: 1, EstablishmentID: 1, EntryAt: entry.Add(4 * time.Hour)},
	)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	rows, err := svc.AccessHistory(context.Background(), 1, start, end)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ana Torres", rows[0].FullName)
	assert.Equal(t, 95, rows[0].DurationMinutes)
	assert.False(t, rows[0].InProgress)

	assert.True(t, rows[1].InProgress)
	assert.Equal(t, 0, rows[1].DurationMinutes)
	assert.Nil(t, rows[1].ExitAt)
}

func TestAccessHistoryInvertedRange(t *testing.T) {
	svc, _, _, _ := newReportFixture(time.Now())

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.AccessHistory(context.Background(), 1, start, start.Add(-time.Hour))
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestAccessHistoryPDF(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	svc, _, _, access := newReportFixture(now)

	entry := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	access.records = append(access.records,
		&model.AccessRecord{ID: 1, UserID: 1, EstablishmentID: 1, EntryAt: entry, ExitAt: timePtr(entry.Add(time.Hour))},
	)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	out, err := svc.AccessHistoryPDF(context.Background(), 1, start, end)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestHourlyAveragesSingleDay(t *testing.T) {
	now := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	svc, _, _, access := newReportFixture(now)

	// Two people 09:00–11:00, one person 10:00–12:00.
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	at := func(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }
	access.records = append(access.records,
		&model.AccessRecord{ID: 1, UserID: 1, EstablishmentID: 1, EntryAt: at(9), ExitAt: timePtr(at(11))},
		&model.AccessRecord{ID: 2, UserID: 1, EstablishmentID: 1, EntryAt: at(9), ExitAt: timePtr(at(11))},
		&model.AccessRecord{ID: 3, UserID: 1, EstablishmentID: 1, EntryAt: at(10), ExitAt: timePtr(at(12))},
	)

	rows, err := svc.HourlyAverages(context.Background(), 1, day, day.Add(24*time.Hour-time.Second))
	require.NoError(t, err)
	require.Len(t, rows, 24)

	assert.True(t, rows[8].AverageOccupancy.IsZero())
	assert.True(t, rows[9].AverageOccupancy.Equal(decimal.NewFromInt(2)), "hour 9: %s", rows[9].AverageOccupancy)
	assert.True(t, rows[10].AverageOccupancy.Equal(decimal.NewFromInt(3)), "hour 10: %s", rows[10].AverageOccupancy)
	assert.True(t, rows[11].AverageOccupancy.Equal(decimal.NewFromInt(1)), "hour 11: %s", rows[11].AverageOccupancy)
	assert.True(t, rows[12].AverageOccupancy.IsZero())
}

func TestHourlyAveragesAcrossDays(t *testing.T) {
	now := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	svc, _, _, access := newReportFixture(now)

	// Same 09:00–10:00 slot occupied on day one only; averaged over 2 days.
	day1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	access.records = append(access.records,
		&model.AccessRecord{ID: 1, UserID: 1, EstablishmentID: 1,
			EntryAt: day1.Add(9 * time.Hour), ExitAt: timePtr(day1.Add(10 * time.Hour))},
	)

	rows, err := svc.HourlyAverages(context.Background(), 1, day1, day1.Add(48*time.Hour-time.Second))
	require.NoError(t, err)
	assert.True(t, rows[9].AverageOccupancy.Equal(decimal.NewFromFloat(0.5)), "hour 9: %s", rows[9].AverageOccupancy)
}

func TestHourlyAveragesOpenRecordCountsUntilNow(t *testing.T) {
	// Visitor entered at 09:00 and never left; now is 11:00 the same day.
	now := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	svc, _, _, access := newReportFixture(now)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	access.records = append(access.records,
		&model.AccessRecord{ID: 1, UserID: 1, EstablishmentID: 1, EntryAt: day.Add(9 * time.Hour)},
	)

	rows, err := svc.HourlyAverages(context.Background(), 1, day, day.Add(24*time.Hour-time.Second))
	require.NoError(t, err)
	assert.True(t, rows[9].AverageOccupancy.Equal(decimal.NewFromInt(1)))
	assert.True(t, rows[10].AverageOccupancy.Equal(decimal.NewFromInt(1)))
	// Presence stops at now: nothing counted for hour 11 onward.
	assert.True(t, rows[11].AverageOccupancy.IsZero())
}

func TestCalendarDays(t *testing.T) {
	d := func(day, hour int) time.Time {
		return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC)
	}
	assert.Equal(t, 1, calendarDays(d(10, 0), d(10, 23)))
	assert.Equal(t, 2, calendarDays(d(10, 12), d(11, 3)))
	assert.Equal(t, 1, calendarDays(d(10, 5), d(10, 5)))
}
