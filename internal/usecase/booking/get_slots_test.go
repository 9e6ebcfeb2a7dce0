package booking

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointra/scheduler/internal/clock"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
)

// Monday 2026-03-02, a 9-12 shift, one 30-minute service.
func slotsFixture() (*fakeRepo, *fakeHoldStore, time.Time) {
	repo := newFakeRepo()
	repo.companies[1] = models.Company{ID: 1, Slug: "corner-cuts", Timezone: "UTC"}
	repo.services[10] = models.Service{ID: 10, CompanyID: 1, Name: "Trim", DurationMin: 30, Active: true}
	repo.staff[5] = models.Staff{ID: 5, CompanyID: 1, Name: "Dana", Active: true}
	repo.qualified[10] = []uint{5}
	repo.weekly[5] = []models.WeeklyAvailability{
		{StaffID: 5, Weekday: 1, StartTime: "09:00", EndTime: "12:00", Available: true},
	}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return repo, newFakeHoldStore(), day
}

func newGetSlots(repo *fakeRepo, holds *fakeHoldStore, now time.Time) *GetSlots {
	scanner := NewConflictScanner(repo, holds)
	return NewGetSlots(repo, scanner, clock.Fixed{T: now}, zerolog.Nop())
}

func TestGetSlots_OpenDayReturnsFullGrid(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(-24 * time.Hour)

	slots, err := newGetSlots(repo, holds, now).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, day.Add(9*time.Hour), slots[0].Start)
	assert.Equal(t, day.Add(11*time.Hour+30*time.Minute), slots[5].Start)
}

func TestGetSlots_BookingRemovesItsSlot(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(-24 * time.Hour)

	repo.appointments = append(repo.appointments, models.Appointment{
		ID: 1, StaffID: 5, Status: string(domain.StatusScheduled),
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(10*time.Hour + 30*time.Minute),
	})

	slots, err := newGetSlots(repo, holds, now).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	require.NoError(t, err)
	require.Len(t, slots, 5)
	for _, s := range slots {
		assert.NotEqual(t, day.Add(10*time.Hour), s.Start)
	}
}

func TestGetSlots_CancelledBookingDoesNotBlock(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(-24 * time.Hour)

	repo.appointments = append(repo.appointments, models.Appointment{
		ID: 1, StaffID: 5, Status: string(domain.StatusCancelled),
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(10*time.Hour + 30*time.Minute),
	})

	slots, err := newGetSlots(repo, holds, now).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	require.NoError(t, err)
	assert.Len(t, slots, 6)
}

func TestGetSlots_ActiveHoldBlocksExpiredHoldDoesNot(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(-24 * time.Hour)
	ctx := context.Background()

	require.NoError(t, holds.Put(ctx, domain.Hold{
		ID: "live", StaffID: 5,
		Start:     day.Add(9 * time.Hour),
		End:       day.Add(9*time.Hour + 30*time.Minute),
		ExpiresAt: now.Add(10 * time.Minute),
	}, 10*time.Minute))

	require.NoError(t, holds.Put(ctx, domain.Hold{
		ID: "lapsed", StaffID: 5,
		Start:     day.Add(11 * time.Hour),
		End:       day.Add(11*time.Hour + 30*time.Minute),
		ExpiresAt: now.Add(-time.Minute),
	}, 10*time.Minute))

	slots, err := newGetSlots(repo, holds, now).Execute(ctx, SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	require.NoError(t, err)
	require.Len(t, slots, 5)
	assert.Equal(t, day.Add(9*time.Hour+30*time.Minute), slots[0].Start)
	assert.Equal(t, day.Add(11*time.Hour), slots[4].Start)
}

func TestGetSlots_ApprovedTimeOffBlanksTheDay(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(-24 * time.Hour)

	repo.timeOff = append(repo.timeOff, models.TimeOff{
		StaffID:   5,
		StartDate: day,
		EndDate:   day,
		Status:    models.TimeOffApproved,
	})

	slots, err := newGetSlots(repo, holds, now).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetSlots_PendingTimeOffIsIgnored(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(-24 * time.Hour)

	repo.timeOff = append(repo.timeOff, models.TimeOff{
		StaffID:   5,
		StartDate: day,
		EndDate:   day,
		Status:    models.TimeOffPending,
	})

	slots, err := newGetSlots(repo, holds, now).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	require.NoError(t, err)
	assert.Len(t, slots, 6)
}

func TestGetSlots_OffDayReturnsEmptyList(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(-24 * time.Hour)
	sunday := day.AddDate(0, 0, -1)

	slots, err := newGetSlots(repo, holds, now).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: sunday,
	})
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestGetSlots_SameDayQueryDropsElapsedSlots(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(10*time.Hour + 15*time.Minute)

	slots, err := newGetSlots(repo, holds, now).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, day.Add(10*time.Hour+30*time.Minute), slots[0].Start)
}

func TestGetSlots_MinAdvanceHidesNearSlots(t *testing.T) {
	repo, holds, day := slotsFixture()
	now := day.Add(9 * time.Hour)

	company := repo.companies[1]
	company.MinAdvanceMinutes = 120
	repo.companies[1] = company

	slots, err := newGetSlots(repo, holds, now).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, day.Add(11*time.Hour), slots[0].Start)
}

func TestGetSlots_InactiveServiceRejected(t *testing.T) {
	repo, holds, day := slotsFixture()
	svc := repo.services[10]
	svc.Active = false
	repo.services[10] = svc

	_, err := newGetSlots(repo, holds, day).Execute(context.Background(), SlotQuery{
		CompanyID: 1, StaffID: 5, ServiceID: 10, Date: day,
	})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}
