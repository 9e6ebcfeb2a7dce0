package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appointra/scheduler/internal/clock"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/notify"
)

type createHarness struct {
	repo   *fakeRepo
	holds  *fakeHoldStore
	audit  *recordingAudit
	notify *recordingNotify
	uc     *CreateAppointment
	day    time.Time
	now    time.Time
}

func newCreateHarness() *createHarness {
	repo, holds, day := slotsFixture()
	now := day.Add(-24 * time.Hour)

	auditSink := &recordingAudit{}
	notifySink := &recordingNotify{}
	scanner := NewConflictScanner(repo, holds)

	uc := NewCreateAppointment(
		repo, holds, scanner,
		clock.Fixed{T: now},
		auditSink, notifySink,
		zerolog.Nop(),
	)

	return &createHarness{
		repo: repo, holds: holds,
		audit: auditSink, notify: notifySink,
		uc: uc, day: day, now: now,
	}
}

func ptr(v uint) *uint { return &v }

func (h *createHarness) input() CreateAppointmentInput {
	return CreateAppointmentInput{
		CompanyID:     1,
		StaffID:       ptr(5),
		ServiceID:     10,
		CustomerName:  "Lia",
		CustomerPhone: "+35199111222",
		CustomerEmail: "lia@example.com",
		Date:          "2026-03-02",
		Time:          "10:00",
	}
}

func TestCreateAppointment_HappyPath(t *testing.T) {
	h := newCreateHarness()

	ap, err := h.uc.Execute(context.Background(), h.input())
	require.NoError(t, err)

	assert.Equal(t, h.day.Add(10*time.Hour), ap.StartTime)
	assert.Equal(t, h.day.Add(10*time.Hour+30*time.Minute), ap.EndTime)
	assert.Equal(t, string(domain.StatusScheduled), ap.Status)
	assert.Equal(t, uint(1), ap.Version)

	require.Len(t, h.audit.events, 1)
	assert.Equal(t, "appointment_created", h.audit.events[0].Action)

	require.Len(t, h.notify.events, 1)
	assert.Equal(t, notify.KindAppointmentCreated, h.notify.events[0].Kind)
	assert.Equal(t, "lia@example.com", h.notify.events[0].Recipient)
}

func TestCreateAppointment_DoubleBookingLosesRace(t *testing.T) {
	h := newCreateHarness()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.uc.Execute(ctx, h.input())
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case httperr.IsBusiness(err, httperr.CodeSlotTaken):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, lost)
	assert.Len(t, h.repo.appointments, 1)
}

func TestCreateAppointment_TouchingBookingsBothSucceed(t *testing.T) {
	h := newCreateHarness()
	ctx := context.Background()

	first := h.input()
	first.Time = "10:00"
	_, err := h.uc.Execute(ctx, first)
	require.NoError(t, err)

	second := h.input()
	second.Time = "10:30"
	_, err = h.uc.Execute(ctx, second)
	require.NoError(t, err)
}

func TestCreateAppointment_OutsideWorkingHours(t *testing.T) {
	h := newCreateHarness()

	in := h.input()
	in.Time = "13:00"
	_, err := h.uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
}

func TestCreateAppointment_TooSoon(t *testing.T) {
	h := newCreateHarness()

	company := h.repo.companies[1]
	company.MinAdvanceMinutes = 48 * 60
	h.repo.companies[1] = company

	_, err := h.uc.Execute(context.Background(), h.input())
	assert.True(t, httperr.IsBusiness(err, "too_soon"))
}

func TestCreateAppointment_BadDateInput(t *testing.T) {
	h := newCreateHarness()

	in := h.input()
	in.Time = "25:99"
	_, err := h.uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
}

func TestCreateAppointment_ForeignHoldBlocksOwnHoldConverts(t *testing.T) {
	h := newCreateHarness()
	ctx := context.Background()

	require.NoError(t, h.holds.Put(ctx, domain.Hold{
		ID: "other-customer", StaffID: 5,
		Start:     h.day.Add(10 * time.Hour),
		End:       h.day.Add(10*time.Hour + 30*time.Minute),
		ExpiresAt: h.now.Add(10 * time.Minute),
	}, 10*time.Minute))

	_, err := h.uc.Execute(ctx, h.input())
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))

	in := h.input()
	in.HoldID = "other-customer"
	ap, err := h.uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.NotZero(t, ap.ID)

	// Conversion consumes the hold.
	left, err := h.holds.ListActive(ctx, 5, h.day, h.now)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCreateAppointment_AutoAssignSkipsBusyStaff(t *testing.T) {
	h := newCreateHarness()
	ctx := context.Background()

	h.repo.staff[6] = models.Staff{ID: 6, CompanyID: 1, Name: "Rui", Active: true}
	h.repo.qualified[10] = []uint{5, 6}
	h.repo.weekly[6] = []models.WeeklyAvailability{
		{StaffID: 6, Weekday: 1, StartTime: "09:00", EndTime: "12:00", Available: true},
	}

	h.repo.appointments = append(h.repo.appointments, models.Appointment{
		ID: 99, StaffID: 5, Status: string(domain.StatusScheduled),
		StartTime: h.day.Add(10 * time.Hour),
		EndTime:   h.day.Add(10*time.Hour + 30*time.Minute),
	})

	in := h.input()
	in.StaffID = nil
	ap, err := h.uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, uint(6), ap.StaffID)
}

func TestCreateAppointment_NoStaffAvailable(t *testing.T) {
	h := newCreateHarness()

	h.repo.appointments = append(h.repo.appointments, models.Appointment{
		ID: 99, StaffID: 5, Status: string(domain.StatusScheduled),
		StartTime: h.day.Add(10 * time.Hour),
		EndTime:   h.day.Add(10*time.Hour + 30*time.Minute),
	})

	in := h.input()
	in.StaffID = nil
	_, err := h.uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNoStaffAvailable))
}

func TestCreateAppointment_RejectedBookingWritesNoCustomer(t *testing.T) {
	h := newCreateHarness()

	h.repo.appointments = append(h.repo.appointments, models.Appointment{
		ID: 99, StaffID: 5, Status: string(domain.StatusScheduled),
		StartTime: h.day.Add(10 * time.Hour),
		EndTime:   h.day.Add(10*time.Hour + 30*time.Minute),
	})

	_, err := h.uc.Execute(context.Background(), h.input())
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotTaken))
	assert.Empty(t, h.repo.customers)

	in := h.input()
	in.Time = "13:00"
	_, err = h.uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))
	assert.Empty(t, h.repo.customers)
}

func TestCreateAppointment_CustomerReusedByPhone(t *testing.T) {
	h := newCreateHarness()
	ctx := context.Background()

	first, err := h.uc.Execute(ctx, h.input())
	require.NoError(t, err)

	in := h.input()
	in.Time = "11:00"
	second, err := h.uc.Execute(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
	assert.Len(t, h.repo.customers, 1)
}
