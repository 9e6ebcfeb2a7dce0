package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/appointra/scheduler/internal/clock"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type PlaceHoldInput struct {
	CompanyID uint
	StaffID   uint
	ServiceID uint

	Date string // YYYY-MM-DD, company timezone
	Time string // HH:mm
}

// ======================================================
// USE CASE
// ======================================================

// PlaceHold reserves a slot for a short window while the customer fills in
// their details. Holds live in Redis only and expire on their own; the
// commit path converts or discards them.
type PlaceHold struct {
	repo    domain.Repository
	holds   domain.HoldStore
	scanner *ConflictScanner
	clk     clock.Clock
	ttl     time.Duration
}

func NewPlaceHold(
	repo domain.Repository,
	holds domain.HoldStore,
	scanner *ConflictScanner,
	clk clock.Clock,
	ttl time.Duration,
) *PlaceHold {
	return &PlaceHold{
		repo:    repo,
		holds:   holds,
		scanner: scanner,
		clk:     clk,
		ttl:     ttl,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *PlaceHold) Execute(
	ctx context.Context,
	in PlaceHoldInput,
) (*domain.Hold, error) {

	company, err := uc.repo.GetCompanyByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}

	loc := timezone.Location(company.Timezone)

	start, err := time.ParseInLocation(
		"2006-01-02 15:04",
		in.Date+" "+in.Time,
		loc,
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := uc.clk.Now()
	if start.Before(now) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	service, err := uc.repo.GetService(ctx, in.CompanyID, in.ServiceID)
	if err != nil || !service.Active || service.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	staff, err := uc.repo.GetStaff(ctx, in.CompanyID, in.StaffID)
	if err != nil || !staff.Active {
		return nil, httperr.ErrBusiness("staff_not_found")
	}

	end := start.Add(time.Duration(service.DurationMin) * time.Minute)
	iv := domain.Interval{Start: start, End: end}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	rows, err := uc.repo.ListWeeklyAvailability(ctx, staff.ID, int(start.Weekday()))
	if err != nil {
		return nil, err
	}
	if !domain.WindowsCover(domain.WindowsForDate(day, rows), iv) {
		return nil, httperr.ErrBusiness("outside_working_hours")
	}

	blocks, err := uc.scanner.ScanInterval(ctx, staff.ID, iv, now, "")
	if err != nil {
		return nil, err
	}
	if len(blocks) > 0 {
		return nil, httperr.ErrBusiness(httperr.CodeSlotTaken)
	}

	hold := domain.Hold{
		ID:        uuid.NewString(),
		CompanyID: in.CompanyID,
		StaffID:   staff.ID,
		ServiceID: service.ID,
		Start:     start,
		End:       end,
		ExpiresAt: now.Add(uc.ttl),
		CreatedAt: now,
	}

	// Best-effort: two customers racing for the same slot can both obtain a
	// hold; the commit path is the arbiter that lets only one through.
	if err := uc.holds.Put(ctx, hold, uc.ttl); err != nil {
		return nil, err
	}

	return &hold, nil
}
