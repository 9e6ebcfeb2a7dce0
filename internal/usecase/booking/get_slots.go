package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/appointra/scheduler/internal/clock"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
)

// SlotQuery asks for the bookable slots of one staff member on one day.
// Date is midnight of the target day in the company's timezone; the handler
// resolves that before calling in.
type SlotQuery struct {
	CompanyID uint
	StaffID   uint
	ServiceID uint
	Date      time.Time
}

type GetSlots struct {
	repo    domain.Repository
	scanner *ConflictScanner
	clk     clock.Clock
	log     zerolog.Logger
}

func NewGetSlots(
	repo domain.Repository,
	scanner *ConflictScanner,
	clk clock.Clock,
	log zerolog.Logger,
) *GetSlots {
	return &GetSlots{
		repo:    repo,
		scanner: scanner,
		clk:     clk,
		log:     log,
	}
}

func (uc *GetSlots) Execute(
	ctx context.Context,
	in SlotQuery,
) ([]domain.CandidateSlot, error) {

	company, err := uc.repo.GetCompanyByID(ctx, in.CompanyID)
	if err != nil {
		return nil, err
	}

	service, err := uc.repo.GetService(ctx, in.CompanyID, in.ServiceID)
	if err != nil || !service.Active || service.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	staff, err := uc.repo.GetStaff(ctx, in.CompanyID, in.StaffID)
	if err != nil || !staff.Active {
		return nil, httperr.ErrBusiness("staff_not_found")
	}

	weekday := int(in.Date.Weekday())

	rows, err := uc.repo.ListWeeklyAvailability(ctx, in.StaffID, weekday)
	if err != nil {
		return nil, err
	}

	windows := domain.WindowsForDate(in.Date, rows)
	if len(windows) == 0 {
		uc.log.Debug().
			Uint("staff_id", in.StaffID).
			Str("date", in.Date.Format("2006-01-02")).
			Msg("no work windows for day")
		return []domain.CandidateSlot{}, nil
	}

	dayStart := in.Date
	dayEnd := in.Date.AddDate(0, 0, 1)

	now := uc.clk.Now()

	blocks, err := uc.scanner.ScanDay(ctx, in.StaffID, dayStart, dayEnd, now)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMin) * time.Minute

	// Never advertise slots the commit path would reject as too soon.
	minAdvance := company.MinAdvanceMinutes
	if minAdvance < 0 {
		minAdvance = 0
	}
	cutoff := now.Add(time.Duration(minAdvance) * time.Minute)

	slots := make([]domain.CandidateSlot, 0)
	totalCandidates := 0
	for _, w := range windows {
		free, candidates := domain.GenerateSlots(w, domain.DefaultSlotInterval, duration, blocks)
		for _, s := range free {
			if s.Start.Before(cutoff) {
				continue
			}
			slots = append(slots, s)
		}
		totalCandidates += candidates
	}

	// Both cases surface as an empty list; only the diagnostics differ.
	if len(slots) == 0 && totalCandidates > 0 {
		uc.log.Debug().
			Uint("staff_id", in.StaffID).
			Str("date", in.Date.Format("2006-01-02")).
			Int("candidates", totalCandidates).
			Msg("day fully blocked")
	}

	return slots, nil
}
