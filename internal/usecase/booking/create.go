package booking

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/appointra/scheduler/internal/audit"
	"github.com/appointra/scheduler/internal/clock"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/notify"
	"github.com/appointra/scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	CompanyID uint

	// Nil means auto-assign: any qualified staff member with a free,
	// individually re-checked interval.
	StaffID *uint

	ServiceID uint

	CustomerName  string
	CustomerPhone string
	CustomerEmail string

	Date string // YYYY-MM-DD, company timezone
	Time string // HH:mm

	Notes string

	// Optional reservation hold being converted by this submission.
	HoldID string
}

// ======================================================
// USE CASE
// ======================================================

// CreateAppointment is the commit side of the booking flow: it re-validates
// the chosen interval against current state immediately before persisting,
// and leans on the storage layer as the final authority against races.
type CreateAppointment struct {
	repo    domain.Repository
	holds   domain.HoldStore
	scanner *ConflictScanner
	clk     clock.Clock
	audit   AuditSink
	notify  NotifySink
	log     zerolog.Logger
}

func NewCreateAppointment(
	repo domain.Repository,
	holds domain.HoldStore,
	scanner *ConflictScanner,
	clk clock.Clock,
	auditD AuditSink,
	notifier NotifySink,
	log zerolog.Logger,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		holds:   holds,
		scanner: scanner,
		clk:     clk,
		audit:   auditD,
		notify:  notifier,
		log:     log,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

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

	// Past-dated bookings are always rejected; how much notice is required
	// beyond that is the company's call (zero allows walk-ins).
	minAdvance := company.MinAdvanceMinutes
	if minAdvance < 0 {
		minAdvance = 0
	}

	now := uc.clk.Now()
	if start.Before(now.Add(time.Duration(minAdvance) * time.Minute)) {
		return nil, httperr.ErrBusiness("too_soon")
	}

	service, err := uc.repo.GetService(ctx, in.CompanyID, in.ServiceID)
	if err != nil || !service.Active || service.DurationMin <= 0 {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	end := start.Add(time.Duration(service.DurationMin) * time.Minute)
	iv := domain.Interval{Start: start, End: end}

	explicit := in.StaffID != nil

	var candidates []models.Staff
	if explicit {
		staff, err := uc.repo.GetStaff(ctx, in.CompanyID, *in.StaffID)
		if err != nil || !staff.Active {
			return nil, httperr.ErrBusiness("staff_not_found")
		}
		candidates = []models.Staff{*staff}
	} else {
		candidates, err = uc.repo.ListQualifiedStaff(ctx, in.CompanyID, in.ServiceID)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, httperr.ErrBusiness(httperr.CodeNoStaffAvailable)
		}
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	for _, staff := range candidates {

		rows, err := uc.repo.ListWeeklyAvailability(ctx, staff.ID, int(start.Weekday()))
		if err != nil {
			return nil, err
		}

		windows := domain.WindowsForDate(day, rows)
		if !domain.WindowsCover(windows, iv) {
			if explicit {
				return nil, httperr.ErrBusiness("outside_working_hours")
			}
			continue
		}

		blocks, err := uc.scanner.ScanInterval(ctx, staff.ID, iv, now, in.HoldID)
		if err != nil {
			return nil, err
		}
		if len(blocks) > 0 {
			if explicit {
				return nil, httperr.ErrBusiness(httperr.CodeSlotTaken)
			}
			continue
		}

		// The customer row is only worth writing once a bookable interval
		// exists; a rejected request should leave no trace.
		customer, err := uc.repo.GetOrCreateCustomer(
			ctx,
			in.CompanyID,
			in.CustomerName,
			in.CustomerPhone,
			in.CustomerEmail,
		)
		if err != nil {
			return nil, err
		}

		ap := &models.Appointment{
			CompanyID:  in.CompanyID,
			StaffID:    staff.ID,
			CustomerID: customer.ID,
			ServiceID:  service.ID,
			StartTime:  start,
			EndTime:    end,
			Status:     string(domain.InitialStatus()),
			Version:    1,
			Notes:      in.Notes,
		}

		if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
			if httperr.IsBusiness(err, httperr.CodeSlotTaken) {
				if explicit {
					return nil, err
				}
				// Lost the race on this staff member; try the next.
				continue
			}
			return nil, err
		}

		if in.HoldID != "" {
			if err := uc.holds.Delete(ctx, staff.ID, day, in.HoldID); err != nil {
				// The hold lapses on its own TTL either way.
				uc.log.Warn().Err(err).Str("hold_id", in.HoldID).Msg("failed to consume hold")
			}
		}

		staffID := staff.ID
		uc.audit.Dispatch(audit.Event{
			CompanyID: in.CompanyID,
			StaffID:   &staffID,
			Action:    "appointment_created",
			Entity:    "appointment",
			EntityID:  &ap.ID,
		})

		uc.notify.Schedule(notify.Event{
			CompanyID:     in.CompanyID,
			AppointmentID: ap.ID,
			Kind:          notify.KindAppointmentCreated,
			Recipient:     customer.Email,
			ScheduledFor:  now,
		})

		return ap, nil
	}

	// Auto-assign exhausted every qualified staff member.
	return nil, httperr.ErrBusiness(httperr.CodeNoStaffAvailable)
}
