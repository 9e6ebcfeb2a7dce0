package booking

import (
	"context"

	"github.com/appointra/scheduler/internal/audit"
	"github.com/appointra/scheduler/internal/clock"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/notify"
)

type CancelAppointment struct {
	repo   domain.Repository
	clk    clock.Clock
	audit  AuditSink
	notify NotifySink
}

func NewCancelAppointment(
	repo domain.Repository,
	clk clock.Clock,
	auditD AuditSink,
	notifier NotifySink,
) *CancelAppointment {
	return &CancelAppointment{repo: repo, clk: clk, audit: auditD, notify: notifier}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	staffID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForStaff(ctx, appointmentID, staffID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	now := uc.clk.Now()
	if err := domain.Cancel(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: ap.CompanyID,
		StaffID:   &staffID,
		Action:    "appointment_cancelled",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	uc.notify.Schedule(notify.Event{
		CompanyID:     ap.CompanyID,
		AppointmentID: ap.ID,
		Kind:          notify.KindAppointmentCancelled,
		Recipient:     ap.Customer.Email,
		ScheduledFor:  now,
	})

	return ap, nil
}
