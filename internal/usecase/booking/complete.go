package booking

import (
	"context"

	"github.com/appointra/scheduler/internal/audit"
	"github.com/appointra/scheduler/internal/clock"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
)

type CompleteAppointment struct {
	repo  domain.Repository
	clk   clock.Clock
	audit AuditSink
}

func NewCompleteAppointment(
	repo domain.Repository,
	clk clock.Clock,
	auditD AuditSink,
) *CompleteAppointment {
	return &CompleteAppointment{repo: repo, clk: clk, audit: auditD}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	staffID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForStaff(ctx, appointmentID, staffID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	if err := domain.Complete(ap, uc.clk.Now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		CompanyID: ap.CompanyID,
		StaffID:   &staffID,
		Action:    "appointment_completed",
		Entity:    "appointment",
		EntityID:  &ap.ID,
	})

	return ap, nil
}
