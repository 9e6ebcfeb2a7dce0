package booking

import (
	"context"
	"time"

	"github.com/appointra/scheduler/internal/clock"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/timezone"
)

// ListAppointments serves the staff member's own agenda views, by day and
// by month, in the company's timezone.
type ListAppointments struct {
	repo domain.Repository
	clk  clock.Clock
}

func NewListAppointments(repo domain.Repository, clk clock.Clock) *ListAppointments {
	return &ListAppointments{repo: repo, clk: clk}
}

func (uc *ListAppointments) ByDate(
	ctx context.Context,
	companyID uint,
	staffID uint,
	date string,
) ([]models.Appointment, error) {

	loc, err := uc.companyLocation(ctx, companyID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	return uc.repo.ListAppointmentsForPeriod(ctx, staffID, day, day.AddDate(0, 0, 1))
}

func (uc *ListAppointments) ByMonth(
	ctx context.Context,
	companyID uint,
	staffID uint,
	month string, // YYYY-MM
) ([]models.Appointment, error) {

	loc, err := uc.companyLocation(ctx, companyID)
	if err != nil {
		return nil, err
	}

	start, err := time.ParseInLocation("2006-01", month, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	return uc.repo.ListAppointmentsForPeriod(ctx, staffID, start, start.AddDate(0, 1, 0))
}

func (uc *ListAppointments) companyLocation(
	ctx context.Context,
	companyID uint,
) (*time.Location, error) {
	company, err := uc.repo.GetCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return timezone.Location(company.Timezone), nil
}
