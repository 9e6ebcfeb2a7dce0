package booking

import (
	"context"
	"time"

	"github.com/appointra/scheduler/internal/models"
)

type Repository interface {
	// -------- Company --------
	GetCompanyByID(
		ctx context.Context,
		id uint,
	) (*models.Company, error)

	GetCompanyBySlug(
		ctx context.Context,
		slug string,
	) (*models.Company, error)

	// -------- Service / Staff --------
	GetService(
		ctx context.Context,
		companyID uint,
		serviceID uint,
	) (*models.Service, error)

	GetStaff(
		ctx context.Context,
		companyID uint,
		staffID uint,
	) (*models.Staff, error)

	ListQualifiedStaff(
		ctx context.Context,
		companyID uint,
		serviceID uint,
	) ([]models.Staff, error)

	// -------- Customer --------
	GetOrCreateCustomer(
		ctx context.Context,
		companyID uint,
		name string,
		phone string,
		email string,
	) (*models.Customer, error)

	// -------- Availability (read path) --------
	ListWeeklyAvailability(
		ctx context.Context,
		staffID uint,
		weekday int,
	) ([]models.WeeklyAvailability, error)

	ListAppointmentsForDay(
		ctx context.Context,
		staffID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListApprovedTimeOff(
		ctx context.Context,
		staffID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.TimeOff, error)

	// -------- Appointment (write path) --------

	// CreateAppointment re-checks the interval and persists atomically.
	// Returns the slot_taken business error when the interval is occupied,
	// including when only the storage constraint catches it.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointmentForStaff(
		ctx context.Context,
		appointmentID uint,
		staffID uint,
	) (*models.Appointment, error)

	// UpdateAppointment is version-guarded; a stale version returns the
	// stale_version business error.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForPeriod(
		ctx context.Context,
		staffID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}

// HoldStore keeps reservation holds, keyed by staff member and calendar day.
type HoldStore interface {
	Put(ctx context.Context, h Hold, ttl time.Duration) error

	Get(ctx context.Context, staffID uint, day time.Time, id string) (*Hold, error)

	// ListActive returns holds with expiresAt > now, ordered by start.
	ListActive(ctx context.Context, staffID uint, day time.Time, now time.Time) ([]Hold, error)

	Delete(ctx context.Context, staffID uint, day time.Time, id string) error
}
