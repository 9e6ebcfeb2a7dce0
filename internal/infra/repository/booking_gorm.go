package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Company
// --------------------------------------------------

func (r *BookingGormRepository) GetCompanyByID(
	ctx context.Context,
	id uint,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *BookingGormRepository) GetCompanyBySlug(
	ctx context.Context,
	slug string,
) (*models.Company, error) {

	var company models.Company
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

// --------------------------------------------------
// Service / Staff
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	companyID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", serviceID, companyID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *BookingGormRepository) GetStaff(
	ctx context.Context,
	companyID uint,
	staffID uint,
) (*models.Staff, error) {

	var staff models.Staff
	if err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", staffID, companyID).
		First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *BookingGormRepository) ListQualifiedStaff(
	ctx context.Context,
	companyID uint,
	serviceID uint,
) ([]models.Staff, error) {

	var staff []models.Staff
	if err := r.db.WithContext(ctx).
		Joins("JOIN staff_services ss ON ss.staff_id = staff.id").
		Where("staff.company_id = ? AND ss.service_id = ? AND staff.active = ?", companyID, serviceID, true).
		Order("staff.id ASC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *BookingGormRepository) GetOrCreateCustomer(
	ctx context.Context,
	companyID uint,
	name string,
	phone string,
	email string,
) (*models.Customer, error) {

	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND phone = ?", companyID, phone).
		First(&customer).Error

	if err == nil {
		return &customer, nil
	}

	customer = models.Customer{
		CompanyID: companyID,
		Name:      name,
		Phone:     phone,
		Email:     email,
		Reference: uuid.NewString(),
	}

	if err := r.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}

	return &customer, nil
}

// --------------------------------------------------
// Availability (read path)
// --------------------------------------------------

func (r *BookingGormRepository) ListWeeklyAvailability(
	ctx context.Context,
	staffID uint,
	weekday int,
) ([]models.WeeklyAvailability, error) {

	var rows []models.WeeklyAvailability
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND weekday = ? AND available = ?", staffID, weekday, true).
		Order("start_time ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *BookingGormRepository) ListAppointmentsForDay(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time", "status").
		Where(
			"staff_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			staffID, string(booking.StatusCancelled), end, start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *BookingGormRepository) ListApprovedTimeOff(
	ctx context.Context,
	staffID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.TimeOff, error) {

	var spans []models.TimeOff
	if err := r.db.WithContext(ctx).
		Where(
			"staff_id = ? AND status = ? AND start_date < ? AND end_date >= ?",
			staffID, models.TimeOffApproved, dayEnd, dayStart,
		).
		Order("start_date ASC").
		Find(&spans).Error; err != nil {
		return nil, err
	}
	return spans, nil
}

// --------------------------------------------------
// Appointment (write path)
// --------------------------------------------------

// CreateAppointment locks the overlapping rows, re-checks inside the same
// transaction, then inserts. The storage constraint remains the last line of
// defense; its violation is mapped to the same conflict outcome.
func (r *BookingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var conflicts []models.Appointment
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"staff_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
				ap.StaffID, string(booking.StatusCancelled), ap.EndTime, ap.StartTime,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}

		if err := tx.Create(ap).Error; err != nil {
			if httperr.IsStorageConflict(err) {
				return httperr.ErrBusiness(httperr.CodeSlotTaken)
			}
			return err
		}

		return nil
	})
}

func (r *BookingGormRepository) GetAppointmentForStaff(
	ctx context.Context,
	appointmentID uint,
	staffID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("id = ? AND staff_id = ?", appointmentID, staffID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

// UpdateAppointment persists a state change guarded by the version token.
// Zero rows affected means somebody else got there first.
func (r *BookingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND version = ?", ap.ID, ap.Version).
		Updates(map[string]any{
			"status":       ap.Status,
			"notes":        ap.Notes,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
			"version":      ap.Version + 1,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness(httperr.CodeStaleVersion)
	}

	ap.Version++
	return nil
}

func (r *BookingGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	staffID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where(
			"staff_id = ? AND start_time >= ? AND start_time < ?",
			staffID, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ booking.Repository = (*BookingGormRepository)(nil)
