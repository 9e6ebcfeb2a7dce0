package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/appointra/scheduler/internal/audit"
	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/notify"
)

// fakeRepo is an in-memory Repository. CreateAppointment holds the mutex for
// the whole check-then-insert, mirroring the row-locked transaction the real
// repository runs.
type fakeRepo struct {
	mu sync.Mutex

	companies map[uint]models.Company
	services  map[uint]models.Service
	staff     map[uint]models.Staff

	// serviceID -> staff IDs qualified for it, in listing order
	qualified map[uint][]uint

	weekly    map[uint][]models.WeeklyAvailability // staffID -> rows
	timeOff   []models.TimeOff
	customers []models.Customer

	appointments []models.Appointment
	nextID       uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		companies: map[uint]models.Company{},
		services:  map[uint]models.Service{},
		staff:     map[uint]models.Staff{},
		qualified: map[uint][]uint{},
		weekly:    map[uint][]models.WeeklyAvailability{},
		nextID:    1,
	}
}

func (f *fakeRepo) GetCompanyByID(_ context.Context, id uint) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.companies[id]
	if !ok {
		return nil, httperr.ErrBusiness("company_not_found")
	}
	return &c, nil
}

func (f *fakeRepo) GetCompanyBySlug(_ context.Context, slug string) (*models.Company, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.companies {
		if c.Slug == slug {
			out := c
			return &out, nil
		}
	}
	return nil, httperr.ErrBusiness("company_not_found")
}

func (f *fakeRepo) GetService(_ context.Context, companyID, serviceID uint) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.services[serviceID]
	if !ok || s.CompanyID != companyID {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return &s, nil
}

func (f *fakeRepo) GetStaff(_ context.Context, companyID, staffID uint) (*models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.staff[staffID]
	if !ok || s.CompanyID != companyID {
		return nil, httperr.ErrBusiness("staff_not_found")
	}
	return &s, nil
}

func (f *fakeRepo) ListQualifiedStaff(_ context.Context, companyID, serviceID uint) ([]models.Staff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Staff
	for _, id := range f.qualified[serviceID] {
		s, ok := f.staff[id]
		if ok && s.CompanyID == companyID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetOrCreateCustomer(_ context.Context, companyID uint, name, phone, email string) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.customers {
		c := &f.customers[i]
		if c.CompanyID == companyID && c.Phone == phone {
			return c, nil
		}
	}
	c := models.Customer{
		ID:        f.nextID,
		CompanyID: companyID,
		Name:      name,
		Phone:     phone,
		Email:     email,
	}
	f.nextID++
	f.customers = append(f.customers, c)
	return &c, nil
}

func (f *fakeRepo) ListWeeklyAvailability(_ context.Context, staffID uint, weekday int) ([]models.WeeklyAvailability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WeeklyAvailability
	for _, row := range f.weekly[staffID] {
		if row.Weekday == weekday {
			out = append(out, row)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAppointmentsForDay(_ context.Context, staffID uint, start, end time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.overlappingLocked(staffID, start, end), nil
}

func (f *fakeRepo) overlappingLocked(staffID uint, start, end time.Time) []models.Appointment {
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.StaffID != staffID || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartTime.Before(end) && ap.EndTime.After(start) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

func (f *fakeRepo) ListApprovedTimeOff(_ context.Context, staffID uint, dayStart, dayEnd time.Time) ([]models.TimeOff, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TimeOff
	for _, span := range f.timeOff {
		if span.StaffID != staffID || span.Status != models.TimeOffApproved {
			continue
		}
		if span.StartDate.Before(dayEnd) && !span.EndDate.Before(dayStart) {
			out = append(out, span)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.overlappingLocked(ap.StaffID, ap.StartTime, ap.EndTime)) > 0 {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}
	ap.ID = f.nextID
	f.nextID++
	f.appointments = append(f.appointments, *ap)
	return nil
}

func (f *fakeRepo) GetAppointmentForStaff(_ context.Context, appointmentID, staffID uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ap := range f.appointments {
		if ap.ID == appointmentID && ap.StaffID == staffID {
			out := ap
			return &out, nil
		}
	}
	return nil, httperr.ErrBusiness("appointment_not_found")
}

func (f *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.appointments {
		if f.appointments[i].ID == ap.ID {
			if f.appointments[i].Version != ap.Version {
				return httperr.ErrBusiness(httperr.CodeStaleVersion)
			}
			ap.Version++
			f.appointments[i] = *ap
			return nil
		}
	}
	return httperr.ErrBusiness("appointment_not_found")
}

func (f *fakeRepo) ListAppointmentsForPeriod(_ context.Context, staffID uint, start, end time.Time) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, ap := range f.appointments {
		if ap.StaffID == staffID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// fakeHoldStore keeps holds in a plain map, keyed like the Redis store.
type fakeHoldStore struct {
	mu    sync.Mutex
	holds map[string][]domain.Hold // "staffID/day" -> holds
}

func newFakeHoldStore() *fakeHoldStore {
	return &fakeHoldStore{holds: map[string][]domain.Hold{}}
}

func holdBucket(staffID uint, day time.Time) string {
	return fmt.Sprintf("%d/%s", staffID, day.Format("2006-01-02"))
}

func (f *fakeHoldStore) Put(_ context.Context, h domain.Hold, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := holdBucket(h.StaffID, h.Start)
	f.holds[key] = append(f.holds[key], h)
	return nil
}

func (f *fakeHoldStore) Get(_ context.Context, staffID uint, day time.Time, id string) (*domain.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.holds[holdBucket(staffID, day)] {
		if h.ID == id {
			out := h
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeHoldStore) ListActive(_ context.Context, staffID uint, day time.Time, now time.Time) ([]domain.Hold, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Hold
	for _, h := range f.holds[holdBucket(staffID, day)] {
		if h.ActiveAt(now) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (f *fakeHoldStore) Delete(_ context.Context, staffID uint, day time.Time, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := holdBucket(staffID, day)
	kept := f.holds[key][:0]
	for _, h := range f.holds[key] {
		if h.ID != id {
			kept = append(kept, h)
		}
	}
	f.holds[key] = kept
	return nil
}

var _ domain.HoldStore = (*fakeHoldStore)(nil)

// recordingSinks capture dispatched events for assertions.
type recordingAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recordingAudit) Dispatch(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

type recordingNotify struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recordingNotify) Schedule(ev notify.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}
