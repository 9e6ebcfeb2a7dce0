package handlers

import (
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/models"
	ucBooking "github.com/appointra/scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler is the customer-facing booking surface, addressed by company
// slug and unauthenticated.
type PublicHandler struct {
	db       *gorm.DB
	repo     domain.Repository
	slotsUC  *ucBooking.GetSlots
	createUC *ucBooking.CreateAppointment
	holdUC   *ucBooking.PlaceHold
}

func NewPublicHandler(
	db *gorm.DB,
	repo domain.Repository,
	slotsUC *ucBooking.GetSlots,
	createUC *ucBooking.CreateAppointment,
	holdUC *ucBooking.PlaceHold,
) *PublicHandler {
	return &PublicHandler{
		db:       db,
		repo:     repo,
		slotsUC:  slotsUC,
		createUC: createUC,
		holdUC:   holdUC,
	}
}

// ======================================================
// REQUESTS / RESPONSES
// ======================================================

type PublicCreateAppointmentRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	StaffID       *uint  `json:"staff_id"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Notes         string `json:"notes"`
	HoldID        string `json:"hold_id"`
}

type PublicReservationRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	StaffID   uint   `json:"staff_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
}

type SlotResponse struct {
	Start     time.Time `json:"start_time"`
	End       time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// ======================================================
// CATALOG
// ======================================================

func (h *PublicHandler) ListServices(c *gin.Context) {
	company, ok := h.companyFromSlug(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("company_id = ? AND active = ?", company.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "could not load services")
		return
	}

	httpresp.List(c, services)
}

// ======================================================
// AVAILABILITY
// ======================================================

// Availability lists the open slots for a service on a date. With staff_id
// it is that one calendar; without it, the union across every staff member
// qualified for the service, deduplicated by start time.
func (h *PublicHandler) Availability(c *gin.Context) {
	company, ok := h.companyFromSlug(c)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "missing_service", "query parameter service_id is required")
		return
	}

	date, err := parseDateInCompany(company, c.Query("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "query parameter date=YYYY-MM-DD is required")
		return
	}

	var staffIDs []uint
	if raw := c.Query("staff_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			httperr.BadRequest(c, "invalid_staff", "staff_id must be numeric")
			return
		}
		staffIDs = []uint{uint(id)}
	} else {
		qualified, err := h.repo.ListQualifiedStaff(c.Request.Context(), company.ID, uint(serviceID))
		if err != nil {
			httperr.Internal(c, "failed_to_load_staff", "could not load staff")
			return
		}
		for _, s := range qualified {
			staffIDs = append(staffIDs, s.ID)
		}
	}

	seen := map[time.Time]SlotResponse{}
	for _, staffID := range staffIDs {
		slots, err := h.slotsUC.Execute(c.Request.Context(), ucBooking.SlotQuery{
			CompanyID: company.ID,
			StaffID:   staffID,
			ServiceID: uint(serviceID),
			Date:      date,
		})
		if err != nil {
			// A single unknown staff_id is the caller's mistake; a bad staff
			// member inside the union is not.
			if len(staffIDs) == 1 {
				writeBookingError(c, err)
				return
			}
			continue
		}
		for _, s := range slots {
			if _, ok := seen[s.Start]; !ok {
				seen[s.Start] = SlotResponse{Start: s.Start, End: s.End, Available: true}
			}
		}
	}

	out := make([]SlotResponse, 0, len(seen))
	for _, s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })

	httpresp.List(c, out)
}

// ======================================================
// RESERVATION HOLD
// ======================================================

func (h *PublicHandler) CreateReservation(c *gin.Context) {
	company, ok := h.companyFromSlug(c)
	if !ok {
		return
	}

	var req PublicReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	hold, err := h.holdUC.Execute(c.Request.Context(), ucBooking.PlaceHoldInput{
		CompanyID: company.ID,
		StaffID:   req.StaffID,
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.Created(c, hold)
}

// ======================================================
// BOOKING
// ======================================================

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	company, ok := h.companyFromSlug(c)
	if !ok {
		return
	}

	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		CompanyID:     company.ID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
		HoldID:        req.HoldID,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"id":         ap.ID,
		"staff_id":   ap.StaffID,
		"start_time": ap.StartTime,
		"end_time":   ap.EndTime,
		"status":     ap.Status,
	})
}

// ======================================================
// HELPERS
// ======================================================

func (h *PublicHandler) companyFromSlug(c *gin.Context) (*models.Company, bool) {
	company, err := h.repo.GetCompanyBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.NotFound(c, "company_not_found", "no company at this address")
		return nil, false
	}
	return company, true
}
