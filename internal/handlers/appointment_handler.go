package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/appointra/scheduler/internal/dto"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/middleware"
	ucBooking "github.com/appointra/scheduler/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler is the staff-side agenda: booking on behalf of a
// walk-in customer, plus cancel/complete and the day/month views.
type AppointmentHandler struct {
	createUC   *ucBooking.CreateAppointment
	cancelUC   *ucBooking.CancelAppointment
	completeUC *ucBooking.CompleteAppointment
	listUC     *ucBooking.ListAppointments
}

func NewAppointmentHandler(
	createUC *ucBooking.CreateAppointment,
	cancelUC *ucBooking.CancelAppointment,
	completeUC *ucBooking.CompleteAppointment,
	listUC *ucBooking.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:   createUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
		listUC:     listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type StaffCreateAppointmentRequest struct {
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	ServiceID     uint   `json:"service_id" binding:"required"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Notes         string `json:"notes"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req StaffCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateAppointmentInput{
		CompanyID:     companyID,
		StaffID:       &staffID,
		ServiceID:     req.ServiceID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Date:          req.Date,
		Time:          req.Time,
		Notes:         req.Notes,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "query parameter date=YYYY-MM-DD is required")
		return
	}

	apps, err := h.listUC.ByDate(c.Request.Context(), companyID, staffID, date)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.List(c, dto.ToAppointmentListDTOs(apps))
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	month := c.Query("month")
	if month == "" {
		httperr.BadRequest(c, "missing_month", "query parameter month=YYYY-MM is required")
		return
	}

	apps, err := h.listUC.ByMonth(c.Request.Context(), companyID, staffID, month)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.List(c, dto.ToAppointmentListDTOs(apps))
}

// ======================================================
// LIFECYCLE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "appointment id must be numeric")
		return
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), uint(id), staffID)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "appointment id must be numeric")
		return
	}

	ap, err := h.completeUC.Execute(c.Request.Context(), uint(id), staffID)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.OK(c, ap)
}
