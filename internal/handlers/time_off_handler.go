package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/audit"
	"github.com/appointra/scheduler/internal/clock"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/models"
)

// TimeOffHandler runs the request/approve workflow. Only approved spans ever
// block bookings; pending ones are invisible to the slot engine.
type TimeOffHandler struct {
	db    *gorm.DB
	clk   clock.Clock
	audit *audit.Dispatcher
}

func NewTimeOffHandler(db *gorm.DB, clk clock.Clock, auditD *audit.Dispatcher) *TimeOffHandler {
	return &TimeOffHandler{db: db, clk: clk, audit: auditD}
}

type RequestTimeOffRequest struct {
	StartDate string `json:"start_date" binding:"required"` // YYYY-MM-DD
	EndDate   string `json:"end_date" binding:"required"`   // YYYY-MM-DD, inclusive
	Reason    string `json:"reason"`
}

func (h *TimeOffHandler) Request(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req RequestTimeOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		httperr.NotFound(c, "company_not_found", "company no longer exists")
		return
	}

	start, err1 := parseDateInCompany(&company, req.StartDate)
	end, err2 := parseDateInCompany(&company, req.EndDate)
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "dates must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		httperr.BadRequest(c, "invalid_date_range", "end date is before start date")
		return
	}

	span := models.TimeOff{
		CompanyID: companyID,
		StaffID:   staffID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
		Status:    models.TimeOffPending,
	}

	if err := h.db.Create(&span).Error; err != nil {
		httperr.Internal(c, "failed_to_create_time_off", "could not save the request")
		return
	}

	httpresp.Created(c, span)
}

func (h *TimeOffHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)
	role := c.GetString(middleware.ContextRole)
	staffID := c.MustGet(middleware.ContextStaffID).(uint)

	q := h.db.Where("company_id = ?", companyID)

	// Plain staff only see their own requests.
	if role == models.RoleStaff {
		q = q.Where("staff_id = ?", staffID)
	}

	var spans []models.TimeOff
	if err := q.Order("start_date DESC").Find(&spans).Error; err != nil {
		httperr.Internal(c, "failed_to_list_time_off", "could not load requests")
		return
	}

	httpresp.List(c, spans)
}

func (h *TimeOffHandler) Approve(c *gin.Context) {
	h.decide(c, models.TimeOffApproved, "time_off_approved")
}

func (h *TimeOffHandler) Reject(c *gin.Context) {
	h.decide(c, models.TimeOffRejected, "time_off_rejected")
}

func (h *TimeOffHandler) decide(c *gin.Context, status, action string) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)
	deciderID := c.MustGet(middleware.ContextStaffID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "time-off id must be numeric")
		return
	}

	var span models.TimeOff
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&span).Error; err != nil {
		httperr.NotFound(c, "time_off_not_found", "request does not exist")
		return
	}

	if span.Status != models.TimeOffPending {
		httperr.BadRequest(c, "already_decided", "the request was already decided")
		return
	}

	now := h.clk.Now()
	span.Status = status
	span.DecidedBy = &deciderID
	span.DecidedAt = &now

	if err := h.db.Save(&span).Error; err != nil {
		httperr.Internal(c, "failed_to_update_time_off", "could not save the decision")
		return
	}

	h.audit.Dispatch(audit.Event{
		CompanyID: companyID,
		StaffID:   &deciderID,
		Action:    action,
		Entity:    "time_off",
		EntityID:  &span.ID,
		Metadata: gin.H{
			"staff_id": span.StaffID,
			"from":     span.StartDate.Format("2006-01-02"),
			"to":       span.EndDate.Format("2006-01-02"),
		},
	})

	httpresp.OK(c, span)
}
