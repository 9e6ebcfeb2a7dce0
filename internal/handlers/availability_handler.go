package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/appointra/scheduler/internal/domain/booking"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/models"
)

// AvailabilityHandler manages the staff member's own recurring weekly
// schedule, the source of the work windows the slot engine carves up.
type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

type WeeklyWindowRequest struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Available bool   `json:"available"`
}

type UpdateAvailabilityRequest struct {
	Windows []WeeklyWindowRequest `json:"windows" binding:"required"`
}

func (h *AvailabilityHandler) Get(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)

	var rows []models.WeeklyAvailability
	if err := h.db.
		Where("staff_id = ?", staffID).
		Order("weekday ASC, start_time ASC").
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_availability", "could not load the schedule")
		return
	}

	httpresp.List(c, rows)
}

// Update replaces the whole weekly schedule in one shot. Partial edits are
// easy to get wrong with split shifts, so the client always sends all rows.
func (h *AvailabilityHandler) Update(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)

	var req UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rows := make([]models.WeeklyAvailability, 0, len(req.Windows))
	for _, w := range req.Windows {
		if w.Weekday < 0 || w.Weekday > 6 {
			httperr.BadRequest(c, "invalid_weekday", "weekday must be 0 (Sunday) through 6 (Saturday)")
			return
		}
		rows = append(rows, models.WeeklyAvailability{
			StaffID:   staffID,
			Weekday:   w.Weekday,
			StartTime: w.StartTime,
			EndTime:   w.EndTime,
			Available: w.Available,
		})
	}

	if err := domain.ValidateWeekly(rows); err != nil {
		writeBookingError(c, err)
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("staff_id = ?", staffID).
			Delete(&models.WeeklyAvailability{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_availability", "could not save the schedule")
		return
	}

	httpresp.List(c, rows)
}
