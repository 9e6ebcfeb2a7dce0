package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	staffID := c.MustGet(middleware.ContextStaffID).(uint)

	var staff models.Staff
	if err := h.db.Preload("Company").Preload("Services").First(&staff, staffID).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "account no longer exists")
		return
	}

	httpresp.OK(c, staff)
}
