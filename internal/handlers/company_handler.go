package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/timezone"
)

type CompanyHandler struct {
	db *gorm.DB
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{db: db}
}

type UpdateCompanyRequest struct {
	Name              *string `json:"name"`
	Phone             *string `json:"phone"`
	Address           *string `json:"address"`
	Timezone          *string `json:"timezone"`
	MinAdvanceMinutes *int    `json:"min_advance_minutes"`
}

func (h *CompanyHandler) GetMeCompany(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		httperr.NotFound(c, "company_not_found", "company no longer exists")
		return
	}

	httpresp.OK(c, company)
}

func (h *CompanyHandler) UpdateMeCompany(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var company models.Company
	if err := h.db.First(&company, companyID).Error; err != nil {
		httperr.NotFound(c, "company_not_found", "company no longer exists")
		return
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		company.Name = *req.Name
	}
	if req.Phone != nil {
		company.Phone = *req.Phone
	}
	if req.Address != nil {
		company.Address = *req.Address
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "unknown IANA timezone")
			return
		}
		company.Timezone = *req.Timezone
	}
	if req.MinAdvanceMinutes != nil {
		if *req.MinAdvanceMinutes < 0 {
			httperr.BadRequest(c, "invalid_min_advance", "minimum advance cannot be negative")
			return
		}
		company.MinAdvanceMinutes = *req.MinAdvanceMinutes
	}

	if err := h.db.Save(&company).Error; err != nil {
		httperr.Internal(c, "failed_to_update_company", "could not save the company")
		return
	}

	httpresp.OK(c, company)
}
