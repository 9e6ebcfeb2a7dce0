package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	DurationMin int     `json:"duration_min" binding:"required,gt=0"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	DurationMin *int     `json:"duration_min"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Active      *bool    `json:"active"`
}

type AssignStaffRequest struct {
	StaffIDs []uint `json:"staff_ids" binding:"required"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var services []models.Service
	if err := h.db.
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "could not load services")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	service := models.Service{
		CompanyID:   companyID,
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		Price:       req.Price,
		Category:    req.Category,
		Active:      true,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "could not save the service")
		return
	}

	httpresp.Created(c, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	service, ok := h.ownedService(c, companyID)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin <= 0 {
			httperr.BadRequest(c, "invalid_duration", "duration must be positive")
			return
		}
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.Save(service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "could not save the service")
		return
	}

	httpresp.OK(c, service)
}

// AssignStaff replaces the set of staff members qualified to perform the
// service. Auto-assignment only ever books within this set.
func (h *ServiceHandler) AssignStaff(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	service, ok := h.ownedService(c, companyID)
	if !ok {
		return
	}

	var req AssignStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var staff []models.Staff
	if len(req.StaffIDs) > 0 {
		if err := h.db.
			Where("company_id = ? AND id IN ?", companyID, req.StaffIDs).
			Find(&staff).Error; err != nil {
			httperr.Internal(c, "failed_to_load_staff", "could not load staff")
			return
		}
		if len(staff) != len(req.StaffIDs) {
			httperr.BadRequest(c, "unknown_staff", "one or more staff IDs do not belong to this company")
			return
		}
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM staff_services WHERE service_id = ?",
			service.ID,
		).Error; err != nil {
			return err
		}
		for _, s := range staff {
			if err := tx.Exec(
				"INSERT INTO staff_services (staff_id, service_id) VALUES (?, ?)",
				s.ID, service.ID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_assign_staff", "could not update qualifications")
		return
	}

	httpresp.OK(c, gin.H{"service_id": service.ID, "staff_ids": req.StaffIDs})
}

func (h *ServiceHandler) ownedService(c *gin.Context, companyID uint) (*models.Service, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "service id must be numeric")
		return nil, false
	}

	var service models.Service
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "service does not exist")
		return nil, false
	}
	return &service, true
}
