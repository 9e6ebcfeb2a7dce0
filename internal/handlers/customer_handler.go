package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/models"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

func (h *CustomerHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	q := h.db.Where("company_id = ?", companyID)

	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR phone LIKE ?", like, like)
	}

	var customers []models.Customer
	if err := q.Order("name ASC").Limit(200).Find(&customers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_customers", "could not load customers")
		return
	}

	httpresp.List(c, customers)
}
