package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/middleware"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/validators"
)

// StaffHandler lets owners and managers run the roster. Deactivation is the
// only removal: history keeps pointing at the row.
type StaffHandler struct {
	db *gorm.DB
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{db: db}
}

type CreateStaffRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

type UpdateStaffRequest struct {
	Name   *string `json:"name"`
	Phone  *string `json:"phone"`
	Role   *string `json:"role"`
	Active *bool   `json:"active"`
}

func validRole(role string) bool {
	return role == models.RoleOwner || role == models.RoleManager || role == models.RoleStaff
}

func (h *StaffHandler) List(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var staff []models.Staff
	if err := h.db.
		Preload("Services").
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "could not load the roster")
		return
	}

	httpresp.List(c, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if !validRole(role) {
		httperr.BadRequest(c, "invalid_role", "role must be owner, manager or staff")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.DeliverableEmailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "that e-mail domain does not receive mail")
		return
	}

	var count int64
	h.db.Model(&models.Staff{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "email_already_exists", "that e-mail already has an account")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "could not process the password")
		return
	}

	staff := models.Staff{
		CompanyID:    companyID,
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         role,
		Active:       true,
	}

	if err := h.db.Create(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_create_staff", "could not save the account")
		return
	}

	httpresp.Created(c, staff)
}

func (h *StaffHandler) Update(c *gin.Context) {
	companyID := c.MustGet(middleware.ContextCompanyID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "staff id must be numeric")
		return
	}

	var staff models.Staff
	if err := h.db.
		Where("id = ? AND company_id = ?", id, companyID).
		First(&staff).Error; err != nil {
		httperr.NotFound(c, "staff_not_found", "account does not exist")
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.Phone != nil {
		staff.Phone = *req.Phone
	}
	if req.Role != nil {
		if !validRole(*req.Role) {
			httperr.BadRequest(c, "invalid_role", "role must be owner, manager or staff")
			return
		}
		staff.Role = *req.Role
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	if err := h.db.Save(&staff).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "could not save the account")
		return
	}

	httpresp.OK(c, staff)
}
