package handlers

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/appointra/scheduler/internal/config"
	"github.com/appointra/scheduler/internal/httperr"
	"github.com/appointra/scheduler/internal/httpresp"
	"github.com/appointra/scheduler/internal/models"
	"github.com/appointra/scheduler/internal/timezone"
	"github.com/appointra/scheduler/internal/validators"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{db: db, config: cfg}
}

// --------- Requests ---------

type RegisterRequest struct {
	CompanyName     string `json:"company_name" binding:"required"`
	CompanySlug     string `json:"company_slug" binding:"required"`
	CompanyPhone    string `json:"company_phone"`
	CompanyAddress  string `json:"company_address"`
	CompanyTimezone string `json:"company_timezone"`

	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register creates the company tenant together with its owner account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.CompanySlug))

	var count int64
	h.db.Model(&models.Company{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		httperr.BadRequest(c, "slug_already_exists", "that booking address is taken")
		return
	}

	tz := req.CompanyTimezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}
	if !timezone.IsValid(tz) {
		httperr.BadRequest(c, "invalid_timezone", "unknown IANA timezone")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.DeliverableEmailDomain(email) {
		httperr.BadRequest(c, "invalid_email_domain", "that e-mail domain does not receive mail")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "could not process the password")
		return
	}

	company := models.Company{
		Name:     req.CompanyName,
		Slug:     slug,
		Phone:    req.CompanyPhone,
		Address:  req.CompanyAddress,
		Timezone: tz,
	}

	staff := models.Staff{
		Name:         req.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        req.Phone,
		Role:         models.RoleOwner,
		Active:       true,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		staff.CompanyID = company.ID
		return tx.Create(&staff).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_register", "could not create the account")
		return
	}

	token, err := h.generateToken(&staff)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue a session token")
		return
	}

	httpresp.Created(c, gin.H{
		"token": token,
		"staff": gin.H{
			"id":    staff.ID,
			"name":  staff.Name,
			"email": staff.Email,
			"role":  staff.Role,
		},
		"company": gin.H{
			"id":       company.ID,
			"name":     company.Name,
			"slug":     company.Slug,
			"timezone": company.Timezone,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var staff models.Staff
	if err := h.db.Where("email = ? AND active = ?", email, true).First(&staff).Error; err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "email or password is wrong")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "email or password is wrong")
		return
	}

	token, err := h.generateToken(&staff)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue a session token")
		return
	}

	httpresp.OK(c, gin.H{
		"token": token,
		"staff": gin.H{
			"id":    staff.ID,
			"name":  staff.Name,
			"email": staff.Email,
			"role":  staff.Role,
		},
	})
}

func (h *AuthHandler) generateToken(staff *models.Staff) (string, error) {
	claims := jwt.MapClaims{
		"sub":       float64(staff.ID),
		"companyId": float64(staff.CompanyID),
		"role":      staff.Role,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWTSecret))
}
