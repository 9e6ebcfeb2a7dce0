package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/appointra/scheduler/internal/httperr"
)

const (
	ContextStaffID   = "staffID"
	ContextCompanyID = "companyID"
	ContextRole      = "role"
)

// Auth validates the Bearer token and stashes the staff identity on the
// request context. Every /api/me route sits behind this.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			httperr.Unauthorized(c, "missing_token", "authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_token", "expected a Bearer token")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "token is invalid or expired")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token", "malformed claims")
			c.Abort()
			return
		}

		staffID, ok1 := claims["sub"].(float64)
		companyID, ok2 := claims["companyId"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 {
			httperr.Unauthorized(c, "invalid_token", "missing identity claims")
			c.Abort()
			return
		}

		c.Set(ContextStaffID, uint(staffID))
		c.Set(ContextCompanyID, uint(companyID))
		c.Set(ContextRole, role)

		c.Next()
	}
}

// RequireRole gates management actions like time-off approval.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current := c.GetString(ContextRole)
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "insufficient_role", "this action needs a manager or owner account")
		c.Abort()
	}
}
