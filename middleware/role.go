// Package middleware file: middleware/role.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nexus-events/logger"
	"nexus-events/models"
)

// ContextRoleKey is where RoleClaim stores the resolved role for the request.
const ContextRoleKey = "roleClaim"

// RoleClaim resolves the session's role exactly once per request and stores
// a typed claim in the Gin context. The role is read from the profiles table
// on every request, never cached in the session, so a role change takes
// effect on the holder's next request.
func RoleClaim(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := models.RoleUser

		session := sessions.Default(c)
		if profileID, ok := session.Get(SessionProfileKey).(string); ok && profileID != "" {
			var profile models.Profile
			if err := db.Select("role").First(&profile, "id = ?", profileID).Error; err == nil {
				role = profile.Role
			} else {
				logger.Warn.Printf("[RoleClaim] profile %s lookup failed: %v", profileID, err)
			}
		}

		c.Set(ContextRoleKey, role)
		c.Next()
	}
}

// CurrentRole returns the role claim set by RoleClaim, defaulting to RoleUser.
func CurrentRole(c *gin.Context) models.Role {
	if v, ok := c.Get(ContextRoleKey); ok {
		if role, ok := v.(models.Role); ok {
			return role
		}
	}
	return models.RoleUser
}

// HelperRequired gates the scanner and check-in surfaces: helpers and admins
// pass, everyone else is sent back to the public page.
func HelperRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		if !role.CanCheckIn() {
			logger.Warn.Printf("[HelperRequired] role %q blocked from %s", role, c.Request.URL.Path)
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}
