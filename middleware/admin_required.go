// Package middleware description is Middleware that checks if the user is an admin.
// file: middleware/admin_required.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexus-events/logger"
)

// AdminRequired blocks everything below the admin management surface unless
// the request's role claim is admin. JSON routes get a 401, browser routes
// are redirected to the public page.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)

		logger.Debug.Printf("AdminRequired Middleware - role=%q", role)

		if !role.CanManage() {
			logger.Warn.Println("AdminRequired Middleware - Unauthorized attempt blocked")
			if wantsJSON(c) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			} else {
				c.Redirect(http.StatusFound, "/")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// wantsJSON treats API paths and explicit JSON accepts as API clients.
func wantsJSON(c *gin.Context) bool {
	if len(c.Request.URL.Path) >= 5 && c.Request.URL.Path[:5] == "/api/" {
		return true
	}
	return c.GetHeader("Accept") == "application/json"
}
