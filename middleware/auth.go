// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"nexus-events/logger"
)

// SessionProfileKey is the session field holding the authenticated profile id.
const SessionProfileKey = "profileID"

// -------------- authentication middleware --------------

// AuthRequired ensures the user is logged in.
// How it works:
// - Retrieves the session from the request context.
// - Checks if the profile id session variable is set.
// - If missing, redirects to "/login" and aborts execution.
// - Otherwise, the request proceeds.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	profileID := session.Get(SessionProfileKey)

	// block request if the session carries no identity
	if profileID == nil {
		logger.Warn.Printf("AuthRequired: no profile in session for %s", c.Request.URL.Path)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	logger.Debug.Println("[AuthRequired] User authenticated - proceeding with request")
	c.Next()
}
