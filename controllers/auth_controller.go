// Package controllers controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"nexus-events/logger"
	"nexus-events/middleware"
	"nexus-events/services"
)

// AuthController handles signup, login and logout.
type AuthController struct {
	Profiles *services.ProfileService
}

// NewAuthController initializes a new instance of AuthController.
func NewAuthController(profiles *services.ProfileService) *AuthController {
	return &AuthController{Profiles: profiles}
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Health responds to load balancer health checks.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Signup creates a profile for a new user and logs them in. The profile
// always starts with the plain user role.
func (ac *AuthController) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password are required"})
		return
	}

	profile, err := ac.Profiles.Signup(req.Email, req.Password)
	if err != nil {
		logger.Error.Printf("Signup: failed for %s: %v", req.Email, err)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "could not create account"})
		return
	}

	ac.startSession(c, profile.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": profile.ID})
}

// PerformLogin validates credentials and starts a session holding only the
// profile id; the role is looked up fresh on every request.
func (ac *AuthController) PerformLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email and password are required"})
		return
	}

	profile, err := ac.Profiles.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": err.Error()})
			return
		}
		logger.Error.Printf("PerformLogin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "login failed"})
		return
	}

	ac.startSession(c, profile.ID)
	logger.Info.Printf("PerformLogin: %s logged in", profile.Email)
	c.JSON(http.StatusOK, gin.H{"success": true, "id": profile.ID, "role": profile.Role})
}

// Logout clears the session and sends the user back to the login page.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Printf("Logout: error saving session during logout: %v", err)
	} else {
		logger.Info.Println("Logout: session cleared successfully")
	}

	c.Redirect(http.StatusFound, "/login")
}

// ShowLoginPage is a minimal placeholder; the real UI lives in the
// frontend that consumes this service.
func (ac *AuthController) ShowLoginPage(c *gin.Context) {
	c.String(http.StatusOK, "POST email and password to /login")
}

func (ac *AuthController) startSession(c *gin.Context, profileID string) {
	session := sessions.Default(c)
	session.Set(middleware.SessionProfileKey, profileID)
	if err := session.Save(); err != nil {
		logger.Error.Printf("startSession: failed to save session: %v", err)
	}
}
