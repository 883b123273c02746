// Package services file: services/profile_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"nexus-events/logger"
	"nexus-events/models"
)

// ErrAdminProtected rejects any attempt to change an admin's role, no
// matter who asks.
var ErrAdminProtected = errors.New("cannot modify an admin's role")

// ErrInvalidCredentials covers both unknown email and wrong password so the
// login page leaks nothing.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrProfileNotFound is returned for role updates against unknown targets.
var ErrProfileNotFound = errors.New("profile not found")

// ProfileService owns identity and role management.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService returns a ProfileService bound to db.
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Signup creates a profile on first authentication. New profiles always
// start as plain users; promotion is a separate admin action.
func (s *ProfileService) Signup(email, password string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := models.Profile{Email: email, PasswordHash: string(hash), Role: models.RoleUser}
	if err := s.db.Create(&profile).Error; err != nil {
		logger.Error.Printf("[Signup] create profile for %s failed: %v", email, err)
		return nil, err
	}

	logger.Info.Printf("[Signup] profile %s created for %s", profile.ID, email)
	return &profile, nil
}

// Authenticate verifies email/password and returns the matching profile.
func (s *ProfileService) Authenticate(email, password string) (*models.Profile, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var profile models.Profile
	if err := s.db.First(&profile, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &profile, nil
}

// UpdateRole assigns user or helper to the target profile. Admins are
// never modified through this path, regardless of the caller's privilege;
// promoting someone to admin happens outside the application.
func (s *ProfileService) UpdateRole(targetID string, newRole models.Role) error {
	if newRole != models.RoleUser && newRole != models.RoleHelper {
		return fmt.Errorf("invalid role %q", newRole)
	}

	var target models.Profile
	if err := s.db.Select("id", "role").First(&target, "id = ?", targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProfileNotFound
		}
		return err
	}

	if target.Role == models.RoleAdmin {
		logger.Warn.Printf("[UpdateRole] blocked attempt to modify admin %s", targetID)
		return ErrAdminProtected
	}

	if err := s.db.Model(&models.Profile{}).Where("id = ?", targetID).Update("role", newRole).Error; err != nil {
		return err
	}

	logger.Info.Printf("[UpdateRole] profile %s -> %s", targetID, newRole)
	return nil
}

// ListProfiles returns every profile for the helper-management view.
func (s *ProfileService) ListProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.db.Order("created_at").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
