// Package models file: models/profile.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ------------------------ role model -----------------------

// Role controls which management surfaces a profile may touch.
type Role string

const (
	RoleUser   Role = "user"
	RoleHelper Role = "helper"
	RoleAdmin  Role = "admin"
)

// CanCheckIn reports whether the role may operate the scanner.
func (r Role) CanCheckIn() bool {
	return r == RoleHelper || r == RoleAdmin
}

// CanManage reports whether the role may manage events, attendees and roles.
func (r Role) CanManage() bool {
	return r == RoleAdmin
}

// ---------------------- profile model ----------------------

// Profile is an authenticated identity. Created on signup with RoleUser;
// only an admin changes roles afterwards, and never another admin's.
type Profile struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:varchar(16);not null;default:user"`
	CreatedAt    time.Time `json:"created_at"`
}

func (p *Profile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	return nil
}
