// Package database owns the GORM connection and schema migration.
// File: database/database.go
package database

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nexus-events/logger"
	"nexus-events/models"
)

// Connect opens the postgres connection described by the DB_* environment
// variables and runs migrations. The returned handle is shared by all
// services; GORM manages its own pool underneath.
func Connect() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	name := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")

	if host == "" || user == "" || name == "" || port == "" {
		return nil, fmt.Errorf("database env missing (need DB_HOST, DB_USER, DB_NAME, DB_PORT)")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, pass, name, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Info.Println("[database.Connect] Database connected and migrated")
	return db, nil
}

// Migrate creates or updates the three tables. Split out so the test
// databases can reuse it.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Event{}, &models.Attendee{}, &models.Profile{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
