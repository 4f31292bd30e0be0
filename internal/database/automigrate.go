package database

import (
	"fmt"

	"gorm.io/gorm"

	"campus-lostfound-api/internal/domain"
)

// AutoMigrate runs GORM auto-migration for all domain models.
// It creates tables, indexes and foreign key constraints (including
// the post -> comments ON DELETE CASCADE) from the struct definitions
// in the domain package.
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&domain.User{},
		&domain.Post{},
		&domain.Comment{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
