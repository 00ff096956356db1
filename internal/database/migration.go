package database

import (
	"fmt"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Preference{},
		&models.Category{},
		&models.Card{},
		&models.IncomeEntry{},
		&models.ExpenseEntry{},
		&models.FutureLaunch{},
		&models.Goal{},
		&models.CheckIn{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
