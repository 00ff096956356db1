package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Card represents a credit card whose limit the user tracks. Pay-off
// goals may reference one.
type Card struct {
	ID          uint            `gorm:"primaryKey"`
	UserID      uint            `gorm:"index;not null"`
	Name        string          `gorm:"size:64;not null"`
	CreditLimit decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	ClosingDay  int             `gorm:"default:1"`  // statement closing day of month
	DueDay      int             `gorm:"default:10"` // payment due day of month
	CreatedAt   time.Time
	UpdatedAt   time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
