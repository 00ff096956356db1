package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Future launch lifecycle. A launch starts pending and is completed at
// most once; there is no path back to pending.
const (
	LaunchPending   = "pending"
	LaunchCompleted = "completed"
)

// FutureLaunch is a scheduled, not-yet-realized income or expense
// prediction. Completing it writes a ledger entry of the matching kind
// and flips Status to completed. Kind is immutable after creation so it
// cannot drift from the referenced category's kind.
type FutureLaunch struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	ScheduledDate Date            `gorm:"index;not null"`
	Kind          string          `gorm:"size:16;index;not null"` // income / expense
	Description   string          `gorm:"size:255"`
	Amount        decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	CategoryID    uint            `gorm:"index;not null"`
	Status        string          `gorm:"size:16;index;not null;default:pending"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category Category
}
