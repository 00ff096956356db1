package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerFields is the shape shared by realized income and expense
// records. The two kinds live in physically separate tables; the sign
// of a movement is conveyed by which table the row is in, so Amount is
// always non-negative at rest.
//
// SourceLaunchID back-references the future launch a row was derived
// from, when it was created by completing one. It lets a retry of the
// completion detect an already-written entry instead of duplicating it.
type LedgerFields struct {
	ID             uint            `gorm:"primaryKey"`
	UserID         uint            `gorm:"index;not null"`
	CategoryID     *uint           `gorm:"index"`
	Description    string          `gorm:"size:255"`
	Amount         decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	Date           Date            `gorm:"index;not null"`
	SourceLaunchID *uint           `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IncomeEntry is a realized income record.
type IncomeEntry struct {
	LedgerFields
}

// ExpenseEntry is a realized expense record.
type ExpenseEntry struct {
	LedgerFields
}
