package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal types.
const (
	GoalSave       = "save"
	GoalReduce     = "reduce"
	GoalPayOffDebt = "payoff_debt"
	GoalCustom     = "custom"
)

// ValidGoalType reports whether s is a known goal type.
func ValidGoalType(s string) bool {
	switch s {
	case GoalSave, GoalReduce, GoalPayOffDebt, GoalCustom:
		return true
	}
	return false
}

// Goal statuses. Active and paused toggle freely; completed is
// terminal.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalPaused    = "paused"
)

// Goal is a savings/reduction/debt target tracked as a current amount
// against a target amount, with a deadline. The reflection fields are
// free text captured once at creation.
type Goal struct {
	ID            uint            `gorm:"primaryKey"`
	UserID        uint            `gorm:"index;not null"`
	Title         string          `gorm:"size:128;not null"`
	Type          string          `gorm:"size:16;index;not null"`
	Description   string          `gorm:"size:255"`
	TargetAmount  decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	CurrentAmount decimal.Decimal `gorm:"type:DECIMAL(20,8);not null"`
	Deadline      Date            `gorm:"not null"`
	Status        string          `gorm:"size:16;index;not null;default:active"`
	CategoryID    *uint           `gorm:"index"`
	CardID        *uint           `gorm:"index"`
	Why           string          `gorm:"size:255"`
	WhatToChange  string          `gorm:"size:255"`
	Feeling       string          `gorm:"size:64"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CheckIn is an append-only progress note on a goal. Contributions
// recorded through the progress operation leave one behind as the
// audit trail; check-ins are never edited or reordered.
type CheckIn struct {
	ID          uint             `gorm:"primaryKey"`
	GoalID      uint             `gorm:"index;not null"`
	Mood        string           `gorm:"size:32"`
	Note        string           `gorm:"size:255"`
	AmountAdded *decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CreatedAt   time.Time

	Goal Goal `gorm:"constraint:OnDelete:CASCADE"`
}
