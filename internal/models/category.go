package models

import "time"

// Kind of a money movement. Categories, ledger entries and future
// launches all carry one, and a launch can only reference a category of
// its own kind.
const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// ValidKind reports whether s is a known movement kind.
func ValidKind(s string) bool {
	return s == KindIncome || s == KindExpense
}

// Category represents income/expense category.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	Name      string `gorm:"size:64;not null"`
	Kind      string `gorm:"size:16;index;not null"` // income / expense
	Color     string `gorm:"size:16"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
