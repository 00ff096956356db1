// Package engine owns the two stateful workflows of the application:
// the future-launch lifecycle (pending predictions becoming permanent
// ledger entries) and goal progress tracking. Every operation re-reads
// current state from the store before mutating it; nothing in-process
// is treated as authoritative.
package engine

import (
	"time"

	"gorm.io/gorm"
)

// Engine executes launch and goal operations against the store.
type Engine struct {
	DB  *gorm.DB
	Now func() time.Time
}

// New returns an Engine using the wall clock.
func New(db *gorm.DB) *Engine {
	return &Engine{DB: db, Now: time.Now}
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
