package engine

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
)

// LaunchInput carries the user-editable fields of a future launch.
type LaunchInput struct {
	ScheduledDate models.Date
	Kind          string
	Description   string
	Amount        decimal.Decimal
	CategoryID    uint
}

func (e *Engine) validateLaunchInput(userID uint, in LaunchInput) error {
	if in.ScheduledDate.IsZero() {
		return invalid("scheduled_date", "date is required")
	}
	if !models.ValidKind(in.Kind) {
		return invalid("kind", "must be income or expense")
	}
	if in.Amount.Sign() <= 0 {
		return invalid("amount", "must be positive")
	}
	if in.Description != "" && (len(in.Description) < 3 || len(in.Description) > 200) {
		return invalid("description", "must be 3-200 characters")
	}
	if in.CategoryID == 0 {
		return invalid("category_id", "category is required")
	}

	var cat models.Category
	err := e.DB.Where("id = ? AND user_id = ?", in.CategoryID, userID).First(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storeErr("load category", err)
	}
	if cat.Kind != in.Kind {
		return invalid("category_id", "category kind does not match launch kind")
	}
	return nil
}

// CreateLaunch records a new scheduled transaction in pending status.
// Past dates are allowed; only the calendar validity of the date and
// the category kind are checked.
func (e *Engine) CreateLaunch(userID uint, in LaunchInput) (*models.FutureLaunch, error) {
	if err := e.validateLaunchInput(userID, in); err != nil {
		return nil, err
	}

	launch := models.FutureLaunch{
		UserID:        userID,
		ScheduledDate: in.ScheduledDate,
		Kind:          in.Kind,
		Description:   in.Description,
		Amount:        in.Amount,
		CategoryID:    in.CategoryID,
		Status:        models.LaunchPending,
	}
	if err := e.DB.Create(&launch).Error; err != nil {
		return nil, storeErr("create launch", err)
	}
	return &launch, nil
}

// UpdateLaunch edits a pending launch. Completed launches are frozen
// and kind never changes after creation, so the category relationship
// cannot be orphaned.
func (e *Engine) UpdateLaunch(userID, id uint, in LaunchInput) (*models.FutureLaunch, error) {
	var launch models.FutureLaunch
	err := e.DB.Where("id = ? AND user_id = ?", id, userID).First(&launch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("load launch", err)
	}

	if launch.Status != models.LaunchPending {
		return nil, ErrConflict
	}
	if in.Kind != launch.Kind {
		return nil, invalid("kind", "kind is immutable")
	}
	if err := e.validateLaunchInput(userID, in); err != nil {
		return nil, err
	}

	launch.ScheduledDate = in.ScheduledDate
	launch.Description = in.Description
	launch.Amount = in.Amount
	launch.CategoryID = in.CategoryID

	if err := e.DB.Save(&launch).Error; err != nil {
		return nil, storeErr("save launch", err)
	}
	return &launch, nil
}

// EffectuateLaunch converts a pending launch into a permanent ledger
// entry of the matching kind and marks the launch completed.
//
// The two writes are ordered entry-first and the status flip is
// conditional on the launch still being pending, so the operation is
// idempotent: the entry insert is skipped when a previous attempt
// already wrote one (matched by source launch id), and a repeated or
// racing call fails with ErrConflict instead of duplicating anything.
// A crash between the two writes leaves an entry with a back-reference
// and a still-pending launch, which the next attempt repairs.
func (e *Engine) EffectuateLaunch(userID, id uint) (*models.FutureLaunch, error) {
	var launch models.FutureLaunch
	err := e.DB.Where("id = ? AND user_id = ?", id, userID).First(&launch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("load launch", err)
	}

	if launch.Status != models.LaunchPending {
		return nil, ErrConflict
	}

	if err := e.insertDerivedEntry(&launch); err != nil {
		return nil, err
	}

	res := e.DB.Model(&models.FutureLaunch{}).
		Where("id = ? AND status = ?", launch.ID, models.LaunchPending).
		Update("status", models.LaunchCompleted)
	if res.Error != nil {
		return nil, storeErr("complete launch", res.Error)
	}
	if res.RowsAffected == 0 {
		// Someone else completed it between our read and the flip.
		return nil, ErrConflict
	}

	launch.Status = models.LaunchCompleted
	return &launch, nil
}

func (e *Engine) insertDerivedEntry(launch *models.FutureLaunch) error {
	sourceID := launch.ID
	categoryID := launch.CategoryID
	fields := models.LedgerFields{
		UserID:         launch.UserID,
		CategoryID:     &categoryID,
		Description:    launch.Description,
		Amount:         launch.Amount,
		Date:           launch.ScheduledDate,
		SourceLaunchID: &sourceID,
	}

	switch launch.Kind {
	case models.KindIncome:
		var count int64
		if err := e.DB.Model(&models.IncomeEntry{}).
			Where("source_launch_id = ?", launch.ID).
			Count(&count).Error; err != nil {
			return storeErr("check derived entry", err)
		}
		if count > 0 {
			return nil
		}
		if err := e.DB.Create(&models.IncomeEntry{LedgerFields: fields}).Error; err != nil {
			return storeErr("create income entry", err)
		}
	case models.KindExpense:
		var count int64
		if err := e.DB.Model(&models.ExpenseEntry{}).
			Where("source_launch_id = ?", launch.ID).
			Count(&count).Error; err != nil {
			return storeErr("check derived entry", err)
		}
		if count > 0 {
			return nil
		}
		if err := e.DB.Create(&models.ExpenseEntry{LedgerFields: fields}).Error; err != nil {
			return storeErr("create expense entry", err)
		}
	default:
		return invalid("kind", "must be income or expense")
	}
	return nil
}

// DeleteLaunch removes a launch in either status. Ledger entries
// previously derived from it are left untouched.
func (e *Engine) DeleteLaunch(userID, id uint) error {
	res := e.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&models.FutureLaunch{})
	if res.Error != nil {
		return storeErr("delete launch", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListLaunches returns the user's launches, optionally filtered by
// status, scheduled-date descending.
func (e *Engine) ListLaunches(userID uint, status string) ([]models.FutureLaunch, error) {
	q := e.DB.Where("user_id = ?", userID)
	if status != "" {
		if status != models.LaunchPending && status != models.LaunchCompleted {
			return nil, invalid("status", "must be pending or completed")
		}
		q = q.Where("status = ?", status)
	}

	var launches []models.FutureLaunch
	if err := q.Order("scheduled_date DESC, id DESC").Find(&launches).Error; err != nil {
		return nil, storeErr("list launches", err)
	}
	return launches, nil
}
