package engine

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
)

// GoalInput carries the fields captured when a goal is created or
// edited.
type GoalInput struct {
	Title        string
	Type         string
	Description  string
	TargetAmount decimal.Decimal
	Deadline     models.Date
	CategoryID   *uint
	CardID       *uint
	Why          string
	WhatToChange string
	Feeling      string
}

func (e *Engine) validateGoalInput(userID uint, in GoalInput) error {
	if in.Title == "" {
		return invalid("title", "title is required")
	}
	if !models.ValidGoalType(in.Type) {
		return invalid("type", "unknown goal type")
	}
	if in.TargetAmount.Sign() <= 0 {
		return invalid("target_amount", "must be positive")
	}
	if in.Deadline.IsZero() {
		return invalid("deadline", "deadline is required")
	}

	if in.CategoryID != nil {
		var cat models.Category
		err := e.DB.Where("id = ? AND user_id = ?", *in.CategoryID, userID).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return storeErr("load category", err)
		}
	}
	if in.CardID != nil {
		var card models.Card
		err := e.DB.Where("id = ? AND user_id = ?", *in.CardID, userID).First(&card).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return storeErr("load card", err)
		}
	}
	return nil
}

// CreateGoal records a new active goal with zero progress.
func (e *Engine) CreateGoal(userID uint, in GoalInput) (*models.Goal, error) {
	if err := e.validateGoalInput(userID, in); err != nil {
		return nil, err
	}

	goal := models.Goal{
		UserID:        userID,
		Title:         in.Title,
		Type:          in.Type,
		Description:   in.Description,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: decimal.Zero,
		Deadline:      in.Deadline,
		Status:        models.GoalActive,
		CategoryID:    in.CategoryID,
		CardID:        in.CardID,
		Why:           in.Why,
		WhatToChange:  in.WhatToChange,
		Feeling:       in.Feeling,
	}
	if err := e.DB.Create(&goal).Error; err != nil {
		return nil, storeErr("create goal", err)
	}
	return &goal, nil
}

// GetGoal loads one of the user's goals.
func (e *Engine) GetGoal(userID, id uint) (*models.Goal, error) {
	var goal models.Goal
	err := e.DB.Where("id = ? AND user_id = ?", id, userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("load goal", err)
	}
	return &goal, nil
}

// ListGoals returns the user's goals, optionally filtered by status.
func (e *Engine) ListGoals(userID uint, status string) ([]models.Goal, error) {
	q := e.DB.Where("user_id = ?", userID)
	if status != "" {
		if status != models.GoalActive && status != models.GoalPaused && status != models.GoalCompleted {
			return nil, invalid("status", "unknown goal status")
		}
		q = q.Where("status = ?", status)
	}

	var goals []models.Goal
	if err := q.Order("deadline ASC, id ASC").Find(&goals).Error; err != nil {
		return nil, storeErr("list goals", err)
	}
	return goals, nil
}

// UpdateGoal edits a goal's descriptive fields and target. Progress and
// status are only changed through AddProgress and SetGoalStatus.
func (e *Engine) UpdateGoal(userID, id uint, in GoalInput) (*models.Goal, error) {
	goal, err := e.GetGoal(userID, id)
	if err != nil {
		return nil, err
	}
	if goal.Status == models.GoalCompleted {
		return nil, ErrConflict
	}
	if err := e.validateGoalInput(userID, in); err != nil {
		return nil, err
	}

	goal.Title = in.Title
	goal.Type = in.Type
	goal.Description = in.Description
	goal.TargetAmount = in.TargetAmount
	goal.Deadline = in.Deadline
	goal.CategoryID = in.CategoryID
	goal.CardID = in.CardID

	if err := e.DB.Save(goal).Error; err != nil {
		return nil, storeErr("save goal", err)
	}
	return goal, nil
}

// DeleteGoal removes a goal and its check-in history.
func (e *Engine) DeleteGoal(userID, id uint) error {
	goal, err := e.GetGoal(userID, id)
	if err != nil {
		return err
	}
	if err := e.DB.Where("goal_id = ?", goal.ID).Delete(&models.CheckIn{}).Error; err != nil {
		return storeErr("delete check-ins", err)
	}
	if err := e.DB.Delete(goal).Error; err != nil {
		return storeErr("delete goal", err)
	}
	return nil
}

// AddProgress records a contribution towards a goal. Delta may be
// negative, acting as a manual adjustment. The goal completes when the
// new amount reaches the target; otherwise its pause state is left
// alone, so contributing to a paused goal does not silently resume it
// (it can still complete directly from paused). Completed goals accept
// no further contributions.
//
// A check-in carrying the delta is appended as the contribution's audit
// trail. Returns the updated goal and whether this contribution
// completed it.
func (e *Engine) AddProgress(userID, goalID uint, delta decimal.Decimal, note, mood string) (*models.Goal, bool, error) {
	goal, err := e.GetGoal(userID, goalID)
	if err != nil {
		return nil, false, err
	}
	if goal.Status == models.GoalCompleted {
		return nil, false, ErrConflict
	}

	newAmount := goal.CurrentAmount.Add(delta)
	completed := newAmount.Cmp(goal.TargetAmount) >= 0

	goal.CurrentAmount = newAmount
	if completed {
		goal.Status = models.GoalCompleted
	}
	if err := e.DB.Save(goal).Error; err != nil {
		return nil, false, storeErr("save goal", err)
	}

	checkIn := models.CheckIn{
		GoalID:      goal.ID,
		Mood:        mood,
		Note:        note,
		AmountAdded: &delta,
	}
	if err := e.DB.Create(&checkIn).Error; err != nil {
		return nil, false, storeErr("create check-in", err)
	}

	return goal, completed, nil
}

// SetGoalStatus toggles a goal between active and paused. Completed
// goals are terminal and cannot leave that status.
func (e *Engine) SetGoalStatus(userID, id uint, status string) (*models.Goal, error) {
	if status != models.GoalActive && status != models.GoalPaused {
		return nil, invalid("status", "must be active or paused")
	}

	goal, err := e.GetGoal(userID, id)
	if err != nil {
		return nil, err
	}
	if goal.Status == models.GoalCompleted {
		return nil, ErrConflict
	}

	goal.Status = status
	if err := e.DB.Save(goal).Error; err != nil {
		return nil, storeErr("save goal", err)
	}
	return goal, nil
}

// ListCheckIns returns a goal's check-in history, oldest first.
func (e *Engine) ListCheckIns(userID, goalID uint) ([]models.CheckIn, error) {
	if _, err := e.GetGoal(userID, goalID); err != nil {
		return nil, err
	}

	var checkIns []models.CheckIn
	if err := e.DB.Where("goal_id = ?", goalID).
		Order("created_at ASC, id ASC").
		Find(&checkIns).Error; err != nil {
		return nil, storeErr("list check-ins", err)
	}
	return checkIns, nil
}

// MonthlySuggestion returns the advisory amount to contribute each
// month to reach target by deadline. Whole months remaining are floored
// at one, so a past or current-month deadline divides by 1 instead of
// producing a negative or infinite result. The value is never persisted
// on the goal.
func (e *Engine) MonthlySuggestion(target, current decimal.Decimal, deadline models.Date) decimal.Decimal {
	remaining := target.Sub(current)
	if remaining.Sign() <= 0 {
		return decimal.Zero
	}

	now := e.now()
	months := (deadline.Year()-now.Year())*12 + int(deadline.Month()) - int(now.Month())
	if months < 1 {
		months = 1
	}
	return remaining.DivRound(decimal.NewFromInt(int64(months)), 2)
}

// Goal health signals, driving the feedback banner.
const (
	HealthAhead   = "ahead"
	HealthOnTrack = "on_track"
	HealthBehind  = "behind"
)

// GoalHealth compares the progress fraction against the elapsed-time
// fraction between creation and deadline. Within five points of pace is
// on track; further ahead or behind picks the outer tiers.
func (e *Engine) GoalHealth(current, target decimal.Decimal, createdAt, deadline models.Date) string {
	if target.Sign() <= 0 {
		return HealthOnTrack
	}
	progress, _ := current.Div(target).Float64()

	totalDays := createdAt.DaysUntil(deadline)
	if totalDays <= 0 {
		if progress >= 1 {
			return HealthAhead
		}
		return HealthBehind
	}
	elapsedDays := createdAt.DaysUntil(models.DateOf(e.now()))
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	if elapsedDays > totalDays {
		elapsedDays = totalDays
	}
	elapsed := float64(elapsedDays) / float64(totalDays)

	switch {
	case progress >= elapsed+0.05:
		return HealthAhead
	case progress <= elapsed-0.05:
		return HealthBehind
	default:
		return HealthOnTrack
	}
}
