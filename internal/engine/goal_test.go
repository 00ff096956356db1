package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
)

func validGoalInput() GoalInput {
	return GoalInput{
		Title:        "emergency fund",
		Type:         models.GoalSave,
		TargetAmount: dec("1000.00"),
		Deadline:     models.NewDate(2025, time.December, 31),
		Why:          "sleep better",
	}
}

func TestCreateGoal(t *testing.T) {
	e := newTestEngine(t)

	goal, err := e.CreateGoal(testUser, validGoalInput())
	require.NoError(t, err)

	assert.Equal(t, models.GoalActive, goal.Status)
	assert.True(t, goal.CurrentAmount.IsZero())
	assert.Equal(t, "2025-12-31", goal.Deadline.String())
}

func TestCreateGoal_Validation(t *testing.T) {
	e := newTestEngine(t)

	t.Run("rejects non-positive target", func(t *testing.T) {
		in := validGoalInput()
		in.TargetAmount = dec("-5")
		_, err := e.CreateGoal(testUser, in)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "target_amount", vErr.Field)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		in := validGoalInput()
		in.Type = "wish"
		_, err := e.CreateGoal(testUser, in)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects missing deadline", func(t *testing.T) {
		in := validGoalInput()
		in.Deadline = models.Date{}
		_, err := e.CreateGoal(testUser, in)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("rejects dangling card reference", func(t *testing.T) {
		cardID := uint(424242)
		in := validGoalInput()
		in.Type = models.GoalPayOffDebt
		in.CardID = &cardID
		_, err := e.CreateGoal(testUser, in)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddProgress(t *testing.T) {
	e := newTestEngine(t)

	goal, err := e.CreateGoal(testUser, validGoalInput())
	require.NoError(t, err)

	t.Run("accumulates exactly", func(t *testing.T) {
		updated, completed, err := e.AddProgress(testUser, goal.ID, dec("250.50"), "payday", "good")
		require.NoError(t, err)
		assert.False(t, completed)
		assert.True(t, updated.CurrentAmount.Equal(dec("250.50")))
		assert.Equal(t, models.GoalActive, updated.Status)
	})

	t.Run("negative delta adjusts down", func(t *testing.T) {
		updated, completed, err := e.AddProgress(testUser, goal.ID, dec("-50.50"), "", "")
		require.NoError(t, err)
		assert.False(t, completed)
		assert.True(t, updated.CurrentAmount.Equal(dec("200.00")))
	})

	t.Run("completes when reaching target", func(t *testing.T) {
		updated, completed, err := e.AddProgress(testUser, goal.ID, dec("800.00"), "done", "great")
		require.NoError(t, err)
		assert.True(t, completed)
		assert.Equal(t, models.GoalCompleted, updated.Status)
		assert.True(t, updated.CurrentAmount.Equal(dec("1000.00")))
	})

	t.Run("completed is terminal", func(t *testing.T) {
		_, _, err := e.AddProgress(testUser, goal.ID, dec("1.00"), "", "")
		assert.ErrorIs(t, err, ErrConflict)

		_, _, err = e.AddProgress(testUser, goal.ID, dec("-999.00"), "", "")
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("leaves a check-in per contribution", func(t *testing.T) {
		checkIns, err := e.ListCheckIns(testUser, goal.ID)
		require.NoError(t, err)
		require.Len(t, checkIns, 3)
		require.NotNil(t, checkIns[0].AmountAdded)
		assert.True(t, checkIns[0].AmountAdded.Equal(dec("250.50")))
		assert.Equal(t, "payday", checkIns[0].Note)
	})
}

// Contributing to a paused goal must not silently resume it, but a
// contribution that reaches the target still completes it.
func TestAddProgress_PausedGoal(t *testing.T) {
	e := newTestEngine(t)

	goal, err := e.CreateGoal(testUser, validGoalInput())
	require.NoError(t, err)
	_, err = e.SetGoalStatus(testUser, goal.ID, models.GoalPaused)
	require.NoError(t, err)

	updated, completed, err := e.AddProgress(testUser, goal.ID, dec("100.00"), "", "")
	require.NoError(t, err)
	assert.False(t, completed)
	assert.Equal(t, models.GoalPaused, updated.Status)

	updated, completed, err = e.AddProgress(testUser, goal.ID, dec("900.00"), "", "")
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, models.GoalCompleted, updated.Status)
}

func TestSetGoalStatus(t *testing.T) {
	e := newTestEngine(t)

	goal, err := e.CreateGoal(testUser, validGoalInput())
	require.NoError(t, err)

	t.Run("toggles both ways", func(t *testing.T) {
		g, err := e.SetGoalStatus(testUser, goal.ID, models.GoalPaused)
		require.NoError(t, err)
		assert.Equal(t, models.GoalPaused, g.Status)

		g, err = e.SetGoalStatus(testUser, goal.ID, models.GoalActive)
		require.NoError(t, err)
		assert.Equal(t, models.GoalActive, g.Status)
	})

	t.Run("rejects completed as a target status", func(t *testing.T) {
		_, err := e.SetGoalStatus(testUser, goal.ID, models.GoalCompleted)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
	})

	t.Run("completed goals cannot move", func(t *testing.T) {
		_, _, err := e.AddProgress(testUser, goal.ID, dec("1000.00"), "", "")
		require.NoError(t, err)

		_, err = e.SetGoalStatus(testUser, goal.ID, models.GoalPaused)
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestDeleteGoal_RemovesCheckIns(t *testing.T) {
	e := newTestEngine(t)

	goal, err := e.CreateGoal(testUser, validGoalInput())
	require.NoError(t, err)
	_, _, err = e.AddProgress(testUser, goal.ID, dec("10"), "first", "")
	require.NoError(t, err)

	require.NoError(t, e.DeleteGoal(testUser, goal.ID))

	var count int64
	require.NoError(t, e.DB.Model(&models.CheckIn{}).Where("goal_id = ?", goal.ID).Count(&count).Error)
	assert.Zero(t, count)

	_, err = e.GetGoal(testUser, goal.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMonthlySuggestion(t *testing.T) {
	e := newTestEngine(t)
	e.Now = fixedClock(2024, time.January, 15)

	t.Run("divides remaining by whole months", func(t *testing.T) {
		got := e.MonthlySuggestion(dec("1200"), dec("200"), models.NewDate(2024, time.November, 15))
		assert.True(t, got.Equal(dec("100")), "got %s", got)
	})

	t.Run("past deadline floors at one month", func(t *testing.T) {
		got := e.MonthlySuggestion(dec("1200"), dec("200"), models.NewDate(2023, time.June, 1))
		assert.True(t, got.Equal(dec("1000")), "got %s", got)
	})

	t.Run("deadline within current month floors at one", func(t *testing.T) {
		got := e.MonthlySuggestion(dec("500"), dec("0"), models.NewDate(2024, time.January, 31))
		assert.True(t, got.Equal(dec("500")), "got %s", got)
	})

	t.Run("zero when target already reached", func(t *testing.T) {
		got := e.MonthlySuggestion(dec("1000"), dec("1000"), models.NewDate(2025, time.January, 1))
		assert.True(t, got.IsZero())

		got = e.MonthlySuggestion(dec("1000"), dec("1500"), models.NewDate(2025, time.January, 1))
		assert.True(t, got.IsZero())
	})
}

func TestGoalHealth(t *testing.T) {
	e := newTestEngine(t)
	// halfway through a 100-day goal window
	e.Now = fixedClock(2024, time.February, 20)
	created := models.NewDate(2024, time.January, 1)
	deadline := models.NewDate(2024, time.April, 10)

	t.Run("ahead of pace", func(t *testing.T) {
		assert.Equal(t, HealthAhead, e.GoalHealth(dec("80"), dec("100"), created, deadline))
	})

	t.Run("on pace", func(t *testing.T) {
		assert.Equal(t, HealthOnTrack, e.GoalHealth(dec("50"), dec("100"), created, deadline))
	})

	t.Run("behind pace", func(t *testing.T) {
		assert.Equal(t, HealthBehind, e.GoalHealth(dec("10"), dec("100"), created, deadline))
	})

	t.Run("past deadline incomplete is behind", func(t *testing.T) {
		e.Now = fixedClock(2024, time.June, 1)
		assert.Equal(t, HealthBehind, e.GoalHealth(dec("90"), dec("100"), created, deadline))
		e.Now = fixedClock(2024, time.February, 20)
	})
}
