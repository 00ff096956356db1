package period

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
)

func item(date string, amount string) Item {
	d, err := models.ParseDate(date)
	if err != nil {
		panic(err)
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		panic(err)
	}
	return Item{Date: d, Amount: a}
}

func TestSummarize(t *testing.T) {
	t.Run("empty set has zero average", func(t *testing.T) {
		got := Summarize(nil, &Range{
			From: models.NewDate(2024, time.January, 1),
			To:   models.NewDate(2024, time.January, 31),
		})
		assert.True(t, got.Total.IsZero())
		assert.Zero(t, got.Count)
		assert.True(t, got.Average.IsZero())
	})

	items := []Item{
		item("2024-01-10", "100"),
		item("2024-01-20", "50"),
		item("2024-02-01", "30"),
	}

	t.Run("nil range aggregates everything", func(t *testing.T) {
		got := Summarize(items, nil)
		assert.Equal(t, 3, got.Count)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(180)))
		assert.True(t, got.Average.Equal(decimal.NewFromInt(60)))
	})

	t.Run("endpoints are inclusive", func(t *testing.T) {
		rng := &Range{
			From: models.NewDate(2024, time.January, 10),
			To:   models.NewDate(2024, time.January, 20),
		}
		got := Summarize(items, rng)
		assert.Equal(t, 2, got.Count)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(150)))
	})

	t.Run("open lower bound", func(t *testing.T) {
		rng := &Range{To: models.NewDate(2024, time.January, 31)}
		got := Summarize(items, rng)
		assert.Equal(t, 2, got.Count)
	})

	t.Run("open upper bound", func(t *testing.T) {
		rng := &Range{From: models.NewDate(2024, time.January, 15)}
		got := Summarize(items, rng)
		assert.Equal(t, 2, got.Count)
		assert.True(t, got.Total.Equal(decimal.NewFromInt(80)))
	})
}

func TestPrevious(t *testing.T) {
	t.Run("nil or partial range", func(t *testing.T) {
		assert.Nil(t, Previous(nil))
		assert.Nil(t, Previous(&Range{From: models.NewDate(2024, time.March, 1)}))
		assert.Nil(t, Previous(&Range{To: models.NewDate(2024, time.March, 31)}))
	})

	t.Run("leap-year february", func(t *testing.T) {
		rng := &Range{
			From: models.NewDate(2024, time.February, 1),
			To:   models.NewDate(2024, time.February, 29),
		}
		prev := Previous(rng)
		require.NotNil(t, prev)
		// ends the day before and spans the same number of days
		assert.Equal(t, "2024-01-31", prev.To.String())
		assert.Equal(t, "2024-01-03", prev.From.String())
		assert.Equal(t, rng.From.DaysUntil(rng.To), prev.From.DaysUntil(prev.To))
	})

	t.Run("month-end boundary", func(t *testing.T) {
		rng := &Range{
			From: models.NewDate(2024, time.March, 1),
			To:   models.NewDate(2024, time.March, 31),
		}
		prev := Previous(rng)
		require.NotNil(t, prev)
		assert.Equal(t, "2024-02-29", prev.To.String())
		assert.Equal(t, "2024-01-30", prev.From.String())
	})

	t.Run("single day", func(t *testing.T) {
		d := models.NewDate(2024, time.May, 15)
		prev := Previous(&Range{From: d, To: d})
		require.NotNil(t, prev)
		assert.Equal(t, "2024-05-14", prev.From.String())
		assert.Equal(t, "2024-05-14", prev.To.String())
	})
}

func TestPctChange(t *testing.T) {
	t.Run("both zero", func(t *testing.T) {
		got := PctChange(decimal.Zero, decimal.Zero)
		assert.Zero(t, got.Pct)
		assert.True(t, got.IsPositive)
	})

	t.Run("previous zero yields infinity sentinel", func(t *testing.T) {
		got := PctChange(decimal.NewFromInt(50), decimal.Zero)
		assert.True(t, math.IsInf(got.Pct, 1))
		assert.True(t, got.IsPositive)
	})

	t.Run("increase", func(t *testing.T) {
		got := PctChange(decimal.NewFromInt(150), decimal.NewFromInt(100))
		assert.InDelta(t, 50.0, got.Pct, 1e-9)
		assert.True(t, got.IsPositive)
	})

	t.Run("decrease", func(t *testing.T) {
		got := PctChange(decimal.NewFromInt(80), decimal.NewFromInt(100))
		assert.InDelta(t, -20.0, got.Pct, 1e-9)
		assert.False(t, got.IsPositive)
	})

	t.Run("no change", func(t *testing.T) {
		got := PctChange(decimal.NewFromInt(100), decimal.NewFromInt(100))
		assert.Zero(t, got.Pct)
		assert.True(t, got.IsPositive)
	})
}
