// Package period computes sums and averages over date-bounded record
// sets and derives the immediately preceding period of equal length,
// for month-over-month style comparisons. It is pure: callers pass
// already-fetched records and nothing here touches the store.
package period

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
)

// Item is one dated amount, the shape shared by ledger entries and
// future launches once mapped down for aggregation.
type Item struct {
	Date   models.Date
	Amount decimal.Decimal
}

// Range is an inclusive [From, To] date interval. A zero endpoint means
// unbounded on that side.
type Range struct {
	From models.Date
	To   models.Date
}

// Complete reports whether both endpoints are set.
func (r Range) Complete() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Contains reports whether d falls inside the range, endpoints
// inclusive.
func (r Range) Contains(d models.Date) bool {
	if !r.From.IsZero() && d.Before(r.From.Time) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To.Time) {
		return false
	}
	return true
}

// Summary is the result of aggregating a record set.
type Summary struct {
	Total   decimal.Decimal `json:"total"`
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
}

// Summarize filters items to rng (nil means no filtering) and returns
// total, count and average. Average is zero on an empty set.
func Summarize(items []Item, rng *Range) Summary {
	total := decimal.Zero
	count := 0
	for _, it := range items {
		if rng != nil && !rng.Contains(it.Date) {
			continue
		}
		total = total.Add(it.Amount)
		count++
	}

	avg := decimal.Zero
	if count > 0 {
		avg = total.Div(decimal.NewFromInt(int64(count)))
	}
	return Summary{Total: total, Count: count, Average: avg}
}

// Previous returns the immediately preceding range of equal length:
// To' = From - 1 day, From' = To' - (To - From). Nil when rng is nil or
// missing an endpoint.
func Previous(rng *Range) *Range {
	if rng == nil || !rng.Complete() {
		return nil
	}
	length := rng.From.DaysUntil(rng.To)
	to := rng.From.AddDays(-1)
	from := to.AddDays(-length)
	return &Range{From: from, To: to}
}

// Change is a percentage delta between two period totals. Pct is +Inf
// when the previous total was zero and the current one is not.
// IsPositive reflects the raw sign; callers rendering expense metrics
// invert it, since a drop in spending reads as positive.
type Change struct {
	Pct        float64 `json:"pct"`
	IsPositive bool    `json:"is_positive"`
}

// PctChange compares a period total against the preceding one.
func PctChange(current, previous decimal.Decimal) Change {
	if previous.IsZero() {
		if current.IsZero() {
			return Change{Pct: 0, IsPositive: true}
		}
		return Change{Pct: math.Inf(1), IsPositive: current.Sign() > 0}
	}
	diff := current.Sub(previous)
	pct, _ := diff.Div(previous.Abs()).Mul(decimal.NewFromInt(100)).Float64()
	return Change{Pct: pct, IsPositive: diff.Sign() >= 0}
}
