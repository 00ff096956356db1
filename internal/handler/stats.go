package handler

import (
	"math"
	"net/http"
	"time"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/period"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatsHandler serves reporting views over the realized ledger.
type StatsHandler struct {
	DB *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{DB: db}
}

type dailyStat struct {
	Date    string          `json:"date"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`
}

type categoryStat struct {
	CategoryID uint            `json:"category_id"`
	Income     decimal.Decimal `json:"income"`
	Expense    decimal.Decimal `json:"expense"`
}

func (h *StatsHandler) fetchRange(userID uint, kind string, rng period.Range) ([]models.LedgerFields, error) {
	var q *gorm.DB
	if kind == models.KindIncome {
		q = h.DB.Model(&models.IncomeEntry{})
	} else {
		q = h.DB.Model(&models.ExpenseEntry{})
	}

	var fields []models.LedgerFields
	err := q.Where("user_id = ? AND date >= ? AND date <= ?", userID, rng.From, rng.To).
		Order("date ASC, id ASC").
		Find(&fields).Error
	return fields, err
}

// pctField renders a period.Change for JSON, mapping the +Inf sentinel
// to a null pct so clients show "new" instead of a number.
func pctField(ch period.Change) gin.H {
	if math.IsInf(ch.Pct, 1) {
		return gin.H{"pct": nil, "is_positive": ch.IsPositive}
	}
	return gin.H{"pct": ch.Pct, "is_positive": ch.IsPositive}
}

// Monthly returns the daily and per-category breakdown for one month
// plus the deltas against the previous month. The expense delta's
// is_positive flag is inverted for display: spending less than last
// month reads as positive.
func (h *StatsHandler) Monthly(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		monthStr = time.Now().Format("2006-01")
	}
	t, err := time.Parse("2006-01", monthStr)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
		return
	}

	first := models.NewDate(t.Year(), t.Month(), 1)
	last := models.Date{Time: first.AddDate(0, 1, -1)}
	rng := period.Range{From: first, To: last}

	incomes, err := h.fetchRange(user.ID, models.KindIncome, rng)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load entries")
		return
	}
	expenses, err := h.fetchRange(user.ID, models.KindExpense, rng)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load entries")
		return
	}

	daily := make(map[string]*dailyStat)
	byCategory := make(map[uint]*categoryStat)
	totalIncome := decimal.Zero
	totalExpense := decimal.Zero

	accumulate := func(fields []models.LedgerFields, income bool) {
		for i := range fields {
			f := &fields[i]
			key := f.Date.String()
			ds, ok := daily[key]
			if !ok {
				ds = &dailyStat{Date: key, Income: decimal.Zero, Expense: decimal.Zero}
				daily[key] = ds
			}

			var cs *categoryStat
			if f.CategoryID != nil {
				cs, ok = byCategory[*f.CategoryID]
				if !ok {
					cs = &categoryStat{CategoryID: *f.CategoryID, Income: decimal.Zero, Expense: decimal.Zero}
					byCategory[*f.CategoryID] = cs
				}
			}

			if income {
				ds.Income = ds.Income.Add(f.Amount)
				totalIncome = totalIncome.Add(f.Amount)
				if cs != nil {
					cs.Income = cs.Income.Add(f.Amount)
				}
			} else {
				ds.Expense = ds.Expense.Add(f.Amount)
				totalExpense = totalExpense.Add(f.Amount)
				if cs != nil {
					cs.Expense = cs.Expense.Add(f.Amount)
				}
			}
		}
	}
	accumulate(incomes, true)
	accumulate(expenses, false)

	dailyList := make([]dailyStat, 0, len(daily))
	for d := first; !d.After(last.Time); d = d.AddDays(1) {
		if ds, ok := daily[d.String()]; ok {
			ds.Balance = ds.Income.Sub(ds.Expense)
			dailyList = append(dailyList, *ds)
		}
	}

	catList := make([]categoryStat, 0, len(byCategory))
	for _, cs := range byCategory {
		catList = append(catList, *cs)
	}

	// month-over-month comparison
	prevRng := period.Previous(&rng)
	prevIncomes, err := h.fetchRange(user.ID, models.KindIncome, *prevRng)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load entries")
		return
	}
	prevExpenses, err := h.fetchRange(user.ID, models.KindExpense, *prevRng)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load entries")
		return
	}

	prevIncomeTotal := decimal.Zero
	for i := range prevIncomes {
		prevIncomeTotal = prevIncomeTotal.Add(prevIncomes[i].Amount)
	}
	prevExpenseTotal := decimal.Zero
	for i := range prevExpenses {
		prevExpenseTotal = prevExpenseTotal.Add(prevExpenses[i].Amount)
	}

	incomeChange := period.PctChange(totalIncome, prevIncomeTotal)
	expenseChange := period.PctChange(totalExpense, prevExpenseTotal)
	expenseChange.IsPositive = !expenseChange.IsPositive

	util.Success(c, util.Response{
		"month":         monthStr,
		"daily":         dailyList,
		"by_category":   catList,
		"total_income":  totalIncome,
		"total_expense": totalExpense,
		"total_balance": totalIncome.Sub(totalExpense),
		"vs_previous": gin.H{
			"income":  pctField(incomeChange),
			"expense": pctField(expenseChange),
		},
	})
}
