package handler

import (
	"errors"
	"net/http"
	"sort"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/period"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryHandler serves the realized ledger: ordinary income and expense
// records. The two kinds live in separate tables; the handler fans out
// by kind and merges for listing.
type EntryHandler struct {
	DB *gorm.DB
}

func NewEntryHandler(db *gorm.DB) *EntryHandler {
	return &EntryHandler{DB: db}
}

type entryReq struct {
	Kind        string          `json:"kind" binding:"required,oneof=income expense"`
	Date        models.Date     `json:"date" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	CategoryID  *uint           `json:"category_id"`
}

type entryResp struct {
	ID             uint            `json:"id"`
	Kind           string          `json:"kind"`
	Date           models.Date     `json:"date"`
	Description    string          `json:"description"`
	Amount         decimal.Decimal `json:"amount"`
	CategoryID     *uint           `json:"category_id"`
	SourceLaunchID *uint           `json:"source_launch_id,omitempty"`
}

func toEntryResp(kind string, f models.LedgerFields) entryResp {
	return entryResp{
		ID:             f.ID,
		Kind:           kind,
		Date:           f.Date,
		Description:    f.Description,
		Amount:         f.Amount,
		CategoryID:     f.CategoryID,
		SourceLaunchID: f.SourceLaunchID,
	}
}

func (h *EntryHandler) validateEntry(c *gin.Context, userID uint, req *entryReq) bool {
	if req.Amount.Sign() <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "amount must be positive")
		return false
	}
	if req.CategoryID != nil {
		var cat models.Category
		err := h.DB.Where("id = ? AND user_id = ?", *req.CategoryID, userID).First(&cat).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
			return false
		}
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load category")
			return false
		}
		if cat.Kind != req.Kind {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category kind does not match entry kind")
			return false
		}
	}
	return true
}

func (h *EntryHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.Date.IsZero() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date is required")
		return
	}
	if !h.validateEntry(c, user.ID, &req) {
		return
	}

	fields := models.LedgerFields{
		UserID:      user.ID,
		CategoryID:  req.CategoryID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
	}

	var err error
	if req.Kind == models.KindIncome {
		entry := models.IncomeEntry{LedgerFields: fields}
		err = h.DB.Create(&entry).Error
		fields = entry.LedgerFields
	} else {
		entry := models.ExpenseEntry{LedgerFields: fields}
		err = h.DB.Create(&entry).Error
		fields = entry.LedgerFields
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save entry")
		return
	}

	util.Success(c, util.Response{"entry": toEntryResp(req.Kind, fields)})
}

// listFilter is the shared filter for both kind tables.
type listFilter struct {
	rng        *period.Range
	categoryID uint
}

func (h *EntryHandler) queryKind(userID uint, kind string, f listFilter) ([]models.LedgerFields, error) {
	var q *gorm.DB
	if kind == models.KindIncome {
		q = h.DB.Model(&models.IncomeEntry{})
	} else {
		q = h.DB.Model(&models.ExpenseEntry{})
	}
	q = q.Where("user_id = ?", userID)
	if f.rng != nil {
		if !f.rng.From.IsZero() {
			q = q.Where("date >= ?", f.rng.From)
		}
		if !f.rng.To.IsZero() {
			q = q.Where("date <= ?", f.rng.To)
		}
	}
	if f.categoryID > 0 {
		q = q.Where("category_id = ?", f.categoryID)
	}

	var fields []models.LedgerFields
	if err := q.Order("date DESC, id DESC").Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

// parseRange reads optional from/to query params (YYYY-MM-DD).
func parseRange(c *gin.Context) (*period.Range, bool) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" && toStr == "" {
		return nil, true
	}

	var rng period.Range
	if fromStr != "" {
		d, err := models.ParseDate(fromStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "from must be YYYY-MM-DD")
			return nil, false
		}
		rng.From = d
	}
	if toStr != "" {
		d, err := models.ParseDate(toStr)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "to must be YYYY-MM-DD")
			return nil, false
		}
		rng.To = d
	}
	return &rng, true
}

// List returns entries of one or both kinds inside an optional date
// range, newest first, with a summary block over the same filter.
func (h *EntryHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	rng, ok := parseRange(c)
	if !ok {
		return
	}

	kind := c.Query("kind")
	if kind != "" && !models.ValidKind(kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "kind must be income or expense")
		return
	}

	var categoryID uint
	if id, ok := c.GetQuery("category_id"); ok && id != "" {
		cid, err := parseUint(id)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid category_id")
			return
		}
		categoryID = cid
	}

	filter := listFilter{rng: rng, categoryID: categoryID}

	kinds := []string{models.KindIncome, models.KindExpense}
	if kind != "" {
		kinds = []string{kind}
	}

	items := make([]entryResp, 0)
	var incomeItems, expenseItems []period.Item
	for _, k := range kinds {
		fields, err := h.queryKind(user.ID, k, filter)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load entries")
			return
		}
		for _, f := range fields {
			items = append(items, toEntryResp(k, f))
			it := period.Item{Date: f.Date, Amount: f.Amount}
			if k == models.KindIncome {
				incomeItems = append(incomeItems, it)
			} else {
				expenseItems = append(expenseItems, it)
			}
		}
	}

	// merged listing stays newest-first across both tables
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Date.Equal(items[j].Date.Time) {
			return items[i].Date.After(items[j].Date.Time)
		}
		return items[i].ID > items[j].ID
	})

	// rows are already range-filtered by the query, so no second filter
	incomeSum := period.Summarize(incomeItems, nil)
	expenseSum := period.Summarize(expenseItems, nil)

	util.Success(c, util.Response{
		"items": items,
		"total": len(items),
		"summary": gin.H{
			"income":  incomeSum,
			"expense": expenseSum,
			"balance": incomeSum.Total.Sub(expenseSum.Total),
		},
	})
}

func (h *EntryHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.Date.IsZero() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "date is required")
		return
	}
	if !h.validateEntry(c, user.ID, &req) {
		return
	}

	update := func(fields *models.LedgerFields) {
		fields.Date = req.Date
		fields.Description = req.Description
		fields.Amount = req.Amount
		fields.CategoryID = req.CategoryID
	}

	var err error
	var resp entryResp
	if req.Kind == models.KindIncome {
		var entry models.IncomeEntry
		err = h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&entry).Error
		if err == nil {
			update(&entry.LedgerFields)
			err = h.DB.Save(&entry).Error
			resp = toEntryResp(req.Kind, entry.LedgerFields)
		}
	} else {
		var entry models.ExpenseEntry
		err = h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&entry).Error
		if err == nil {
			update(&entry.LedgerFields)
			err = h.DB.Save(&entry).Error
			resp = toEntryResp(req.Kind, entry.LedgerFields)
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "entry not found")
		return
	}
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save entry")
		return
	}

	util.Success(c, util.Response{"entry": resp})
}

// Delete removes one entry; kind selects the table.
func (h *EntryHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	kind := c.Query("kind")
	if !models.ValidKind(kind) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "kind must be income or expense")
		return
	}

	var res *gorm.DB
	if kind == models.KindIncome {
		res = h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.IncomeEntry{})
	} else {
		res = h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.ExpenseEntry{})
	}
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete entry")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "entry not found")
		return
	}

	util.Success(c, util.Response{"message": "deleted"})
}
