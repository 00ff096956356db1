package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportHandler writes the realized ledger out as CSV or XLSX.
type ExportHandler struct {
	DB *gorm.DB
}

func NewExportHandler(db *gorm.DB) *ExportHandler {
	return &ExportHandler{DB: db}
}

type exportRow struct {
	Kind        string
	Date        string
	Description string
	Amount      string
	CategoryID  string
}

func (h *ExportHandler) collectRows(c *gin.Context, userID uint) ([]exportRow, bool) {
	rng, ok := parseRange(c)
	if !ok {
		return nil, false
	}

	fetch := func(kind string) ([]models.LedgerFields, error) {
		var q *gorm.DB
		if kind == models.KindIncome {
			q = h.DB.Model(&models.IncomeEntry{})
		} else {
			q = h.DB.Model(&models.ExpenseEntry{})
		}
		q = q.Where("user_id = ?", userID)
		if rng != nil {
			if !rng.From.IsZero() {
				q = q.Where("date >= ?", rng.From)
			}
			if !rng.To.IsZero() {
				q = q.Where("date <= ?", rng.To)
			}
		}
		var fields []models.LedgerFields
		err := q.Order("date DESC, id DESC").Find(&fields).Error
		return fields, err
	}

	var rows []exportRow
	for _, kind := range []string{models.KindIncome, models.KindExpense} {
		fields, err := fetch(kind)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load entries")
			return nil, false
		}
		for i := range fields {
			f := &fields[i]
			catID := ""
			if f.CategoryID != nil {
				catID = fmt.Sprintf("%d", *f.CategoryID)
			}
			rows = append(rows, exportRow{
				Kind:        kind,
				Date:        f.Date.String(),
				Description: f.Description,
				Amount:      f.Amount.StringFixed(2),
				CategoryID:  catID,
			})
		}
	}
	return rows, true
}

var exportHeader = []string{"kind", "date", "description", "amount", "category_id"}

// CSV streams the ledger as a CSV attachment.
func (h *ExportHandler) CSV(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	rows, ok := h.collectRows(c, user.ID)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"entries_%s.csv\"",
		time.Now().Format("20060102")))

	w := csv.NewWriter(c.Writer)
	_ = w.Write(exportHeader)
	for _, r := range rows {
		_ = w.Write([]string{r.Kind, r.Date, r.Description, r.Amount, r.CategoryID})
	}
	w.Flush()
}

// XLSX streams the ledger as a spreadsheet attachment.
func (h *ExportHandler) XLSX(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	rows, ok := h.collectRows(c, user.ID)
	if !ok {
		return
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Entries"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to build spreadsheet")
		return
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	for col, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheet, cell, name)
	}
	for i, r := range rows {
		values := []string{r.Kind, r.Date, r.Description, r.Amount, r.CategoryID}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"entries_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write spreadsheet")
	}
}
