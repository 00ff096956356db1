package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CardHandler serves credit card CRUD.
type CardHandler struct {
	DB *gorm.DB
}

func NewCardHandler(db *gorm.DB) *CardHandler {
	return &CardHandler{DB: db}
}

type cardReq struct {
	Name        string          `json:"name" binding:"required,max=64"`
	CreditLimit decimal.Decimal `json:"credit_limit" binding:"required"`
	ClosingDay  int             `json:"closing_day" binding:"omitempty,min=1,max=31"`
	DueDay      int             `json:"due_day" binding:"omitempty,min=1,max=31"`
}

func cardResp(card *models.Card) gin.H {
	return gin.H{
		"id":           card.ID,
		"name":         card.Name,
		"credit_limit": card.CreditLimit,
		"closing_day":  card.ClosingDay,
		"due_day":      card.DueDay,
	}
}

func (h *CardHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req cardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.CreditLimit.Sign() <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "credit limit must be positive")
		return
	}

	card := models.Card{
		UserID:      user.ID,
		Name:        strings.TrimSpace(req.Name),
		CreditLimit: req.CreditLimit,
		ClosingDay:  req.ClosingDay,
		DueDay:      req.DueDay,
	}
	if card.ClosingDay == 0 {
		card.ClosingDay = 1
	}
	if card.DueDay == 0 {
		card.DueDay = 10
	}
	if err := h.DB.Create(&card).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save card")
		return
	}

	util.Success(c, util.Response{"card": cardResp(&card)})
}

func (h *CardHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var cards []models.Card
	if err := h.DB.Where("user_id = ?", user.ID).Order("name ASC").Find(&cards).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load cards")
		return
	}

	items := make([]gin.H, 0, len(cards))
	for i := range cards {
		items = append(items, cardResp(&cards[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *CardHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req cardReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	if req.CreditLimit.Sign() <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "credit limit must be positive")
		return
	}

	var card models.Card
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "card not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load card")
		}
		return
	}

	card.Name = strings.TrimSpace(req.Name)
	card.CreditLimit = req.CreditLimit
	if req.ClosingDay > 0 {
		card.ClosingDay = req.ClosingDay
	}
	if req.DueDay > 0 {
		card.DueDay = req.DueDay
	}
	if err := h.DB.Save(&card).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save card")
		return
	}

	util.Success(c, util.Response{"card": cardResp(&card)})
}

func (h *CardHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Card{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete card")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "card not found")
		return
	}

	util.Success(c, util.Response{"message": "deleted"})
}
