package handler

import (
	"net/http"
	"strings"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CategoryHandler serves income/expense category CRUD.
type CategoryHandler struct {
	DB *gorm.DB
}

func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{DB: db}
}

type categoryReq struct {
	Name  string `json:"name" binding:"required,max=64"`
	Kind  string `json:"kind" binding:"required,oneof=income expense"`
	Color string `json:"color" binding:"max=16"`
}

func categoryResp(cat *models.Category) gin.H {
	return gin.H{
		"id":    cat.ID,
		"name":  cat.Name,
		"kind":  cat.Kind,
		"color": cat.Color,
	}
}

func (h *CategoryHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "name is required")
		return
	}

	cat := models.Category{
		UserID: user.ID,
		Name:   req.Name,
		Kind:   req.Kind,
		Color:  req.Color,
	}
	if err := h.DB.Create(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save category")
		return
	}

	util.Success(c, util.Response{"category": categoryResp(&cat)})
}

func (h *CategoryHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	q := h.DB.Where("user_id = ?", user.ID)
	if kind := c.Query("kind"); kind != "" {
		if !models.ValidKind(kind) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "kind must be income or expense")
			return
		}
		q = q.Where("kind = ?", kind)
	}

	var cats []models.Category
	if err := q.Order("name ASC").Find(&cats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load categories")
		return
	}

	items := make([]gin.H, 0, len(cats))
	for i := range cats {
		items = append(items, categoryResp(&cats[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	var cat models.Category
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&cat).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load category")
		}
		return
	}

	// kind stays fixed once entries reference the category
	if req.Kind != cat.Kind {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "category kind cannot change")
		return
	}

	cat.Name = strings.TrimSpace(req.Name)
	cat.Color = req.Color
	if err := h.DB.Save(&cat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save category")
		return
	}

	util.Success(c, util.Response{"category": categoryResp(&cat)})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.Category{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete category")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "category not found")
		return
	}

	util.Success(c, util.Response{"message": "deleted"})
}
