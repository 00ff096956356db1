package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetMe returns the current user's profile.
func GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	util.Success(c, util.Response{
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"display_name": user.DisplayName,
			"created_at":   user.CreatedAt,
		},
	})
}

type updateProfileReq struct {
	DisplayName string `json:"display_name" binding:"max=64"`
}

// UpdateProfile changes the display name.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		var req updateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
			return
		}

		user.DisplayName = strings.TrimSpace(req.DisplayName)
		if err := db.Save(user).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save profile")
			return
		}

		util.Success(c, util.Response{
			"user": gin.H{
				"id":           user.ID,
				"username":     user.Username,
				"display_name": user.DisplayName,
			},
		})
	}
}

type changePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ChangePassword verifies the old password and stores a new hash.
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	if bcryptCost <= 0 {
		bcryptCost = 12
	}
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "wrong password")
			return
		}
		if !isStrongPassword(req.NewPassword) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "password must be 8-32 characters with upper, lower and digit")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}
		user.PasswordHash = string(hash)
		if err := db.Save(user).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save password")
			return
		}

		util.Success(c, util.Response{"message": "password changed"})
	}
}

type preferenceReq struct {
	Theme    string `json:"theme" binding:"omitempty,oneof=light dark"`
	PageSize int    `json:"page_size" binding:"omitempty,min=1,max=100"`
	Currency string `json:"currency" binding:"omitempty,max=8"`
}

func preferenceResp(p *models.Preference) gin.H {
	return gin.H{
		"theme":     p.Theme,
		"page_size": p.PageSize,
		"currency":  p.Currency,
	}
}

// loadOrInitPreference fetches the user's preference row, creating it
// with defaults on first access.
func loadOrInitPreference(db *gorm.DB, userID uint, defaults models.Preference) (*models.Preference, error) {
	var pref models.Preference
	err := db.Where("user_id = ?", userID).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		pref = defaults
		pref.UserID = userID
		if err := db.Create(&pref).Error; err != nil {
			return nil, err
		}
		return &pref, nil
	}
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

// GetPreferences returns the user's UI settings.
func GetPreferences(db *gorm.DB, defaults models.Preference) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		pref, err := loadOrInitPreference(db, user.ID, defaults)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load preferences")
			return
		}
		util.Success(c, util.Response{"preferences": preferenceResp(pref)})
	}
}

// UpdatePreferences stores the user's UI settings.
func UpdatePreferences(db *gorm.DB, defaults models.Preference) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			return
		}

		var req preferenceReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
			return
		}

		pref, err := loadOrInitPreference(db, user.ID, defaults)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load preferences")
			return
		}

		if req.Theme != "" {
			pref.Theme = req.Theme
		}
		if req.PageSize > 0 {
			pref.PageSize = req.PageSize
		}
		if req.Currency != "" {
			pref.Currency = req.Currency
		}
		if err := db.Save(pref).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save preferences")
			return
		}

		util.Success(c, util.Response{"preferences": preferenceResp(pref)})
	}
}
