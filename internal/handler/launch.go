package handler

import (
	"net/http"

	"github.com/brunovittoria/cofrin.io-sub000/internal/engine"
	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// LaunchHandler exposes the future-launch lifecycle.
type LaunchHandler struct {
	Engine *engine.Engine
}

func NewLaunchHandler(e *engine.Engine) *LaunchHandler {
	return &LaunchHandler{Engine: e}
}

type launchReq struct {
	ScheduledDate models.Date     `json:"scheduled_date" binding:"required"`
	Kind          string          `json:"kind" binding:"required,oneof=income expense"`
	Description   string          `json:"description" binding:"omitempty,min=3,max=200"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CategoryID    uint            `json:"category_id" binding:"required"`
}

func (r launchReq) input() engine.LaunchInput {
	return engine.LaunchInput{
		ScheduledDate: r.ScheduledDate,
		Kind:          r.Kind,
		Description:   r.Description,
		Amount:        r.Amount,
		CategoryID:    r.CategoryID,
	}
}

func launchResp(l *models.FutureLaunch) gin.H {
	return gin.H{
		"id":             l.ID,
		"scheduled_date": l.ScheduledDate,
		"kind":           l.Kind,
		"description":    l.Description,
		"amount":         l.Amount,
		"category_id":    l.CategoryID,
		"status":         l.Status,
	}
}

func (h *LaunchHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req launchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	launch, err := h.Engine.CreateLaunch(user.ID, req.input())
	if err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"launch": launchResp(launch)})
}

func (h *LaunchHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	launches, err := h.Engine.ListLaunches(user.ID, c.Query("status"))
	if err != nil {
		engineError(c, err)
		return
	}

	items := make([]gin.H, 0, len(launches))
	for i := range launches {
		items = append(items, launchResp(&launches[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *LaunchHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req launchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	launch, err := h.Engine.UpdateLaunch(user.ID, id, req.input())
	if err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"launch": launchResp(launch)})
}

// Complete converts a pending launch into a ledger entry and marks it
// completed.
func (h *LaunchHandler) Complete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	launch, err := h.Engine.EffectuateLaunch(user.ID, id)
	if err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"launch": launchResp(launch)})
}

func (h *LaunchHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Engine.DeleteLaunch(user.ID, id); err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"message": "deleted"})
}
