package handler

import (
	"net/http"

	"github.com/brunovittoria/cofrin.io-sub000/internal/engine"
	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// GoalHandler exposes goal tracking: CRUD, progress contributions,
// pause/resume and the advisory monthly suggestion.
type GoalHandler struct {
	Engine *engine.Engine
}

func NewGoalHandler(e *engine.Engine) *GoalHandler {
	return &GoalHandler{Engine: e}
}

type goalReq struct {
	Title        string          `json:"title" binding:"required,max=128"`
	Type         string          `json:"type" binding:"required,oneof=save reduce payoff_debt custom"`
	Description  string          `json:"description" binding:"max=255"`
	TargetAmount decimal.Decimal `json:"target_amount" binding:"required"`
	Deadline     models.Date     `json:"deadline" binding:"required"`
	CategoryID   *uint           `json:"category_id"`
	CardID       *uint           `json:"card_id"`
	Why          string          `json:"why" binding:"max=255"`
	WhatToChange string          `json:"what_to_change" binding:"max=255"`
	Feeling      string          `json:"feeling" binding:"max=64"`
}

func (r goalReq) input() engine.GoalInput {
	return engine.GoalInput{
		Title:        r.Title,
		Type:         r.Type,
		Description:  r.Description,
		TargetAmount: r.TargetAmount,
		Deadline:     r.Deadline,
		CategoryID:   r.CategoryID,
		CardID:       r.CardID,
		Why:          r.Why,
		WhatToChange: r.WhatToChange,
		Feeling:      r.Feeling,
	}
}

func goalResp(g *models.Goal) gin.H {
	return gin.H{
		"id":             g.ID,
		"title":          g.Title,
		"type":           g.Type,
		"description":    g.Description,
		"target_amount":  g.TargetAmount,
		"current_amount": g.CurrentAmount,
		"deadline":       g.Deadline,
		"status":         g.Status,
		"category_id":    g.CategoryID,
		"card_id":        g.CardID,
		"why":            g.Why,
		"what_to_change": g.WhatToChange,
		"feeling":        g.Feeling,
	}
}

func (h *GoalHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	goal, err := h.Engine.CreateGoal(user.ID, req.input())
	if err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"goal": goalResp(goal)})
}

func (h *GoalHandler) List(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	goals, err := h.Engine.ListGoals(user.ID, c.Query("status"))
	if err != nil {
		engineError(c, err)
		return
	}

	items := make([]gin.H, 0, len(goals))
	for i := range goals {
		items = append(items, goalResp(&goals[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *GoalHandler) Get(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	goal, err := h.Engine.GetGoal(user.ID, id)
	if err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"goal": goalResp(goal)})
}

func (h *GoalHandler) Update(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	goal, err := h.Engine.UpdateGoal(user.ID, id, req.input())
	if err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"goal": goalResp(goal)})
}

func (h *GoalHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Engine.DeleteGoal(user.ID, id); err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"message": "deleted"})
}

type progressReq struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Note   string          `json:"note" binding:"max=255"`
	Mood   string          `json:"mood" binding:"max=32"`
}

// AddProgress records a contribution. The completed flag lets the
// client pick between a routine and a celebratory acknowledgment.
func (h *GoalHandler) AddProgress(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	goal, completed, err := h.Engine.AddProgress(user.ID, id, req.Amount, req.Note, req.Mood)
	if err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{
		"goal":      goalResp(goal),
		"completed": completed,
	})
}

type statusReq struct {
	Status string `json:"status" binding:"required,oneof=active paused"`
}

// SetStatus toggles a goal between active and paused.
func (h *GoalHandler) SetStatus(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid parameters")
		return
	}

	goal, err := h.Engine.SetGoalStatus(user.ID, id, req.Status)
	if err != nil {
		engineError(c, err)
		return
	}

	util.Success(c, util.Response{"goal": goalResp(goal)})
}

func (h *GoalHandler) ListCheckIns(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	checkIns, err := h.Engine.ListCheckIns(user.ID, id)
	if err != nil {
		engineError(c, err)
		return
	}

	items := make([]gin.H, 0, len(checkIns))
	for i := range checkIns {
		ci := &checkIns[i]
		items = append(items, gin.H{
			"id":           ci.ID,
			"mood":         ci.Mood,
			"note":         ci.Note,
			"amount_added": ci.AmountAdded,
			"created_at":   ci.CreatedAt,
		})
	}
	util.Success(c, util.Response{"items": items})
}

// Suggestion returns the advisory monthly contribution and the health
// signal for a goal. Neither is persisted.
func (h *GoalHandler) Suggestion(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	goal, err := h.Engine.GetGoal(user.ID, id)
	if err != nil {
		engineError(c, err)
		return
	}

	suggestion := h.Engine.MonthlySuggestion(goal.TargetAmount, goal.CurrentAmount, goal.Deadline)
	health := h.Engine.GoalHealth(goal.CurrentAmount, goal.TargetAmount,
		models.DateOf(goal.CreatedAt), goal.Deadline)

	util.Success(c, util.Response{
		"monthly_suggestion": suggestion,
		"health":             health,
	})
}
