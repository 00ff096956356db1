package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/brunovittoria/cofrin.io-sub000/internal/engine"
	"github.com/brunovittoria/cofrin.io-sub000/internal/models"
	"github.com/brunovittoria/cofrin.io-sub000/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user placed into the context by
// the auth middleware. It writes the 401 response itself so callers
// just bail out on nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return nil
	}
	return user
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseUint parses a positive integer query value.
func parseUint(s string) (uint, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(n), nil
}

// engineError maps engine failures onto the response envelope.
func engineError(c *gin.Context, err error) {
	var vErr *engine.ValidationError
	switch {
	case errors.As(err, &vErr):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, vErr.Error())
	case errors.Is(err, engine.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
	case errors.Is(err, engine.ErrConflict):
		util.Error(c, http.StatusConflict, util.CodeConflict, "operation not allowed in current state")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed, please retry")
	}
}
