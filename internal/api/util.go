package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/engine"
	"github.com/gloomdelve/server/internal/service"
)

// writeError maps a service or engine error onto an HTTP status. Engine
// errors keep their message; everything unexpected collapses to a 500 with
// a generic body.
func writeError(c *gin.Context, err error) {
	var (
		configErr     *engine.ConfigError
		validationErr *engine.ValidationError
		ruleErr       *engine.RuleViolation
	)

	switch {
	case errors.Is(err, service.ErrBattleNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
	case errors.Is(err, service.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRunNotFound})
	case errors.Is(err, service.ErrBattleFinished),
		errors.Is(err, service.ErrRunFinished),
		errors.Is(err, service.ErrBattleInProgress),
		errors.Is(err, service.ErrNoCurrentBattle):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: validationErr.Error()})
	case errors.As(err, &ruleErr):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: ruleErr.Error()})
	case errors.As(err, &configErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{constants.JSONKeyError: configErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedReadState})
	}
}
