package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/engine"
	"github.com/gloomdelve/server/internal/service"
)

// BattleHandlers adapts the battle operations to HTTP.
type BattleHandlers struct {
	svc *service.Service
}

func NewBattleHandlers(svc *service.Service) *BattleHandlers {
	return &BattleHandlers{svc: svc}
}

// StartBattle handles POST /battles.
func (h *BattleHandlers) StartBattle(c *gin.Context) {
	var req service.StartBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	b, err := h.svc.StartBattle(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBattle handles GET /battles/:battleId.
func (h *BattleHandlers) GetBattle(c *gin.Context) {
	id := c.Param("battleId")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	b, err := h.svc.GetBattleState(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// SubmitAction handles POST /battles/:battleId/actions.
func (h *BattleHandlers) SubmitAction(c *gin.Context) {
	id := c.Param("battleId")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidBattleID})
		return
	}
	var req engine.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	b, err := h.svc.SubmitPlayerAction(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
