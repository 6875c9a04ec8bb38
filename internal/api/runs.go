package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gloomdelve/server/internal/constants"
	"github.com/gloomdelve/server/internal/service"
)

// RunHandlers adapts the dungeon run operations to HTTP.
type RunHandlers struct {
	svc *service.Service
}

func NewRunHandlers(svc *service.Service) *RunHandlers {
	return &RunHandlers{svc: svc}
}

// StartRun handles POST /runs.
func (h *RunHandlers) StartRun(c *gin.Context) {
	var req service.StartRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	state, err := h.svc.StartDungeonRun(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// GetRun handles GET /runs/:runId.
func (h *RunHandlers) GetRun(c *gin.Context) {
	state, err := h.svc.GetRunState(c.Request.Context(), c.Param("runId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Advance handles POST /runs/:runId/advance.
func (h *RunHandlers) Advance(c *gin.Context) {
	state, err := h.svc.AdvanceDungeonRun(c.Request.Context(), c.Param("runId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Abandon handles POST /runs/:runId/abandon.
func (h *RunHandlers) Abandon(c *gin.Context) {
	run, err := h.svc.AbandonDungeonRun(c.Request.Context(), c.Param("runId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
