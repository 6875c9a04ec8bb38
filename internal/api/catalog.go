package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gloomdelve/server/internal/catalog"
	"github.com/gloomdelve/server/internal/constants"
)

// CatalogHandlers serves read-only game data.
type CatalogHandlers struct {
	provider *catalog.Provider
}

func NewCatalogHandlers(provider *catalog.Provider) *CatalogHandlers {
	return &CatalogHandlers{provider: provider}
}

// ListDungeons handles GET /dungeons.
func (h *CatalogHandlers) ListDungeons(c *gin.Context) {
	dungeons, err := h.provider.Dungeons()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLoadCatalog})
		return
	}
	c.JSON(http.StatusOK, dungeons)
}

// ListSkills handles GET /skills.
func (h *CatalogHandlers) ListSkills(c *gin.Context) {
	skills, err := h.provider.Skills()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLoadCatalog})
		return
	}
	c.JSON(http.StatusOK, skills)
}

// ListItems handles GET /items.
func (h *CatalogHandlers) ListItems(c *gin.Context) {
	items, err := h.provider.Items()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLoadCatalog})
		return
	}
	c.JSON(http.StatusOK, items)
}
