package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bancalot/pool-admin-backend/internal/catalog"
)

// CatalogHandler handles bet-type catalog HTTP requests.
type CatalogHandler struct {
	cache *catalog.Cache
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cache *catalog.Cache) *CatalogHandler {
	return &CatalogHandler{cache: cache}
}

// GetBetTypes handles GET /catalog/bet-types
func (h *CatalogHandler) GetBetTypes(c *gin.Context) {
	forceRefresh := c.Query("refresh") == "true"
	betTypes, err := h.cache.GetBetTypes(c.Request.Context(), forceRefresh)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load bet types: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, betTypes)
}

// ClearCache handles DELETE /catalog/cache
func (h *CatalogHandler) ClearCache(c *gin.Context) {
	h.cache.ClearCache()
	c.JSON(http.StatusOK, gin.H{"message": "Catalog cache cleared"})
}
