package handlers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bancalot/pool-admin-backend/internal/models"
	"github.com/bancalot/pool-admin-backend/internal/services"
)

// PoolConfigHandler handles the prize/commission override HTTP requests for
// betting pools.
type PoolConfigHandler struct {
	configService services.PoolConfigService
}

// NewPoolConfigHandler creates a new PoolConfigHandler.
func NewPoolConfigHandler(configService services.PoolConfigService) *PoolConfigHandler {
	return &PoolConfigHandler{configService: configService}
}

func poolID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid betting pool ID"})
		return 0, false
	}
	return id, true
}

// GetOverrides handles GET /betting-pools/:id/overrides
func (h *PoolConfigHandler) GetOverrides(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	flat, err := h.configService.Overrides(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load overrides: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"overrides": flat})
}

// ReplaceOverridesRequest carries form-state sync payloads.
type ReplaceOverridesRequest struct {
	Overrides map[string]string `json:"overrides" binding:"required"`
}

// ReplaceOverrides handles PUT /betting-pools/:id/overrides
func (h *PoolConfigHandler) ReplaceOverrides(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	var request ReplaceOverridesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.configService.ReplaceOverrides(c.Request.Context(), id, request.Overrides); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to apply overrides: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Overrides updated"})
}

// ResolveOverride handles GET /betting-pools/:id/overrides/resolve
func (h *PoolConfigHandler) ResolveOverride(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}

	scope := models.GeneralScope()
	if scopeParam := c.Query("scope"); scopeParam == "draw" {
		drawID, err := strconv.Atoi(c.Query("drawId"))
		if err != nil || drawID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid drawId for draw scope"})
			return
		}
		scope = models.DrawScope(drawID)
	} else if scopeParam != "" && scopeParam != "general" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scope (general or draw)"})
		return
	}

	domain := models.FieldDomain(c.DefaultQuery("domain", string(models.DomainPrize)))
	switch domain {
	case models.DomainPrize, models.DomainCommission, models.DomainCommission2:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid domain (PRIZE, COMMISSION or COMMISSION2)"})
		return
	}

	coord := models.OverrideCoordinate{
		Scope:       scope,
		BetTypeCode: c.Query("betType"),
		Domain:      domain,
		FieldCode:   c.Query("field"),
	}
	if coord.BetTypeCode == "" || coord.FieldCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "betType and field are required"})
		return
	}

	resolution, err := h.configService.Resolve(c.Request.Context(), id, coord)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to resolve: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resolution)
}

// SaveOverridesRequest optionally restricts a save to one draw tab.
type SaveOverridesRequest struct {
	DrawID *int `json:"drawId"`
}

// SaveOverrides handles POST /betting-pools/:id/overrides/save
func (h *PoolConfigHandler) SaveOverrides(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	var request SaveOverridesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	result, err := h.configService.Save(c.Request.Context(), id, request.DrawID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to save overrides: " + err.Error()})
		return
	}

	status := "ok"
	if result.Failed > 0 {
		// Configuration failures are warnings; the pool record itself has
		// already been committed by the primary save.
		status = "partial"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     status,
		"successful": result.Successful,
		"failed":     result.Failed,
		"errors":     result.Errors,
	})
}

// GetDrawValues handles GET /betting-pools/:id/draws/:drawId/overrides
func (h *PoolConfigHandler) GetDrawValues(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	drawID, err := strconv.Atoi(c.Param("drawId"))
	if err != nil || drawID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw ID"})
		return
	}
	values, err := h.configService.LoadDrawValues(c.Request.Context(), id, drawID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load draw values: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drawId": drawID, "overrides": values})
}

// ActivateDraw handles POST /betting-pools/:id/draws/:drawId/activate
func (h *PoolConfigHandler) ActivateDraw(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	drawID, err := strconv.Atoi(c.Param("drawId"))
	if err != nil || drawID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draw ID"})
		return
	}
	if err := h.configService.SetActiveDraw(c.Request.Context(), id, drawID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Active draw updated"})
}

// ImportTemplate handles POST /betting-pools/:id/overrides/import
func (h *PoolConfigHandler) ImportTemplate(c *gin.Context) {
	id, ok := poolID(c)
	if !ok {
		return
	}
	var request services.TemplateImportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.SourcePoolID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sourcePoolId is required"})
		return
	}

	result, err := h.configService.ImportTemplate(c.Request.Context(), id, request)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to import template: " + err.Error()})
		return
	}

	explicit := result.ExplicitDrawIDs.ToSlice()
	sort.Ints(explicit)
	c.JSON(http.StatusOK, gin.H{
		"applied":         len(result.Patch),
		"explicitDrawIds": explicit,
	})
}
