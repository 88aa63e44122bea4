package handlers

import (
	"net/http"

	"github.com/ArowuTest/raffle-ledger-backend/internal/middleware"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// SystemSettingsHandler handles platform settings HTTP requests
type SystemSettingsHandler struct {
	platformService services.PlatformService
}

// NewSystemSettingsHandler creates a new SystemSettingsHandler
func NewSystemSettingsHandler(platformService services.PlatformService) *SystemSettingsHandler {
	return &SystemSettingsHandler{
		platformService: platformService,
	}
}

// GetSettings handles GET /settings
func (h *SystemSettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.platformService.GetSettings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateFeeAccount handles PUT /admin/settings/fee-account
func (h *SystemSettingsHandler) UpdateFeeAccount(c *gin.Context) {
	var req models.UpdateFeeAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	requester, _ := middleware.CurrentAccount(c)
	settings, err := h.platformService.SetFeeAccount(c.Request.Context(), requester, req.FeeAccount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
