package handlers

import (
	"net/http"

	"github.com/ArowuTest/raffle-ledger-backend/internal/middleware"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// DrawHandler handles closing raffles and prize claims
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{
		drawService: drawService,
	}
}

// CloseRaffle handles POST /raffles/:id/close
func (h *DrawHandler) CloseRaffle(c *gin.Context) {
	requester, _ := middleware.CurrentAccount(c)
	result, err := h.drawService.CloseRaffle(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"winner": result.Winner,
		"raffle": models.NewRaffleView(result.Raffle),
	})
}

// ClaimPrize handles POST /raffles/:id/claim
func (h *DrawHandler) ClaimPrize(c *gin.Context) {
	requester, _ := middleware.CurrentAccount(c)
	result, err := h.drawService.ClaimPrize(c.Request.Context(), c.Param("id"), requester)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
