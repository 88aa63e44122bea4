package handlers

import (
	"net/http"
	"strconv"

	"github.com/ArowuTest/raffle-ledger-backend/internal/apperrors"
	"github.com/ArowuTest/raffle-ledger-backend/internal/middleware"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// RaffleHandler handles raffle creation, lookup and reporting
type RaffleHandler struct {
	raffleService services.RaffleService
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService services.RaffleService) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
	}
}

// CreateRaffle handles POST /raffles
func (h *RaffleHandler) CreateRaffle(c *gin.Context) {
	var req models.CreateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.WrapError(apperrors.KindInvalidRaffleSpec, err, "malformed raffle body"))
		return
	}

	organizer, _ := middleware.CurrentAccount(c)
	raffle, err := h.raffleService.CreateRaffle(c.Request.Context(), organizer, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewRaffleView(*raffle))
}

// GetRaffle handles GET /raffles/:id
func (h *RaffleHandler) GetRaffle(c *gin.Context) {
	raffle, err := h.raffleService.GetRaffle(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewRaffleView(*raffle))
}

// ListRaffles handles GET /raffles?active=true
func (h *RaffleHandler) ListRaffles(c *gin.Context) {
	var filter models.RaffleFilter
	if raw, ok := c.GetQuery("active"); ok {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		filter.Active = &active
	}

	raffles, err := h.raffleService.ListRaffles(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]models.RaffleView, 0, len(raffles))
	for _, r := range raffles {
		views = append(views, models.NewRaffleView(r))
	}
	c.JSON(http.StatusOK, views)
}

// GetSplit handles GET /raffles/:id/split
func (h *RaffleHandler) GetSplit(c *gin.Context) {
	split, err := h.raffleService.Split(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, split)
}

// GetStats handles GET /stats
func (h *RaffleHandler) GetStats(c *gin.Context) {
	stats, err := h.raffleService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
