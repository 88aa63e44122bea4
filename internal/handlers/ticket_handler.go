package handlers

import (
	"net/http"

	"github.com/ArowuTest/raffle-ledger-backend/internal/middleware"
	"github.com/ArowuTest/raffle-ledger-backend/internal/models"
	"github.com/ArowuTest/raffle-ledger-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader carries the caller supplied purchase key
const IdempotencyKeyHeader = "Idempotency-Key"

// TicketHandler handles ticket purchases and ticket queries
type TicketHandler struct {
	ticketService services.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService services.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// BuyTicket handles POST /raffles/:id/tickets
func (h *TicketHandler) BuyTicket(c *gin.Context) {
	buyer, _ := middleware.CurrentAccount(c)
	opts := models.PurchaseOptions{IdempotencyKey: c.GetHeader(IdempotencyKeyHeader)}

	ticket, err := h.ticketService.BuyTicket(c.Request.Context(), c.Param("id"), buyer, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

// ListTickets handles GET /raffles/:id/tickets
func (h *TicketHandler) ListTickets(c *gin.Context) {
	tickets, err := h.ticketService.ListTickets(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// HasParticipated handles GET /raffles/:id/participants/:account
func (h *TicketHandler) HasParticipated(c *gin.Context) {
	account := c.Param("account")
	participated, err := h.ticketService.HasParticipated(c.Request.Context(), c.Param("id"), account)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "participated": participated})
}

// ListParticipants handles GET /raffles/:id/participants
func (h *TicketHandler) ListParticipants(c *gin.Context) {
	participants, err := h.ticketService.Participants(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// MyTickets handles GET /me/tickets
func (h *TicketHandler) MyTickets(c *gin.Context) {
	owner, _ := middleware.CurrentAccount(c)
	tickets, err := h.ticketService.ListTicketsByOwner(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}
