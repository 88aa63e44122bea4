package routes

import (
	"net/http"

	"github.com/ArowuTest/raffle-ledger-backend/internal/config"
	"github.com/ArowuTest/raffle-ledger-backend/internal/handlers"
	"github.com/ArowuTest/raffle-ledger-backend/internal/metrics"
	"github.com/ArowuTest/raffle-ledger-backend/internal/middleware"
	"github.com/ArowuTest/raffle-ledger-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by SetupRouter
type Handlers struct {
	Auth     *handlers.AuthHandler
	Raffles  *handlers.RaffleHandler
	Tickets  *handlers.TicketHandler
	Draws    *handlers.DrawHandler
	Settings *handlers.SystemSettingsHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, h Handlers, tokens *jwt.TokenService) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Public routes
	public := router.Group("/api/v1")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status": "ok",
			})
		})

		// Auth routes
		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		raffles := public.Group("/raffles")
		{
			raffles.GET("", h.Raffles.ListRaffles)
			raffles.GET("/:id", h.Raffles.GetRaffle)
			raffles.GET("/:id/split", h.Raffles.GetSplit)
			raffles.GET("/:id/tickets", h.Tickets.ListTickets)
			raffles.GET("/:id/participants", h.Tickets.ListParticipants)
			raffles.GET("/:id/participants/:account", h.Tickets.HasParticipated)
		}

		public.GET("/stats", h.Raffles.GetStats)
		public.GET("/settings", h.Settings.GetSettings)
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	{
		raffles := protected.Group("/raffles")
		{
			raffles.POST("", h.Raffles.CreateRaffle)
			raffles.POST("/:id/tickets", h.Tickets.BuyTicket)
			raffles.POST("/:id/close", h.Draws.CloseRaffle)
			raffles.POST("/:id/claim", h.Draws.ClaimPrize)
		}

		protected.GET("/me/tickets", h.Tickets.MyTickets)

		// Admin checks happen in the services against the account role
		admin := protected.Group("/admin")
		{
			admin.GET("/accounts", h.Auth.ListAccounts)
			admin.PUT("/accounts/:account/role", h.Auth.AssignRole)
			admin.PUT("/settings/fee-account", h.Settings.UpdateFeeAccount)
		}
	}

	return router
}
