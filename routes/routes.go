package routes

import (
	"net/http"
	"time"

	"medicall/handlers"
	"medicall/middleware"
	"medicall/relay"
	"medicall/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle carries the handlers the route tables need.
type HandlerBundle struct {
	Scheduling *handlers.SchedulingHandler
	Chat       *handlers.ChatHandler
	Relay      *handlers.RelayHandler
	Hub        *relay.Hub
}

// RegisterProviderRoutes registers provider-facing endpoints.
func RegisterProviderRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/providers")
	{
		// Slot resolution is readable by any authenticated party.
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/id/:id/slots", hb.Scheduling.GetAvailableSlotsHandler)

		protected := api.Group("")
		protected.Use(middleware.ProviderOnlyMiddleware())
		protected.PUT("/availability", hb.Scheduling.SetAvailabilityHandler)
	}
}

// RegisterAppointmentRoutes registers booking and lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Scheduling.CreateAppointmentHandler)
		api.POST("/:id/complete", hb.Scheduling.CompleteAppointmentHandler)
		api.POST("/:id/cancel", hb.Scheduling.CancelAppointmentHandler)
		api.POST("/:id/session", hb.Scheduling.GenerateSessionHandler)
		api.DELETE("/:id/session", hb.Scheduling.DeleteSessionHandler)
	}
}

// RegisterChatRoutes registers the durable chat history endpoint.
func RegisterChatRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/rooms")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:roomId/messages", hb.Chat.GetChatHistoryHandler)
	}
}

// RegisterRelayRoute registers the websocket upgrade endpoint.
func RegisterRelayRoute(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/ws", middleware.JWTAuthMiddleware(), hb.Relay.ServeWSHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/health", func(c *gin.Context) {
		rooms, connections := hb.Hub.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"checks":      utils.GetHealthStatus(),
			"rooms":       rooms,
			"connections": connections,
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterProviderRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterChatRoutes(r, hb)
	RegisterRelayRoute(r, hb)
	RegisterHealthRoute(r, hb)
}
