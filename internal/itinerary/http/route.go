package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/itinerary")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.Get)                  // Per-day view, ?all=true keeps empty days
		group.POST("/summary", h.OpenSummary) // Build view and capture checkout snapshot
	}
}
