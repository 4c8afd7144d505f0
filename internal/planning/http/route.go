package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/planning")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.Get)      // Full planning state
		group.DELETE("", h.Clear) // Clear all selections
		group.PUT("/trip", h.UpdateTrip)

		group.POST("/bookings/:category", h.AddBooking)
		group.DELETE("/bookings/:category/:id", h.RemoveBooking)

		days := group.Group("/days/:day")
		{
			days.POST("/places", h.AddPlace)
			days.DELETE("/places/:id", h.RemovePlace)
			days.PUT("/note", h.SaveNote)
			days.DELETE("/note", h.RemoveNote)
			days.POST("/checklists", h.AddChecklist)
			days.DELETE("/checklists/:id", h.RemoveChecklist)
			days.PATCH("/checklists/:id/items/:itemId", h.ToggleChecklistItem)
		}
	}
}
