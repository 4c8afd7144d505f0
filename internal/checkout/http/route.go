package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts checkout. limiter throttles session creation per planning session.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, limiter gin.HandlerFunc) {
	group := g.Group("/checkout")

	// === Authenticated Routes ===
	group.Use(authMiddleware, limiter)
	{
		group.POST("", h.Create)
	}
}
