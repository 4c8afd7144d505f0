package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/catalog")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.ListAll)    // First page of every kind
		group.GET("/:kind", h.List) // Paginated list of one kind
	}
}
