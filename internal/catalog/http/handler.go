package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/trip-planner-backend/internal/catalog"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/response"
)

type Handler struct {
	service catalog.Service
}

func NewHandler(service catalog.Service) *Handler {
	return &Handler{service: service}
}

// List returns one page of a catalog kind.
func (h *Handler) List(c *gin.Context) {
	kind, err := catalog.ParseKind(c.Param("kind"))
	if err != nil {
		response.Error(c, err)
		return
	}

	var req ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := catalog.Filter{
		Kind:     kind,
		Keyword:  req.Keyword,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(NewItemResponses(items), req.Page, req.PageSize, total))
}

// ListAll returns the first page of every kind, fetched concurrently.
func (h *Handler) ListAll(c *gin.Context) {
	var req ListItemsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	pages, err := h.service.ListAll(c.Request.Context(), req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := make(map[string]response.PageResponse[ItemResponse], len(pages))
	for kind, p := range pages {
		resp[string(kind)] = response.NewPageResponse(NewItemResponses(p.Items), 1, req.PageSize, p.Total)
	}
	c.JSON(http.StatusOK, resp)
}
