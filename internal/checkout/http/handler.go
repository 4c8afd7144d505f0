package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/trip-planner-backend/internal/auth"
	"github.com/nekogravitycat/trip-planner-backend/internal/checkout"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/response"
)

type Handler struct {
	service checkout.Service
}

func NewHandler(service checkout.Service) *Handler {
	return &Handler{service: service}
}

// Create opens a payment session for the last captured summary snapshot.
func (h *Handler) Create(c *gin.Context) {
	res, err := h.service.Checkout(c.Request.Context(), auth.GetSessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Idempotency-Key", res.IdempotencyKey)
	c.JSON(http.StatusCreated, NewCheckoutResponse(res))
}
