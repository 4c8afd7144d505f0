package http

import (
	"time"

	"github.com/nekogravitycat/trip-planner-backend/internal/checkout"
)

type CheckoutResponse struct {
	RedirectURL     string    `json:"redirect_url"`
	IdempotencyKey  string    `json:"idempotency_key"`
	TotalAmount     float64   `json:"total_amount"`
	TotalItems      int       `json:"total_items"`
	SnapshotTakenAt time.Time `json:"snapshot_taken_at"`
}

func NewCheckoutResponse(r *checkout.Result) CheckoutResponse {
	return CheckoutResponse{
		RedirectURL:     r.RedirectURL,
		IdempotencyKey:  r.IdempotencyKey,
		TotalAmount:     r.Total,
		TotalItems:      r.ItemCount,
		SnapshotTakenAt: r.SnapshotTaken,
	}
}
