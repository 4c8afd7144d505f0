package checkout

import (
	"context"
	"net/url"
)

// LineItem is one priced booking sent to the payment provider.
type LineItem struct {
	BookingID string  `json:"booking_id"`
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	DayNumber int     `json:"day_number"`
	Amount    float64 `json:"amount"`
}

// SessionRequest is what the payment provider needs to open a checkout session.
type SessionRequest struct {
	IdempotencyKey string
	PlanningID     string
	Travelers      int
	Total          float64
	Items          []LineItem
}

// Gateway opens a hosted checkout session and returns the URL to redirect the user to.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (string, error)
}

// MockGateway stands in for a real payment provider.
// The redirect URL is derived from the idempotency key, so retries get the same URL.
type MockGateway struct {
	BaseURL string
	// Err, when set, is returned from every call.
	Err error
}

func NewMockGateway(baseURL string) *MockGateway {
	return &MockGateway{BaseURL: baseURL}
}

func (g *MockGateway) CreateSession(ctx context.Context, req SessionRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if g.Err != nil {
		return "", g.Err
	}
	return g.BaseURL + "/" + url.PathEscape(req.IdempotencyKey), nil
}
