package http

import (
	"time"

	"github.com/nekogravitycat/trip-planner-backend/internal/catalog"
	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/request"
)

// ListItemsRequest defines query parameters for listing catalog items.
type ListItemsRequest struct {
	request.ListParams
	Keyword string `form:"q"`
}

type ItemResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewItemResponse(it *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Kind:        string(it.Kind),
		Name:        it.Name,
		Location:    it.Location,
		Description: it.Description,
		Price:       it.Price,
		CreatedAt:   it.CreatedAt,
	}
}

func NewItemResponses(items []*catalog.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewItemResponse(it)
	}
	return out
}
