package catalog

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/trip-planner-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/trip-planner-backend/internal/trip"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "catalog item not found")
	ErrInvalidKind = apperror.New(http.StatusBadRequest, "catalog kind must be accommodations, transportation or guides")
	ErrUnavailable = apperror.New(http.StatusBadGateway, "catalog is temporarily unavailable, please retry")
)

// Kind is the catalog list an item belongs to. Each kind maps onto a booking category.
type Kind string

const (
	KindAccommodations Kind = "accommodations"
	KindTransportation Kind = "transportation"
	KindGuides         Kind = "guides"
)

var Kinds = []Kind{KindAccommodations, KindTransportation, KindGuides}

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindAccommodations, KindTransportation, KindGuides:
		return k, nil
	}
	return "", ErrInvalidKind
}

// Category returns the planning category items of this kind are booked under.
func (k Kind) Category() trip.Category {
	return trip.Category(k)
}

// Item is a bookable offering listed by the catalog.
type Item struct {
	ID          string
	Kind        Kind
	Name        string
	Location    string
	Description string
	Price       float64
	CreatedAt   time.Time
}

// Filter defines parameters for listing catalog items.
type Filter struct {
	Kind     Kind
	Keyword  string // Search in Name or Location
	Page     int
	PageSize int
}

func (f Filter) normalized() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	return f
}

func (f Filter) cacheKey() string {
	return fmt.Sprintf("%s|%s|%d|%d", f.Kind, f.Keyword, f.Page, f.PageSize)
}

// NewBooking turns a catalog item into a planning booking. The id follows the
// category_sourceId_timestamp convention so repeated picks of one item stay distinct.
func NewBooking(item *Item, selectedDate string, now time.Time) trip.Booking {
	price := item.Price
	return trip.Booking{
		ID:           fmt.Sprintf("%s_%s_%d", item.Kind, item.ID, now.UnixMilli()),
		Category:     item.Kind.Category(),
		Name:         item.Name,
		Location:     item.Location,
		TotalPrice:   &price,
		SelectedDate: selectedDate,
	}
}
