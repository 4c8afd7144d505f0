package trip

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDay(t *testing.T) {
	days := Days(TripWindow{StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 5)})

	tests := []struct {
		name         string
		selectedDate string
		want         int
	}{
		{"Plain date on day 3", "2025-03-03", 3},
		{"First day", "2025-03-01", 1},
		{"Last day", "2025-03-05", 5},
		{"RFC3339 timestamp keeps written date", "2025-03-02T23:30:00+09:00", 2},
		{"RFC3339 UTC", "2025-03-04T08:00:00Z", 4},
		{"Local timestamp without zone", "2025-03-04T08:00:00", 4},
		{"Minute precision", "2025-03-05T10:15", 5},
		{"Surrounding whitespace", " 2025-03-03 ", 3},
		{"Missing date falls back", "", 1},
		{"Before the trip falls back", "2025-02-28", 1},
		{"After the trip falls back", "2025-03-06", 1},
		{"Garbage falls back", "next tuesday", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDay(tt.selectedDate, days))
		})
	}
}

func TestResolveDay_NoTripDays(t *testing.T) {
	assert.Equal(t, FallbackDay, ResolveDay("2025-03-03", nil))
	assert.Equal(t, FallbackDay, ResolveDay("2025-03-03", []TripDay{}))
}

func TestAttributeDay_ReportsParseFailure(t *testing.T) {
	days := Days(TripWindow{StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 3)})

	day, err := AttributeDay("next tuesday", days)
	assert.Error(t, err)
	assert.Equal(t, FallbackDay, day)

	day, err = AttributeDay("2025-03-09", days)
	assert.NoError(t, err)
	assert.Equal(t, FallbackDay, day)

	day, err = AttributeDay("2025-03-02", days)
	assert.NoError(t, err)
	assert.Equal(t, 2, day)
}

func TestBookingsCategories_StableOrder(t *testing.T) {
	b := Bookings{
		CategoryGuides:         nil,
		Category("zeta"):       nil,
		CategoryDestinations:   nil,
		Category("alpha"):      nil,
		CategoryTransportation: nil,
	}
	want := []Category{CategoryDestinations, CategoryTransportation, CategoryGuides, "alpha", "zeta"}
	for i := 0; i < 50; i++ {
		assert.Equal(t, want, b.Categories())
	}
}

func ptr(v float64) *float64 { return &v }

func TestBookingAmount(t *testing.T) {
	tests := []struct {
		name    string
		booking Booking
		want    float64
	}{
		{"Total price wins", Booking{TotalPrice: ptr(150), Price: ptr(100), Cost: ptr(50)}, 150},
		{"Falls back to price", Booking{Price: ptr(100), Cost: ptr(50)}, 100},
		{"Falls back to cost", Booking{Cost: ptr(50)}, 50},
		{"Zero total falls through", Booking{TotalPrice: ptr(0), Price: ptr(80)}, 80},
		{"NaN falls through", Booking{TotalPrice: ptr(math.NaN()), Cost: ptr(12.5)}, 12.5},
		{"Infinity falls through", Booking{TotalPrice: ptr(math.Inf(1))}, 0},
		{"Nothing priced", Booking{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.booking.Amount())
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories {
		got, err := ParseCategory(string(c))
		assert.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseCategory("restaurants")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestBookingClone_DoesNotAlias(t *testing.T) {
	orig := Booking{ID: "a", TotalPrice: ptr(10), Details: json.RawMessage(`{"room":"deluxe"}`)}
	cp := orig.Clone()

	*cp.TotalPrice = 99
	cp.Details[2] = 'X'

	assert.Equal(t, 10.0, *orig.TotalPrice)
	assert.JSONEq(t, `{"room":"deluxe"}`, string(orig.Details))
}
