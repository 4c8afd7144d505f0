package trip

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDays(t *testing.T) {
	tests := []struct {
		name   string
		window TripWindow
		want   []TripDay
	}{
		{
			name:   "Three day trip",
			window: TripWindow{StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 3), Travelers: 2},
			want: []TripDay{
				{DayNumber: 1, Date: date(2025, 3, 1)},
				{DayNumber: 2, Date: date(2025, 3, 2)},
				{DayNumber: 3, Date: date(2025, 3, 3)},
			},
		},
		{
			name:   "Single day trip",
			window: TripWindow{StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 1)},
			want:   []TripDay{{DayNumber: 1, Date: date(2025, 3, 1)}},
		},
		{
			name:   "Crosses month and leap day",
			window: TripWindow{StartDate: date(2024, 2, 28), EndDate: date(2024, 3, 1)},
			want: []TripDay{
				{DayNumber: 1, Date: date(2024, 2, 28)},
				{DayNumber: 2, Date: date(2024, 2, 29)},
				{DayNumber: 3, Date: date(2024, 3, 1)},
			},
		},
		{
			name: "Time of day is dropped",
			window: TripWindow{
				StartDate: time.Date(2025, 3, 1, 22, 30, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 3, 2, 1, 0, 0, 0, time.UTC),
			},
			want: []TripDay{
				{DayNumber: 1, Date: date(2025, 3, 1)},
				{DayNumber: 2, Date: date(2025, 3, 2)},
			},
		},
		{
			name:   "Missing start date",
			window: TripWindow{EndDate: date(2025, 3, 3)},
			want:   []TripDay{},
		},
		{
			name:   "Missing end date",
			window: TripWindow{StartDate: date(2025, 3, 1)},
			want:   []TripDay{},
		},
		{
			name:   "End before start",
			window: TripWindow{StartDate: date(2025, 3, 3), EndDate: date(2025, 3, 1)},
			want:   []TripDay{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Days(tt.window)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Days() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDays_LengthAndStep(t *testing.T) {
	start := date(2025, 12, 20)
	for span := 0; span < 60; span += 7 {
		end := start.AddDate(0, 0, span)
		days := Days(TripWindow{StartDate: start, EndDate: end})

		require.Len(t, days, span+1)
		assert.Equal(t, start, days[0].Date)
		for i := 1; i < len(days); i++ {
			assert.Equal(t, days[i-1].Date.AddDate(0, 0, 1), days[i].Date)
			assert.Equal(t, i+1, days[i].DayNumber)
		}
	}
}

func TestDays_Idempotent(t *testing.T) {
	w := TripWindow{StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 10)}
	assert.Equal(t, Days(w), Days(w))
}

func TestTripWindowValidate(t *testing.T) {
	assert.NoError(t, TripWindow{}.Validate())
	assert.NoError(t, TripWindow{StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 1)}.Validate())
	assert.ErrorIs(t, TripWindow{StartDate: date(2025, 3, 2), EndDate: date(2025, 3, 1)}.Validate(), ErrInvalidTripWindow)
	assert.ErrorIs(t, TripWindow{Travelers: -1}.Validate(), ErrInvalidTravelers)
}
