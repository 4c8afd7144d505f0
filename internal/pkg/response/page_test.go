package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageResponse(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		pageSize  int
		total     int
		wantPages int
		wantMore  bool
	}{
		{"Empty", 1, 20, 0, 0, false},
		{"Single partial page", 1, 20, 7, 1, false},
		{"First of three", 1, 10, 25, 3, true},
		{"Last page", 3, 10, 25, 3, false},
		{"Zero page size", 1, 0, 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewPageResponse[string](nil, tt.page, tt.pageSize, tt.total)
			assert.NotNil(t, resp.Items)
			assert.Equal(t, tt.wantPages, resp.TotalPages)
			assert.Equal(t, tt.wantMore, resp.HasMore)
		})
	}
}
