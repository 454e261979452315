package service_test

import (
	"testing"

	"github.com/premierlux/premierlux-backend/internal/inventory/service"
	"github.com/stretchr/testify/assert"
)

func TestComplianceScore_Bands(t *testing.T) {
	tests := []struct {
		name     string
		expired  int
		lowStock int
		score    int
		status   string
	}{
		{"no issues", 0, 0, 100, "Excellent"},
		{"two issues", 1, 1, 90, "Excellent"},
		{"three issues", 2, 1, 85, "Good"},
		{"seven issues", 3, 4, 65, "Warning"},
		{"eleven issues", 5, 6, 45, "Critical"},
		{"floors at zero", 20, 20, 0, "Critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overview := service.ComplianceScore(tt.expired, tt.lowStock)

			assert.Equal(t, tt.score, overview.Score)
			assert.Equal(t, tt.status, overview.Status)
			assert.Equal(t, tt.expired+tt.lowStock, overview.Issues)
		})
	}
}
