package service_test

import (
	"testing"

	"github.com/premierlux/premierlux-backend/internal/inventory/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForecast_NoHistory(t *testing.T) {
	result := service.Forecast("Gloves", nil)

	assert.Equal(t, "Gloves", result.Item)
	assert.Equal(t, "No consumption history found for this item.", result.Message)
	assert.Empty(t, result.DailyForecast)
	assert.Equal(t, 0, result.HistoryPoints)
}

func TestForecast_ShortHistoryUsesMean(t *testing.T) {
	result := service.Forecast("Gloves", []float64{4, 6})

	require.Len(t, result.DailyForecast, 7)
	for _, v := range result.DailyForecast {
		assert.Equal(t, 5.0, v)
	}
	assert.Equal(t, 2, result.HistoryPoints)
	assert.Equal(t, 7, result.HorizonDays)
	assert.Empty(t, result.Message)
}

func TestForecast_ConstantSeries(t *testing.T) {
	history := []float64{10, 10, 10, 10, 10}
	result := service.Forecast("Masks", history)

	// smoothing a constant series always yields the constant
	require.Len(t, result.DailyForecast, 7)
	for _, v := range result.DailyForecast {
		assert.InDelta(t, 10.0, v, 1e-9)
	}
}

func TestForecast_FlatProjection(t *testing.T) {
	history := []float64{3, 8, 5, 9, 4, 7, 6, 5, 8}
	result := service.Forecast("Resin", history)

	require.Len(t, result.DailyForecast, 7)
	first := result.DailyForecast[0]
	for _, v := range result.DailyForecast {
		assert.Equal(t, first, v, "7-step forecast projects the final level flat")
	}
	assert.Equal(t, len(history), result.HistoryPoints)
}

func TestForecast_TracksRecentLevel(t *testing.T) {
	// a series that jumps to a new plateau should forecast near the plateau
	history := []float64{2, 2, 2, 2, 20, 20, 20, 20, 20, 20}
	result := service.Forecast("Burs", history)

	require.Len(t, result.DailyForecast, 7)
	assert.Greater(t, result.DailyForecast[0], 10.0)
}
