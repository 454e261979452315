package service

import (
	"context"
	"math"

	"github.com/premierlux/premierlux-backend/pkg/scope"
)

const forecastHorizonDays = 7

// ForecastResult is the usage prediction for one item
type ForecastResult struct {
	Item          string    `json:"item"`
	HistoryPoints int       `json:"history_points"`
	HorizonDays   int       `json:"forecast_horizon_days"`
	DailyForecast []float64 `json:"daily_forecast"`
	Message       string    `json:"message,omitempty"`
}

// Forecast predicts daily usage over the horizon from a usage history.
// With no history it returns an empty forecast with a message; with fewer
// than three points it falls back to the historical mean; otherwise it fits
// simple exponential smoothing and projects the final level flat across
// the horizon.
func Forecast(itemName string, history []float64) ForecastResult {
	result := ForecastResult{
		Item:        itemName,
		HorizonDays: forecastHorizonDays,
	}

	if len(history) == 0 {
		result.Message = "No consumption history found for this item."
		result.DailyForecast = []float64{}
		return result
	}

	result.HistoryPoints = len(history)

	var level float64
	if len(history) < 3 {
		sum := 0.0
		for _, v := range history {
			sum += v
		}
		level = sum / float64(len(history))
	} else {
		_, level = fitExponentialSmoothing(history)
	}

	forecast := make([]float64, forecastHorizonDays)
	for i := range forecast {
		forecast[i] = level
	}
	result.DailyForecast = forecast

	return result
}

// fitExponentialSmoothing finds the smoothing factor minimizing one-step
// squared error over a coarse grid and returns it with the final smoothed
// level. A flat projection of that level is the model's h-step forecast.
func fitExponentialSmoothing(y []float64) (alpha, level float64) {
	bestSSE := math.Inf(1)

	for a := 0.05; a <= 0.95; a += 0.05 {
		sse := 0.0
		l := y[0]
		for _, v := range y[1:] {
			err := v - l
			sse += err * err
			l = a*v + (1-a)*l
		}
		if sse < bestSSE {
			bestSSE = sse
			alpha = a
			level = l
		}
	}

	return alpha, level
}

// ForecastItem builds the usage series for one item from the consumption
// log, one observation per recorded movement, and runs the forecaster
// over it.
func (s *InventoryService) ForecastItem(ctx context.Context, sc scope.Scope, itemName string) (*ForecastResult, error) {
	series, err := s.consumption.UsageSeries(ctx, sc, itemName)
	if err != nil {
		return nil, err
	}

	history := make([]float64, len(series))
	for i, q := range series {
		history[i] = float64(q)
	}

	result := Forecast(itemName, history)
	return &result, nil
}
