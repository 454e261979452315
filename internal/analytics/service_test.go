package analytics_test

import (
	"testing"
	"time"

	"github.com/premierlux/premierlux-backend/internal/analytics"
	invrepo "github.com/premierlux/premierlux-backend/internal/inventory/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Saturday 2025-06-14 so the trailing week covers Sun 8th through Sat 14th
var weekNow = time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

func TestWeekBuckets_SundayIsIndexZero(t *testing.T) {
	usage := []invrepo.ConsumptionEntry{
		{Quantity: 5, Direction: "out", RecordedAt: time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC)}, // Sunday
	}

	series := analytics.WeekBuckets(nil, usage, weekNow)

	require.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, series.Labels)
	assert.Equal(t, 5, series.StockOut[0])
	assert.Equal(t, 0, series.StockOut[1])
}

func TestWeekBuckets_SplitsDirections(t *testing.T) {
	wednesday := time.Date(2025, 6, 11, 9, 0, 0, 0, time.UTC)
	usage := []invrepo.ConsumptionEntry{
		{Quantity: 10, Direction: "in", RecordedAt: wednesday},
		{Quantity: 4, Direction: "out", RecordedAt: wednesday},
	}
	batches := []analytics.BatchIntake{
		{ReceivedDate: "2025-06-11", Quantity: 30},
	}

	series := analytics.WeekBuckets(batches, usage, weekNow)

	assert.Equal(t, 40, series.StockIn[3], "batch intake plus inbound adjustments")
	assert.Equal(t, 4, series.StockOut[3])
}

func TestWeekBuckets_SkipsBadBatchDates(t *testing.T) {
	batches := []analytics.BatchIntake{
		{ReceivedDate: "not-a-date", Quantity: 99},
		{ReceivedDate: "", Quantity: 99},
	}

	series := analytics.WeekBuckets(batches, nil, weekNow)

	for i := range series.StockIn {
		assert.Equal(t, 0, series.StockIn[i])
	}
}

func TestWeekBuckets_IgnoresOldEntries(t *testing.T) {
	usage := []invrepo.ConsumptionEntry{
		{Quantity: 7, Direction: "out", RecordedAt: weekNow.AddDate(0, 0, -30)},
	}

	series := analytics.WeekBuckets(nil, usage, weekNow)

	for i := range series.StockOut {
		assert.Equal(t, 0, series.StockOut[i])
	}
}

func TestMonthBuckets_TrailingTwelveMonths(t *testing.T) {
	now := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	usage := []invrepo.ConsumptionEntry{
		{Quantity: 8, Direction: "out", RecordedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{Quantity: 3, Direction: "in", RecordedAt: time.Date(2024, 7, 20, 0, 0, 0, 0, time.UTC)},
		{Quantity: 9, Direction: "out", RecordedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}, // too old
	}

	series := analytics.MonthBuckets(usage, now)

	require.Len(t, series.Labels, 12)
	assert.Equal(t, "Jul 2024", series.Labels[0])
	assert.Equal(t, "Jun 2025", series.Labels[11])

	assert.Equal(t, 8, series.StockOut[11])
	assert.Equal(t, 3, series.StockIn[0])

	total := 0
	for _, v := range series.StockOut {
		total += v
	}
	assert.Equal(t, 8, total, "entries outside the window are dropped")
}
