package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeekdayIndex(t *testing.T) {
	// 2024-01-01 was a Monday.
	monday := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		require.Equal(t, i, WeekdayIndex(monday.AddDate(0, 0, i)))
	}
}

func TestWeeklyWindow(t *testing.T) {
	now := time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC)
	from, to := WeeklyWindow(now)
	require.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), from)
	require.Equal(t, now, to)
}

func TestWeeklyBucketsEmpty(t *testing.T) {
	buckets := WeeklyBuckets(nil)
	require.Equal(t, []int{0, 0, 0, 0, 0, 0, 0}, buckets)
}

func TestWeeklyBucketsCountsPerWeekday(t *testing.T) {
	monday := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	events := []Event{
		{Timestamp: monday},
		{Timestamp: monday.Add(2 * time.Hour)},
		{Timestamp: monday.AddDate(0, 0, 2)}, // Wednesday
		{Timestamp: monday.AddDate(0, 0, 6)}, // Sunday
	}

	buckets := WeeklyBuckets(events)
	require.Len(t, buckets, 7)
	require.Equal(t, []int{2, 0, 1, 0, 0, 0, 1}, buckets)

	total := 0
	for _, count := range buckets {
		total += count
	}
	require.Equal(t, len(events), total)
}
