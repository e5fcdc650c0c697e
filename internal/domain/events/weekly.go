package events

import "time"

// WeekdayIndex maps a timestamp onto the weekly histogram index:
// Monday = 0 ... Sunday = 6.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// WeeklyWindow is the inclusive 7-day range ending at now.
func WeeklyWindow(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -6), now
}

// WeeklyBuckets counts events per weekday. The result always holds exactly
// seven integers; days without events stay zero. Events outside the window
// are the caller's responsibility to exclude.
func WeeklyBuckets(events []Event) []int {
	buckets := make([]int, 7)
	for _, event := range events {
		buckets[WeekdayIndex(event.Timestamp)]++
	}
	return buckets
}
