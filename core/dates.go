package core

import "time"

// DateFormat is the ISO calendar date layout used throughout the pipeline.
const DateFormat = "2006-01-02"

// WeekStart returns the Sunday on or before d. The weekly feed is keyed by
// this date, so the fetcher and the transform must agree on it.
func WeekStart(d time.Time) time.Time {
	offset := int(d.Weekday()) // time.Sunday == 0
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	return day.AddDate(0, 0, -offset)
}

// PreviousWeek returns the seven dates of the most recently completed
// Sunday-through-Saturday window strictly before the week containing d.
func PreviousWeek(d time.Time) []time.Time {
	start := WeekStart(d).AddDate(0, 0, -7)
	week := make([]time.Time, 7)
	for i := range week {
		week[i] = start.AddDate(0, 0, i)
	}
	return week
}

// DateString formats a time as an ISO calendar date.
func DateString(d time.Time) string {
	return d.Format(DateFormat)
}
