package utils

import (
	"time"
)

const (
	// Time format constants
	TimeFormat = "2006-01-02 15:04:05"
	DateFormat = "2006-01-02"
)

// ParseDate parse date string
func ParseDate(dateStr string) (time.Time, error) {
	return time.Parse(DateFormat, dateStr)
}

// FormatTime format time
func FormatTime(t time.Time) string {
	return t.Format(TimeFormat)
}

// FormatDate format date
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// StartOfDay returns 00:00:00 of the given day
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the given day
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
