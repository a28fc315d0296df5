package utils

import (
	"time"
)

func StartOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// ParseDateOrTime accepts an RFC 3339 timestamp or a plain YYYY-MM-DD date (UTC).
func ParseDateOrTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
