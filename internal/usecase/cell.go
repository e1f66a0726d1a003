package usecase

import (
	"fmt"
	"time"
)

const cellDateLayout = "2006-01-02"

// parseCellDate parses a YYYY-MM-DD calendar date into UTC midnight.
func parseCellDate(s string) (time.Time, error) {
	date, err := time.Parse(cellDateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func validHour(hour int) bool {
	return hour >= 0 && hour <= 23
}

// cellTime composes the appointment datetime for a (date, hour) cell.
// Minutes are always :00 by convention.
func cellTime(date time.Time, hour int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, time.UTC)
}

func formatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}
