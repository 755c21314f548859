package utils

import (
	"fmt"
	"time"

	"github.com/julianstephens/companion/internal/constants"
)

// legacyDayFormat is the JavaScript Date.toDateString layout ("Mon Jan 02 2006").
// Stores written by the web build carry day stamps in this layout.
const legacyDayFormat = "Mon Jan 02 2006"

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}

// DayString returns the calendar day of t in t's own location.
func DayString(t time.Time) string {
	return t.Format(constants.DateFormat)
}

// ParseDayInLocation parses a calendar-day string into midnight of that day in loc.
// Both YYYY-MM-DD and the legacy "Mon Jan 02 2006" layout are accepted.
func ParseDayInLocation(day string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, day)
	if err != nil {
		var legacyErr error
		t, legacyErr = time.Parse(legacyDayFormat, day)
		if legacyErr != nil {
			return time.Time{}, fmt.Errorf("invalid day %q: %w", day, err)
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// DaysBetween returns the number of calendar days from day to t, using t's location.
// It is negative when day lies after t.
func DaysBetween(day string, t time.Time) (int, error) {
	start, err := ParseDayInLocation(day, t.Location())
	if err != nil {
		return 0, err
	}
	end := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// Compare in UTC on the civil dates so DST transitions don't skew the count.
	su := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	eu := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(eu.Sub(su).Hours() / 24), nil
}
