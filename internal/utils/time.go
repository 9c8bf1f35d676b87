package utils

import (
	"fmt"
	"time"
)

// LoadLocation resolves a configured timezone name. An empty name and
// "Local" both mean the system zone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ClockIn reads now in the named timezone and returns it with its day key.
// On an unknown zone the error is returned along with now in the system
// zone, so callers can log and carry on.
func ClockIn(now time.Time, timezone string) (time.Time, DayKey, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		local := now.In(time.Local)
		return local, DayKeyOf(local), fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	now = now.In(loc)
	return now, DayKeyOf(now), nil
}

// ValidateTimezone reports whether timezone names a loadable zone.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}
