package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/verdant/internal/constants"
)

// DayKey identifies a civil calendar day in YYYY-MM-DD form. The time of day
// is discarded, so two instants on the same civil day share a key.
type DayKey string

const hoursPerDay = 24

// DayKeyOf returns the key of the civil day t falls on, read in t's own
// location. Callers that need a specific timezone should use DayKeyIn.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Format(constants.DateFormat))
}

// DayKeyIn returns the key of the civil day t falls on in loc.
func DayKeyIn(t time.Time, loc *time.Location) DayKey {
	if loc == nil {
		return DayKeyOf(t)
	}
	return DayKeyOf(t.In(loc))
}

// ParseDayKey validates s and returns it as a DayKey.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return DayKeyOf(t), nil
}

// Valid reports whether k is a well-formed calendar date.
func (k DayKey) Valid() bool {
	_, err := time.Parse(constants.DateFormat, string(k))
	return err == nil
}

// Time returns midnight UTC of the civil day. UTC is used only as an
// arithmetic basis: it has no DST, so consecutive days are always 24h apart.
// An invalid key yields the zero time.
func (k DayKey) Time() time.Time {
	t, err := time.Parse(constants.DateFormat, string(k))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (k DayKey) String() string { return string(k) }

// Before reports whether k is an earlier day than other.
func (k DayKey) Before(other DayKey) bool {
	return k.Time().Before(other.Time())
}

// After reports whether k is a later day than other.
func (k DayKey) After(other DayKey) bool {
	return k.Time().After(other.Time())
}

// AddDays returns the key n days after k (n may be negative).
func AddDays(k DayKey, n int) DayKey {
	return DayKeyOf(k.Time().AddDate(0, 0, n))
}

// DaysBetween returns the number of calendar days separating a and b,
// regardless of order.
func DaysBetween(a, b DayKey) int {
	return DaysBetweenTimes(a.Time(), b.Time())
}

// DaysBetweenTimes returns the ceiling of the absolute difference between
// two instants, in days.
func DaysBetweenTimes(a, b time.Time) int {
	diff := math.Abs(b.Sub(a).Hours()) / hoursPerDay
	return int(math.Ceil(diff))
}

// IsSameCalendarDay reports whether a and b fall on the same civil day. b is
// read in a's location so both instants use the same reference timezone.
func IsSameCalendarDay(a, b time.Time) bool {
	return DayKeyOf(a) == DayKeyOf(b.In(a.Location()))
}
