package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKeyOf_DiscardsTimeOfDay(t *testing.T) {
	morning := time.Date(2024, 3, 9, 0, 5, 0, 0, time.UTC)
	night := time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, DayKeyOf(morning), DayKeyOf(night))
	assert.Equal(t, DayKey("2024-03-09"), DayKeyOf(morning))
}

func TestDayKeyIn_UsesGivenLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 02:00 UTC on the 10th is still the evening of the 9th in New York.
	instant := time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, DayKey("2024-03-09"), DayKeyIn(instant, ny))
	assert.Equal(t, DayKey("2024-03-10"), DayKeyIn(instant, nil))
}

func TestParseDayKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DayKey
		wantErr bool
	}{
		{name: "valid", input: "2024-01-05", want: "2024-01-05"},
		{name: "leap day", input: "2024-02-29", want: "2024-02-29"},
		{name: "not a leap year", input: "2023-02-29", wantErr: true},
		{name: "slashes", input: "2024/01/05", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDayKey(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b DayKey
		want int
	}{
		{name: "same day", a: "2024-01-05", b: "2024-01-05", want: 0},
		{name: "adjacent", a: "2024-01-05", b: "2024-01-04", want: 1},
		{name: "order independent", a: "2024-01-04", b: "2024-01-05", want: 1},
		{name: "month boundary", a: "2024-01-31", b: "2024-02-01", want: 1},
		{name: "leap year", a: "2024-02-28", b: "2024-03-01", want: 2},
		{name: "across spring DST change", a: "2024-03-09", b: "2024-03-11", want: 2},
		{name: "year boundary", a: "2023-12-31", b: "2024-01-01", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.a, tt.b))
		})
	}
}

func TestDaysBetweenTimes_Ceiling(t *testing.T) {
	a := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, DaysBetweenTimes(a, b))
	assert.Equal(t, 2, DaysBetweenTimes(b, a), "order independent")
	assert.Equal(t, 0, DaysBetweenTimes(a, a))
}

func TestIsSameCalendarDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "same day different hours",
			a:    time.Date(2024, 5, 1, 1, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "consecutive days",
			a:    time.Date(2024, 5, 1, 23, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 5, 2, 0, 30, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "b read in a's location",
			a:    time.Date(2024, 5, 2, 8, 0, 0, 0, tokyo),
			b:    time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSameCalendarDay(tt.a, tt.b))
		})
	}
}

func TestAddDays(t *testing.T) {
	assert.Equal(t, DayKey("2024-03-01"), AddDays("2024-02-28", 2))
	assert.Equal(t, DayKey("2023-12-31"), AddDays("2024-01-01", -1))
}

func TestDayKeyValidAndOrdering(t *testing.T) {
	assert.False(t, DayKey("garbage").Valid())
	assert.True(t, DayKey("2024-01-01").Before("2024-01-02"))
	assert.True(t, DayKey("2024-01-02").After("2024-01-01"))
	assert.True(t, DayKey("garbage").Time().IsZero(), "Time() of malformed key should be zero")
}
