package engine

import (
	"math"

	"github.com/julianstephens/verdant/internal/constants"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/utils"
)

// WindowDays returns the length of the trailing window for period, or 0
// for an unknown period.
func WindowDays(period models.Period) int {
	switch period {
	case models.PeriodWeek:
		return constants.WeekWindowDays
	case models.PeriodMonth:
		return constants.MonthWindowDays
	}
	return 0
}

func weeksInWindow(period models.Period) int {
	switch period {
	case models.PeriodWeek:
		return constants.WeeksInWeekWindow
	case models.PeriodMonth:
		return constants.WeeksInMonthWindow
	}
	return 0
}

// CalculateCompletionPercentage returns the share of expected completions
// h achieved in the window of period ending on today (inclusive). Weekly
// habits can exceed 100 when a week holds more than one completion.
// Habits created inside the window are not pro-rated.
func CalculateCompletionPercentage(h models.Habit, period models.Period, today utils.DayKey) int {
	days := WindowDays(period)
	if days == 0 || !today.Valid() {
		return 0
	}

	switch h.Frequency {
	case models.FrequencyOnce:
		for _, d := range h.CompletedDates {
			if d.Valid() {
				return 100
			}
		}
		return 0
	case models.FrequencyDaily:
		return percent(completionsInWindow(h.CompletedDates, today, days), days)
	case models.FrequencyWeekly:
		return percent(completionsInWindow(h.CompletedDates, today, days), weeksInWindow(period))
	}
	return 0
}

// completionsInWindow counts distinct days in [today-days+1, today].
func completionsInWindow(dates []utils.DayKey, today utils.DayKey, days int) int {
	start := utils.AddDays(today, -(days - 1))
	count := 0
	for _, d := range distinctValidDays(dates) {
		if d.Before(start) || d.After(today) {
			continue
		}
		count++
	}
	return count
}

func percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return int(math.Round(float64(n) * 100 / float64(d)))
}
