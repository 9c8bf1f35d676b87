// Package engine derives streaks, consistency, points, badges and garden
// state from a habit collection. Every function is pure: inputs are never
// mutated and the same input always yields the same output.
package engine

import (
	"sort"

	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/utils"
)

// StreakResult holds the current and longest consecutive-day runs.
type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// CalculateStreak derives the streak of h from its completion dates. The
// frequency is not consulted: weekly habits are measured by day adjacency
// like every other habit.
func CalculateStreak(h models.Habit) StreakResult {
	return CalculateStreakFromDates(h.CompletedDates)
}

// CalculateStreakFromDates derives a streak from a set of day keys.
// Malformed and duplicate keys are ignored.
func CalculateStreakFromDates(dates []utils.DayKey) StreakResult {
	days := distinctValidDays(dates)
	if len(days) == 0 {
		return StreakResult{}
	}

	// Descending walk from the most recent completion.
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	current := 1
	for i := 1; i < len(days); i++ {
		if utils.DaysBetween(days[i-1], days[i]) != 1 {
			break
		}
		current++
	}

	longest, run := 1, 1
	for i := len(days) - 2; i >= 0; i-- {
		if utils.DaysBetween(days[i+1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return StreakResult{Current: current, Longest: max(longest, current)}
}

// RefreshStreak returns a copy of h with its cached streak fields recomputed.
func RefreshStreak(h models.Habit) models.Habit {
	c := h.Clone()
	s := CalculateStreak(c)
	c.CurrentStreak = s.Current
	c.LongestStreak = s.Longest
	return c
}

func distinctValidDays(dates []utils.DayKey) []utils.DayKey {
	seen := make(map[utils.DayKey]struct{}, len(dates))
	days := make([]utils.DayKey, 0, len(dates))
	for _, d := range dates {
		if !d.Valid() {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		days = append(days, d)
	}
	return days
}
