// Package insights turns consistency figures into suggestions for adjusting
// or retiring habits.
package insights

import (
	"fmt"
	"time"

	"github.com/julianstephens/verdant/internal/constants"
	"github.com/julianstephens/verdant/internal/engine"
	"github.com/julianstephens/verdant/internal/logger"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/storage"
	"github.com/julianstephens/verdant/internal/utils"
)

// SuggestionType represents the kind of change suggested
type SuggestionType string

const (
	SuggestionReduceFrequency   SuggestionType = "reduce_frequency"
	SuggestionIncreaseFrequency SuggestionType = "increase_frequency"
	SuggestionArchive           SuggestionType = "archive"
)

// Suggestion is a proposed change for a single habit
type Suggestion struct {
	HabitID        string         `json:"habit_id"`
	HabitName      string         `json:"habit_name"`
	Type           SuggestionType `json:"type"`
	Reason         string         `json:"reason"`
	CurrentValue   string         `json:"current_value,omitempty"`
	SuggestedValue string         `json:"suggested_value,omitempty"`
}

type Analyzer struct {
	store storage.Provider
}

func NewAnalyzer(store storage.Provider) *Analyzer {
	return &Analyzer{store: store}
}

// AnalyzeHabit returns the suggestions for h as of today, where today is a
// day in loc. Inactive habits and habits younger than the month window get
// none for frequency, since their percentages are not yet meaningful.
func AnalyzeHabit(h models.Habit, today utils.DayKey, loc *time.Location) []Suggestion {
	if !h.IsActive() || !today.Valid() {
		return nil
	}

	var out []Suggestion
	age := utils.DaysBetween(utils.DayKeyIn(h.CreatedAt, loc), today)

	switch h.Frequency {
	case models.FrequencyDaily:
		pct := engine.CalculateCompletionPercentage(h, models.PeriodMonth, today)
		if age >= constants.MonthWindowDays && pct < constants.InsightLowConsistencyPct {
			out = append(out, Suggestion{
				HabitID:        h.ID,
				HabitName:      h.Name,
				Type:           SuggestionReduceFrequency,
				Reason:         fmt.Sprintf("completed on %d%% of the last %d days", pct, constants.MonthWindowDays),
				CurrentValue:   string(models.FrequencyDaily),
				SuggestedValue: string(models.FrequencyWeekly),
			})
		}
	case models.FrequencyWeekly:
		pct := engine.CalculateCompletionPercentage(h, models.PeriodWeek, today)
		if pct > constants.InsightHighConsistencyPct {
			out = append(out, Suggestion{
				HabitID:        h.ID,
				HabitName:      h.Name,
				Type:           SuggestionIncreaseFrequency,
				Reason:         fmt.Sprintf("completed %d%% of its weekly target this week", pct),
				CurrentValue:   string(models.FrequencyWeekly),
				SuggestedValue: string(models.FrequencyDaily),
			})
		}
	}

	if stale, idle := isStale(h, today, age); stale {
		reason := fmt.Sprintf("no completions in %d days", idle)
		if len(h.CompletedDates) == 0 {
			reason = fmt.Sprintf("never completed since it was added %d days ago", idle)
		}
		out = append(out, Suggestion{
			HabitID:   h.ID,
			HabitName: h.Name,
			Type:      SuggestionArchive,
			Reason:    reason,
		})
	}

	return out
}

// isStale reports whether h has gone InsightStaleDays without a completion,
// and for how long.
func isStale(h models.Habit, today utils.DayKey, age int) (bool, int) {
	if h.Frequency == models.FrequencyOnce && len(h.CompletedDates) > 0 {
		return false, 0
	}

	var latest utils.DayKey
	for _, d := range h.CompletedDates {
		if d.Valid() && !d.After(today) && (latest == "" || d.After(latest)) {
			latest = d
		}
	}
	if latest == "" {
		return age >= constants.InsightStaleDays, age
	}
	idle := utils.DaysBetween(latest, today)
	return idle >= constants.InsightStaleDays, idle
}

// AnalyzeAll runs AnalyzeHabit over every active habit in the store as of
// the civil day of now, in now's location.
func (a *Analyzer) AnalyzeAll(now time.Time) ([]Suggestion, error) {
	today, loc := utils.DayKeyOf(now), now.Location()

	habits, err := a.store.GetAllHabits(false, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	var all []Suggestion
	for _, h := range habits {
		s := AnalyzeHabit(h, today, loc)
		if len(s) > 0 {
			logger.Debug("Habit insights", "habit", h.Name, "count", len(s))
		}
		all = append(all, s...)
	}
	return all, nil
}
