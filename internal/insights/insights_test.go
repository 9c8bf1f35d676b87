package insights

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/storage/sqlite"
	"github.com/julianstephens/verdant/internal/utils"
)

const today utils.DayKey = "2024-03-31"

func created(day string) time.Time {
	t, _ := time.Parse("2006-01-02", day)
	return t
}

func days(start utils.DayKey, n, step int) []utils.DayKey {
	out := make([]utils.DayKey, n)
	for i := range out {
		out[i] = utils.AddDays(start, i*step)
	}
	return out
}

func types(s []Suggestion) []SuggestionType {
	out := make([]SuggestionType, len(s))
	for i, x := range s {
		out[i] = x.Type
	}
	return out
}

func TestAnalyzeHabit(t *testing.T) {
	archivedAt := created("2024-03-01")

	tests := []struct {
		name  string
		habit models.Habit
		want  []SuggestionType
	}{
		{
			name: "rarely done daily habit",
			habit: models.Habit{ID: "a", Name: "Run", Frequency: models.FrequencyDaily,
				CreatedAt: created("2024-01-01"), CompletedDates: days("2024-03-20", 5, 2)},
			want: []SuggestionType{SuggestionReduceFrequency},
		},
		{
			name: "new daily habit is left alone",
			habit: models.Habit{ID: "b", Name: "Floss", Frequency: models.FrequencyDaily,
				CreatedAt: created("2024-03-20")},
			want: []SuggestionType{},
		},
		{
			name: "steady daily habit",
			habit: models.Habit{ID: "c", Name: "Read", Frequency: models.FrequencyDaily,
				CreatedAt: created("2024-01-01"), CompletedDates: days("2024-03-02", 30, 1)},
			want: []SuggestionType{},
		},
		{
			name: "overachieving weekly habit",
			habit: models.Habit{ID: "d", Name: "Call mum", Frequency: models.FrequencyWeekly,
				CreatedAt: created("2024-01-01"), CompletedDates: days("2024-03-27", 3, 2)},
			want: []SuggestionType{SuggestionIncreaseFrequency},
		},
		{
			name: "abandoned daily habit",
			habit: models.Habit{ID: "e", Name: "Journal", Frequency: models.FrequencyDaily,
				CreatedAt: created("2024-01-01"), CompletedDates: []utils.DayKey{"2024-02-01"}},
			want: []SuggestionType{SuggestionReduceFrequency, SuggestionArchive},
		},
		{
			name: "never started weekly habit",
			habit: models.Habit{ID: "f", Name: "Museum", Frequency: models.FrequencyWeekly,
				CreatedAt: created("2024-01-15")},
			want: []SuggestionType{SuggestionArchive},
		},
		{
			name: "finished one-off",
			habit: models.Habit{ID: "g", Name: "Passport", Frequency: models.FrequencyOnce,
				CreatedAt: created("2023-06-01"), CompletedDates: []utils.DayKey{"2023-07-01"}},
			want: []SuggestionType{},
		},
		{
			name: "archived habit",
			habit: models.Habit{ID: "h", Name: "Old", Frequency: models.FrequencyDaily,
				CreatedAt: created("2023-01-01"), ArchivedAt: &archivedAt},
			want: []SuggestionType{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeHabit(tt.habit, today, time.UTC)
			assert.Equal(t, tt.want, types(got))
			for _, s := range got {
				assert.Equal(t, tt.habit.ID, s.HabitID)
				assert.NotEmpty(t, s.Reason)
			}
		})
	}
}

func TestAnalyzeHabit_InvalidToday(t *testing.T) {
	h := models.Habit{ID: "a", Name: "Run", Frequency: models.FrequencyDaily, CreatedAt: created("2020-01-01")}
	assert.Empty(t, AnalyzeHabit(h, "not-a-day", time.UTC))
}

func TestAnalyzeHabit_AgeUsesLocalCreationDay(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// 03:00 UTC on Mar 2 is still the evening of Mar 1 in Los Angeles, so
	// the habit is 30 local days old on Mar 31 and the monthly check applies.
	h := models.Habit{ID: "a", Name: "Run", Frequency: models.FrequencyDaily,
		CreatedAt: time.Date(2024, 3, 2, 3, 0, 0, 0, time.UTC), CompletedDates: days("2024-03-20", 5, 2)}

	assert.Equal(t, []SuggestionType{SuggestionReduceFrequency}, types(AnalyzeHabit(h, today, la)))
	assert.Empty(t, AnalyzeHabit(h, today, time.UTC), "29 days old when read in UTC")
}

func TestAnalyzer_AnalyzeAll(t *testing.T) {
	store := sqlite.New(filepath.Join(t.TempDir(), "verdant.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	habits := []models.Habit{
		{ID: "stale", Name: "Stale", Frequency: models.FrequencyDaily, Category: models.CategoryHealth, CreatedAt: created("2024-01-01")},
		{ID: "fresh", Name: "Fresh", Frequency: models.FrequencyDaily, Category: models.CategoryHealth, CreatedAt: created("2024-03-30")},
	}
	for _, h := range habits {
		require.NoError(t, store.AddHabit(h))
	}

	a := NewAnalyzer(store)
	got, err := a.AnalyzeAll(time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "stale", got[0].HabitID)
	assert.ElementsMatch(t, []SuggestionType{SuggestionReduceFrequency, SuggestionArchive}, types(got))
}
