package engine

import (
	"time"

	"github.com/julianstephens/verdant/internal/constants"
	"github.com/julianstephens/verdant/internal/models"
)

// BadgeRule pairs catalog metadata with its unlock condition. Conditions
// receive only active habits.
type BadgeRule struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Condition   func(active []models.Habit) bool
}

// BadgeRules is the fixed badge catalog in display order.
var BadgeRules = []BadgeRule{
	{
		ID:          "first-step",
		Name:        "First Step",
		Description: "Create your first habit",
		Icon:        "🌱",
		Condition:   func(hs []models.Habit) bool { return len(hs) >= 1 },
	},
	{
		ID:          "momentum",
		Name:        "Momentum",
		Description: "Reach a 3 day streak",
		Icon:        "🔥",
		Condition:   anyStreakAtLeast(constants.MomentumStreak),
	},
	{
		ID:          "week-champion",
		Name:        "Week Champion",
		Description: "Reach a 7 day streak",
		Icon:        "🏆",
		Condition:   anyStreakAtLeast(constants.WeekChampionStreak),
	},
	{
		ID:          "habit-builder",
		Name:        "Habit Builder",
		Description: "Track 5 habits at once",
		Icon:        "🧱",
		Condition:   func(hs []models.Habit) bool { return len(hs) >= constants.HabitBuilderCount },
	},
	{
		ID:          "consistency-master",
		Name:        "Consistency Master",
		Description: "Reach a 10 day streak",
		Icon:        "🎯",
		Condition:   anyStreakAtLeast(constants.ConsistencyMasterStreak),
	},
	{
		ID:          "category-diversity",
		Name:        "Well Rounded",
		Description: "Keep streaks going in 4 different categories",
		Icon:        "🌈",
		Condition:   categoryDiversity,
	},
	{
		ID:          "garden-master",
		Name:        "Garden Master",
		Description: "Grow a plant to fruiting with a 21 day streak",
		Icon:        "🌳",
		Condition:   anyStreakAtLeast(constants.GardenMasterStreak),
	},
	{
		ID:          "monthly-master",
		Name:        "Monthly Master",
		Description: "Reach a 30 day streak",
		Icon:        "📅",
		Condition:   anyStreakAtLeast(constants.MonthlyMasterStreak),
	},
}

func anyStreakAtLeast(n int) func([]models.Habit) bool {
	return func(hs []models.Habit) bool {
		for _, h := range hs {
			if h.CurrentStreak >= n {
				return true
			}
		}
		return false
	}
}

func categoryDiversity(hs []models.Habit) bool {
	seen := make(map[models.Category]struct{})
	for _, h := range hs {
		if h.CurrentStreak > 0 {
			seen[h.Category] = struct{}{}
		}
	}
	return len(seen) >= constants.CategoryDiversityCount
}

// DefaultBadges returns the full catalog in its initial locked state.
func DefaultBadges() []models.Badge {
	out := make([]models.Badge, len(BadgeRules))
	for i, r := range BadgeRules {
		out[i] = models.Badge{ID: r.ID, Name: r.Name, Description: r.Description, Icon: r.Icon}
	}
	return out
}

// EvaluateBadges returns the full badge catalog after checking every rule
// against the active habits. A badge already unlocked in current is carried
// over untouched even if its condition no longer holds; a locked badge whose
// condition holds is unlocked at now. Badges in current that the catalog
// does not know are kept as they are.
func EvaluateBadges(habits []models.Habit, current []models.Badge, now time.Time) []models.Badge {
	active := activeHabits(habits)

	existing := make(map[string]models.Badge, len(current))
	for _, b := range current {
		existing[b.ID] = b
	}

	out := make([]models.Badge, 0, len(BadgeRules)+len(current))
	known := make(map[string]struct{}, len(BadgeRules))
	for _, r := range BadgeRules {
		known[r.ID] = struct{}{}

		b := models.Badge{ID: r.ID, Name: r.Name, Description: r.Description, Icon: r.Icon}
		if prev, ok := existing[r.ID]; ok && prev.IsUnlocked {
			b = prev.Clone()
		} else if r.Condition(active) {
			at := now
			b.IsUnlocked = true
			b.UnlockedAt = &at
		}
		out = append(out, b)
	}

	for _, b := range current {
		if _, ok := known[b.ID]; !ok {
			out = append(out, b.Clone())
		}
	}
	return out
}

// NewlyUnlocked returns the badges unlocked in after but not in before.
func NewlyUnlocked(before, after []models.Badge) []models.Badge {
	was := make(map[string]bool, len(before))
	for _, b := range before {
		was[b.ID] = b.IsUnlocked
	}

	var out []models.Badge
	for _, b := range after {
		if b.IsUnlocked && !was[b.ID] {
			out = append(out, b.Clone())
		}
	}
	return out
}

// UnlockedCount reports how many badges in bs are unlocked.
func UnlockedCount(bs []models.Badge) int {
	n := 0
	for _, b := range bs {
		if b.IsUnlocked {
			n++
		}
	}
	return n
}

func activeHabits(habits []models.Habit) []models.Habit {
	out := make([]models.Habit, 0, len(habits))
	for _, h := range habits {
		if h.IsActive() {
			out = append(out, h)
		}
	}
	return out
}
