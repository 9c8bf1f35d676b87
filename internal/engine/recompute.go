package engine

import (
	"time"

	"github.com/julianstephens/verdant/internal/models"
)

// Derived is everything recomputed after a change to the habit collection.
type Derived struct {
	Habits        []models.Habit
	Stats         models.UserStats
	Level         models.LevelInfo
	Badges        []models.Badge
	NewlyUnlocked []models.Badge
}

// RecomputeDerived refreshes the streak caches on copies of habits, then
// derives stats, level and the merged badge catalog from them. It must be
// called after every mutation of the collection.
func RecomputeDerived(habits []models.Habit, badges []models.Badge, now time.Time) Derived {
	refreshed := make([]models.Habit, len(habits))
	for i, h := range habits {
		refreshed[i] = RefreshStreak(h)
	}

	stats := CalculateStats(refreshed)
	merged := EvaluateBadges(refreshed, badges, now)

	return Derived{
		Habits:        refreshed,
		Stats:         stats,
		Level:         CalculateLevel(stats.Points),
		Badges:        merged,
		NewlyUnlocked: NewlyUnlocked(badges, merged),
	}
}
