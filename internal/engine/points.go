package engine

import (
	"github.com/julianstephens/verdant/internal/constants"
	"github.com/julianstephens/verdant/internal/models"
)

// CalculatePoints scores every habit, archived ones included, so archiving
// never takes back earned points. Deleted habits score nothing.
func CalculatePoints(habits []models.Habit) int {
	total := 0
	for _, h := range habits {
		if h.IsDeleted() {
			continue
		}
		total += habitPoints(h)
	}
	return total
}

func habitPoints(h models.Habit) int {
	p := constants.PointsPerCompletion*len(distinctValidDays(h.CompletedDates)) +
		constants.PointsPerStreakDay*max(h.CurrentStreak, 0)
	if h.LongestStreak >= constants.WeekStreakBonusThreshold {
		p += constants.PointsWeekStreakBonus
	}
	if h.LongestStreak >= constants.MonthStreakBonusThreshold {
		p += constants.PointsMonthStreakBonus
	}
	return p
}

// CalculateLevel places a points total on the level ladder. Level n spans
// n*100 points, so reaching level 2 costs 100 and level 3 a further 200.
func CalculateLevel(points int) models.LevelInfo {
	balance := max(points, 0)
	level := 1
	for balance >= level*constants.PointsPerLevel {
		balance -= level * constants.PointsPerLevel
		level++
	}

	next := level * constants.PointsPerLevel
	return models.LevelInfo{
		Level:              level,
		Progress:           balance * 100 / next,
		RemainingPoints:    balance,
		PointsForNextLevel: next,
	}
}

// CalculateStats builds the aggregate snapshot. Completions and points
// cover every habit; the habit count and streak maxima cover active ones.
func CalculateStats(habits []models.Habit) models.UserStats {
	var stats models.UserStats
	for _, h := range habits {
		if h.IsDeleted() {
			continue
		}
		stats.TotalCompletions += len(distinctValidDays(h.CompletedDates))
		if !h.IsActive() {
			continue
		}
		stats.TotalHabits++
		stats.CurrentStreak = max(stats.CurrentStreak, h.CurrentStreak)
		stats.LongestStreak = max(stats.LongestStreak, h.LongestStreak)
	}
	stats.Points = CalculatePoints(habits)
	return stats
}
