package constants

// Consistency windows, in days.
const (
	WeekWindowDays  = 7
	MonthWindowDays = 30

	// Number of weekly periods a window covers for weekly habits.
	WeeksInWeekWindow  = 1
	WeeksInMonthWindow = 4
)

// Point weights.
const (
	PointsPerCompletion    = 5
	PointsPerStreakDay     = 2
	PointsWeekStreakBonus  = 20
	PointsMonthStreakBonus = 100

	WeekStreakBonusThreshold  = 7
	MonthStreakBonusThreshold = 30

	// PointsPerLevel is multiplied by the current level to get the size of that level.
	PointsPerLevel = 100
)

// Badge thresholds.
const (
	MomentumStreak          = 3
	WeekChampionStreak      = 7
	HabitBuilderCount       = 5
	ConsistencyMasterStreak = 10
	CategoryDiversityCount  = 4
	GardenMasterStreak      = 21
	MonthlyMasterStreak     = 30
)

// Growth stage upper bounds (exclusive) on the current streak.
const (
	SeedMaxStreak      = 2
	SproutMaxStreak    = 5
	GrowingMaxStreak   = 10
	MatureMaxStreak    = 15
	FloweringMaxStreak = 21
)

// Special effect unlock streaks.
const (
	ButterflyStreak = 15
	BirdStreak      = 21
)

// Insight thresholds.
const (
	InsightLowConsistencyPct  = 30
	InsightHighConsistencyPct = 100
	InsightStaleDays          = 30
)
