package models

// UserStats is a snapshot derived from the habit collection. It is never
// stored or edited directly.
type UserStats struct {
	TotalCompletions int `json:"total_completions" yaml:"total_completions"`
	TotalHabits      int `json:"total_habits" yaml:"total_habits"`
	CurrentStreak    int `json:"current_streak" yaml:"current_streak"`
	LongestStreak    int `json:"longest_streak" yaml:"longest_streak"`
	Points           int `json:"points" yaml:"points"`
}

// LevelInfo describes where a points total sits on the level ladder.
type LevelInfo struct {
	Level              int `json:"level" yaml:"level"`
	Progress           int `json:"progress" yaml:"progress"`                 // percent of the current level completed
	RemainingPoints    int `json:"remaining_points" yaml:"remaining_points"` // points carried into the current level
	PointsForNextLevel int `json:"points_for_next_level" yaml:"points_for_next_level"`
}
