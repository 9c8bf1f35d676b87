// Package storage defines the persistence contract for habits, completion
// entries, badges, plants and settings. Backends live in the sqlite and
// postgres subpackages.
package storage

import (
	"errors"
	"strings"

	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/utils"
)

// ErrNotFound is returned when a lookup matches no live record.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits. Returned habits carry their CompletedDates, built from the
	// live habit entries.
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	// UpdateHabit writes the habit row, including its cached streaks. It
	// does not touch completion entries.
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Habit Entries
	// AddHabitEntry records a completion, reviving a previously removed
	// entry for the same habit and day.
	AddHabitEntry(models.HabitEntry) error
	GetHabitEntry(habitID string, day utils.DayKey) (models.HabitEntry, error)
	GetHabitEntriesForHabit(habitID string) ([]models.HabitEntry, error)
	DeleteHabitEntry(id string) error

	// Badges
	GetBadges() ([]models.Badge, error)
	SaveBadges([]models.Badge) error

	// Garden
	GetPlants() ([]models.PlantData, error)
	SavePlants([]models.PlantData) error
	ResetGarden() error

	// Utils
	GetConfigPath() string
}

// IsPostgresConnString reports whether config names a PostgreSQL database
// rather than a SQLite file path.
func IsPostgresConnString(config string) bool {
	lower := strings.ToLower(strings.TrimSpace(config))
	return strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://")
}

// Migrator is implemented by backends with a versioned schema.
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}
