package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/verdant/internal/utils"
)

type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyOnce   Frequency = "once"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyOnce:
		return true
	}
	return false
}

type Category string

const (
	CategoryHealth       Category = "health"
	CategoryFitness      Category = "fitness"
	CategoryMindfulness  Category = "mindfulness"
	CategoryProductivity Category = "productivity"
	CategoryLearning     Category = "learning"
	CategoryCreativity   Category = "creativity"
	CategorySocial       Category = "social"
	CategoryOther        Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryHealth,
	CategoryFitness,
	CategoryMindfulness,
	CategoryProductivity,
	CategoryLearning,
	CategoryCreativity,
	CategorySocial,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseFrequency normalizes user input into a Frequency.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("invalid frequency %q (expected daily, weekly or once)", s)
	}
	return f, nil
}

// ParseCategory normalizes user input into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q", s)
	}
	return c, nil
}

// Habit represents a recurring practice to track
type Habit struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name"`
	Description    string         `json:"description,omitempty" yaml:"description,omitempty"`
	Frequency      Frequency      `json:"frequency" yaml:"frequency"`
	Category       Category       `json:"category" yaml:"category"`
	CompletedDates []utils.DayKey `json:"completed_dates" yaml:"completed_dates"`
	CurrentStreak  int            `json:"current_streak" yaml:"current_streak"`
	LongestStreak  int            `json:"longest_streak" yaml:"longest_streak"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	ArchivedAt     *time.Time     `json:"archived_at,omitempty" yaml:"archived_at,omitempty"`
	DeletedAt      *time.Time     `json:"deleted_at,omitempty" yaml:"deleted_at,omitempty"`
}

// IsArchived reports whether the habit has been archived.
func (h Habit) IsArchived() bool {
	return h.ArchivedAt != nil
}

// IsDeleted reports whether the habit has been soft deleted.
func (h Habit) IsDeleted() bool {
	return h.DeletedAt != nil
}

// IsActive reports whether the habit counts toward active aggregates.
func (h Habit) IsActive() bool {
	return !h.IsArchived() && !h.IsDeleted()
}

// HasCompletion reports whether the habit was completed on day.
func (h Habit) HasCompletion(day utils.DayKey) bool {
	for _, d := range h.CompletedDates {
		if d == day {
			return true
		}
	}
	return false
}

// Clone returns a copy of h that shares no mutable state with it.
func (h Habit) Clone() Habit {
	c := h
	if h.CompletedDates != nil {
		c.CompletedDates = make([]utils.DayKey, len(h.CompletedDates))
		copy(c.CompletedDates, h.CompletedDates)
	}
	if h.ArchivedAt != nil {
		t := *h.ArchivedAt
		c.ArchivedAt = &t
	}
	if h.DeletedAt != nil {
		t := *h.DeletedAt
		c.DeletedAt = &t
	}
	return c
}

// CloneHabits deep-copies a habit collection.
func CloneHabits(habits []Habit) []Habit {
	if habits == nil {
		return nil
	}
	out := make([]Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}

func (h *Habit) Validate() error {
	if strings.TrimSpace(h.ID) == "" {
		return fmt.Errorf("habit id cannot be empty")
	}
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("habit name cannot be empty")
	}
	if !h.Frequency.Valid() {
		return fmt.Errorf("invalid frequency %q", h.Frequency)
	}
	if !h.Category.Valid() {
		return fmt.Errorf("invalid category %q", h.Category)
	}
	return nil
}

// HabitEntry represents a single day's completion of a habit
type HabitEntry struct {
	ID        string       `json:"id"`
	HabitID   string       `json:"habit_id"`
	Day       utils.DayKey `json:"day"`
	Note      string       `json:"note"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	DeletedAt *time.Time   `json:"deleted_at,omitempty"`
}
