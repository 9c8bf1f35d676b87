package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/verdant/internal/engine"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDayKey       ConflictType = "invalid_day_key"
	ConflictFutureDayKey        ConflictType = "future_day_key"
	ConflictDuplicateDayKey     ConflictType = "duplicate_day_key"
	ConflictInvalidFrequency    ConflictType = "invalid_frequency"
	ConflictInvalidCategory     ConflictType = "invalid_category"
	ConflictMissingHabitID      ConflictType = "missing_habit_id"
	ConflictDuplicateHabitName  ConflictType = "duplicate_habit_name"
	ConflictStreakCacheMismatch ConflictType = "streak_cache_mismatch"
)

// Conflict represents a detected problem in a habit record
type Conflict struct {
	Type        ConflictType
	Description string
	Day         utils.DayKey // offending completion day (if applicable)
	HabitIDs    []string     // IDs of habits involved (for auto-fixing)
	Items       []string     // Habit names involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string   // Human-readable description of the action
	SourceConflict Conflict // The conflict that triggered this fix action
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// ByType returns the conflicts of the given type.
func (vr *ValidationResult) ByType(t ConflictType) []Conflict {
	var out []Conflict
	for _, c := range vr.Conflicts {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var sb strings.Builder
	sb.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&sb, "- %s\n", conflict.Description)
	}
	return sb.String()
}

// Validator checks habit records at the boundary before they reach the
// engine.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits reports every malformed record in habits. today is the
// caller's current civil day; completions after it are flagged.
func (v *Validator) ValidateHabits(habits []models.Habit, today utils.DayKey) ValidationResult {
	var result ValidationResult
	names := make(map[string]models.Habit)

	for _, h := range habits {
		if h.IsDeleted() {
			continue
		}
		label := h.Name
		if label == "" {
			label = "(unnamed)"
		}

		if strings.TrimSpace(h.ID) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictMissingHabitID,
				Description: fmt.Sprintf("Habit %q has no ID", label),
				Items:       []string{label},
			})
		}
		if !h.Frequency.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidFrequency,
				Description: fmt.Sprintf("Habit %q has unknown frequency %q", label, h.Frequency),
				HabitIDs:    []string{h.ID},
				Items:       []string{label},
			})
		}
		if !h.Category.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidCategory,
				Description: fmt.Sprintf("Habit %q has unknown category %q", label, h.Category),
				HabitIDs:    []string{h.ID},
				Items:       []string{label},
			})
		}

		if h.IsActive() {
			key := strings.ToLower(strings.TrimSpace(h.Name))
			if other, ok := names[key]; ok && key != "" {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictDuplicateHabitName,
					Description: fmt.Sprintf("Habits %q and %q share a name", other.Name, h.Name),
					HabitIDs:    []string{other.ID, h.ID},
					Items:       []string{other.Name, h.Name},
				})
			} else {
				names[key] = h
			}
		}

		result.Conflicts = append(result.Conflicts, v.validateDates(h, label, today)...)

		s := engine.CalculateStreak(h)
		if s.Current != h.CurrentStreak || s.Longest != h.LongestStreak {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictStreakCacheMismatch,
				Description: fmt.Sprintf("Habit %q caches streak %d/%d but its history gives %d/%d",
					label, h.CurrentStreak, h.LongestStreak, s.Current, s.Longest),
				HabitIDs: []string{h.ID},
				Items:    []string{label},
			})
		}
	}

	return result
}

func (v *Validator) validateDates(h models.Habit, label string, today utils.DayKey) []Conflict {
	var conflicts []Conflict
	seen := make(map[utils.DayKey]bool, len(h.CompletedDates))

	for _, d := range h.CompletedDates {
		switch {
		case !d.Valid():
			conflicts = append(conflicts, Conflict{
				Type:        ConflictInvalidDayKey,
				Description: fmt.Sprintf("Habit %q has malformed completion date %q", label, d),
				Day:         d,
				HabitIDs:    []string{h.ID},
				Items:       []string{label},
			})
		case today.Valid() && d.After(today):
			conflicts = append(conflicts, Conflict{
				Type:        ConflictFutureDayKey,
				Description: fmt.Sprintf("Habit %q is completed on %s, which is in the future", label, d),
				Day:         d,
				HabitIDs:    []string{h.ID},
				Items:       []string{label},
			})
		case seen[d]:
			conflicts = append(conflicts, Conflict{
				Type:        ConflictDuplicateDayKey,
				Description: fmt.Sprintf("Habit %q is completed twice on %s", label, d),
				Day:         d,
				HabitIDs:    []string{h.ID},
				Items:       []string{label},
			})
		}
		seen[d] = true
	}
	return conflicts
}

// Sanitize returns copies of habits with malformed, future and duplicate
// completion dates removed and streak caches refreshed, along with a
// description of every change made. Record-level conflicts such as an
// unknown category are left for the user to resolve.
func (v *Validator) Sanitize(habits []models.Habit, today utils.DayKey) ([]models.Habit, []FixAction) {
	out := models.CloneHabits(habits)
	var actions []FixAction

	for i := range out {
		h := &out[i]
		if h.IsDeleted() {
			continue
		}
		label := h.Name

		for _, c := range v.validateDates(*h, label, today) {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Dropped completion %q from %q", c.Day, label),
				SourceConflict: c,
			})
		}

		kept := make([]utils.DayKey, 0, len(h.CompletedDates))
		seen := make(map[utils.DayKey]bool, len(h.CompletedDates))
		for _, d := range h.CompletedDates {
			if !d.Valid() || (today.Valid() && d.After(today)) || seen[d] {
				continue
			}
			seen[d] = true
			kept = append(kept, d)
		}
		h.CompletedDates = kept

		refreshed := engine.RefreshStreak(*h)
		if refreshed.CurrentStreak != h.CurrentStreak || refreshed.LongestStreak != h.LongestStreak {
			actions = append(actions, FixAction{
				Action: fmt.Sprintf("Recomputed streak of %q to %d/%d", label, refreshed.CurrentStreak, refreshed.LongestStreak),
				SourceConflict: Conflict{
					Type:     ConflictStreakCacheMismatch,
					HabitIDs: []string{h.ID},
					Items:    []string{label},
				},
			})
		}
		*h = refreshed
	}

	return out, actions
}
