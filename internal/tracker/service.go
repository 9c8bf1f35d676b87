// Package tracker owns the habit collection at runtime. Every mutation goes
// through Service, which persists it, recomputes the derived state and
// writes back streak caches, badges and plants.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/verdant/internal/engine"
	"github.com/julianstephens/verdant/internal/logger"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/notifier"
	"github.com/julianstephens/verdant/internal/storage"
	"github.com/julianstephens/verdant/internal/utils"
	"github.com/julianstephens/verdant/internal/validation"
)

var (
	ErrHabitNotFound     = errors.New("habit not found")
	ErrHabitExists       = errors.New("a habit with that name already exists")
	ErrHabitArchived     = errors.New("habit is archived")
	ErrAlreadyCompleted  = errors.New("habit already completed on that day")
	ErrNotCompleted      = errors.New("habit not completed on that day")
	ErrFutureCompletion  = errors.New("cannot record a completion in the future")
	ErrInvalidCompletion = errors.New("invalid completion day")
)

// Notifier delivers a short message to the user.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Service struct {
	mu        sync.Mutex
	store     storage.Provider
	notifier  Notifier
	validator *validation.Validator
	now       func() time.Time
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func New(store storage.Provider, opts ...Option) *Service {
	s := &Service{
		store:     store,
		validator: validation.New(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot is the full derived view of the collection at one instant.
type Snapshot struct {
	Today  utils.DayKey
	Period models.Period
	// Habits holds every non-deleted habit, archived ones included, with
	// refreshed streak caches.
	Habits []models.Habit
	Stats  models.UserStats
	Level  models.LevelInfo
	Badges []models.Badge
	Plants []models.PlantData
}

// Active returns the snapshot's active habits.
func (s Snapshot) Active() []models.Habit {
	var out []models.Habit
	for _, h := range s.Habits {
		if h.IsActive() {
			out = append(out, h)
		}
	}
	return out
}

// Outcome reports what a mutation changed.
type Outcome struct {
	Habit         models.Habit
	Plant         *models.PlantData
	PointsBefore  int
	PointsAfter   int
	LevelBefore   int
	Level         models.LevelInfo
	NewlyUnlocked []models.Badge
}

// LeveledUp reports whether the mutation moved the user up a level.
func (o Outcome) LeveledUp() bool {
	return o.Level.Level > o.LevelBefore
}

// clock returns now and today's key in the configured timezone.
func (s *Service) clock() (time.Time, utils.DayKey, models.Settings, error) {
	settings, err := s.store.GetSettings()
	if err != nil {
		return time.Time{}, "", models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	models.ApplyDefaultSettings(&settings)

	now, today, err := utils.ClockIn(s.now(), settings.Timezone)
	if err != nil {
		logger.Warn("Invalid timezone in settings, using local time", "timezone", settings.Timezone, "error", err)
	}
	return now, today, settings, nil
}

// Now returns the current time in the configured timezone.
func (s *Service) Now() (time.Time, error) {
	now, _, _, err := s.clock()
	return now, err
}

// Today returns the current day key in the configured timezone.
func (s *Service) Today() (utils.DayKey, error) {
	_, today, _, err := s.clock()
	return today, err
}

func (s *Service) lookup(name string) (models.Habit, error) {
	h, err := s.store.GetHabitByName(strings.TrimSpace(name))
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to get habit: %w", err)
	}
	return h, nil
}

// lookupAny finds a habit by name including deleted ones.
func (s *Service) lookupAny(name string) (models.Habit, error) {
	habits, err := s.store.GetAllHabits(true, true)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to get habits: %w", err)
	}
	for _, h := range habits {
		if strings.EqualFold(h.Name, strings.TrimSpace(name)) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitNotFound, name)
}

// AddHabit creates a habit and re-evaluates badges, since the habit count
// feeds badge rules. Names are unique among non-deleted habits, ignoring
// case.
func (s *Service) AddHabit(ctx context.Context, name, description string, freq models.Frequency, cat models.Category) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	now, today, settings, err := s.clock()
	if err != nil {
		return Outcome{}, err
	}

	name = strings.TrimSpace(name)
	if _, err := s.store.GetHabitByName(name); err == nil {
		return Outcome{}, fmt.Errorf("%w: %s", ErrHabitExists, name)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return Outcome{}, fmt.Errorf("failed to check for existing habit: %w", err)
	}

	h := models.Habit{
		ID:             uuid.New().String(),
		Name:           name,
		Description:    strings.TrimSpace(description),
		Frequency:      freq,
		Category:       cat,
		CompletedDates: []utils.DayKey{},
		CreatedAt:      now.UTC(),
	}
	if err := h.Validate(); err != nil {
		return Outcome{}, err
	}
	if err := s.store.AddHabit(h); err != nil {
		return Outcome{}, fmt.Errorf("failed to add habit: %w", err)
	}

	logger.Info("Habit added", "id", h.ID, "name", h.Name, "frequency", h.Frequency, "category", h.Category)

	return s.recompute(ctx, now, today, settings, h.ID, false, -1)
}

// resolveDay defaults an empty day to today and rejects future days.
func resolveDay(day, today utils.DayKey) (utils.DayKey, error) {
	if day == "" {
		return today, nil
	}
	if !day.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCompletion, day)
	}
	if day.After(today) {
		return "", fmt.Errorf("%w: %s is after %s", ErrFutureCompletion, day, today)
	}
	return day, nil
}

// Complete records a completion of the named habit on day (today when
// empty), waters its plant and recomputes everything derived.
func (s *Service) Complete(ctx context.Context, name string, day utils.DayKey) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	now, today, settings, err := s.clock()
	if err != nil {
		return Outcome{}, err
	}
	if day, err = resolveDay(day, today); err != nil {
		return Outcome{}, err
	}

	h, err := s.lookup(name)
	if err != nil {
		return Outcome{}, err
	}
	if h.IsArchived() {
		return Outcome{}, fmt.Errorf("%w: %s", ErrHabitArchived, h.Name)
	}
	if h.HasCompletion(day) {
		return Outcome{}, fmt.Errorf("%w: %s on %s", ErrAlreadyCompleted, h.Name, day)
	}

	before, err := s.points(today)
	if err != nil {
		return Outcome{}, err
	}

	entry := models.HabitEntry{
		ID:        uuid.New().String(),
		HabitID:   h.ID,
		Day:       day,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := s.store.AddHabitEntry(entry); err != nil {
		return Outcome{}, fmt.Errorf("failed to record completion: %w", err)
	}
	logger.Info("Habit completed", "habit", h.Name, "day", day)

	return s.recompute(ctx, now, today, settings, h.ID, true, before)
}

// Uncomplete removes the completion of the named habit on day (today when
// empty). The plant follows the shorter streak on the next sync.
func (s *Service) Uncomplete(ctx context.Context, name string, day utils.DayKey) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	now, today, settings, err := s.clock()
	if err != nil {
		return Outcome{}, err
	}
	if day, err = resolveDay(day, today); err != nil {
		return Outcome{}, err
	}

	h, err := s.lookup(name)
	if err != nil {
		return Outcome{}, err
	}
	entry, err := s.store.GetHabitEntry(h.ID, day)
	if errors.Is(err, storage.ErrNotFound) {
		return Outcome{}, fmt.Errorf("%w: %s on %s", ErrNotCompleted, h.Name, day)
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to get completion: %w", err)
	}
	before, err := s.points(today)
	if err != nil {
		return Outcome{}, err
	}
	if err := s.store.DeleteHabitEntry(entry.ID); err != nil {
		return Outcome{}, fmt.Errorf("failed to remove completion: %w", err)
	}
	logger.Info("Habit completion removed", "habit", h.Name, "day", day)

	return s.recompute(ctx, now, today, settings, h.ID, false, before)
}

// SetArchived archives or unarchives the named habit.
func (s *Service) SetArchived(ctx context.Context, name string, archived bool) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}

	h, err := s.lookup(name)
	if err != nil {
		return models.Habit{}, err
	}
	if archived {
		err = s.store.ArchiveHabit(h.ID)
	} else {
		err = s.store.UnarchiveHabit(h.ID)
	}
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to update habit: %w", err)
	}
	logger.Info("Habit archive state changed", "habit", h.Name, "archived", archived)

	out, err := s.refreshLocked(ctx, h.ID)
	return out.Habit, err
}

// Delete soft-deletes the named habit. Its plant stays in the garden.
func (s *Service) Delete(ctx context.Context, name string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}

	h, err := s.lookup(name)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.DeleteHabit(h.ID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to delete habit: %w", err)
	}
	logger.Info("Habit deleted", "habit", h.Name)

	if _, err := s.refreshLocked(ctx, ""); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

// Restore brings back a soft-deleted habit.
func (s *Service) Restore(ctx context.Context, name string) (models.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return models.Habit{}, err
	}

	h, err := s.lookupAny(name)
	if err != nil {
		return models.Habit{}, err
	}
	if !h.IsDeleted() {
		return models.Habit{}, fmt.Errorf("habit %q is not deleted", h.Name)
	}
	if _, err := s.store.GetHabitByName(h.Name); err == nil {
		return models.Habit{}, fmt.Errorf("%w: %s", ErrHabitExists, h.Name)
	}
	if err := s.store.RestoreHabit(h.ID); err != nil {
		return models.Habit{}, fmt.Errorf("failed to restore habit: %w", err)
	}
	logger.Info("Habit restored", "habit", h.Name)

	out, err := s.refreshLocked(ctx, h.ID)
	return out.Habit, err
}

// Refresh recomputes and persists the derived state without changing any
// habit. Used after imports, restores and repairs.
func (s *Service) Refresh(ctx context.Context) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx, "")
}

func (s *Service) refreshLocked(ctx context.Context, habitID string) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	now, today, settings, err := s.clock()
	if err != nil {
		return Outcome{}, err
	}
	return s.recompute(ctx, now, today, settings, habitID, false, -1)
}

// ResetGarden removes every plant, then regrows plants for active habits
// that have completions.
func (s *Service) ResetGarden(ctx context.Context) ([]models.PlantData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := s.store.ResetGarden(); err != nil {
		return nil, fmt.Errorf("failed to reset garden: %w", err)
	}
	logger.Info("Garden reset")

	if _, err := s.refreshLocked(ctx, ""); err != nil {
		return nil, err
	}
	return s.store.GetPlants()
}

// state is the stored collection alongside its sanitized copy.
type state struct {
	stored []models.Habit
	habits []models.Habit
	badges []models.Badge
}

// load reads the non-deleted habits and drops completion dates that would
// corrupt the derived state.
func (s *Service) load(today utils.DayKey) (state, error) {
	stored, err := s.store.GetAllHabits(true, false)
	if err != nil {
		return state{}, fmt.Errorf("failed to get habits: %w", err)
	}
	habits, fixes := s.validator.Sanitize(stored, today)
	for _, fix := range fixes {
		if fix.SourceConflict.Type == validation.ConflictStreakCacheMismatch {
			logger.Debug(fix.Action)
			continue
		}
		logger.Warn("Repaired habit data", "action", fix.Action, "conflict", fix.SourceConflict.Type)
	}

	badges, err := s.store.GetBadges()
	if err != nil {
		return state{}, fmt.Errorf("failed to get badges: %w", err)
	}
	if len(badges) == 0 {
		badges = engine.DefaultBadges()
	}
	return state{stored: stored, habits: habits, badges: badges}, nil
}

// points returns the current points total, for reporting a mutation's gain.
func (s *Service) points(today utils.DayKey) (int, error) {
	st, err := s.load(today)
	if err != nil {
		return 0, err
	}
	return engine.CalculatePoints(st.habits), nil
}

// recompute is the single write path for derived state. When habitID is
// set and water is true, that habit's plant is watered before the garden
// is synced.
func (s *Service) recompute(ctx context.Context, now time.Time, today utils.DayKey, settings models.Settings, habitID string, water bool, pointsBefore int) (Outcome, error) {
	st, err := s.load(today)
	if err != nil {
		return Outcome{}, err
	}
	if pointsBefore < 0 {
		pointsBefore = engine.CalculatePoints(st.habits)
	}

	d := engine.RecomputeDerived(st.habits, st.badges, now)

	for i, h := range d.Habits {
		old := st.stored[i]
		if old.CurrentStreak == h.CurrentStreak && old.LongestStreak == h.LongestStreak {
			continue
		}
		if err := s.store.UpdateHabit(h); err != nil {
			return Outcome{}, fmt.Errorf("failed to update streak for %s: %w", h.Name, err)
		}
	}

	plants, err := s.store.GetPlants()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to get plants: %w", err)
	}
	var target models.Habit
	for _, h := range d.Habits {
		if h.ID == habitID {
			target = h
			break
		}
	}
	if water && target.ID != "" {
		plants = engine.UpdatePlantForHabit(target, plants, now)
	}
	plants = engine.SyncGarden(d.Habits, plants, now)
	if err := s.store.SavePlants(plants); err != nil {
		return Outcome{}, fmt.Errorf("failed to save plants: %w", err)
	}

	if err := s.store.SaveBadges(d.Badges); err != nil {
		return Outcome{}, fmt.Errorf("failed to save badges: %w", err)
	}

	out := Outcome{
		Habit:         target,
		PointsBefore:  pointsBefore,
		PointsAfter:   d.Stats.Points,
		LevelBefore:   engine.CalculateLevel(pointsBefore).Level,
		Level:         d.Level,
		NewlyUnlocked: d.NewlyUnlocked,
	}
	if p, ok := engine.PlantFor(plants, habitID); ok {
		out.Plant = &p
	}

	for _, b := range d.NewlyUnlocked {
		logger.Info("Badge unlocked", "badge", b.ID)
	}
	if settings.NotificationsEnabled {
		s.announce(ctx, d.NewlyUnlocked)
	}
	return out, nil
}

// announce sends one notification per unlocked badge. Delivery failures
// never fail the mutation.
func (s *Service) announce(ctx context.Context, unlocked []models.Badge) {
	if s.notifier == nil {
		return
	}
	for _, b := range unlocked {
		err := s.notifier.Notify(ctx, fmt.Sprintf("%s Badge unlocked: %s", b.Icon, b.Name))
		switch {
		case err == nil:
		case errors.Is(err, notifier.ErrTrayNotRunning):
			logger.Debug("Skipping badge notification, tray not running", "badge", b.ID)
			return
		default:
			logger.Warn("Failed to send badge notification", "badge", b.ID, "error", err)
		}
	}
}

// Snapshot derives the current state without writing anything. Badges are
// reported as stored: unlocking happens only on the mutation paths, which
// persist the unlock time.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}

	now, today, settings, err := s.clock()
	if err != nil {
		return Snapshot{}, err
	}
	st, err := s.load(today)
	if err != nil {
		return Snapshot{}, err
	}
	plants, err := s.store.GetPlants()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to get plants: %w", err)
	}

	d := engine.RecomputeDerived(st.habits, st.badges, now)
	return Snapshot{
		Today:  today,
		Period: settings.DefaultPeriod,
		Habits: d.Habits,
		Stats:  d.Stats,
		Level:  d.Level,
		Badges: st.badges,
		Plants: plants,
	}, nil
}

// Validate reports problems in the stored habits without fixing them.
func (s *Service) Validate(ctx context.Context) (validation.ValidationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return validation.ValidationResult{}, err
	}

	_, today, _, err := s.clock()
	if err != nil {
		return validation.ValidationResult{}, err
	}
	habits, err := s.store.GetAllHabits(true, false)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to get habits: %w", err)
	}
	return s.validator.ValidateHabits(habits, today), nil
}

// Repair removes malformed and future completion entries, then refreshes
// the derived state. It returns a description of every entry removed.
// Record-level problems such as duplicate names are left to the user.
func (s *Service) Repair(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	_, today, _, err := s.clock()
	if err != nil {
		return nil, err
	}
	habits, err := s.store.GetAllHabits(true, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get habits: %w", err)
	}

	var fixed []string
	for _, h := range habits {
		entries, err := s.store.GetHabitEntriesForHabit(h.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get entries for %s: %w", h.Name, err)
		}
		for _, e := range entries {
			if e.Day.Valid() && !e.Day.After(today) {
				continue
			}
			if err := s.store.DeleteHabitEntry(e.ID); err != nil {
				return nil, fmt.Errorf("failed to remove entry %s: %w", e.ID, err)
			}
			fixed = append(fixed, fmt.Sprintf("Removed completion %q from %s", e.Day, h.Name))
			logger.Info("Removed invalid completion", "habit", h.Name, "day", e.Day)
		}
	}

	if _, err := s.refreshLocked(ctx, ""); err != nil {
		return fixed, err
	}
	return fixed, nil
}
