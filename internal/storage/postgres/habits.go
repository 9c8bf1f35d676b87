package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/storage"
	"github.com/julianstephens/verdant/internal/utils"
)

const habitColumns = `id, name, description, frequency, category, current_streak, longest_streak, created_at, archived_at, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var frequency, category, createdAt string
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &h.Description, &frequency, &category,
		&h.CurrentStreak, &h.LongestStreak, &createdAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}
	h.Frequency = models.Frequency(frequency)
	h.Category = models.Category(category)

	if h.CreatedAt, err = storage.ParseTime("created_at", createdAt); err != nil {
		return models.Habit{}, err
	}
	if h.ArchivedAt, err = storage.ParseNullTime("archived_at", archivedAt); err != nil {
		return models.Habit{}, err
	}
	if h.DeletedAt, err = storage.ParseNullTime("deleted_at", deletedAt); err != nil {
		return models.Habit{}, err
	}
	return h, nil
}

func (s *Store) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *Store) getHabitWhere(clause string, arg any) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE `+clause+` AND deleted_at IS NULL`, arg)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Habit{}, err
	}

	dates, err := s.completedDates(h.ID)
	if err != nil {
		return models.Habit{}, err
	}
	h.CompletedDates = dates
	return h, nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	return s.getHabitWhere("id = $1", id)
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	return s.getHabitWhere("LOWER(name) = LOWER($1)", name)
}

func (s *Store) completedDates(habitID string) ([]utils.DayKey, error) {
	rows, err := s.db.Query(`
		SELECT day FROM habit_entries
		WHERE habit_id = $1 AND deleted_at IS NULL
		ORDER BY day`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := []utils.DayKey{}
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		dates = append(dates, utils.DayKey(day))
	}
	return dates, rows.Err()
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + habitColumns + " FROM habits WHERE 1=1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, name"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}

	habits := []models.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		habits = append(habits, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	byHabit, err := s.allCompletedDates()
	if err != nil {
		return nil, err
	}
	for i := range habits {
		habits[i].CompletedDates = byHabit[habits[i].ID]
		if habits[i].CompletedDates == nil {
			habits[i].CompletedDates = []utils.DayKey{}
		}
	}

	return habits, nil
}

func (s *Store) allCompletedDates() (map[string][]utils.DayKey, error) {
	rows, err := s.db.Query(`
		SELECT habit_id, day FROM habit_entries
		WHERE deleted_at IS NULL
		ORDER BY habit_id, day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]utils.DayKey)
	for rows.Next() {
		var habitID, day string
		if err := rows.Scan(&habitID, &day); err != nil {
			return nil, err
		}
		out[habitID] = append(out[habitID], utils.DayKey(day))
	}
	return out, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	_, err := s.db.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			frequency = excluded.frequency,
			category = excluded.category,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			archived_at = excluded.archived_at,
			deleted_at = excluded.deleted_at`,
		habit.ID, habit.Name, habit.Description, string(habit.Frequency), string(habit.Category),
		habit.CurrentStreak, habit.LongestStreak, storage.FormatTime(habit.CreatedAt),
		storage.NullTime(habit.ArchivedAt), storage.NullTime(habit.DeletedAt))

	return err
}

// execOne runs a single-row UPDATE and reports notFound when nothing matched.
func (s *Store) execOne(notFound string, query string, args ...any) error {
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", notFound, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) ArchiveHabit(id string) error {
	return s.execOne("habit not found or already archived/deleted", `
		UPDATE habits SET archived_at = $1 WHERE id = $2 AND deleted_at IS NULL AND archived_at IS NULL`,
		storage.FormatTime(time.Now()), id)
}

func (s *Store) UnarchiveHabit(id string) error {
	return s.execOne("habit not found or not archived", `
		UPDATE habits SET archived_at = NULL WHERE id = $1 AND deleted_at IS NULL AND archived_at IS NOT NULL`,
		id)
}

func (s *Store) DeleteHabit(id string) error {
	return s.execOne("habit not found or already deleted", `
		UPDATE habits SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		storage.FormatTime(time.Now()), id)
}

func (s *Store) RestoreHabit(id string) error {
	return s.execOne("habit not found or not deleted", `
		UPDATE habits SET deleted_at = NULL WHERE id = $1 AND deleted_at IS NOT NULL`,
		id)
}

// Habit Entries

func scanEntry(row scanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var day, createdAt, updatedAt string
	var deletedAt sql.NullString

	err := row.Scan(&e.ID, &e.HabitID, &day, &e.Note, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return models.HabitEntry{}, err
	}
	e.Day = utils.DayKey(day)

	if e.CreatedAt, err = storage.ParseTime("created_at", createdAt); err != nil {
		return models.HabitEntry{}, err
	}
	if e.UpdatedAt, err = storage.ParseTime("updated_at", updatedAt); err != nil {
		return models.HabitEntry{}, err
	}
	if e.DeletedAt, err = storage.ParseNullTime("deleted_at", deletedAt); err != nil {
		return models.HabitEntry{}, err
	}
	return e, nil
}

func (s *Store) AddHabitEntry(entry models.HabitEntry) error {
	if !entry.Day.Valid() {
		return fmt.Errorf("invalid entry day %q", entry.Day)
	}
	_, err := s.db.Exec(`
		INSERT INTO habit_entries (id, habit_id, day, note, created_at, updated_at, deleted_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULL)
		ON CONFLICT(habit_id, day) DO UPDATE SET
			note = excluded.note,
			updated_at = excluded.updated_at,
			deleted_at = NULL`,
		entry.ID, entry.HabitID, string(entry.Day), entry.Note,
		storage.FormatTime(entry.CreatedAt), storage.FormatTime(entry.UpdatedAt))
	return err
}

func (s *Store) GetHabitEntry(habitID string, day utils.DayKey) (models.HabitEntry, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, note, created_at, updated_at, deleted_at
		FROM habit_entries WHERE habit_id = $1 AND day = $2 AND deleted_at IS NULL`,
		habitID, string(day))

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitEntry{}, storage.ErrNotFound
	}
	return e, err
}

func (s *Store) GetHabitEntriesForHabit(habitID string) ([]models.HabitEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, note, created_at, updated_at, deleted_at
		FROM habit_entries WHERE habit_id = $1 AND deleted_at IS NULL
		ORDER BY day`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.HabitEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteHabitEntry(id string) error {
	return s.execOne("habit entry not found or already deleted", `
		UPDATE habit_entries SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`,
		storage.FormatTime(time.Now()), id)
}
