package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/storage"
)

// Badges

func (s *Store) GetBadges() ([]models.Badge, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, icon, is_unlocked, unlocked_at
		FROM badges ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	badges := []models.Badge{}
	for rows.Next() {
		var b models.Badge
		var unlockedAt sql.NullString
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.IsUnlocked, &unlockedAt); err != nil {
			return nil, err
		}
		if b.UnlockedAt, err = storage.ParseNullTime("unlocked_at", unlockedAt); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// SaveBadges upserts every badge. Rows are never deleted, so an unlock
// written once cannot be lost by a later partial save.
func (s *Store) SaveBadges(badges []models.Badge) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO badges (id, name, description, icon, is_unlocked, unlocked_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			icon = excluded.icon,
			is_unlocked = MAX(badges.is_unlocked, excluded.is_unlocked),
			unlocked_at = COALESCE(badges.unlocked_at, excluded.unlocked_at)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, b := range badges {
		if _, err := stmt.Exec(b.ID, b.Name, b.Description, b.Icon, b.IsUnlocked, storage.NullTime(b.UnlockedAt)); err != nil {
			return fmt.Errorf("saving badge %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

// Garden

func (s *Store) GetPlants() ([]models.PlantData, error) {
	rows, err := s.db.Query(`
		SELECT habit_id, type, growth_stage, color, last_watered, completion_streak, special_effects
		FROM plants ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plants := []models.PlantData{}
	for rows.Next() {
		var p models.PlantData
		var plantType, stage, lastWatered, effects string
		if err := rows.Scan(&p.HabitID, &plantType, &stage, &p.Color, &lastWatered, &p.CompletionStreak, &effects); err != nil {
			return nil, err
		}
		p.Type = models.PlantType(plantType)
		if p.GrowthStage, err = models.ParseGrowthStage(stage); err != nil {
			return nil, fmt.Errorf("plant %s: %w", p.HabitID, err)
		}
		if p.LastWatered, err = storage.ParseTime("last_watered", lastWatered); err != nil {
			return nil, err
		}
		if p.SpecialEffects, err = storage.DecodeEffects(effects); err != nil {
			return nil, fmt.Errorf("plant %s: %w", p.HabitID, err)
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

func (s *Store) SavePlants(plants []models.PlantData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO plants (habit_id, type, growth_stage, color, last_watered, completion_streak, special_effects)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id) DO UPDATE SET
			growth_stage = excluded.growth_stage,
			last_watered = excluded.last_watered,
			completion_streak = excluded.completion_streak,
			special_effects = excluded.special_effects`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range plants {
		effects, err := storage.EncodeEffects(p.SpecialEffects)
		if err != nil {
			return err
		}
		if _, err := stmt.Exec(p.HabitID, string(p.Type), p.GrowthStage.String(), p.Color,
			storage.FormatTime(p.LastWatered), p.CompletionStreak, effects); err != nil {
			return fmt.Errorf("saving plant %s: %w", p.HabitID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) ResetGarden() error {
	_, err := s.db.Exec("DELETE FROM plants")
	return err
}
