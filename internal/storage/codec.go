package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julianstephens/verdant/internal/models"
)

// Timestamps are stored as RFC3339 text in every backend.

func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func ParseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

// NullTime converts an optional timestamp to a nullable column value.
func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

// ParseNullTime converts a nullable column back into an optional timestamp.
func ParseNullTime(field string, v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := ParseTime(field, v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EncodeEffects serializes a plant's effect set for the special_effects column.
func EncodeEffects(effects []models.SpecialEffect) (string, error) {
	if effects == nil {
		effects = []models.SpecialEffect{}
	}
	b, err := json.Marshal(effects)
	if err != nil {
		return "", fmt.Errorf("failed to encode special effects: %w", err)
	}
	return string(b), nil
}

// DecodeEffects parses the special_effects column.
func DecodeEffects(raw string) ([]models.SpecialEffect, error) {
	effects := []models.SpecialEffect{}
	if raw == "" {
		return effects, nil
	}
	if err := json.Unmarshal([]byte(raw), &effects); err != nil {
		return nil, fmt.Errorf("failed to decode special effects: %w", err)
	}
	return effects, nil
}
