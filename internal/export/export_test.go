package export

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/utils"
)

func sampleDocument() Document {
	at := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	habits := []models.Habit{{
		ID:             "h1",
		Name:           "Read",
		Frequency:      models.FrequencyDaily,
		Category:       models.CategoryLearning,
		CompletedDates: []utils.DayKey{"2024-01-04", "2024-01-05"},
		CurrentStreak:  2,
		LongestStreak:  2,
		CreatedAt:      at,
	}}
	plants := []models.PlantData{{
		HabitID:          "h1",
		Type:             models.PlantOak,
		GrowthStage:      models.StageSprout,
		Color:            "#795548",
		LastWatered:      at,
		CompletionStreak: 2,
		SpecialEffects:   []models.SpecialEffect{},
	}}
	return NewDocument(habits, models.UserStats{TotalCompletions: 2, TotalHabits: 1, CurrentStreak: 2, LongestStreak: 2, Points: 14},
		models.LevelInfo{Level: 1, Progress: 14, RemainingPoints: 14, PointsForNextLevel: 100}, nil, plants, at)
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"json": FormatJSON, "JSON": FormatJSON, "yaml": FormatYAML, " yml ": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("csv")
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDocument(), FormatJSON))

	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))

	assert.Equal(t, []any{}, raw["badges"], "nil badges are written as an empty list")
	plants := raw["plants"].([]any)
	require.Len(t, plants, 1)
	assert.Equal(t, "sprout", plants[0].(map[string]any)["growth_stage"])

	habits := raw["habits"].([]any)
	assert.Equal(t, []any{"2024-01-04", "2024-01-05"}, habits[0].(map[string]any)["completed_dates"])
	assert.EqualValues(t, 14, raw["stats"].(map[string]any)["points"])
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleDocument(), FormatYAML))

	out := buf.String()
	assert.Contains(t, out, "growth_stage: sprout")
	assert.Contains(t, out, "exported_at: 2024-01-05T12:00:00Z")

	var raw map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, "level")
	assert.Contains(t, raw, "habits")
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, sampleDocument(), Format("toml")))
	assert.Zero(t, buf.Len())
}
