// Package export writes a portable snapshot of the habit collection and its
// derived progress.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/verdant/internal/constants"
	"github.com/julianstephens/verdant/internal/models"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format %q (expected json or yaml)", s)
}

type Document struct {
	Version    string             `json:"version" yaml:"version"`
	ExportedAt time.Time          `json:"exported_at" yaml:"exported_at"`
	Stats      models.UserStats   `json:"stats" yaml:"stats"`
	Level      models.LevelInfo   `json:"level" yaml:"level"`
	Habits     []models.Habit     `json:"habits" yaml:"habits"`
	Badges     []models.Badge     `json:"badges" yaml:"badges"`
	Plants     []models.PlantData `json:"plants" yaml:"plants"`
}

// NewDocument stamps a document with the app version. Nil collections are
// written as empty lists.
func NewDocument(habits []models.Habit, stats models.UserStats, level models.LevelInfo, badges []models.Badge, plants []models.PlantData, at time.Time) Document {
	if habits == nil {
		habits = []models.Habit{}
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	if plants == nil {
		plants = []models.PlantData{}
	}
	return Document{
		Version:    constants.Version,
		ExportedAt: at.UTC(),
		Stats:      stats,
		Level:      level,
		Habits:     habits,
		Badges:     badges,
		Plants:     plants,
	}
}

func Write(w io.Writer, doc Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported export format %q", format)
}
