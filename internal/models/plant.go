package models

import (
	"fmt"
	"time"
)

// GrowthStage is the ordered life-cycle of a garden plant.
type GrowthStage int

const (
	StageSeed GrowthStage = iota
	StageSprout
	StageGrowing
	StageMature
	StageFlowering
	StageFruiting
)

var stageNames = [...]string{"seed", "sprout", "growing", "mature", "flowering", "fruiting"}

func (s GrowthStage) String() string {
	if s < StageSeed || s > StageFruiting {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Valid reports whether s is inside the defined stage range.
func (s GrowthStage) Valid() bool {
	return s >= StageSeed && s <= StageFruiting
}

// ParseGrowthStage converts a stage name back into a GrowthStage.
func ParseGrowthStage(name string) (GrowthStage, error) {
	for i, n := range stageNames {
		if n == name {
			return GrowthStage(i), nil
		}
	}
	return StageSeed, fmt.Errorf("unknown growth stage %q", name)
}

func (s GrowthStage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GrowthStage) UnmarshalText(text []byte) error {
	stage, err := ParseGrowthStage(string(text))
	if err != nil {
		return err
	}
	*s = stage
	return nil
}

type PlantType string

const (
	PlantFern      PlantType = "fern"
	PlantCactus    PlantType = "cactus"
	PlantLotus     PlantType = "lotus"
	PlantSunflower PlantType = "sunflower"
	PlantOak       PlantType = "oak"
	PlantOrchid    PlantType = "orchid"
	PlantIvy       PlantType = "ivy"
	PlantDaisy     PlantType = "daisy"
)

type SpecialEffect string

const (
	EffectButterfly SpecialEffect = "butterfly"
	EffectBird      SpecialEffect = "bird"
	EffectSparkle   SpecialEffect = "sparkle"
)

// PlantData is the garden representation of a habit. HabitID is a lookup
// key, not an ownership link: a plant may outlive its habit.
type PlantData struct {
	HabitID          string          `json:"habit_id" yaml:"habit_id"`
	Type             PlantType       `json:"type" yaml:"type"`
	GrowthStage      GrowthStage     `json:"growth_stage" yaml:"growth_stage"`
	Color            string          `json:"color" yaml:"color"`
	LastWatered      time.Time       `json:"last_watered" yaml:"last_watered"`
	CompletionStreak int             `json:"completion_streak" yaml:"completion_streak"`
	SpecialEffects   []SpecialEffect `json:"special_effects" yaml:"special_effects"`
}

// HasEffect reports whether the plant already carries effect.
func (p PlantData) HasEffect(effect SpecialEffect) bool {
	for _, e := range p.SpecialEffects {
		if e == effect {
			return true
		}
	}
	return false
}

// Clone returns a copy of p that shares no mutable state with it.
func (p PlantData) Clone() PlantData {
	c := p
	if p.SpecialEffects != nil {
		c.SpecialEffects = make([]SpecialEffect, len(p.SpecialEffects))
		copy(c.SpecialEffects, p.SpecialEffects)
	}
	return c
}
