package engine

import (
	"time"

	"github.com/julianstephens/verdant/internal/constants"
	"github.com/julianstephens/verdant/internal/models"
)

var plantTypes = map[models.Category]models.PlantType{
	models.CategoryHealth:       models.PlantFern,
	models.CategoryFitness:      models.PlantCactus,
	models.CategoryMindfulness:  models.PlantLotus,
	models.CategoryProductivity: models.PlantSunflower,
	models.CategoryLearning:     models.PlantOak,
	models.CategoryCreativity:   models.PlantOrchid,
	models.CategorySocial:       models.PlantIvy,
	models.CategoryOther:        models.PlantDaisy,
}

var plantColors = map[models.Category]string{
	models.CategoryHealth:       "#4CAF50",
	models.CategoryFitness:      "#8BC34A",
	models.CategoryMindfulness:  "#E91E63",
	models.CategoryProductivity: "#FFC107",
	models.CategoryLearning:     "#795548",
	models.CategoryCreativity:   "#9C27B0",
	models.CategorySocial:       "#009688",
	models.CategoryOther:        "#FFEB3B",
}

// PlantTypeFor maps a category to its plant. Unknown categories get a daisy.
func PlantTypeFor(c models.Category) models.PlantType {
	if t, ok := plantTypes[c]; ok {
		return t
	}
	return models.PlantDaisy
}

// PlantColorFor maps a category to its plant colour.
func PlantColorFor(c models.Category) string {
	if col, ok := plantColors[c]; ok {
		return col
	}
	return plantColors[models.CategoryOther]
}

// StageForStreak maps a streak to its growth stage.
func StageForStreak(streak int) models.GrowthStage {
	switch {
	case streak < constants.SeedMaxStreak:
		return models.StageSeed
	case streak < constants.SproutMaxStreak:
		return models.StageSprout
	case streak < constants.GrowingMaxStreak:
		return models.StageGrowing
	case streak < constants.MatureMaxStreak:
		return models.StageMature
	case streak < constants.FloweringMaxStreak:
		return models.StageFlowering
	default:
		return models.StageFruiting
	}
}

// NextGrowthStage returns the stage for streak. The current stage is not
// consulted: growth is recomputed from scratch, so a shorter streak yields
// an earlier stage.
func NextGrowthStage(current models.GrowthStage, streak int) models.GrowthStage {
	return StageForStreak(streak)
}

// UpdatePlantForHabit applies a completion of h to the garden and returns
// the updated collection. The plant is created at seed on first use, then
// its stage, effects, streak and watering time are refreshed. plants is
// not modified.
func UpdatePlantForHabit(h models.Habit, plants []models.PlantData, now time.Time) []models.PlantData {
	return applyHabit(h, plants, now, true)
}

// SyncGarden refreshes the plant of every active habit without watering
// existing plants. Plants whose habit is gone are left as they are.
func SyncGarden(habits []models.Habit, plants []models.PlantData, now time.Time) []models.PlantData {
	out := clonePlants(plants)
	for _, h := range habits {
		if !h.IsActive() {
			continue
		}
		out = applyHabit(h, out, now, false)
	}
	return out
}

func applyHabit(h models.Habit, plants []models.PlantData, now time.Time, water bool) []models.PlantData {
	out := clonePlants(plants)
	if h.ID == "" {
		return out
	}

	idx := -1
	for i := range out {
		if out[i].HabitID == h.ID {
			idx = i
			break
		}
	}

	if idx < 0 {
		if len(distinctValidDays(h.CompletedDates)) == 0 {
			return out
		}
		out = append(out, models.PlantData{
			HabitID:        h.ID,
			Type:           PlantTypeFor(h.Category),
			GrowthStage:    models.StageSeed,
			Color:          PlantColorFor(h.Category),
			LastWatered:    now,
			SpecialEffects: []models.SpecialEffect{},
		})
		idx = len(out) - 1
	}

	p := &out[idx]
	streak := max(h.CurrentStreak, 0)
	next := NextGrowthStage(p.GrowthStage, streak)
	if next != p.GrowthStage && (next == models.StageFlowering || next == models.StageFruiting) {
		addEffect(p, models.EffectSparkle)
	}
	p.GrowthStage = next

	if streak >= constants.ButterflyStreak {
		addEffect(p, models.EffectButterfly)
	}
	if streak >= constants.BirdStreak {
		addEffect(p, models.EffectBird)
	}

	p.CompletionStreak = streak
	if water {
		p.LastWatered = now
	}
	return out
}

func addEffect(p *models.PlantData, effect models.SpecialEffect) {
	if !p.HasEffect(effect) {
		p.SpecialEffects = append(p.SpecialEffects, effect)
	}
}

func clonePlants(plants []models.PlantData) []models.PlantData {
	out := make([]models.PlantData, len(plants))
	for i, p := range plants {
		out[i] = p.Clone()
	}
	return out
}

// PlantFor returns the plant keyed by habitID.
func PlantFor(plants []models.PlantData, habitID string) (models.PlantData, bool) {
	for _, p := range plants {
		if p.HabitID == habitID {
			return p, true
		}
	}
	return models.PlantData{}, false
}
