package habits

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/engine"
	"github.com/julianstephens/verdant/internal/export"
	"github.com/julianstephens/verdant/internal/insights"
	"github.com/julianstephens/verdant/internal/logger"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/utils"
)

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Tracker.Snapshot(context.Background())
	if err != nil {
		return err
	}

	st, lvl := snap.Stats, snap.Level
	ctx.Printf("Level %d  %s %d%%\n", lvl.Level, cli.ProgressBar(lvl.Progress, 20), lvl.Progress)
	ctx.Printf("Points: %d (%d into this level, %d to next)\n", st.Points, lvl.RemainingPoints, lvl.PointsForNextLevel-lvl.RemainingPoints)
	ctx.Println()
	ctx.Printf("Active habits:      %d\n", st.TotalHabits)
	ctx.Printf("Total completions:  %d\n", st.TotalCompletions)
	ctx.Printf("Best current streak: %d\n", st.CurrentStreak)
	ctx.Printf("Longest streak:     %d\n", st.LongestStreak)
	ctx.Printf("Badges unlocked:    %d/%d\n", engine.UnlockedCount(snap.Badges), len(snap.Badges))
	return nil
}

type BadgesCmd struct {
	Locked bool `help:"Show locked badges too." default:"true" negatable:""`
}

func (c *BadgesCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Tracker.Snapshot(context.Background())
	if err != nil {
		return err
	}

	ctx.Printf("Badges (%d/%d unlocked)\n\n", engine.UnlockedCount(snap.Badges), len(snap.Badges))
	for _, b := range snap.Badges {
		switch {
		case b.IsUnlocked:
			when := ""
			if b.UnlockedAt != nil {
				when = b.UnlockedAt.In(time.Local).Format(" (2006-01-02)")
			}
			ctx.Printf("%s %-20s %s%s\n", b.Icon, b.Name, b.Description, when)
		case c.Locked:
			ctx.Printf("🔒 %-20s %s\n", b.Name, b.Description)
		}
	}
	return nil
}

type GardenCmd struct {
	Show  GardenShowCmd  `cmd:"" default:"withargs" help:"Show the garden."`
	Reset GardenResetCmd `cmd:"" help:"Clear the garden and regrow it from current habits."`
}

type GardenShowCmd struct{}

var stageGlyphs = map[models.GrowthStage]string{
	models.StageSeed:      ".",
	models.StageSprout:    ",",
	models.StageGrowing:   "i",
	models.StageMature:    "Y",
	models.StageFlowering: "*",
	models.StageFruiting:  "@",
}

func (c *GardenShowCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Tracker.Snapshot(context.Background())
	if err != nil {
		return err
	}
	if len(snap.Plants) == 0 {
		ctx.Println("Your garden is empty. Complete a habit to plant your first seed.")
		return nil
	}

	now, err := ctx.Tracker.Now()
	if err != nil {
		return err
	}

	names := make(map[string]string, len(snap.Habits))
	for _, h := range snap.Habits {
		names[h.ID] = h.Name
	}

	ctx.Printf("Garden (%d plants)\n\n", len(snap.Plants))
	for _, p := range snap.Plants {
		name, ok := names[p.HabitID]
		if !ok {
			name = "(removed habit)"
		}
		effects := ""
		for _, e := range p.SpecialEffects {
			effects += " +" + string(e)
		}
		if utils.IsSameCalendarDay(now, p.LastWatered) {
			effects += " (watered today)"
		}
		ctx.Printf("%s %s %-10s %-9s %-8s streak %d%s\n", stageGlyphs[p.GrowthStage], cli.Truncate(name, 20),
			p.Type, p.GrowthStage, p.Color, p.CompletionStreak, effects)
	}
	return nil
}

type GardenResetCmd struct {
	Yes bool `help:"Skip confirmation." short:"y"`
}

func (c *GardenResetCmd) Run(ctx *cli.Context) error {
	if !c.Yes {
		ok, err := ctx.Confirm("This removes every plant and regrows the garden from your habits. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Garden reset cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()

	plants, err := ctx.Tracker.ResetGarden(context.Background())
	if err != nil {
		return err
	}
	ctx.Printf("Garden reset. %d plants regrown.\n", len(plants))
	return nil
}

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	now, err := ctx.Tracker.Now()
	if err != nil {
		return err
	}

	suggestions, err := insights.NewAnalyzer(ctx.Store).AnalyzeAll(now)
	if err != nil {
		return err
	}
	if len(suggestions) == 0 {
		ctx.Println("No suggestions. Your habits look well tuned.")
		return nil
	}

	ctx.Printf("Suggestions (%d):\n\n", len(suggestions))
	for _, s := range suggestions {
		ctx.Printf("• %s: %s\n", s.HabitName, s.Reason)
		switch s.Type {
		case insights.SuggestionArchive:
			ctx.Printf("  Try: verdant habit archive %q\n", s.HabitName)
		case insights.SuggestionReduceFrequency, insights.SuggestionIncreaseFrequency:
			ctx.Printf("  Frequency: %s -> %s\n", s.CurrentValue, s.SuggestedValue)
		}
	}
	return nil
}

type ExportCmd struct {
	Format string `help:"Output format: json or yaml." default:"json" short:"f"`
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *ExportCmd) Run(ctx *cli.Context) error {
	format, err := export.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	snap, err := ctx.Tracker.Snapshot(context.Background())
	if err != nil {
		return err
	}
	doc := export.NewDocument(snap.Habits, snap.Stats, snap.Level, snap.Badges, snap.Plants, time.Now())

	if c.Output == "" {
		return export.Write(ctx.Stdout(), doc, format)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(f, doc, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Info("Exported progress", "path", c.Output, "format", format)
	ctx.Printf("Exported %d habits to %s\n", len(doc.Habits), c.Output)
	return nil
}
