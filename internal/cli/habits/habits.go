package habits

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/engine"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/tracker"
	"github.com/julianstephens/verdant/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with streaks and consistency."`
	Done    HabitDoneCmd    `cmd:"" help:"Mark a habit as done for a day."`
	Undo    HabitUndoCmd    `cmd:"" help:"Remove a completion."`
	Log     HabitLogCmd     `cmd:"" help:"Show habit log (ASCII history)."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description." short:"d"`
	Frequency   string `help:"daily, weekly or once." default:"daily" enum:"daily,weekly,once" short:"f"`
	Category    string `help:"health, fitness, mindfulness, productivity, learning, creativity, social or other." default:"other" short:"c"`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	freq, err := models.ParseFrequency(c.Frequency)
	if err != nil {
		return err
	}
	cat, err := models.ParseCategory(c.Category)
	if err != nil {
		return err
	}

	out, err := ctx.Tracker.AddHabit(context.Background(), c.Name, c.Description, freq, cat)
	if err != nil {
		return err
	}

	h := out.Habit
	ctx.Printf("Added habit: %s (%s, %s)\n", h.Name, h.Frequency, h.Category)
	ctx.Printf("Plant: %s\n", engine.PlantTypeFor(h.Category))
	printOutcome(ctx, out)
	return nil
}

type HabitListCmd struct {
	Archived bool   `help:"Include archived habits."`
	Deleted  bool   `help:"Include deleted habits."`
	Period   string `help:"Consistency window: week or month (default from settings)." enum:",week,month" default:""`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	snap, err := ctx.Tracker.Snapshot(context.Background())
	if err != nil {
		return err
	}

	period := snap.Period
	if c.Period != "" {
		period = models.Period(c.Period)
	}

	habits := snap.Habits
	if c.Deleted {
		all, err := ctx.Store.GetAllHabits(true, true)
		if err != nil {
			return err
		}
		for _, h := range all {
			if h.IsDeleted() {
				habits = append(habits, engine.RefreshStreak(h))
			}
		}
	}

	ctx.Printf(" %s %7s %7s  %-17s %s\n", cli.Truncate("Habit", 23), "Streak", "Best", string(period), "Frequency")
	ctx.Println(strings.Repeat("-", 72))

	shown := 0
	for _, h := range habits {
		if h.IsArchived() && !c.Archived && !h.IsDeleted() {
			continue
		}
		pct := engine.CalculateCompletionPercentage(h, period, snap.Today)
		marker := " "
		if h.HasCompletion(snap.Today) {
			marker = "✓"
		}
		ctx.Printf("%s%s %7d %7d  %s %4d%% %s%s\n", marker, cli.Truncate(h.Name, 23),
			h.CurrentStreak, h.LongestStreak, cli.ProgressBar(pct, 10), pct, h.Frequency, cli.HabitStatus(h))
		shown++
	}

	if shown == 0 {
		ctx.Println("No habits found. Add one with 'verdant habit add NAME'.")
	}
	return nil
}

type HabitDoneCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format, 'today' or 'yesterday' (default: today)." default:""`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	out, err := ctx.Tracker.Complete(context.Background(), c.Name, day)
	if err != nil {
		return err
	}

	ctx.Printf("✓ %s done. Streak: %d (best %d)\n", out.Habit.Name, out.Habit.CurrentStreak, out.Habit.LongestStreak)
	printOutcome(ctx, out)
	return nil
}

type HabitUndoCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Date in YYYY-MM-DD format, 'today' or 'yesterday' (default: today)." default:""`
}

func (c *HabitUndoCmd) Run(ctx *cli.Context) error {
	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}

	out, err := ctx.Tracker.Uncomplete(context.Background(), c.Name, day)
	if err != nil {
		return err
	}

	ctx.Printf("Removed completion of %s. Streak: %d (best %d)\n", out.Habit.Name, out.Habit.CurrentStreak, out.Habit.LongestStreak)
	printOutcome(ctx, out)
	return nil
}

func printOutcome(ctx *cli.Context, out tracker.Outcome) {
	if delta := out.PointsAfter - out.PointsBefore; delta != 0 {
		ctx.Printf("Points: %d (%+d)\n", out.PointsAfter, delta)
	}
	if out.LeveledUp() {
		ctx.Printf("🎉 Level up! You reached level %d.\n", out.Level.Level)
	}
	for _, b := range out.NewlyUnlocked {
		ctx.Printf("%s Badge unlocked: %s - %s\n", b.Icon, b.Name, b.Description)
	}
	if p := out.Plant; p != nil {
		line := fmt.Sprintf("Your %s is now %s", p.Type, p.GrowthStage)
		if len(p.SpecialEffects) > 0 {
			effects := make([]string, len(p.SpecialEffects))
			for i, e := range p.SpecialEffects {
				effects[i] = string(e)
			}
			line += " (" + strings.Join(effects, ", ") + ")"
		}
		ctx.Println(line)
	}
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be positive")
	}

	snap, err := ctx.Tracker.Snapshot(context.Background())
	if err != nil {
		return err
	}

	var selected []models.Habit
	for _, h := range snap.Habits {
		switch {
		case c.Habit != "" && strings.EqualFold(h.Name, c.Habit):
			selected = []models.Habit{h}
		case c.Habit == "" && h.IsActive():
			selected = append(selected, h)
		}
	}
	if c.Habit != "" && len(selected) == 0 {
		return fmt.Errorf("%w: %s", tracker.ErrHabitNotFound, c.Habit)
	}
	if len(selected) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	const nameWidth = 20
	start := utils.AddDays(snap.Today, -(c.Days - 1))

	ctx.Printf("Habit log (last %d days):\n\n", c.Days)
	ctx.Printf("%s", cli.Truncate("Habit", nameWidth))
	for i := 0; i < c.Days; i++ {
		ctx.Printf(" %5s", utils.AddDays(start, i).Time().Format("01/02"))
	}
	ctx.Println()
	ctx.Println(strings.Repeat("-", nameWidth+6*c.Days))

	for _, h := range selected {
		ctx.Printf("%s", cli.Truncate(h.Name, nameWidth))
		for i := 0; i < c.Days; i++ {
			mark := "."
			if h.HasCompletion(utils.AddDays(start, i)) {
				mark = "x"
			}
			ctx.Printf("  %s   ", mark)
		}
		ctx.Println()
	}
	return nil
}

type HabitArchiveCmd struct {
	Name      string `arg:"" help:"Habit name to archive."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.SetArchived(context.Background(), c.Name, !c.Unarchive)
	if err != nil {
		return err
	}
	if c.Unarchive {
		ctx.Printf("Unarchived habit: %s\n", h.Name)
	} else {
		ctx.Printf("Archived habit: %s\n", h.Name)
		ctx.Println("Archived habits keep their points but no longer count toward badges.")
	}
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	h, err := ctx.Tracker.Delete(context.Background(), c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", h.Name)
	ctx.Println("(This is a soft delete. Use 'verdant habit restore' to undo)")
	return nil
}

type HabitRestoreCmd struct {
	Name string `arg:"" help:"Habit name to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	h, err := ctx.Tracker.Restore(context.Background(), c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("Restored habit: %s\n", h.Name)
	return nil
}
