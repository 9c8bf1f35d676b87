package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/keyring"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/storage"
)

type DebugCmd struct {
	DBPath       *DebugDBPathCmd       `cmd:"" help:"Show database path."`
	DumpHabit    *DebugDumpHabitCmd    `cmd:"" help:"Dump a habit and its entries as JSON."`
	DumpGarden   *DebugDumpGardenCmd   `cmd:"" help:"Dump stored plants as JSON."`
	DumpBadges   *DebugDumpBadgesCmd   `cmd:"" help:"Dump stored badges as JSON."`
	DumpSettings *DebugDumpSettingsCmd `cmd:"" help:"Dump settings data as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	path := ctx.Store.GetConfigPath()
	if !ctx.SQLite {
		path = keyring.Redact(path)
	}
	return printJSON(ctx, map[string]string{"path": path})
}

type DebugDumpHabitCmd struct {
	Name string `arg:"" help:"Name or ID of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	h, err := ctx.Store.GetHabitByName(cmd.Name)
	if errors.Is(err, storage.ErrNotFound) {
		h, err = ctx.Store.GetHabit(cmd.Name)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no habit found: %s", cmd.Name)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}

	entries, err := ctx.Store.GetHabitEntriesForHabit(h.ID)
	if err != nil {
		return fmt.Errorf("failed to get habit entries: %w", err)
	}
	if entries == nil {
		entries = []models.HabitEntry{}
	}

	return printJSON(ctx, struct {
		Habit   models.Habit        `json:"habit"`
		Entries []models.HabitEntry `json:"entries"`
	}{h, entries})
}

type DebugDumpGardenCmd struct{}

func (cmd *DebugDumpGardenCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	plants, err := ctx.Store.GetPlants()
	if err != nil {
		return fmt.Errorf("failed to get plants: %w", err)
	}
	if plants == nil {
		plants = []models.PlantData{}
	}
	return printJSON(ctx, plants)
}

type DebugDumpBadgesCmd struct{}

func (cmd *DebugDumpBadgesCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	badges, err := ctx.Store.GetBadges()
	if err != nil {
		return fmt.Errorf("failed to get badges: %w", err)
	}
	if badges == nil {
		badges = []models.Badge{}
	}
	return printJSON(ctx, badges)
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}
