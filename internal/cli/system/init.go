package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/logger"
	"github.com/julianstephens/verdant/internal/storage"
	"github.com/julianstephens/verdant/internal/storage/postgres"
	"github.com/julianstephens/verdant/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to migrate data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if !ctx.SQLite {
			return fmt.Errorf("--force is only supported for SQLite databases")
		}
		dbPath := ctx.Store.GetConfigPath()
		if abs, err := filepath.Abs(dbPath); err == nil {
			dbPath = abs
		}
		if c.Source != "" && !storage.IsPostgresConnString(c.Source) {
			if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized verdant storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Migrating data from: %s\n", c.Source)
		if err := c.migrateData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func openSource(source string) (storage.Provider, error) {
	if !storage.IsPostgresConnString(source) {
		return sqlite.New(source), nil
	}
	if valid, err := postgres.ValidateConnString(source); !valid {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
		}
		return nil, err
	}
	return postgres.New(source), nil
}

func (c *InitCmd) migrateData(ctx *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	dst := ctx.Store

	ctx.Println("  Migrating settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := dst.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Migrating habits...")
	habits, err := src.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	entries := 0
	for _, h := range habits {
		if err := dst.AddHabit(h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
		hes, err := src.GetHabitEntriesForHabit(h.ID)
		if err != nil {
			return fmt.Errorf("failed to get entries for habit %s: %w", h.ID, err)
		}
		for _, e := range hes {
			if err := dst.AddHabitEntry(e); err != nil {
				return fmt.Errorf("failed to add habit entry %s: %w", e.ID, err)
			}
		}
		entries += len(hes)
	}
	ctx.Printf("    Migrated %d habits and %d entries\n", len(habits), entries)

	ctx.Println("  Migrating badges...")
	badges, err := src.GetBadges()
	if err != nil {
		return fmt.Errorf("failed to get badges from source: %w", err)
	}
	if err := dst.SaveBadges(badges); err != nil {
		return fmt.Errorf("failed to save badges to destination: %w", err)
	}

	ctx.Println("  Migrating garden...")
	plants, err := src.GetPlants()
	if err != nil {
		return fmt.Errorf("failed to get plants from source: %w", err)
	}
	if err := dst.SavePlants(plants); err != nil {
		return fmt.Errorf("failed to save plants to destination: %w", err)
	}
	ctx.Printf("    Migrated %d badges and %d plants\n", len(badges), len(plants))

	logger.Info("Data migrated", "habits", len(habits), "entries", entries, "badges", len(badges), "plants", len(plants))
	return nil
}
