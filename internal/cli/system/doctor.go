package system

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/verdant/internal/backup"
	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/storage"
	"github.com/julianstephens/verdant/internal/utils"
)

type DoctorCmd struct{}

type check struct {
	name string
	run  func(*cli.Context) error
	// warnOnly checks never fail the run.
	warnOnly bool
	// needsDB checks are skipped when the database is unreachable.
	needsDB bool
}

var doctorChecks = []check{
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Data validation", run: checkValidation, needsDB: true},
	{name: "Clock/timezone", run: checkClockTimezone, needsDB: true},
	{name: "Habit entries", run: checkHabitEntries, needsDB: true},
	{name: "Timestamp integrity", run: checkTimestampIntegrity, needsDB: true},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

type dbProvider interface {
	GetDB() *sql.DB
}

// sqlDB returns the open SQLite connection, or nil for other backends.
func sqlDB(ctx *cli.Context) *sql.DB {
	if !ctx.SQLite {
		return nil
	}
	if p, ok := ctx.Store.(dbProvider); ok {
		return p.GetDB()
	}
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	if db := sqlDB(ctx); db != nil {
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func schemaVersion(ctx *cli.Context) (current, latest int, ok bool, err error) {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return 0, 0, false, nil
	}
	current, latest, err = m.SchemaVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if err != nil || !ok {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersion(ctx)
	if err != nil || !ok {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'verdant migrate')", current, latest)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.SQLite {
		return nil
	}
	list, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(list) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'verdant backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	result, err := ctx.Tracker.Validate(context.Background())
	if err != nil {
		return err
	}
	if result.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found, run 'verdant validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !utils.ValidateTimezone(settings.Timezone) {
		return fmt.Errorf("configured timezone %q cannot be loaded", settings.Timezone)
	}
	return nil
}

func checkHabitEntries(ctx *cli.Context) error {
	db := sqlDB(ctx)
	if db == nil {
		return nil
	}

	var orphaned int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM habit_entries he
		LEFT JOIN habits h ON he.habit_id = h.id
		WHERE h.id IS NULL AND he.deleted_at IS NULL
	`).Scan(&orphaned)
	if err != nil {
		return fmt.Errorf("failed to check orphaned habit entries: %w", err)
	}
	if orphaned > 0 {
		return fmt.Errorf("found %d orphaned habit entries (referencing non-existent habits)", orphaned)
	}

	var invalid int
	err = db.QueryRow(`
		SELECT COUNT(*)
		FROM habit_entries
		WHERE day NOT GLOB '[0-9][0-9][0-9][0-9]-[0-9][0-9]-[0-9][0-9]'
	`).Scan(&invalid)
	if err != nil {
		return fmt.Errorf("failed to check habit entry dates: %w", err)
	}
	if invalid > 0 {
		return fmt.Errorf("found %d habit entries with invalid date format", invalid)
	}
	return nil
}

func checkTimestampIntegrity(ctx *cli.Context) error {
	db := sqlDB(ctx)
	if db == nil {
		return nil
	}

	queries := []struct {
		what  string
		query string
	}{
		{"habit entries", `SELECT COUNT(*) FROM habit_entries WHERE created_at = '' OR updated_at = ''`},
		{"habits", `SELECT COUNT(*) FROM habits WHERE created_at = ''`},
		{"plants", `SELECT COUNT(*) FROM plants WHERE last_watered = ''`},
	}
	for _, q := range queries {
		var corrupted int
		if err := db.QueryRow(q.query).Scan(&corrupted); err != nil {
			return fmt.Errorf("failed to check %s timestamps: %w", q.what, err)
		}
		if corrupted > 0 {
			return fmt.Errorf("found %d %s with corrupted timestamps", corrupted, q.what)
		}
	}
	return nil
}
