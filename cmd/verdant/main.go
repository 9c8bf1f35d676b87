package main

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	_ "github.com/joho/godotenv/autoload"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/cli/backups"
	"github.com/julianstephens/verdant/internal/cli/habits"
	"github.com/julianstephens/verdant/internal/cli/settings"
	"github.com/julianstephens/verdant/internal/cli/system"
	"github.com/julianstephens/verdant/internal/constants"
	"github.com/julianstephens/verdant/internal/errors"
	"github.com/julianstephens/verdant/internal/keyring"
	"github.com/julianstephens/verdant/internal/logger"
	"github.com/julianstephens/verdant/internal/notifier"
	"github.com/julianstephens/verdant/internal/storage"
	"github.com/julianstephens/verdant/internal/storage/postgres"
	"github.com/julianstephens/verdant/internal/storage/sqlite"
	"github.com/julianstephens/verdant/internal/tracker"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. PostgreSQL passwords must come from ${env_conn}, the OS keyring or .pgpass." env:"VERDANT_CONFIG" default:"${default_config}"`
	Debug   bool   `help:"Enable debug logging to stderr." env:"VERDANT_DEBUG"`

	Habit    habits.HabitCmd      `cmd:"" help:"Manage habits and record completions."`
	Stats    habits.StatsCmd      `cmd:"" help:"Show level, points and totals."`
	Badges   habits.BadgesCmd     `cmd:"" help:"Show the achievement catalog."`
	Garden   habits.GardenCmd     `cmd:"" help:"Show or reset the habit garden."`
	Insights habits.InsightsCmd   `cmd:"" help:"Suggest habits that need attention."`
	Export   habits.ExportCmd     `cmd:"" help:"Export habits, progress and garden."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage database backups."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`

	Init     system.InitCmd     `cmd:"" help:"Initialize verdant storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Check stored data for inconsistencies."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	DebugCmd system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Notify   system.NotifyCmd   `cmd:"" hidden:"" help:"Send streak reminders through the tray app."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// resolvePostgres validates the configured connection string and swaps in
// one carrying credentials from the environment or keyring when present.
func resolvePostgres(config string) (string, error) {
	if _, err := postgres.ValidateConnString(config); err != nil {
		if stderrors.Is(err, postgres.ErrEmbeddedCredentials) {
			return "", errors.WithHint(err, fmt.Sprintf(
				"store the full string with 'verdant keyring set', export %s, or use a .pgpass file",
				constants.EnvDBConnection))
		}
		return "", err
	}

	if env := os.Getenv(constants.EnvDBConnection); env != "" {
		return env, nil
	}
	connStr, err := keyring.GetConnectionString()
	switch {
	case err == nil:
		return connStr, nil
	case stderrors.Is(err, keyring.ErrNotFound):
	default:
		logger.Debug("Keyring lookup failed, falling back to .pgpass", "error", err)
	}
	return config, nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker that grows a garden from your streaks"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"env_conn":       constants.EnvDBConnection,
		},
	)

	isPostgres := storage.IsPostgresConnString(CLI.Config)

	configDir := filepath.Dir(expandHome(constants.DefaultConfigPath))
	if !isPostgres {
		CLI.Config = expandHome(CLI.Config)
		configDir = filepath.Dir(CLI.Config)
	}
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	var store storage.Provider
	if isPostgres {
		connStr, err := resolvePostgres(CLI.Config)
		if err != nil {
			errors.Fatal(err)
		}
		store = postgres.New(connStr)
	} else {
		store = sqlite.New(CLI.Config)
	}

	appCtx := &cli.Context{
		Store:   store,
		Tracker: tracker.New(store, tracker.WithNotifier(notifier.New())),
		SQLite:  !isPostgres,
	}

	// init and migrate open the database themselves.
	command := ctx.Command()
	if !strings.HasPrefix(command, "init") && !strings.HasPrefix(command, "migrate") &&
		!strings.HasPrefix(command, "keyring") {
		if err := store.Load(); err != nil {
			errors.Fatal(errors.WithHint(err, "run 'verdant init' to create the database"))
		}
	}
	defer store.Close()

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
