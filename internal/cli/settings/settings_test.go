package settings

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/models"
	"github.com/julianstephens/verdant/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.New(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:  store,
		SQLite: true,
		Out:    out,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, out, cleanup
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	if err := cmd.Run(ctx); err != nil {
		t.Errorf("settings list failed: %v", err)
	}
	if !strings.Contains(out.String(), "Timezone:") {
		t.Errorf("listing missing timezone: %q", out.String())
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	tz := "Europe/Berlin"
	period := "month"
	notify := false
	backup := false
	cmd := &SettingsCmd{
		Timezone:             &tz,
		DefaultPeriod:        &period,
		NotificationsEnabled: &notify,
		AutoBackup:           &backup,
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != tz {
		t.Errorf("expected timezone %s, got %s", tz, settings.Timezone)
	}
	if settings.DefaultPeriod != models.PeriodMonth {
		t.Errorf("expected period month, got %s", settings.DefaultPeriod)
	}
	if settings.NotificationsEnabled {
		t.Error("expected notifications to be disabled")
	}
	if settings.AutoBackup {
		t.Error("expected auto backup to be disabled")
	}
}

func TestSettingsCmd_InvalidValues(t *testing.T) {
	ctx, _, cleanup := setupTestDB(t)
	defer cleanup()

	tz := "Mars/Olympus_Mons"
	if err := (&SettingsCmd{Timezone: &tz}).Run(ctx); err == nil {
		t.Error("expected error for invalid timezone")
	}

	period := "year"
	if err := (&SettingsCmd{DefaultPeriod: &period}).Run(ctx); err == nil {
		t.Error("expected error for invalid period")
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone == tz {
		t.Error("invalid timezone was saved")
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, out, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Fatalf("settings run failed: %v", err)
	}
	if !strings.Contains(out.String(), "No changes specified") {
		t.Errorf("unexpected output: %q", out.String())
	}
}
