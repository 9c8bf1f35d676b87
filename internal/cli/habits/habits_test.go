package habits

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/verdant/internal/cli"
	"github.com/julianstephens/verdant/internal/export"
	"github.com/julianstephens/verdant/internal/storage/sqlite"
	"github.com/julianstephens/verdant/internal/tracker"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	settings, err := store.GetSettings()
	require.NoError(t, err)
	settings.Timezone = "UTC"
	settings.AutoBackup = false
	require.NoError(t, store.SaveSettings(settings))

	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:   store,
		Tracker: tracker.New(store, tracker.WithClock(func() time.Time { return now })),
		SQLite:  true,
		In:      strings.NewReader(""),
		Out:     out,
	}
	return ctx, out
}

func addHabit(t *testing.T, ctx *cli.Context, name, category string) {
	t.Helper()
	cmd := &HabitAddCmd{Name: name, Frequency: "daily", Category: category}
	require.NoError(t, cmd.Run(ctx))
}

func TestHabitAddCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	addHabit(t, ctx, "Meditate", "mindfulness")
	assert.Contains(t, out.String(), "Added habit: Meditate")
	assert.Contains(t, out.String(), "lotus")
	assert.Contains(t, out.String(), "Badge unlocked: First Step")

	out.Reset()
	addHabit(t, ctx, "Journal", "creativity")
	assert.NotContains(t, out.String(), "Badge unlocked")

	err := (&HabitAddCmd{Name: "meditate", Frequency: "daily", Category: "other"}).Run(ctx)
	assert.ErrorIs(t, err, tracker.ErrHabitExists)

	err = (&HabitAddCmd{Name: "Paint", Frequency: "daily", Category: "crafts"}).Run(ctx)
	assert.Error(t, err)
}

func TestHabitDoneCmd_ReportsBadgesAndPlant(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Run", "fitness")
	out.Reset()

	require.NoError(t, (&HabitDoneCmd{Name: "run"}).Run(ctx))

	text := out.String()
	assert.Contains(t, text, "Run done. Streak: 1")
	assert.Contains(t, text, "Points: 7 (+7)")
	assert.NotContains(t, text, "First Step", "First Step is unlocked when the habit is added")
	assert.Contains(t, text, "Your cactus is now")

	err := (&HabitDoneCmd{Name: "Run"}).Run(ctx)
	assert.ErrorIs(t, err, tracker.ErrAlreadyCompleted)

	err = (&HabitDoneCmd{Name: "Run", Date: "2024-01-06"}).Run(ctx)
	assert.ErrorIs(t, err, tracker.ErrFutureCompletion)

	err = (&HabitDoneCmd{Name: "Run", Date: "01/04/2024"}).Run(ctx)
	assert.Error(t, err)
}

func TestHabitDoneCmd_Yesterday(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Read", "learning")

	require.NoError(t, (&HabitDoneCmd{Name: "Read", Date: "yesterday"}).Run(ctx))

	h, err := ctx.Store.GetHabitByName("Read")
	require.NoError(t, err)
	assert.True(t, h.HasCompletion("2024-01-04"))
}

func TestHabitUndoCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Read", "learning")
	require.NoError(t, (&HabitDoneCmd{Name: "Read"}).Run(ctx))
	out.Reset()

	require.NoError(t, (&HabitUndoCmd{Name: "Read"}).Run(ctx))
	assert.Contains(t, out.String(), "Streak: 0")

	err := (&HabitUndoCmd{Name: "Read"}).Run(ctx)
	assert.ErrorIs(t, err, tracker.ErrNotCompleted)
}

func TestHabitListCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No habits found")

	addHabit(t, ctx, "Read", "learning")
	addHabit(t, ctx, "Swim", "fitness")
	require.NoError(t, (&HabitDoneCmd{Name: "Read"}).Run(ctx))
	require.NoError(t, (&HabitArchiveCmd{Name: "Swim"}).Run(ctx))
	out.Reset()

	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	text := out.String()
	assert.Contains(t, text, "✓Read")
	assert.NotContains(t, text, "Swim")

	out.Reset()
	require.NoError(t, (&HabitListCmd{Archived: true, Period: "month"}).Run(ctx))
	assert.Contains(t, out.String(), "[ARCHIVED]")
	assert.Contains(t, out.String(), "month")
}

func TestHabitListCmd_Deleted(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Journal", "creativity")
	require.NoError(t, (&HabitDeleteCmd{Name: "Journal"}).Run(ctx))
	out.Reset()

	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	assert.NotContains(t, out.String(), "Journal")

	out.Reset()
	require.NoError(t, (&HabitListCmd{Deleted: true}).Run(ctx))
	assert.Contains(t, out.String(), "[DELETED]")

	require.NoError(t, (&HabitRestoreCmd{Name: "Journal"}).Run(ctx))
	out.Reset()
	require.NoError(t, (&HabitListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Journal")
}

func TestHabitLogCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Read", "learning")
	require.NoError(t, (&HabitDoneCmd{Name: "Read"}).Run(ctx))
	out.Reset()

	require.NoError(t, (&HabitLogCmd{Days: 3}).Run(ctx))
	text := out.String()
	assert.Contains(t, text, "01/03")
	assert.Contains(t, text, "01/05")
	assert.Contains(t, text, "x")

	assert.ErrorIs(t, (&HabitLogCmd{Days: 3, Habit: "Nope"}).Run(ctx), tracker.ErrHabitNotFound)
	assert.Error(t, (&HabitLogCmd{Days: 0}).Run(ctx))
}

func TestHabitArchiveCmd_Unarchive(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Swim", "fitness")

	require.NoError(t, (&HabitArchiveCmd{Name: "Swim"}).Run(ctx))
	assert.ErrorIs(t, (&HabitDoneCmd{Name: "Swim"}).Run(ctx), tracker.ErrHabitArchived)

	require.NoError(t, (&HabitArchiveCmd{Name: "Swim", Unarchive: true}).Run(ctx))
	assert.Contains(t, out.String(), "Unarchived habit: Swim")
	assert.NoError(t, (&HabitDoneCmd{Name: "Swim"}).Run(ctx))
}

func TestStatsAndBadgesCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Read", "learning")
	require.NoError(t, (&HabitDoneCmd{Name: "Read"}).Run(ctx))
	out.Reset()

	require.NoError(t, (&StatsCmd{}).Run(ctx))
	text := out.String()
	assert.Contains(t, text, "Level 1")
	assert.Contains(t, text, "Points: 7")
	assert.Contains(t, text, "Badges unlocked:    1/")

	out.Reset()
	require.NoError(t, (&BadgesCmd{Locked: true}).Run(ctx))
	assert.Contains(t, out.String(), "First Step")
	assert.Contains(t, out.String(), "🔒")

	out.Reset()
	require.NoError(t, (&BadgesCmd{Locked: false}).Run(ctx))
	assert.NotContains(t, out.String(), "🔒")
}

func TestGardenCmds(t *testing.T) {
	ctx, out := setupTestDB(t)

	require.NoError(t, (&GardenShowCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "garden is empty")

	addHabit(t, ctx, "Read", "learning")
	require.NoError(t, (&HabitDoneCmd{Name: "Read"}).Run(ctx))
	out.Reset()

	require.NoError(t, (&GardenShowCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Garden (1 plants)")
	assert.Contains(t, out.String(), "Read")
	assert.Contains(t, out.String(), "(watered today)")

	// The next morning the plant has not been watered yet.
	today := ctx.Tracker
	ctx.Tracker = tracker.New(ctx.Store, tracker.WithClock(func() time.Time {
		return time.Date(2024, 1, 6, 8, 0, 0, 0, time.UTC)
	}))
	out.Reset()
	require.NoError(t, (&GardenShowCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Read")
	assert.NotContains(t, out.String(), "watered today")
	ctx.Tracker = today

	ctx.In = strings.NewReader("n\n")
	out.Reset()
	require.NoError(t, (&GardenResetCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "cancelled")

	out.Reset()
	require.NoError(t, (&GardenResetCmd{Yes: true}).Run(ctx))
	assert.Contains(t, out.String(), "1 plants regrown")
}

func TestInsightsCmd(t *testing.T) {
	ctx, out := setupTestDB(t)

	require.NoError(t, (&InsightsCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No suggestions")
}

func TestExportCmd(t *testing.T) {
	ctx, out := setupTestDB(t)
	addHabit(t, ctx, "Read", "learning")
	require.NoError(t, (&HabitDoneCmd{Name: "Read"}).Run(ctx))
	out.Reset()

	require.NoError(t, (&ExportCmd{Format: "json"}).Run(ctx))
	var doc export.Document
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	require.Len(t, doc.Habits, 1)
	assert.Equal(t, "Read", doc.Habits[0].Name)
	assert.Equal(t, 7, doc.Stats.Points)

	path := filepath.Join(t.TempDir(), "progress.yaml")
	require.NoError(t, (&ExportCmd{Format: "yml", Output: path}).Run(ctx))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Read")

	assert.Error(t, (&ExportCmd{Format: "xml"}).Run(ctx))
}

func TestTrackerSnapshotMatchesCommands(t *testing.T) {
	ctx, _ := setupTestDB(t)
	addHabit(t, ctx, "Read", "learning")
	require.NoError(t, (&HabitDoneCmd{Name: "Read"}).Run(ctx))

	snap, err := ctx.Tracker.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Plants, 1)
	assert.Equal(t, 1, snap.Stats.TotalCompletions)
}
