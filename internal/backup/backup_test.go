package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/verdant/internal/constants"
)

func setupTestDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "verdant.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT NOT NULL)`,
		`INSERT INTO habits (id, name) VALUES ('h1', 'Read'), ('h2', 'Walk')`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed test database: %v", err)
		}
	}
	return dbPath
}

// stepClock returns a clock that advances one minute per call.
func stepClock(start time.Time) func() time.Time {
	current := start.Add(-time.Minute)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func countHabits(t *testing.T, path string) int {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM habits").Scan(&count); err != nil {
		t.Fatalf("failed to count habits in %s: %v", path, err)
	}
	return count
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if filepath.Dir(backupPath) != mgr.Dir() {
		t.Errorf("backup written to %s, want directory %s", backupPath, mgr.Dir())
	}
	if got := countHabits(t, backupPath); got != 2 {
		t.Errorf("expected 2 habits in backup, got %d", got)
	}
}

func TestCreate_MissingDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "missing.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected error backing up a missing database")
	}
}

func TestCreate_SameMinuteGetsUniqueNames(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	fixed := time.Date(2024, 6, 1, 9, 30, 15, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		path, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
		if seen[path] {
			t.Fatalf("Create #%d reused path %s", i, path)
		}
		seen[path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 3 {
		t.Errorf("expected 3 listed backups, got %d", len(backups))
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local)
	mgr.now = stepClock(start)

	total := constants.MaxBackups + 5
	for i := 0; i < total; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create #%d failed: %v", i, err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}

	newest := start.Add(time.Duration(total-1) * time.Minute)
	if !backups[0].Timestamp.Equal(newest) {
		t.Errorf("newest backup = %v, want %v", backups[0].Timestamp, newest)
	}
	for i := 1; i < len(backups); i++ {
		if backups[i].Timestamp.After(backups[i-1].Timestamp) {
			t.Errorf("backups not sorted newest first at index %d", i)
		}
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups before the directory exists, got %d", len(backups))
	}

	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, name := range []string{"notes.txt", constants.BackupFilePrefix + "garbage" + constants.BackupFileSuffix} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err = mgr.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(backups) != 1 {
		t.Fatalf("expected 1 backup, got %d", len(backups))
	}
	if backups[0].Size == 0 {
		t.Error("backup size is 0")
	}
}

func TestParseBackupName(t *testing.T) {
	tests := []struct {
		name string
		file string
		want time.Time
		ok   bool
	}{
		{name: "minute", file: "verdant-20240601-0930.db", want: time.Date(2024, 6, 1, 9, 30, 0, 0, time.Local), ok: true},
		{name: "second", file: "verdant-20240601-093015.db", want: time.Date(2024, 6, 1, 9, 30, 15, 0, time.Local), ok: true},
		{name: "counter", file: "verdant-20240601-093015-2.db", want: time.Date(2024, 6, 1, 9, 30, 15, 0, time.Local), ok: true},
		{name: "wrong prefix", file: "daylit-20240601-0930.db"},
		{name: "wrong suffix", file: "verdant-20240601-0930.sqlite"},
		{name: "bad stamp", file: "verdant-yesterday.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseBackupName(tt.file)
			if ok != tt.ok {
				t.Fatalf("parseBackupName(%q) ok = %v, want %v", tt.file, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseBackupName(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)
	mgr.now = stepClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.Local))

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("INSERT INTO habits (id, name) VALUES ('h3', 'Stretch')"); err != nil {
		t.Fatal(err)
	}
	db.Close()

	previous, err := mgr.Restore(backupPath)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("expected 2 habits after restore, got %d", got)
	}
	if previous == "" {
		t.Fatal("expected a snapshot of the replaced database")
	}
	if got := countHabits(t, previous); got != 3 {
		t.Errorf("expected 3 habits in pre-restore snapshot, got %d", got)
	}
	if exists(dbPath + ".restore.tmp") {
		t.Error("temporary restore file left behind")
	}
}

func TestRestore_RejectsInvalidBackup(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	bogus := filepath.Join(t.TempDir(), "bogus.db")
	if err := os.WriteFile(bogus, []byte("definitely not sqlite, just plain text padding the header out"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore(bogus); err == nil {
		t.Error("expected error restoring a non-database file")
	}
	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error restoring a missing file")
	}
	if got := countHabits(t, dbPath); got != 2 {
		t.Errorf("database modified by failed restore: %d habits", got)
	}
}

func TestResolvePath(t *testing.T) {
	dbPath := setupTestDB(t)
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := mgr.ResolvePath(filepath.Base(backupPath))
	if err != nil {
		t.Fatalf("ResolvePath(base) failed: %v", err)
	}
	if got != backupPath {
		t.Errorf("ResolvePath(base) = %s, want %s", got, backupPath)
	}

	if got, err := mgr.ResolvePath(backupPath); err != nil || got != backupPath {
		t.Errorf("ResolvePath(abs) = %s, %v", got, err)
	}
	if _, err := mgr.ResolvePath("nope.db"); err == nil {
		t.Error("expected error for unknown backup")
	}
}
