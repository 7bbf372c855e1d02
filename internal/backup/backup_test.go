package backup

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T, marker string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cadence.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec("CREATE TABLE marker (value TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	if _, err := db.Exec("INSERT INTO marker (value) VALUES (?)", marker); err != nil {
		t.Fatalf("insert marker: %v", err)
	}
	return dbPath
}

func readMarker(t *testing.T, dbPath string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()
	var value string
	if err := db.QueryRow("SELECT value FROM marker").Scan(&value); err != nil {
		t.Fatalf("read marker: %v", err)
	}
	return value
}

func TestCreate_SnapshotsDatabase(t *testing.T) {
	dbPath := newTestDB(t, "original")
	mgr := NewManager(dbPath)

	path, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	base := filepath.Base(path)
	if !strings.HasPrefix(base, "cadence-") || !strings.HasSuffix(base, ".db") {
		t.Errorf("unexpected backup filename %s", base)
	}
	if got := readMarker(t, path); got != "original" {
		t.Errorf("backup marker = %q, want original", got)
	}
}

func TestCreate_MissingDatabaseErrors(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "absent.db"))
	if _, err := mgr.Create(); err == nil {
		t.Error("expected an error for an absent database")
	}
}

func TestList_EmptyDirIsNotAnError(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "cadence.db"))
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("got %d backups, want 0", len(backups))
	}
}

func TestList_IgnoresForeignFiles(t *testing.T) {
	dbPath := newTestDB(t, "x")
	mgr := NewManager(dbPath)
	if _, err := mgr.Create(); err != nil {
		t.Fatalf("Create: %v", err)
	}
	for _, name := range []string{"notes.txt", "other-20260101-000000.db", "cadence-garbage.db"} {
		if err := os.WriteFile(filepath.Join(mgr.BackupDir(), name), []byte("x"), 0600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("got %d backups, want only the real one", len(backups))
	}
}

func TestCreate_RotatesBeyondLimit(t *testing.T) {
	dbPath := newTestDB(t, "x")
	mgr := NewManager(dbPath)
	for i := 0; i < MaxBackups+3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) > MaxBackups {
		t.Errorf("%d backups kept, limit is %d", len(backups), MaxBackups)
	}
}

func TestRestore_RoundTrip(t *testing.T) {
	dbPath := newTestDB(t, "original")
	mgr := NewManager(dbPath)

	backupPath, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if _, err := db.Exec("UPDATE marker SET value = 'mutated'"); err != nil {
		t.Fatalf("mutate: %v", err)
	}
	db.Close()

	if err := mgr.Restore(backupPath); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if got := readMarker(t, dbPath); got != "original" {
		t.Errorf("marker after restore = %q, want original", got)
	}

	// The mutated state was saved as its own backup before the swap.
	backups, err := mgr.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) < 2 {
		t.Errorf("got %d backups, want the pre-restore save too", len(backups))
	}
}

func TestRestore_RejectsGarbage(t *testing.T) {
	dbPath := newTestDB(t, "original")
	mgr := NewManager(dbPath)

	garbage := filepath.Join(t.TempDir(), "garbage.db")
	if err := os.WriteFile(garbage, []byte("not a database"), 0600); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	if err := mgr.Restore(garbage); err == nil {
		t.Error("expected a validation error for a non-database file")
	}
	if got := readMarker(t, dbPath); got != "original" {
		t.Errorf("database changed despite failed restore: %q", got)
	}
}
