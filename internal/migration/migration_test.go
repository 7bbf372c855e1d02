package migration

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func migrationFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, sql := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(sql)}
	}
	return fsys
}

func TestCurrentVersion_FreshDatabase(t *testing.T) {
	r := NewRunner(testDB(t), migrationFS(nil))
	version, err := r.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version != 0 {
		t.Errorf("version = %d, want 0 for a fresh database", version)
	}
}

func TestApply_RunsPendingMigrationsInOrder(t *testing.T) {
	db := testDB(t)
	r := NewRunner(db, migrationFS(map[string]string{
		"002_add_index.sql": "CREATE INDEX idx_notes_title ON notes(title);",
		"001_init.sql":      "CREATE TABLE notes (id INTEGER PRIMARY KEY, title TEXT);",
	}))

	applied, err := r.Apply()
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied %d migrations, want 2", applied)
	}
	version, err := r.CurrentVersion()
	if err != nil {
		t.Fatalf("CurrentVersion: %v", err)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}
	if _, err := db.Exec("INSERT INTO notes (title) VALUES ('x')"); err != nil {
		t.Errorf("migrated schema unusable: %v", err)
	}

	// Re-running applies nothing.
	applied, err = r.Apply()
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Apply ran %d migrations, want 0", applied)
	}
}

func TestApply_StopsAtFailingMigration(t *testing.T) {
	db := testDB(t)
	r := NewRunner(db, migrationFS(map[string]string{
		"001_init.sql":  "CREATE TABLE notes (id INTEGER PRIMARY KEY);",
		"002_break.sql": "THIS IS NOT SQL;",
	}))

	applied, err := r.Apply()
	if err == nil {
		t.Fatal("expected the broken migration to fail")
	}
	if applied != 1 {
		t.Errorf("applied %d before the failure, want 1", applied)
	}
	version, _ := r.CurrentVersion()
	if version != 1 {
		t.Errorf("version = %d, want 1 after partial apply", version)
	}
}

func TestReadMigrations_RejectsBadFilenames(t *testing.T) {
	for _, name := range []string{"init.sql", "abc_init.sql", "000_init.sql"} {
		r := NewRunner(testDB(t), migrationFS(map[string]string{name: "SELECT 1;"}))
		if _, err := r.ReadMigrations(); err == nil {
			t.Errorf("%s: expected a filename validation error", name)
		}
	}
}

func TestReadMigrations_IgnoresNonSQLFiles(t *testing.T) {
	r := NewRunner(testDB(t), migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE notes (id INTEGER PRIMARY KEY);",
		"README.md":    "not a migration",
	}))
	migrations, err := r.ReadMigrations()
	if err != nil {
		t.Fatalf("ReadMigrations: %v", err)
	}
	if len(migrations) != 1 {
		t.Errorf("got %d migrations, want 1", len(migrations))
	}
}

func TestValidateVersion(t *testing.T) {
	fsys := migrationFS(map[string]string{
		"001_init.sql": "CREATE TABLE notes (id INTEGER PRIMARY KEY);",
	})

	t.Run("behind", func(t *testing.T) {
		r := NewRunner(testDB(t), fsys)
		err := r.ValidateVersion()
		if err == nil || !strings.Contains(err.Error(), "behind") {
			t.Errorf("err = %v, want a schema-behind error", err)
		}
	})

	t.Run("current", func(t *testing.T) {
		r := NewRunner(testDB(t), fsys)
		if _, err := r.Apply(); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if err := r.ValidateVersion(); err != nil {
			t.Errorf("ValidateVersion on a current schema: %v", err)
		}
	})

	t.Run("ahead", func(t *testing.T) {
		db := testDB(t)
		r := NewRunner(db, fsys)
		if _, err := r.Apply(); err != nil {
			t.Fatalf("Apply: %v", err)
		}
		if _, err := db.Exec("UPDATE schema_version SET version = 9"); err != nil {
			t.Fatalf("bump version: %v", err)
		}
		err := r.ValidateVersion()
		if err == nil || !strings.Contains(err.Error(), "ahead") {
			t.Errorf("err = %v, want a schema-ahead error", err)
		}
	})
}
