package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMigrationFilesSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_counters.sql", "0001_init.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0000_dir.sql"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	files, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(files) != 2 || files[0] != "0001_init.sql" || files[1] != "0002_counters.sql" {
		t.Fatalf("unexpected files: %v", files)
	}
}

func TestMigrationsDirectoryShipsInitSchema(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", "..", "migrations"))
	if err != nil {
		t.Fatalf("list repo migrations: %v", err)
	}
	if len(files) == 0 || files[0] != "0001_init.sql" {
		t.Fatalf("expected 0001_init.sql first, got %v", files)
	}
}

func TestNullHelpers(t *testing.T) {
	if NullIfEmpty("") != nil {
		t.Fatal("expected nil for empty string")
	}
	if NullIfEmpty("x") != "x" {
		t.Fatal("expected value passthrough")
	}
	empty := ""
	if NullIfNil(nil) != nil || NullIfNil(&empty) != nil {
		t.Fatal("expected nil for nil and empty pointers")
	}
	value := "d1"
	if NullIfNil(&value) != "d1" {
		t.Fatal("expected pointer value")
	}
}
