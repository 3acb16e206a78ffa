package dbmigrate

import (
	"context"
	"io/fs"
	"testing"

	"github.com/fdg312/meal-planner/migrations"
)

func TestRun_RejectsEmptyURL(t *testing.T) {
	if err := Run(context.Background(), "up", "", nil); err == nil {
		t.Fatal("expected error for empty database URL")
	}
}

func TestRun_RejectsUnknownCommand(t *testing.T) {
	if err := Run(context.Background(), "redo", "postgres://localhost/db", nil); err == nil {
		t.Fatal("expected error for unsupported command")
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) < 4 {
		t.Fatalf("expected at least 4 embedded migrations, got %d", len(files))
	}
}
