package migration

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupMigrationTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestRunAppliesMigrations(t *testing.T) {
	db := setupMigrationTestDB(t)

	if err := Run(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, table := range []string{"clients", "charges", "notifications", "charge_events", "audit_logs"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}

	var count int64
	if err := db.Table("schema_migrations").Count(&count).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if count == 0 {
		t.Fatal("expected recorded migration versions")
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := setupMigrationTestDB(t)

	if err := Run(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("first run: %v", err)
	}

	var before int64
	if err := db.Table("schema_migrations").Count(&before).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}

	if err := Run(context.Background(), db, zap.NewNop()); err != nil {
		t.Fatalf("second run: %v", err)
	}

	var after int64
	if err := db.Table("schema_migrations").Count(&after).Error; err != nil {
		t.Fatalf("count versions: %v", err)
	}
	if before != after {
		t.Fatalf("versions changed from %d to %d", before, after)
	}
}
