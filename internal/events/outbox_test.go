package events

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE charge_events (
			id BIGINT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			payload JSON NOT NULL DEFAULT '{}',
			dedupe_key TEXT,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	).Error; err != nil {
		t.Fatalf("create charge_events: %v", err)
	}
	if err := db.Exec(
		`CREATE UNIQUE INDEX uq_charge_events_dedupe ON charge_events (user_id, dedupe_key)`,
	).Error; err != nil {
		t.Fatalf("create dedupe index: %v", err)
	}
	return db
}

func newTestOutbox(t *testing.T, db *gorm.DB) *Outbox {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	return NewOutbox(db, node)
}

func TestPublishDeduplicates(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)
	ctx := context.Background()

	event := Event{
		UserID:    snowflake.ID(42),
		Type:      EventChargePaid,
		Payload:   ChargePayload{ChargeID: "1", ClientID: "100"}.ToMap(),
		DedupeKey: "charge.paid:1",
	}

	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	if err := outbox.Publish(ctx, event); err != nil {
		t.Fatalf("replayed publish: %v", err)
	}

	var count int64
	if err := db.Table("charge_events").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("events = %d, want 1", count)
	}
}

func TestPublishSeparateTenantsKeepSameKey(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)
	ctx := context.Background()

	for _, userID := range []snowflake.ID{1, 2} {
		err := outbox.Publish(ctx, Event{
			UserID:    userID,
			Type:      EventChargeCreated,
			Payload:   ChargePayload{ChargeID: "1", ClientID: "100"}.ToMap(),
			DedupeKey: "charge.created:1",
		})
		if err != nil {
			t.Fatalf("publish for tenant %d: %v", userID, err)
		}
	}

	var count int64
	if err := db.Table("charge_events").Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("events = %d, want 2", count)
	}
}

func TestPublishRejectsMissingType(t *testing.T) {
	db := setupOutboxTestDB(t)
	outbox := newTestOutbox(t, db)

	err := outbox.Publish(context.Background(), Event{UserID: 1})
	if err == nil {
		t.Fatal("expected error for missing event type")
	}
}
