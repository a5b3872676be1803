package sweep

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	chargerepository "github.com/gabaoo/ping-pague-auto/internal/charge/repository"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	clientrepository "github.com/gabaoo/ping-pague-auto/internal/client/repository"
	"github.com/gabaoo/ping-pague-auto/internal/clock"
	"github.com/gabaoo/ping-pague-auto/internal/events"
	notificationdomain "github.com/gabaoo/ping-pague-auto/internal/notification/domain"
	notificationrepository "github.com/gabaoo/ping-pague-auto/internal/notification/repository"
	"github.com/gabaoo/ping-pague-auto/internal/notification/render"
	"github.com/gabaoo/ping-pague-auto/internal/notification/sender"
	"github.com/gabaoo/ping-pague-auto/internal/observability/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testUserID = snowflake.ID(42)

type captureSender struct {
	mu       sync.Mutex
	messages []sender.Message
}

func (c *captureSender) Send(_ context.Context, msg sender.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

func (c *captureSender) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func setupSweepTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&clientdomain.Client{},
		&chargedomain.Charge{},
		&notificationdomain.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Exec(
		`CREATE TABLE IF NOT EXISTS charge_events (
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
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_charge_events_dedupe ON charge_events (user_id, dedupe_key)`,
	).Error; err != nil {
		t.Fatalf("create dedupe index: %v", err)
	}
	return db
}

func newTestWorker(t *testing.T, db *gorm.DB, today time.Time) (*Worker, *captureSender) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	capture := &captureSender{}
	worker := NewWorker(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.Fixed{Time: today},
		ChargeRepo: chargerepository.Provide(),
		ClientRepo: clientrepository.Provide(),
		NotifRepo:  notificationrepository.Provide(),
		Renderer:   render.NewRenderer(),
		Sender:     capture,
		Outbox:     events.NewOutbox(db, node),
		Config:     Config{ReminderLeadDays: 2, BatchSize: 50},
		Metrics:    metrics.Sweep(),
	})
	return worker, capture
}

func seedSweepClient(t *testing.T, db *gorm.DB) clientdomain.Client {
	t.Helper()
	client := clientdomain.Client{
		ID:     snowflake.ID(100),
		UserID: testUserID,
		Name:   "Maria Silva",
		Phone:  "+5511999990000",
	}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func seedCharge(t *testing.T, db *gorm.DB, id snowflake.ID, clientID snowflake.ID, dueDate time.Time, status chargedomain.ChargeStatus) chargedomain.Charge {
	t.Helper()
	charge := chargedomain.Charge{
		ID:       id,
		UserID:   testUserID,
		ClientID: clientID,
		Amount:   decimal.RequireFromString("150.50"),
		DueDate:  dueDate,
		Status:   status,
	}
	if err := db.Create(&charge).Error; err != nil {
		t.Fatalf("seed charge: %v", err)
	}
	return charge
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestRunOncePromotesOverdue(t *testing.T) {
	db := setupSweepTestDB(t)
	today := day(2024, time.March, 10)
	worker, _ := newTestWorker(t, db, today)
	client := seedSweepClient(t, db)

	seedCharge(t, db, 1, client.ID, day(2024, time.March, 5), chargedomain.ChargeStatusPending)
	// Due today is not overdue yet.
	seedCharge(t, db, 2, client.ID, today, chargedomain.ChargeStatusPending)

	summary, err := worker.RunOnce(context.Background(), today)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !summary.OverdueUpdated {
		t.Fatal("expected overdue step to run")
	}

	var charge chargedomain.Charge
	if err := db.First(&charge, "id = ?", 1).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if charge.Status != chargedomain.ChargeStatusOverdue {
		t.Fatalf("status = %s, want overdue", charge.Status)
	}

	if err := db.First(&charge, "id = ?", 2).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if charge.Status != chargedomain.ChargeStatusPending {
		t.Fatalf("status = %s, want pending", charge.Status)
	}
}

func TestRunOnceSendsReminderOnce(t *testing.T) {
	db := setupSweepTestDB(t)
	today := day(2024, time.March, 10)
	worker, capture := newTestWorker(t, db, today)
	client := seedSweepClient(t, db)

	// Due exactly lead-days ahead: reminder set.
	seedCharge(t, db, 1, client.ID, day(2024, time.March, 12), chargedomain.ChargeStatusPending)
	// Due further out: not yet.
	seedCharge(t, db, 2, client.ID, day(2024, time.March, 20), chargedomain.ChargeStatusPending)

	summary, err := worker.RunOnce(context.Background(), today)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RemindersSent != 1 {
		t.Fatalf("reminders = %d, want 1", summary.RemindersSent)
	}
	if capture.count() != 1 {
		t.Fatalf("messages = %d, want 1", capture.count())
	}

	var notif notificationdomain.Notification
	if err := db.First(&notif, "charge_id = ?", 1).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if notif.Type != notificationdomain.TypeReminder {
		t.Fatalf("type = %s, want reminder", notif.Type)
	}
	if !strings.Contains(notif.MessageContent, "Maria Silva") {
		t.Fatalf("message missing client name: %q", notif.MessageContent)
	}

	// A second run on the same day finds the stamp and sends nothing.
	summary, err = worker.RunOnce(context.Background(), today)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.RemindersSent != 0 {
		t.Fatalf("second run reminders = %d, want 0", summary.RemindersSent)
	}

	var count int64
	if err := db.Model(&notificationdomain.Notification{}).
		Where("charge_id = ?", 1).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 1 {
		t.Fatalf("notifications = %d, want 1", count)
	}
}

func TestRunOnceThrottlesOverdueAlerts(t *testing.T) {
	db := setupSweepTestDB(t)
	today := day(2024, time.March, 10)
	worker, _ := newTestWorker(t, db, today)
	client := seedSweepClient(t, db)

	seedCharge(t, db, 1, client.ID, day(2024, time.March, 1), chargedomain.ChargeStatusOverdue)

	summary, err := worker.RunOnce(context.Background(), today)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.OverdueAlerts != 1 {
		t.Fatalf("alerts = %d, want 1", summary.OverdueAlerts)
	}

	// Same day again: throttled.
	summary, err = worker.RunOnce(context.Background(), today)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if summary.OverdueAlerts != 0 {
		t.Fatalf("same-day alerts = %d, want 0", summary.OverdueAlerts)
	}

	// Next day: alerted again.
	tomorrow := today.AddDate(0, 0, 1)
	summary, err = worker.RunOnce(context.Background(), tomorrow)
	if err != nil {
		t.Fatalf("next-day run: %v", err)
	}
	if summary.OverdueAlerts != 1 {
		t.Fatalf("next-day alerts = %d, want 1", summary.OverdueAlerts)
	}

	var count int64
	if err := db.Model(&notificationdomain.Notification{}).
		Where("charge_id = ? AND notification_type = ?", 1, notificationdomain.TypeOverdue).
		Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 2 {
		t.Fatalf("overdue notifications = %d, want 2", count)
	}
}

func TestRunOnceSkipsCanceled(t *testing.T) {
	db := setupSweepTestDB(t)
	today := day(2024, time.March, 10)
	worker, capture := newTestWorker(t, db, today)
	client := seedSweepClient(t, db)

	charge := seedCharge(t, db, 1, client.ID, day(2024, time.March, 12), chargedomain.ChargeStatusPending)
	if err := db.Model(&chargedomain.Charge{}).
		Where("id = ?", charge.ID).
		Update("canceled", true).Error; err != nil {
		t.Fatalf("cancel charge: %v", err)
	}

	summary, err := worker.RunOnce(context.Background(), today)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.RemindersSent != 0 || capture.count() != 0 {
		t.Fatalf("expected no reminders for canceled charge, got %d", summary.RemindersSent)
	}
}

func TestRunOncePromotionThenReminderSameCharge(t *testing.T) {
	db := setupSweepTestDB(t)
	today := day(2024, time.March, 10)
	worker, _ := newTestWorker(t, db, today)
	client := seedSweepClient(t, db)

	// Past due and pending: promoted first, then alerted in the same run.
	seedCharge(t, db, 1, client.ID, day(2024, time.March, 8), chargedomain.ChargeStatusPending)

	summary, err := worker.RunOnce(context.Background(), today)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if summary.OverdueAlerts != 1 {
		t.Fatalf("alerts = %d, want 1", summary.OverdueAlerts)
	}

	var notif notificationdomain.Notification
	if err := db.First(&notif, "charge_id = ?", 1).Error; err != nil {
		t.Fatalf("load notification: %v", err)
	}
	if notif.Type != notificationdomain.TypeOverdue {
		t.Fatalf("type = %s, want overdue", notif.Type)
	}
}
