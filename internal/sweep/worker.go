package sweep

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gabaoo/ping-pague-auto/internal/cache"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/gabaoo/ping-pague-auto/internal/clock"
	"github.com/gabaoo/ping-pague-auto/internal/events"
	notificationdomain "github.com/gabaoo/ping-pague-auto/internal/notification/domain"
	"github.com/gabaoo/ping-pague-auto/internal/notification/render"
	"github.com/gabaoo/ping-pague-auto/internal/notification/sender"
	"github.com/gabaoo/ping-pague-auto/internal/observability/metrics"
	"github.com/gabaoo/ping-pague-auto/internal/recurrence"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Summary reports what one sweep pass did.
type Summary struct {
	OverdueUpdated bool `json:"overdueUpdated"`
	RemindersSent  int  `json:"remindersSent"`
	OverdueAlerts  int  `json:"overdueAlerts"`
}

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	ChargeRepo chargedomain.Repository
	ClientRepo clientdomain.Repository
	NotifRepo  notificationdomain.Repository
	Renderer   *render.Renderer
	Sender     sender.Sender
	Outbox     *events.Outbox
	Config     Config `optional:"true"`
	Metrics    *metrics.SweepMetrics
}

// Worker runs the overdue/reminder sweep: one pass promotes pending
// charges past their due date, then records reminder and overdue
// notifications. Every step is idempotent, so overlapping runs are safe.
type Worker struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	chargeRepo chargedomain.Repository
	clientRepo clientdomain.Repository
	notifRepo  notificationdomain.Repository
	renderer   *render.Renderer
	sender     sender.Sender
	outbox     *events.Outbox
	cfg        Config
	metrics    *metrics.SweepMetrics
	clients    *cache.TTLCache[snowflake.ID, clientdomain.Client]
}

func NewWorker(p Params) *Worker {
	cfg := p.Config.withDefaults()
	return &Worker{
		db:         p.DB,
		log:        p.Log.Named("sweep"),
		genID:      p.GenID,
		clock:      p.Clock,
		chargeRepo: p.ChargeRepo,
		clientRepo: p.ClientRepo,
		notifRepo:  p.NotifRepo,
		renderer:   p.Renderer,
		sender:     p.Sender,
		outbox:     p.Outbox,
		cfg:        cfg,
		metrics:    p.Metrics,
		clients:    cache.NewTTLCache[snowflake.ID, clientdomain.Client](),
	}
}

func (w *Worker) RunForever(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx, w.clock.Today()); err != nil {
			w.log.Warn("sweep run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce executes one sweep pass for the given reference date. The
// date is explicit so tests and the HTTP trigger control "today".
func (w *Worker) RunOnce(ctx context.Context, today time.Time) (Summary, error) {
	start := time.Now()
	summary, err := w.run(ctx, recurrence.DateOnly(today))
	w.metrics.ObserveRun(time.Since(start), err)
	return summary, err
}

func (w *Worker) run(ctx context.Context, today time.Time) (Summary, error) {
	if w.db == nil || w.chargeRepo == nil || w.notifRepo == nil {
		return Summary{}, errors.New("sweep_worker_unavailable")
	}

	var summary Summary

	// Step 1: promote overdue charges. This commits on its own: the
	// aggregates elsewhere depend on statuses being current even when
	// the notification steps below fail.
	promoted, err := w.chargeRepo.PromoteOverdue(ctx, w.db, today, w.clock.Now())
	if err != nil {
		return summary, err
	}
	summary.OverdueUpdated = true
	w.metrics.AddOverduePromoted(promoted)
	if promoted > 0 {
		w.log.Info("promoted overdue charges", zap.Int64("count", promoted))
	}

	reminderDate := today.AddDate(0, 0, w.cfg.ReminderLeadDays)
	reminders, err := w.chargeRepo.FindReminderSet(ctx, w.db, reminderDate, w.cfg.BatchSize)
	if err != nil {
		return summary, err
	}

	alerts, err := w.chargeRepo.FindOverdueAlertSet(ctx, w.db, today, w.cfg.BatchSize)
	if err != nil {
		return summary, err
	}

	if len(reminders) == 0 && len(alerts) == 0 {
		return summary, nil
	}

	notifications := make([]*notificationdomain.Notification, 0, len(reminders)+len(alerts))
	messages := make([]sender.Message, 0, cap(notifications))
	now := w.clock.Now()

	for i := range reminders {
		notification, message := w.buildNotification(ctx, &reminders[i], notificationdomain.TypeReminder, now)
		notifications = append(notifications, notification)
		messages = append(messages, message)
	}
	for i := range alerts {
		notification, message := w.buildNotification(ctx, &alerts[i], notificationdomain.TypeOverdue, now)
		notifications = append(notifications, notification)
		messages = append(messages, message)
	}

	// Steps 4-5: persist the batch, then stamp. The stamps live in the
	// same transaction as the insert so a reminder can never be marked
	// sent without its notification row. If this transaction fails the
	// promotions above stand and the next run recomputes the same sets.
	reminderIDs := chargeIDs(reminders)
	alertIDs := chargeIDs(alerts)
	err = w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := w.notifRepo.InsertBatch(ctx, tx, notifications); err != nil {
			return err
		}
		if err := w.chargeRepo.StampReminderSent(ctx, tx, reminderIDs, now); err != nil {
			return err
		}
		return w.chargeRepo.StampOverdueAlert(ctx, tx, alertIDs, today)
	})
	if err != nil {
		w.metrics.IncNotifyFailures()
		return summary, fmt.Errorf("persisting notifications: %w", err)
	}

	summary.RemindersSent = len(reminders)
	summary.OverdueAlerts = len(alerts)
	w.metrics.AddRemindersSent(summary.RemindersSent)
	w.metrics.AddOverdueAlerts(summary.OverdueAlerts)

	// Delivery is fire-and-forget; failures are the sink's problem.
	for _, message := range messages {
		if message.Phone == "" {
			continue
		}
		w.sender.Send(ctx, message)
	}
	for _, notification := range notifications {
		w.publishSent(ctx, notification)
	}

	return summary, nil
}

func (w *Worker) buildNotification(
	ctx context.Context,
	charge *chargedomain.Charge,
	notificationType notificationdomain.Type,
	now time.Time,
) (*notificationdomain.Notification, sender.Message) {
	client := w.lookupClient(ctx, charge.UserID, charge.ClientID)

	name, phone := "", ""
	if client != nil {
		name, phone = client.Name, client.Phone
	}

	var content string
	if notificationType == notificationdomain.TypeReminder {
		content = w.renderer.Reminder(name, charge.Amount, charge.DueDate, w.cfg.ReminderLeadDays)
	} else {
		content = w.renderer.Overdue(name, charge.Amount, charge.DueDate)
	}

	notification := &notificationdomain.Notification{
		ID:             w.genID.Generate(),
		ChargeID:       charge.ID,
		ClientID:       charge.ClientID,
		UserID:         charge.UserID,
		Type:           notificationType,
		Channel:        notificationdomain.ChannelWhatsApp,
		MessageContent: content,
		Status:         notificationdomain.StatusSent,
		SentAt:         now,
	}
	return notification, sender.Message{Phone: phone, Content: content}
}

func (w *Worker) lookupClient(ctx context.Context, userID, clientID snowflake.ID) *clientdomain.Client {
	if cached, ok := w.clients.Get(clientID); ok {
		return &cached
	}

	client, err := w.clientRepo.FindByID(ctx, w.db, userID, clientID)
	if err != nil {
		w.log.Warn("loading client for notification",
			zap.String("client_id", clientID.String()), zap.Error(err))
		return nil
	}
	if client == nil {
		return nil
	}

	w.clients.Set(clientID, *client, 5*time.Minute)
	return client
}

func (w *Worker) publishSent(ctx context.Context, notification *notificationdomain.Notification) {
	if w.outbox == nil {
		return
	}
	err := w.outbox.Publish(ctx, events.Event{
		UserID: notification.UserID,
		Type:   events.EventNotificationSent,
		Payload: events.NotificationPayload{
			NotificationID: notification.ID.String(),
			ChargeID:       notification.ChargeID.String(),
			Type:           string(notification.Type),
		}.ToMap(),
		DedupeKey: fmt.Sprintf("notification.sent:%s", notification.ID),
	})
	if err != nil {
		w.log.Warn("publishing notification event", zap.Error(err))
	}
}

func chargeIDs(charges []chargedomain.Charge) []snowflake.ID {
	ids := make([]snowflake.ID, 0, len(charges))
	for _, charge := range charges {
		ids = append(ids, charge.ID)
	}
	return ids
}
