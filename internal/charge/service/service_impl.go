package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/gabaoo/ping-pague-auto/internal/clock"
	"github.com/gabaoo/ping-pague-auto/internal/events"
	notificationdomain "github.com/gabaoo/ping-pague-auto/internal/notification/domain"
	"github.com/gabaoo/ping-pague-auto/internal/notification/render"
	"github.com/gabaoo/ping-pague-auto/internal/recurrence"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       chargedomain.Repository
	ClientRepo clientdomain.Repository
	NotifRepo  notificationdomain.Repository
	Renderer   *render.Renderer
	Outbox     *events.Outbox
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       chargedomain.Repository
	clientRepo clientdomain.Repository
	notifRepo  notificationdomain.Repository
	renderer   *render.Renderer
	outbox     *events.Outbox
}

func NewService(p Params) chargedomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("charge.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		clientRepo: p.ClientRepo,
		notifRepo:  p.NotifRepo,
		renderer:   p.Renderer,
		outbox:     p.Outbox,
	}
}

func (s *Service) Create(ctx context.Context, req chargedomain.CreateChargeRequest) (chargedomain.Charge, error) {
	if !req.Amount.IsPositive() {
		return chargedomain.Charge{}, chargedomain.ErrInvalidAmount
	}
	if req.DueDate.IsZero() {
		return chargedomain.Charge{}, chargedomain.ErrInvalidDueDate
	}

	client, err := s.clientRepo.FindByID(ctx, s.db, req.UserID, req.ClientID)
	if err != nil {
		return chargedomain.Charge{}, err
	}
	if client == nil {
		return chargedomain.Charge{}, clientdomain.ErrClientNotFound
	}

	charge := chargedomain.Charge{
		ID:       s.genID.Generate(),
		UserID:   req.UserID,
		ClientID: req.ClientID,
		Amount:   req.Amount,
		DueDate:  recurrence.DateOnly(req.DueDate),
		Status:   chargedomain.ChargeStatusPending,
	}
	if req.Notes != "" {
		notes := req.Notes
		charge.Notes = &notes
	}
	if req.PaymentLink != "" {
		link := req.PaymentLink
		charge.PaymentLink = &link
	}

	if req.Recurrence != nil {
		// The next occurrence anchors on the due date, not on "today":
		// a charge created late still recurs on its own schedule.
		next, err := recurrence.NextOccurrence(charge.DueDate, req.Recurrence.Interval)
		if err != nil {
			return chargedomain.Charge{}, err
		}
		day := recurrence.AnchorDay(charge.DueDate)
		charge.IsRecurrent = true
		charge.RecurrenceInterval = req.Recurrence.Interval
		charge.RecurrenceDay = &day
		charge.NextChargeDate = &next
	}

	if err := s.repo.Insert(ctx, s.db, &charge); err != nil {
		return chargedomain.Charge{}, err
	}

	s.publishEvent(ctx, charge.UserID, events.EventChargeCreated,
		fmt.Sprintf("charge.created:%s", charge.ID),
		events.ChargePayload{
			ChargeID: charge.ID.String(),
			ClientID: charge.ClientID.String(),
			Status:   string(charge.Status),
		})

	return charge, nil
}

func (s *Service) GetByID(ctx context.Context, userID, id snowflake.ID) (chargedomain.Charge, error) {
	charge, err := s.findOwned(ctx, s.db, userID, id)
	if err != nil {
		return chargedomain.Charge{}, err
	}
	return *charge, nil
}

func (s *Service) List(ctx context.Context, req chargedomain.ListChargesRequest) (chargedomain.ListChargesResponse, error) {
	charges, err := s.repo.List(ctx, s.db, chargedomain.ListFilter{
		UserID:          req.UserID,
		ClientID:        req.ClientID,
		Status:          req.Status,
		IncludeCanceled: req.IncludeCanceled,
		DueFrom:         req.DueFrom,
		DueTo:           req.DueTo,
	})
	if err != nil {
		return chargedomain.ListChargesResponse{}, err
	}
	return chargedomain.ListChargesResponse{Charges: charges}, nil
}

func (s *Service) Edit(ctx context.Context, req chargedomain.EditChargeRequest) (chargedomain.Charge, error) {
	if req.Amount != nil && !req.Amount.IsPositive() {
		return chargedomain.Charge{}, chargedomain.ErrInvalidAmount
	}
	if req.Recurrence != nil && !req.Recurrence.Interval.Valid() {
		return chargedomain.Charge{}, recurrence.ErrInvalidInterval
	}

	var updated chargedomain.Charge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		charge, err := s.repo.FindByIDForUpdate(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		if charge == nil || charge.UserID != req.UserID {
			return chargedomain.ErrChargeNotFound
		}
		if err := charge.CanEdit(); err != nil {
			return err
		}

		dueChanged := false
		if req.Amount != nil {
			charge.Amount = *req.Amount
		}
		if req.DueDate != nil {
			charge.DueDate = recurrence.DateOnly(*req.DueDate)
			dueChanged = true
		}
		if req.Notes != nil {
			if *req.Notes == "" {
				charge.Notes = nil
			} else {
				charge.Notes = req.Notes
			}
		}

		switch {
		case req.ClearRecurrence:
			charge.IsRecurrent = false
			charge.RecurrenceInterval = ""
			charge.RecurrenceDay = nil
			charge.NextChargeDate = nil
		case req.Recurrence != nil:
			charge.IsRecurrent = true
			charge.RecurrenceInterval = req.Recurrence.Interval
			dueChanged = true
		}

		// A changed due date or recurrence shifts the whole schedule.
		if charge.IsRecurrent && dueChanged {
			next, err := recurrence.NextOccurrence(charge.DueDate, charge.RecurrenceInterval)
			if err != nil {
				return err
			}
			day := recurrence.AnchorDay(charge.DueDate)
			charge.RecurrenceDay = &day
			charge.NextChargeDate = &next
		}

		if err := s.repo.Update(ctx, tx, charge); err != nil {
			return err
		}
		updated = *charge
		return nil
	})
	if err != nil {
		return chargedomain.Charge{}, err
	}
	return updated, nil
}

func (s *Service) Cancel(ctx context.Context, userID, id snowflake.ID) (chargedomain.Charge, error) {
	var canceled chargedomain.Charge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		charge, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if charge == nil || charge.UserID != userID {
			return chargedomain.ErrChargeNotFound
		}
		if err := charge.CanCancel(); err != nil {
			return err
		}

		// The guard re-checks state so a payment landing between the
		// read and the write still wins: a paid charge stays paid.
		ok, err := s.repo.MarkCanceled(ctx, tx, id, s.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			return chargedomain.ErrInvalidTransition
		}
		charge.Canceled = true
		canceled = *charge
		return nil
	})
	if err != nil {
		return chargedomain.Charge{}, err
	}

	s.publishEvent(ctx, canceled.UserID, events.EventChargeCanceled,
		fmt.Sprintf("charge.canceled:%s", canceled.ID),
		events.ChargePayload{
			ChargeID: canceled.ID.String(),
			ClientID: canceled.ClientID.String(),
			Status:   string(canceled.Status),
		})

	return canceled, nil
}

func (s *Service) Delete(ctx context.Context, userID, id snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		charge, err := s.repo.FindByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if charge == nil || charge.UserID != userID {
			return chargedomain.ErrChargeNotFound
		}

		referenced, err := s.notifRepo.ExistsForCharge(ctx, tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return chargedomain.ErrChargeReferenced
		}

		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *Service) ConfirmPayment(ctx context.Context, req chargedomain.ConfirmPaymentRequest) (chargedomain.PaymentResult, error) {
	if req.ChargeID == 0 {
		return chargedomain.PaymentResult{}, chargedomain.ErrInvalidChargeID
	}

	paidAt := s.clock.Now()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	var result chargedomain.PaymentResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		charge, err := s.repo.FindByIDForUpdate(ctx, tx, req.ChargeID)
		if err != nil {
			return err
		}
		if charge == nil {
			return chargedomain.ErrChargeNotFound
		}
		if err := charge.CanConfirmPayment(); err != nil {
			return err
		}

		ok, err := s.repo.MarkPaid(ctx, tx, charge.ID, paidAt, s.clock.Now())
		if err != nil {
			return err
		}
		if !ok {
			return chargedomain.ErrInvalidTransition
		}
		charge.Status = chargedomain.ChargeStatusPaid
		charge.PaidAt = &paidAt
		result.Charge = *charge

		// Spawning inside the same transaction with the row locked is
		// what keeps ConfirmPayment idempotent: a second call finds the
		// charge already paid and never reaches this point.
		if charge.IsRecurrent && charge.NextChargeDate != nil {
			successor, err := s.spawnSuccessor(ctx, tx, charge)
			if err != nil {
				return err
			}
			result.Successor = successor
		}
		return nil
	})
	if err != nil {
		return chargedomain.PaymentResult{}, err
	}

	// Confirmation side effects commit independently of the payment:
	// a failed notification must never roll back a recorded payment.
	s.recordPaymentConfirmed(ctx, result.Charge)

	s.publishEvent(ctx, result.Charge.UserID, events.EventChargePaid,
		fmt.Sprintf("charge.paid:%s", result.Charge.ID),
		events.ChargePayload{
			ChargeID:      result.Charge.ID.String(),
			ClientID:      result.Charge.ClientID.String(),
			Status:        string(chargedomain.ChargeStatusPaid),
			TransactionID: req.TransactionID,
		})
	if result.Successor != nil {
		s.publishEvent(ctx, result.Charge.UserID, events.EventChargeSpawned,
			fmt.Sprintf("charge.spawned:%s", result.Successor.ID),
			events.ChargePayload{
				ChargeID: result.Successor.ID.String(),
				ClientID: result.Successor.ClientID.String(),
				ParentID: result.Charge.ID.String(),
			})
	}

	return result, nil
}

func (s *Service) MarkOverdue(ctx context.Context, id snowflake.ID, today time.Time) (chargedomain.Charge, error) {
	today = recurrence.DateOnly(today)
	if _, err := s.repo.MarkOverdue(ctx, s.db, id, today, s.clock.Now()); err != nil {
		return chargedomain.Charge{}, err
	}

	charge, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return chargedomain.Charge{}, err
	}
	if charge == nil {
		return chargedomain.Charge{}, chargedomain.ErrChargeNotFound
	}
	return *charge, nil
}

func (s *Service) spawnSuccessor(ctx context.Context, tx *gorm.DB, parent *chargedomain.Charge) (*chargedomain.Charge, error) {
	dueDate := recurrence.DateOnly(*parent.NextChargeDate)
	next, err := recurrence.NextOccurrence(dueDate, parent.RecurrenceInterval)
	if err != nil {
		return nil, err
	}

	parentID := parent.ID
	day := recurrence.AnchorDay(dueDate)
	successor := &chargedomain.Charge{
		ID:                 s.genID.Generate(),
		UserID:             parent.UserID,
		ClientID:           parent.ClientID,
		Amount:             parent.Amount,
		DueDate:            dueDate,
		Status:             chargedomain.ChargeStatusPending,
		Notes:              parent.Notes,
		PaymentLink:        parent.PaymentLink,
		IsRecurrent:        true,
		RecurrenceInterval: parent.RecurrenceInterval,
		RecurrenceDay:      &day,
		NextChargeDate:     &next,
		ParentChargeID:     &parentID,
	}
	if err := s.repo.Insert(ctx, tx, successor); err != nil {
		return nil, err
	}
	return successor, nil
}

func (s *Service) recordPaymentConfirmed(ctx context.Context, charge chargedomain.Charge) {
	client, err := s.clientRepo.FindByID(ctx, s.db, charge.UserID, charge.ClientID)
	if err != nil {
		s.log.Warn("loading client for payment confirmation",
			zap.String("charge_id", charge.ID.String()), zap.Error(err))
		return
	}
	name := ""
	if client != nil {
		name = client.Name
	}

	notification := &notificationdomain.Notification{
		ID:             s.genID.Generate(),
		ChargeID:       charge.ID,
		ClientID:       charge.ClientID,
		UserID:         charge.UserID,
		Type:           notificationdomain.TypePaymentConfirmed,
		Channel:        notificationdomain.ChannelWhatsApp,
		MessageContent: s.renderer.PaymentConfirmed(name, charge.Amount),
		Status:         notificationdomain.StatusSent,
		SentAt:         s.clock.Now(),
	}
	if err := s.notifRepo.InsertBatch(ctx, s.db, []*notificationdomain.Notification{notification}); err != nil {
		s.log.Warn("recording payment confirmation notification",
			zap.String("charge_id", charge.ID.String()), zap.Error(err))
	}
}

func (s *Service) findOwned(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*chargedomain.Charge, error) {
	charge, err := s.repo.FindByID(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if charge == nil || charge.UserID != userID {
		return nil, chargedomain.ErrChargeNotFound
	}
	return charge, nil
}

func (s *Service) publishEvent(ctx context.Context, userID snowflake.ID, eventType, dedupeKey string, payload events.ChargePayload) {
	if s.outbox == nil {
		return
	}
	err := s.outbox.Publish(ctx, events.Event{
		UserID:    userID,
		Type:      eventType,
		Payload:   payload.ToMap(),
		DedupeKey: dedupeKey,
	})
	if err != nil {
		s.log.Warn("publishing charge event",
			zap.String("event_type", eventType), zap.Error(err))
	}
}
