package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/gabaoo/ping-pague-auto/internal/audit/domain"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	paymentdomain "github.com/gabaoo/ping-pague-auto/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	ChargeSvc chargedomain.Service
	AuditSvc  auditdomain.Service
}

type Service struct {
	log       *zap.Logger
	chargeSvc chargedomain.Service
	auditSvc  auditdomain.Service
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		log:       p.Log.Named("payment.service"),
		chargeSvc: p.ChargeSvc,
		auditSvc:  p.AuditSvc,
	}
}

// paidStatuses maps provider status strings onto the internal paid
// state. Anything else is acknowledged and ignored.
var paidStatuses = map[string]struct{}{
	"approved": {},
	"paid":     {},
}

func (s *Service) ProcessWebhook(ctx context.Context, req paymentdomain.WebhookRequest) (paymentdomain.WebhookResponse, error) {
	rawID := strings.TrimSpace(req.ChargeID)
	if rawID == "" {
		return paymentdomain.WebhookResponse{}, paymentdomain.ErrMissingChargeID
	}
	chargeID, err := snowflake.ParseString(rawID)
	if err != nil {
		return paymentdomain.WebhookResponse{}, paymentdomain.ErrInvalidChargeID
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if _, ok := paidStatuses[status]; !ok {
		s.log.Info("ignoring webhook status",
			zap.String("charge_id", rawID),
			zap.String("status", status),
		)
		return paymentdomain.WebhookResponse{}, paymentdomain.ErrEventIgnored
	}

	result, err := s.chargeSvc.ConfirmPayment(ctx, chargedomain.ConfirmPaymentRequest{
		ChargeID:      chargeID,
		PaidAt:        req.PaidAt,
		TransactionID: strings.TrimSpace(req.TransactionID),
	})
	if err != nil {
		return paymentdomain.WebhookResponse{}, err
	}

	if s.auditSvc != nil {
		userID := result.Charge.UserID
		targetID := result.Charge.ID.String()
		metadata := map[string]any{
			"status": string(result.Charge.Status),
		}
		if result.Successor != nil {
			metadata["successor_charge_id"] = result.Successor.ID.String()
		}
		if req.TransactionID != "" {
			metadata["transaction_id"] = req.TransactionID
		}
		_ = s.auditSvc.AuditLog(ctx, &userID, auditdomain.ActorTypeWebhook, nil,
			"charge.payment_confirmed", "charge", &targetID, metadata)
	}

	return paymentdomain.WebhookResponse{
		Success:  true,
		ChargeID: result.Charge.ID.String(),
		Status:   string(result.Charge.Status),
	}, nil
}
