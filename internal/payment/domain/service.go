package domain

import (
	"context"
	"errors"
	"time"
)

// WebhookRequest is the provider-agnostic payment notification payload.
type WebhookRequest struct {
	ChargeID      string     `json:"charge_id"`
	Status        string     `json:"status"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
}

type WebhookResponse struct {
	Success  bool   `json:"success"`
	ChargeID string `json:"charge_id"`
	Status   string `json:"status"`
}

// Service ingests payment-provider webhooks and applies the payment to
// the charge lifecycle.
type Service interface {
	ProcessWebhook(ctx context.Context, req WebhookRequest) (WebhookResponse, error)
}

var (
	ErrMissingChargeID = errors.New("missing_charge_id")
	ErrInvalidChargeID = errors.New("invalid_charge_id")
	// ErrEventIgnored marks statuses that do not map to a payment
	// ("refused", "chargeback", ...); the webhook acknowledges them
	// without touching the charge.
	ErrEventIgnored = errors.New("event_ignored")
)
