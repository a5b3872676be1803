package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/gabaoo/ping-pague-auto/internal/audit/domain"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	paymentdomain "github.com/gabaoo/ping-pague-auto/internal/payment/domain"
	"go.uber.org/zap"
)

type fakeChargeService struct {
	chargedomain.Service

	confirmed []chargedomain.ConfirmPaymentRequest
	result    chargedomain.PaymentResult
	err       error
}

func (f *fakeChargeService) ConfirmPayment(_ context.Context, req chargedomain.ConfirmPaymentRequest) (chargedomain.PaymentResult, error) {
	f.confirmed = append(f.confirmed, req)
	if f.err != nil {
		return chargedomain.PaymentResult{}, f.err
	}
	return f.result, nil
}

type fakeAuditService struct {
	auditdomain.Service

	actions []string
}

func (f *fakeAuditService) AuditLog(_ context.Context, _ *snowflake.ID, _ auditdomain.ActorType, _ *string, action string, _ string, _ *string, _ map[string]any) error {
	f.actions = append(f.actions, action)
	return nil
}

func newWebhookService(charges *fakeChargeService, audits *fakeAuditService) paymentdomain.Service {
	return NewService(Params{
		Log:       zap.NewNop(),
		ChargeSvc: charges,
		AuditSvc:  audits,
	})
}

func TestProcessWebhookMissingChargeID(t *testing.T) {
	svc := newWebhookService(&fakeChargeService{}, &fakeAuditService{})

	_, err := svc.ProcessWebhook(context.Background(), paymentdomain.WebhookRequest{Status: "approved"})
	if !errors.Is(err, paymentdomain.ErrMissingChargeID) {
		t.Fatalf("expected ErrMissingChargeID, got %v", err)
	}
}

func TestProcessWebhookInvalidChargeID(t *testing.T) {
	svc := newWebhookService(&fakeChargeService{}, &fakeAuditService{})

	_, err := svc.ProcessWebhook(context.Background(), paymentdomain.WebhookRequest{
		ChargeID: "not-a-number",
		Status:   "approved",
	})
	if !errors.Is(err, paymentdomain.ErrInvalidChargeID) {
		t.Fatalf("expected ErrInvalidChargeID, got %v", err)
	}
}

func TestProcessWebhookIgnoresNonPaidStatus(t *testing.T) {
	charges := &fakeChargeService{}
	svc := newWebhookService(charges, &fakeAuditService{})

	_, err := svc.ProcessWebhook(context.Background(), paymentdomain.WebhookRequest{
		ChargeID: "123",
		Status:   "refused",
	})
	if !errors.Is(err, paymentdomain.ErrEventIgnored) {
		t.Fatalf("expected ErrEventIgnored, got %v", err)
	}
	if len(charges.confirmed) != 0 {
		t.Fatalf("confirm called %d times, want 0", len(charges.confirmed))
	}
}

func TestProcessWebhookConfirmsPayment(t *testing.T) {
	chargeID := snowflake.ID(123)
	paid := chargedomain.Charge{
		ID:     chargeID,
		UserID: snowflake.ID(42),
		Status: chargedomain.ChargeStatusPaid,
	}
	charges := &fakeChargeService{result: chargedomain.PaymentResult{Charge: paid}}
	audits := &fakeAuditService{}
	svc := newWebhookService(charges, audits)

	paidAt := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	resp, err := svc.ProcessWebhook(context.Background(), paymentdomain.WebhookRequest{
		ChargeID:      "123",
		Status:        "Approved",
		PaidAt:        &paidAt,
		TransactionID: " tx-1 ",
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success response")
	}
	if resp.ChargeID != chargeID.String() {
		t.Fatalf("charge id = %s, want %s", resp.ChargeID, chargeID)
	}
	if resp.Status != string(chargedomain.ChargeStatusPaid) {
		t.Fatalf("status = %s, want paid", resp.Status)
	}

	if len(charges.confirmed) != 1 {
		t.Fatalf("confirm called %d times, want 1", len(charges.confirmed))
	}
	req := charges.confirmed[0]
	if req.ChargeID != chargeID {
		t.Fatalf("confirm charge id = %s, want %s", req.ChargeID, chargeID)
	}
	if req.TransactionID != "tx-1" {
		t.Fatalf("transaction id = %q, want %q", req.TransactionID, "tx-1")
	}

	if len(audits.actions) != 1 || audits.actions[0] != "charge.payment_confirmed" {
		t.Fatalf("audit actions = %v", audits.actions)
	}
}

func TestProcessWebhookPropagatesChargeErrors(t *testing.T) {
	charges := &fakeChargeService{err: chargedomain.ErrInvalidTransition}
	svc := newWebhookService(charges, &fakeAuditService{})

	_, err := svc.ProcessWebhook(context.Background(), paymentdomain.WebhookRequest{
		ChargeID: "123",
		Status:   "paid",
	})
	if !errors.Is(err, chargedomain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}
