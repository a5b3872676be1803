package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gabaoo/ping-pague-auto/internal/recurrence"
	"github.com/shopspring/decimal"
)

// RecurrenceSpec configures a recurring charge at creation or edit time.
type RecurrenceSpec struct {
	Interval recurrence.Interval `json:"interval"`
}

type CreateChargeRequest struct {
	UserID      snowflake.ID
	ClientID    snowflake.ID
	Amount      decimal.Decimal
	DueDate     time.Time
	Notes       string
	PaymentLink string
	Recurrence  *RecurrenceSpec
}

type EditChargeRequest struct {
	UserID  snowflake.ID
	ID      snowflake.ID
	Amount  *decimal.Decimal
	DueDate *time.Time
	Notes   *string
	// Recurrence replaces the recurrence settings when non-nil;
	// ClearRecurrence turns a recurring charge into a one-off.
	Recurrence      *RecurrenceSpec
	ClearRecurrence bool
}

type ListChargesRequest struct {
	UserID          snowflake.ID
	ClientID        *snowflake.ID
	Status          *ChargeStatus
	IncludeCanceled bool
	DueFrom         *time.Time
	DueTo           *time.Time
}

type ListChargesResponse struct {
	Charges []Charge `json:"charges"`
}

type ConfirmPaymentRequest struct {
	ChargeID      snowflake.ID
	PaidAt        *time.Time
	TransactionID string
}

// PaymentResult reports the paid charge and, for recurring charges, the
// successor spawned for the next occurrence.
type PaymentResult struct {
	Charge    Charge  `json:"charge"`
	Successor *Charge `json:"successor,omitempty"`
}

// Service is the charge lifecycle engine.
type Service interface {
	Create(ctx context.Context, req CreateChargeRequest) (Charge, error)
	GetByID(ctx context.Context, userID, id snowflake.ID) (Charge, error)
	List(ctx context.Context, req ListChargesRequest) (ListChargesResponse, error)
	Edit(ctx context.Context, req EditChargeRequest) (Charge, error)
	Cancel(ctx context.Context, userID, id snowflake.ID) (Charge, error)
	// Delete is the administrative hard delete. It refuses to remove a
	// charge that notifications still reference.
	Delete(ctx context.Context, userID, id snowflake.ID) error
	// ConfirmPayment is tenant-agnostic: payment webhooks carry only the
	// charge id.
	ConfirmPayment(ctx context.Context, req ConfirmPaymentRequest) (PaymentResult, error)
	// MarkOverdue promotes a single pending charge past its due date.
	// Idempotent; a no-op returns the charge unchanged.
	MarkOverdue(ctx context.Context, id snowflake.ID, today time.Time) (Charge, error)
}

var (
	ErrInvalidChargeID   = errors.New("invalid_charge_id")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidDueDate    = errors.New("invalid_due_date")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrChargeNotFound    = errors.New("charge_not_found")
	ErrChargeReferenced  = errors.New("charge_referenced_by_notifications")
)
