package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gabaoo/ping-pague-auto/internal/recurrence"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ChargeStatus tracks payment progress for a charge. Cancellation is an
// orthogonal flag, not a status: a canceled charge keeps the status it
// had for history views.
type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "pending"
	ChargeStatusPaid    ChargeStatus = "paid"
	ChargeStatusOverdue ChargeStatus = "overdue"
)

// Charge is a single amount owed by a client, one occurrence of a
// recurring series when IsRecurrent is set.
type Charge struct {
	ID       snowflake.ID    `gorm:"primaryKey" json:"id"`
	UserID   snowflake.ID    `gorm:"not null;index" json:"user_id"`
	ClientID snowflake.ID    `gorm:"not null;index" json:"client_id"`
	Amount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	// DueDate is a calendar date stored as UTC midnight.
	DueDate     time.Time    `gorm:"type:date;not null;index:idx_charges_due_status,priority:1" json:"due_date"`
	Status      ChargeStatus `gorm:"type:text;not null;default:'pending';index:idx_charges_due_status,priority:2" json:"status"`
	Canceled    bool         `gorm:"not null;default:false" json:"canceled"`
	PaidAt      *time.Time   `gorm:"column:paid_at" json:"paid_at,omitempty"`
	Notes       *string      `gorm:"type:text" json:"notes,omitempty"`
	PaymentLink *string      `gorm:"type:text" json:"payment_link,omitempty"`

	IsRecurrent        bool                `gorm:"not null;default:false" json:"is_recurrent"`
	RecurrenceInterval recurrence.Interval `gorm:"type:text" json:"recurrence_interval,omitempty"`
	RecurrenceDay      *int                `gorm:"column:recurrence_day" json:"recurrence_day,omitempty"`
	// NextChargeDate is the due date of the successor spawned when this
	// charge is paid. Present iff IsRecurrent.
	NextChargeDate *time.Time    `gorm:"type:date" json:"next_charge_date,omitempty"`
	ParentChargeID *snowflake.ID `gorm:"index" json:"parent_charge_id,omitempty"`

	// LastNotificationSentAt is the at-most-once guard for reminders.
	LastNotificationSentAt *time.Time `gorm:"column:last_notification_sent_at" json:"last_notification_sent_at,omitempty"`
	// LastOverdueAlertAt throttles overdue alerts to one per calendar day.
	LastOverdueAlertAt *time.Time `gorm:"column:last_overdue_alert_at;type:date" json:"last_overdue_alert_at,omitempty"`

	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Charge) TableName() string { return "charges" }

// Active reports whether the charge participates in aggregates and
// sweeps. Canceled charges stay visible in history but count nowhere.
func (c Charge) Active() bool { return !c.Canceled }

// Terminal reports whether no further lifecycle transition applies.
func (c Charge) Terminal() bool { return c.Canceled || c.Status == ChargeStatusPaid }
