package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Client is a person or company a tenant charges.
type Client struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID    snowflake.ID `gorm:"not null;index" json:"user_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	Phone     string       `gorm:"type:text;not null" json:"phone"`
	Email     *string      `gorm:"type:text" json:"email,omitempty"`
	Notes     *string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Client) TableName() string { return "clients" }

// Summary holds per-client aggregates. These are always recomputed from
// the active (non-canceled) charge set on read; they are never stored,
// so they cannot drift from the charges table.
type Summary struct {
	ClientID      snowflake.ID    `json:"client_id"`
	TotalCharged  decimal.Decimal `json:"total_charged"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	TotalPending  decimal.Decimal `json:"total_pending"`
	OverdueCount  int64           `json:"overdue_count"`
	LastPaymentAt *time.Time      `json:"last_payment_at,omitempty"`
}

// ClientWithSummary is the read model returned by listings.
type ClientWithSummary struct {
	Client
	Summary Summary `json:"summary"`
}
