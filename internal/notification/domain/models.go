package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Type classifies why a notification was produced.
type Type string

const (
	TypeReminder         Type = "reminder"
	TypeOverdue          Type = "overdue"
	TypePaymentConfirmed Type = "payment_confirmed"
)

// ChannelWhatsApp is the only delivery channel today.
const ChannelWhatsApp = "whatsapp"

// Status of the outbound hand-off. Delivery is fire-and-forget; "sent"
// means the record was persisted and handed to the sink.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Notification is an immutable record of an outbound message. Rows are
// only ever inserted, never mutated.
type Notification struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	ChargeID       snowflake.ID `gorm:"not null;index" json:"charge_id"`
	ClientID       snowflake.ID `gorm:"not null;index" json:"client_id"`
	UserID         snowflake.ID `gorm:"not null;index" json:"user_id"`
	Type           Type         `gorm:"column:notification_type;type:text;not null" json:"notification_type"`
	Channel        string       `gorm:"type:text;not null;default:'whatsapp'" json:"channel"`
	MessageContent string       `gorm:"type:text;not null" json:"message_content"`
	Status         Status       `gorm:"type:text;not null;default:'sent'" json:"status"`
	SentAt         time.Time    `gorm:"not null" json:"sent_at"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }
