package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	UserID          snowflake.ID
	ClientID        *snowflake.ID
	Status          *ChargeStatus
	IncludeCanceled bool
	DueFrom         *time.Time
	DueTo           *time.Time
	Limit           int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *Charge) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Charge, error)
	// FindByIDForUpdate locks the row for the duration of the enclosing
	// transaction.
	FindByIDForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Charge, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Charge, error)
	Update(ctx context.Context, db *gorm.DB, charge *Charge) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	HasChargesForClient(ctx context.Context, db *gorm.DB, userID, clientID snowflake.ID) (bool, error)

	// MarkPaid flips pending|overdue to paid. Returns false when the
	// guard matched no row (already paid, canceled, or missing).
	MarkPaid(ctx context.Context, db *gorm.DB, id snowflake.ID, paidAt, now time.Time) (bool, error)
	// MarkCanceled sets the canceled flag from pending|overdue only.
	MarkCanceled(ctx context.Context, db *gorm.DB, id snowflake.ID, now time.Time) (bool, error)
	// MarkOverdue promotes one pending charge whose due date passed.
	MarkOverdue(ctx context.Context, db *gorm.DB, id snowflake.ID, today, now time.Time) (bool, error)
	// PromoteOverdue is the sweep's bulk pass over every active pending
	// charge with due_date < today. Returns the number promoted.
	PromoteOverdue(ctx context.Context, db *gorm.DB, today, now time.Time) (int64, error)

	// FindReminderSet returns active pending charges due exactly on
	// dueDate that have never been reminded.
	FindReminderSet(ctx context.Context, db *gorm.DB, dueDate time.Time, limit int) ([]Charge, error)
	// FindOverdueAlertSet returns active overdue charges not yet alerted
	// today.
	FindOverdueAlertSet(ctx context.Context, db *gorm.DB, today time.Time, limit int) ([]Charge, error)
	StampReminderSent(ctx context.Context, db *gorm.DB, ids []snowflake.ID, at time.Time) error
	StampOverdueAlert(ctx context.Context, db *gorm.DB, ids []snowflake.ID, day time.Time) error
}
