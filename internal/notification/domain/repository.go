package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	UserID   snowflake.ID
	ChargeID *snowflake.ID
	ClientID *snowflake.ID
	Type     *Type
	Limit    int
}

type Repository interface {
	// InsertBatch persists a batch of notifications as one statement so
	// the sweep's stamp step only runs after every row landed.
	InsertBatch(ctx context.Context, db *gorm.DB, notifications []*Notification) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Notification, error)
	ExistsForCharge(ctx context.Context, db *gorm.DB, chargeID snowflake.ID) (bool, error)
}

var ErrNotificationNotFound = errors.New("notification_not_found")
