package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	UserID snowflake.ID
	Name   string
	IDs    []snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Client, error)
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	Delete(ctx context.Context, db *gorm.DB, userID, id snowflake.ID) error
	// Summarize recomputes aggregates from the active charge set for the
	// given clients. Canceled charges never contribute.
	Summarize(ctx context.Context, db *gorm.DB, userID snowflake.ID, clientIDs []snowflake.ID) (map[snowflake.ID]Summary, error)
}
