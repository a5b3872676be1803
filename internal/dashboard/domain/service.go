package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service exposes the per-tenant dashboard data.
type Service interface {
	GetOverview(ctx context.Context, userID snowflake.ID) (OverviewResponse, error)
}
