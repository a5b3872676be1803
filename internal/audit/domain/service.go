package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service records audit entries. Failures are logged, never propagated
// to the mutation that triggered them.
type Service interface {
	AuditLog(
		ctx context.Context,
		userID *snowflake.ID,
		actorType ActorType,
		actorID *string,
		action string,
		targetType string,
		targetID *string,
		metadata map[string]any,
	) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
