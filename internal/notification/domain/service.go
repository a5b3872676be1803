package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type ListNotificationRequest struct {
	UserID   snowflake.ID
	ChargeID *snowflake.ID
	ClientID *snowflake.ID
	Type     *Type
	Limit    int
}

type ListNotificationResponse struct {
	Notifications []Notification `json:"notifications"`
}

// Service exposes the notification history. Records are created by the
// sweep and by payment confirmation, never through this interface.
type Service interface {
	List(ctx context.Context, req ListNotificationRequest) (ListNotificationResponse, error)
}
