package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	notificationdomain "github.com/gabaoo/ping-pague-auto/internal/notification/domain"
	"gorm.io/gorm"
)

type repositoryImpl struct{}

// Provide builds the notification repository.
func Provide() notificationdomain.Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) InsertBatch(ctx context.Context, db *gorm.DB, notifications []*notificationdomain.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(notifications).Error
}

func (r *repositoryImpl) List(ctx context.Context, db *gorm.DB, filter notificationdomain.ListFilter) ([]notificationdomain.Notification, error) {
	query := db.WithContext(ctx).Model(&notificationdomain.Notification{}).
		Where("user_id = ?", filter.UserID)
	if filter.ChargeID != nil {
		query = query.Where("charge_id = ?", *filter.ChargeID)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Type != nil {
		query = query.Where("notification_type = ?", *filter.Type)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var notifications []notificationdomain.Notification
	err := query.Order("sent_at DESC, id DESC").Limit(limit).Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repositoryImpl) ExistsForCharge(ctx context.Context, db *gorm.DB, chargeID snowflake.ID) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&notificationdomain.Notification{}).
		Where("charge_id = ?", chargeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
