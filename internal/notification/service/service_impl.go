package service

import (
	"context"

	notificationdomain "github.com/gabaoo/ping-pague-auto/internal/notification/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo notificationdomain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo notificationdomain.Repository
}

func NewService(p Params) notificationdomain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("notification.service"),
		repo: p.Repo,
	}
}

func (s *Service) List(ctx context.Context, req notificationdomain.ListNotificationRequest) (notificationdomain.ListNotificationResponse, error) {
	notifications, err := s.repo.List(ctx, s.db, notificationdomain.ListFilter{
		UserID:   req.UserID,
		ChargeID: req.ChargeID,
		ClientID: req.ClientID,
		Type:     req.Type,
		Limit:    req.Limit,
	})
	if err != nil {
		return notificationdomain.ListNotificationResponse{}, err
	}
	return notificationdomain.ListNotificationResponse{Notifications: notifications}, nil
}
