package notification

import (
	"github.com/gabaoo/ping-pague-auto/internal/config"
	"github.com/gabaoo/ping-pague-auto/internal/notification/render"
	"github.com/gabaoo/ping-pague-auto/internal/notification/repository"
	"github.com/gabaoo/ping-pague-auto/internal/notification/sender"
	"github.com/gabaoo/ping-pague-auto/internal/notification/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(render.NewRenderer),
	fx.Provide(service.NewService),
	fx.Provide(func(cfg config.Config, log *zap.Logger) sender.Sender {
		if cfg.Notify.GatewayURL != "" {
			return sender.NewGatewaySender(cfg.Notify.GatewayURL, log)
		}
		return sender.NewLogSender(log)
	}),
)
