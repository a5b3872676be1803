// @title           Ping Pague API
// @version         1.0
// @description     Recurring charges, payment reminders and WhatsApp notifications.

// @host      localhost:8080
// @BasePath  /v1
// @Schemes 	http https

package main

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/gabaoo/ping-pague-auto/internal/audit"
	"github.com/gabaoo/ping-pague-auto/internal/charge"
	"github.com/gabaoo/ping-pague-auto/internal/client"
	"github.com/gabaoo/ping-pague-auto/internal/clock"
	"github.com/gabaoo/ping-pague-auto/internal/config"
	"github.com/gabaoo/ping-pague-auto/internal/dashboard"
	"github.com/gabaoo/ping-pague-auto/internal/events"
	"github.com/gabaoo/ping-pague-auto/internal/migration"
	"github.com/gabaoo/ping-pague-auto/internal/notification"
	"github.com/gabaoo/ping-pague-auto/internal/observability/logger"
	"github.com/gabaoo/ping-pague-auto/internal/observability/metrics"
	"github.com/gabaoo/ping-pague-auto/internal/observability/tracing"
	"github.com/gabaoo/ping-pague-auto/internal/payment"
	"github.com/gabaoo/ping-pague-auto/internal/seed"
	"github.com/gabaoo/ping-pague-auto/internal/server"
	"github.com/gabaoo/ping-pague-auto/internal/sweep"
	"github.com/gabaoo/ping-pague-auto/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		logger.Module,
		config.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		migration.Module,
		fx.Invoke(func(lc fx.Lifecycle, conn *gorm.DB, cfg config.Config, log *zap.Logger) {
			if cfg.IsProduction() {
				return
			}
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					if err := seed.EnsureDemoData(conn); err != nil {
						log.Warn("demo seed failed", zap.Error(err))
					}
					return nil
				},
			})
		}),
		clock.Module,
		tracing.Module,
		metrics.Module,
		fx.Provide(events.NewOutbox),
		audit.Module,
		client.Module,
		charge.Module,
		notification.Module,
		payment.Module,
		dashboard.Module,
		sweep.Module,
		server.Module,
	)
	app.Run()
}
