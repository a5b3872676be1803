package server

import (
	"context"
	"net/http"
	"time"

	auditdomain "github.com/gabaoo/ping-pague-auto/internal/audit/domain"
	chargedomain "github.com/gabaoo/ping-pague-auto/internal/charge/domain"
	clientdomain "github.com/gabaoo/ping-pague-auto/internal/client/domain"
	"github.com/gabaoo/ping-pague-auto/internal/clock"
	"github.com/gabaoo/ping-pague-auto/internal/config"
	dashboarddomain "github.com/gabaoo/ping-pague-auto/internal/dashboard/domain"
	notificationdomain "github.com/gabaoo/ping-pague-auto/internal/notification/domain"
	"github.com/gabaoo/ping-pague-auto/internal/observability/logger"
	"github.com/gabaoo/ping-pague-auto/internal/observability/metrics"
	paymentdomain "github.com/gabaoo/ping-pague-auto/internal/payment/domain"
	"github.com/gabaoo/ping-pague-auto/internal/sweep"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module wires the HTTP surface into the fx graph.
var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Invoke(registerHTTPServer),
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	DB     *gorm.DB

	ClientSvc       clientdomain.Service
	ChargeSvc       chargedomain.Service
	NotificationSvc notificationdomain.Service
	DashboardSvc    dashboarddomain.Service
	PaymentSvc      paymentdomain.Service
	AuditSvc        auditdomain.Service
	SweepWorker     *sweep.Worker
	Clock           clock.Clock

	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

type Server struct {
	cfg config.Config
	log *zap.Logger
	db  *gorm.DB

	clientSvc       clientdomain.Service
	chargeSvc       chargedomain.Service
	notificationSvc notificationdomain.Service
	dashboardSvc    dashboarddomain.Service
	paymentSvc      paymentdomain.Service
	auditSvc        auditdomain.Service
	sweepWorker     *sweep.Worker
	clock           clock.Clock

	httpMetrics    *metrics.HTTPMetrics
	webhookLimiter *rateLimiter
}

func NewServer(p Params) *Server {
	return &Server{
		cfg:             p.Config,
		log:             p.Log.Named("server"),
		db:              p.DB,
		clientSvc:       p.ClientSvc,
		chargeSvc:       p.ChargeSvc,
		notificationSvc: p.NotificationSvc,
		dashboardSvc:    p.DashboardSvc,
		paymentSvc:      p.PaymentSvc,
		auditSvc:        p.AuditSvc,
		sweepWorker:     p.SweepWorker,
		clock:           p.Clock,
		httpMetrics:     p.HTTPMetrics,
		webhookLimiter:  newRateLimiter(60, time.Minute),
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	if s.httpMetrics != nil {
		r.Use(metrics.GinMiddleware(s.httpMetrics))
	}

	r.GET("/healthz", s.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")

	webhooks := v1.Group("/webhooks")
	webhooks.Use(s.sharedTokenGuard())
	webhooks.POST("/payment", s.PaymentWebhook)

	sweepGroup := v1.Group("/sweep")
	sweepGroup.Use(s.sharedTokenGuard())
	sweepGroup.POST("/run", s.RunSweep)

	api := v1.Group("")
	api.Use(s.requireUser())
	{
		api.POST("/clients", s.CreateClient)
		api.GET("/clients", s.ListClients)
		api.GET("/clients/:id", s.GetClientByID)
		api.PATCH("/clients/:id", s.UpdateClient)
		api.DELETE("/clients/:id", s.DeleteClient)

		api.POST("/charges", s.CreateCharge)
		api.GET("/charges", s.ListCharges)
		api.GET("/charges/:id", s.GetChargeByID)
		api.PATCH("/charges/:id", s.EditCharge)
		api.DELETE("/charges/:id", s.DeleteCharge)
		api.POST("/charges/:id/cancel", s.CancelCharge)
		api.POST("/charges/:id/confirm-payment", s.ConfirmChargePayment)
		api.GET("/charges/history", s.ChargeHistory)

		api.GET("/notifications", s.ListNotifications)
		api.GET("/dashboard", s.GetDashboard)
		api.GET("/audit-logs", s.ListAuditLogs)

		api.POST("/test/cleanup", s.TestCleanup)
	}

	return r
}

// Healthz reports liveness plus a database ping.
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.cfg.App.Version})
}

func registerHTTPServer(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: s.Router(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting http server", zap.String("addr", cfg.HTTP.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
