package sweep

import (
	"context"

	appconfig "github.com/gabaoo/ping-pague-auto/internal/config"
	"github.com/gabaoo/ping-pague-auto/internal/observability/metrics"
	"go.uber.org/fx"
)

var Module = fx.Module("sweep",
	fx.Provide(func(cfg appconfig.Config) Config {
		return Config{
			Enabled:          cfg.Sweep.Enabled,
			BatchSize:        cfg.Sweep.BatchSize,
			PollInterval:     cfg.Sweep.PollInterval,
			ReminderLeadDays: cfg.Sweep.ReminderLeadDays,
		}
	}),
	fx.Provide(func(cfg appconfig.Config) *metrics.SweepMetrics {
		return metrics.SweepWithConfig(metrics.Config{
			ServiceName: cfg.App.Name,
			Environment: cfg.App.Environment,
		})
	}),
	fx.Provide(NewWorker),
	fx.Invoke(runWorker),
)

func runWorker(lc fx.Lifecycle, worker *Worker, cfg Config) {
	if !cfg.Enabled {
		return
	}
	// The OnStart context only covers startup, so the loop gets its own.
	runCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go worker.RunForever(runCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
}
