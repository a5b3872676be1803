package tracing

import (
	"github.com/gabaoo/ping-pague-auto/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("tracing",
	fx.Provide(func(cfg config.Config) Config {
		return Config{
			Enabled:          cfg.Tracing.Enabled,
			ServiceName:      cfg.App.Name,
			ServiceVersion:   cfg.App.Version,
			Environment:      cfg.App.Environment,
			ExporterEndpoint: cfg.Tracing.ExporterEndpoint,
			ExporterProtocol: cfg.Tracing.ExporterProtocol,
			SamplingRatio:    cfg.Tracing.SamplingRatio,
		}
	}),
	fx.Invoke(func(lc fx.Lifecycle, cfg Config, log *zap.Logger) error {
		_, err := NewProvider(lc, cfg, log)
		return err
	}),
)
