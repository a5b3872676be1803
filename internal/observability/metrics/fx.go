package metrics

import (
	"github.com/gabaoo/ping-pague-auto/internal/config"
	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(func(cfg config.Config) Config {
		return Config{
			ServiceName: cfg.App.Name,
			Environment: cfg.App.Environment,
		}
	}),
	fx.Provide(func(cfg Config) (*HTTPMetrics, error) {
		return NewHTTPMetrics(cfg, otel.GetMeterProvider())
	}),
)
