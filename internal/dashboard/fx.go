package dashboard

import (
	"github.com/gabaoo/ping-pague-auto/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(service.NewService),
)
