package charge

import (
	"github.com/gabaoo/ping-pague-auto/internal/charge/repository"
	"github.com/gabaoo/ping-pague-auto/internal/charge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("charge.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
