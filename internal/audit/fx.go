package audit

import (
	"github.com/gabaoo/ping-pague-auto/internal/audit/repository"
	"github.com/gabaoo/ping-pague-auto/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
