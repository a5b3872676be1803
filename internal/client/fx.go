package client

import (
	"github.com/gabaoo/ping-pague-auto/internal/client/repository"
	"github.com/gabaoo/ping-pague-auto/internal/client/service"
	"go.uber.org/fx"
)

var Module = fx.Module("client.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
