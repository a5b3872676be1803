package payment

import (
	"github.com/gabaoo/ping-pague-auto/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(service.NewService),
)
