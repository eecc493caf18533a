package order

import (
	"github.com/jdeweedata/circletel-sub013/internal/order/repository"
	"github.com/jdeweedata/circletel-sub013/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
