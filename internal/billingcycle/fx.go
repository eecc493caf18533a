package billingcycle

import (
	"github.com/jdeweedata/circletel-sub013/internal/billingcycle/repository"
	"github.com/jdeweedata/circletel-sub013/internal/billingcycle/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billingcycle.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
