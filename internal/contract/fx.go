package contract

import (
	"github.com/jdeweedata/circletel-sub013/internal/contract/service"
	"go.uber.org/fx"
)

var Module = fx.Module("contract.service",
	fx.Provide(service.NewService),
)
