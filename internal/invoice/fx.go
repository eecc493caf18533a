package invoice

import (
	"github.com/jdeweedata/circletel-sub013/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(service.NewService),
)
