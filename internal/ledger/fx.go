package ledger

import (
	"github.com/jdeweedata/circletel-sub013/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(service.NewService),
)
