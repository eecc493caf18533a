package mandate

import (
	"github.com/jdeweedata/circletel-sub013/internal/mandate/repository"
	"github.com/jdeweedata/circletel-sub013/internal/mandate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mandate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
