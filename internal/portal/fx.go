package portal

import (
	"github.com/jdeweedata/circletel-sub013/internal/portal/repository"
	"github.com/jdeweedata/circletel-sub013/internal/portal/service"
	"go.uber.org/fx"
)

var Module = fx.Module("portal.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
