package rica

import (
	"github.com/jdeweedata/circletel-sub013/internal/rica/repository"
	"github.com/jdeweedata/circletel-sub013/internal/rica/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rica.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
