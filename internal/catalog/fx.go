package catalog

import (
	"github.com/jdeweedata/circletel-sub013/internal/catalog/repository"
	"github.com/jdeweedata/circletel-sub013/internal/catalog/service"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
