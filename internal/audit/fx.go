package audit

import (
	"github.com/jdeweedata/circletel-sub013/internal/audit/repository"
	"github.com/jdeweedata/circletel-sub013/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
