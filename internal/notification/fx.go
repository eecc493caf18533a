package notification

import (
	"github.com/jdeweedata/circletel-sub013/internal/notification/repository"
	"github.com/jdeweedata/circletel-sub013/internal/notification/service"
	"go.uber.org/fx"
)

var Module = fx.Module("notification.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
