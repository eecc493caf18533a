package sla

import "go.uber.org/fx"

var Module = fx.Module("sla",
	fx.Provide(NewTracker),
)
