package observability

import (
	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/jdeweedata/circletel-sub013/internal/observability/logger"
	"github.com/jdeweedata/circletel-sub013/internal/observability/metrics"
	"github.com/jdeweedata/circletel-sub013/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(logger.NewLogger),
	fx.Provide(tracing.NewProvider),
	fx.Provide(func(cfg config.Config) (*metrics.HTTPMetrics, error) {
		return metrics.NewHTTPMetrics(cfg.ServiceName)
	}),
	// Force tracer provider construction so the exporter and propagators
	// are installed even though nothing injects it directly.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
