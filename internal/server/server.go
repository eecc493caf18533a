package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jdeweedata/circletel-sub013/internal/activation"
	auditdomain "github.com/jdeweedata/circletel-sub013/internal/audit/domain"
	billingdomain "github.com/jdeweedata/circletel-sub013/internal/billingcycle/domain"
	catalogdomain "github.com/jdeweedata/circletel-sub013/internal/catalog/domain"
	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	mandatedomain "github.com/jdeweedata/circletel-sub013/internal/mandate/domain"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
	"github.com/jdeweedata/circletel-sub013/internal/observability/logger"
	"github.com/jdeweedata/circletel-sub013/internal/observability/metrics"
	"github.com/jdeweedata/circletel-sub013/internal/observability/tracing"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
	portaldomain "github.com/jdeweedata/circletel-sub013/internal/portal/domain"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
	"github.com/jdeweedata/circletel-sub013/internal/sla"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config          config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	Metrics         *metrics.HTTPMetrics
	PaymentSvc      paymentdomain.Service
	MandateSvc      mandatedomain.Service
	OrderSvc        orderdomain.Service
	Activator       activation.Activator
	NotificationSvc notificationdomain.Service
	PortalSvc       portaldomain.Service
	RicaSvc         ricadomain.Service
	AuditSvc        auditdomain.Service
	CatalogSvc      catalogdomain.Service
	BillingSvc      billingdomain.Service
	Sla             *sla.Tracker
	Outbox          *events.Outbox
}

type Server struct {
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	metrics         *metrics.HTTPMetrics
	paymentSvc      paymentdomain.Service
	mandateSvc      mandatedomain.Service
	orderSvc        orderdomain.Service
	activator       activation.Activator
	notificationSvc notificationdomain.Service
	portalSvc       portaldomain.Service
	ricaSvc         ricadomain.Service
	auditSvc        auditdomain.Service
	catalogSvc      catalogdomain.Service
	billingSvc      billingdomain.Service
	sla             *sla.Tracker
	outbox          *events.Outbox
	webhookLimiter  *rateLimiter
}

func NewServer(p Params) *Server {
	limit := p.Config.WebhookRateLimit
	if limit <= 0 {
		limit = 120
	}
	window := p.Config.WebhookRateLimitWindow
	return &Server{
		cfg:             p.Config,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		metrics:         p.Metrics,
		paymentSvc:      p.PaymentSvc,
		mandateSvc:      p.MandateSvc,
		orderSvc:        p.OrderSvc,
		activator:       p.Activator,
		notificationSvc: p.NotificationSvc,
		portalSvc:       p.PortalSvc,
		ricaSvc:         p.RicaSvc,
		auditSvc:        p.AuditSvc,
		catalogSvc:      p.CatalogSvc,
		billingSvc:      p.BillingSvc,
		sla:             p.Sla,
		outbox:          p.Outbox,
		webhookLimiter:  newRateLimiter(limit, window),
	}
}

// NewEngine builds the gin engine with the shared middleware chain.
func NewEngine(cfg config.Config, m *metrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz"},
	}))
	engine.Use(tracing.GinMiddleware())
	engine.Use(metrics.GinMiddleware(m))
	return engine
}

// RegisterAPIRoutes mounts the public webhook endpoints and the
// key-protected admin API.
func (s *Server) RegisterAPIRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Healthz)

	api := engine.Group("/api")

	payments := api.Group("/payments")
	payments.Use(s.WebhookRateLimit())
	payments.POST("/webhook/:provider", s.PaymentWebhook)
	payments.POST("/emandate/notify", s.EmandateNotify)
	payments.GET("/health", s.PaymentsHealth)

	api.GET("/products", s.ListProducts)
	api.GET("/products/:packageCode", s.GetProduct)

	admin := api.Group("")
	admin.Use(s.APIKeyRequired())

	admin.POST("/orders", s.CreateOrder)
	admin.GET("/orders", s.ListOrders)
	admin.GET("/orders/:orderRef", s.GetOrder)
	admin.POST("/orders/:orderRef/schedule-installation", s.ScheduleInstallation)
	admin.POST("/orders/:orderRef/complete-installation", s.CompleteInstallation)
	admin.POST("/orders/:orderRef/activate", s.ActivateOrder)
	admin.POST("/orders/:orderRef/cancel", s.CancelOrder)
	admin.POST("/orders/:orderRef/suspend", s.SuspendOrder)

	admin.POST("/notifications", s.CreateNotification)
	admin.GET("/notifications", s.ListNotifications)
	admin.POST("/notifications/:id/read", s.MarkNotificationRead)
	admin.POST("/notifications/:id/dismiss", s.DismissNotification)

	admin.POST("/rica/submissions", s.SubmitRica)
	admin.POST("/rica/submissions/:trackingID/status", s.UpdateRicaStatus)

	admin.GET("/portal/accounts/:email", s.GetPortalAccount)
	admin.POST("/portal/accounts/:email/reset-password", s.ResetPortalPassword)
	admin.POST("/portal/accounts/:email/suspend", s.SuspendPortalAccount)
	admin.POST("/portal/accounts/:email/reactivate", s.ReactivatePortalAccount)
}

// Healthz reports process liveness and database reachability.
func (s *Server) Healthz(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine, s *Server) {
	s.RegisterAPIRoutes(engine)

	srv := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      engine,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPListenAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTPShutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
