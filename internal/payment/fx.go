package payment

import (
	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/jdeweedata/circletel-sub013/internal/payment/adapters"
	"github.com/jdeweedata/circletel-sub013/internal/payment/adapters/netcash"
	"github.com/jdeweedata/circletel-sub013/internal/payment/adapters/ozow"
	"github.com/jdeweedata/circletel-sub013/internal/payment/adapters/payfast"
	"github.com/jdeweedata/circletel-sub013/internal/payment/adapters/stripe"
	"github.com/jdeweedata/circletel-sub013/internal/payment/repository"
	"github.com/jdeweedata/circletel-sub013/internal/payment/service"
	"go.uber.org/fx"
)

func newRegistry(cfg config.Config) *adapters.Registry {
	return adapters.NewRegistry(
		netcash.NewFactory(cfg.NetcashServiceKey),
		payfast.NewFactory(cfg.PayfastMerchantID, cfg.PayfastPassphrase),
		ozow.NewFactory(cfg.OzowSiteCode, cfg.OzowPrivateKey),
		stripe.NewFactory(cfg.StripeWebhookSecret),
	)
}

var Module = fx.Module("payment.service",
	fx.Provide(newRegistry),
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
