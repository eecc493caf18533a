package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/activation"
	"github.com/jdeweedata/circletel-sub013/internal/audit"
	"github.com/jdeweedata/circletel-sub013/internal/billingcycle"
	"github.com/jdeweedata/circletel-sub013/internal/catalog"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	"github.com/jdeweedata/circletel-sub013/internal/config"
	"github.com/jdeweedata/circletel-sub013/internal/contract"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	"github.com/jdeweedata/circletel-sub013/internal/invoice"
	"github.com/jdeweedata/circletel-sub013/internal/ledger"
	"github.com/jdeweedata/circletel-sub013/internal/mail"
	"github.com/jdeweedata/circletel-sub013/internal/mandate"
	"github.com/jdeweedata/circletel-sub013/internal/migration"
	"github.com/jdeweedata/circletel-sub013/internal/notification"
	"github.com/jdeweedata/circletel-sub013/internal/observability"
	"github.com/jdeweedata/circletel-sub013/internal/order"
	"github.com/jdeweedata/circletel-sub013/internal/payment"
	"github.com/jdeweedata/circletel-sub013/internal/portal"
	"github.com/jdeweedata/circletel-sub013/internal/rica"
	"github.com/jdeweedata/circletel-sub013/internal/server"
	"github.com/jdeweedata/circletel-sub013/internal/sla"
	"github.com/jdeweedata/circletel-sub013/internal/worker"
	"github.com/jdeweedata/circletel-sub013/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		clock.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return migration.RunMigrations(sqlDB)
		}),
		events.Module,
		mail.Module,
		audit.Module,
		ledger.Module,
		contract.Module,
		invoice.Module,
		order.Module,
		catalog.Module,
		rica.Module,
		billingcycle.Module,
		portal.Module,
		notification.Module,
		sla.Module,
		mandate.Module,
		payment.Module,
		activation.Module,
		worker.Module,
		server.Module,
	)
	app.Run()
}
