package activation

import (
	"context"
	"strings"

	auditdomain "github.com/jdeweedata/circletel-sub013/internal/audit/domain"
	billingdomain "github.com/jdeweedata/circletel-sub013/internal/billingcycle/domain"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	contractdomain "github.com/jdeweedata/circletel-sub013/internal/contract/domain"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	portaldomain "github.com/jdeweedata/circletel-sub013/internal/portal/domain"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
	"github.com/jdeweedata/circletel-sub013/internal/sla"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Orders    orderdomain.Service
	Contracts contractdomain.Service
	Rica      ricadomain.Service
	Billing   billingdomain.Service
	Portal    portaldomain.Service
	SLA       *sla.Tracker
	Outbox    *events.Outbox
	Audit     auditdomain.Service
}

type Service struct {
	log       *zap.Logger
	clock     clock.Clock
	orders    orderdomain.Service
	contracts contractdomain.Service
	rica      ricadomain.Service
	billing   billingdomain.Service
	portal    portaldomain.Service
	sla       *sla.Tracker
	outbox    *events.Outbox
	audit     auditdomain.Service
}

func NewService(p Params) Activator {
	return &Service{
		log:       p.Log.Named("activation.service"),
		clock:     p.Clock,
		orders:    p.Orders,
		contracts: p.Contracts,
		rica:      p.Rica,
		billing:   p.Billing,
		portal:    p.Portal,
		sla:       p.SLA,
		outbox:    p.Outbox,
		audit:     p.Audit,
	}
}

// Activate runs the go-live sequence: order status, contract status,
// billing cycle, portal account, SLA stamp. The sequence is deliberately
// not transactional. Only the order status transition is fatal; later
// failures log and continue, leaving a recoverable intermediate state for
// manual remediation.
func (s *Service) Activate(ctx context.Context, orderRef string) (*orderdomain.Order, error) {
	order, err := s.orders.GetByRef(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	if order.ContractID == nil {
		return nil, ErrNoContract
	}
	approved, err := s.rica.ApprovedForContract(ctx, *order.ContractID)
	if err != nil {
		return nil, err
	}
	if !approved {
		return nil, ErrRICANotApproved
	}

	order, err = s.orders.Transition(ctx, orderRef, orderdomain.OrderStatusActive)
	if err != nil {
		return nil, err
	}

	contractID := order.ContractID.Int64()
	if err := s.contracts.UpdateStatus(ctx, contractID, contractdomain.ContractStatusActive); err != nil {
		s.log.Error("contract status update failed",
			zap.String("order_ref", orderRef),
			zap.Int64("contract_id", contractID),
			zap.Error(err),
		)
	}

	if _, err := s.billing.Open(ctx, billingdomain.OpenCycleRequest{
		ContractID:      *order.ContractID,
		OrderID:         &order.ID,
		PeriodStart:     s.clock.Now(),
		RecurringAmount: order.MonthlyAmount,
		Currency:        order.Currency,
	}); err != nil {
		s.log.Error("billing cycle open failed",
			zap.String("order_ref", orderRef),
			zap.Error(err),
		)
	}

	if _, err := s.portal.EnsureAccount(ctx, portaldomain.EnsureAccountRequest{
		OrderID:   &order.ID,
		Email:     order.CustomerEmail,
		FirstName: firstName(order.CustomerName),
		LastName:  lastName(order.CustomerName),
	}); err != nil {
		s.log.Error("portal account provisioning failed",
			zap.String("order_ref", orderRef),
			zap.String("email", order.CustomerEmail),
			zap.Error(err),
		)
	}

	if err := s.sla.RecordMilestone(ctx, order.ID, sla.MilestoneActivated); err != nil {
		s.log.Error("sla milestone failed",
			zap.String("order_ref", orderRef),
			zap.Error(err),
		)
	}

	if err := s.outbox.Publish(ctx, events.Event{
		Type: events.EventOrderActivated,
		Payload: events.OrderPayload{
			OrderRef:      order.OrderRef,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			PackageName:   order.PackageName,
		}.ToMap(),
		DedupeKey: events.EventOrderActivated + ":" + order.OrderRef,
	}); err != nil {
		s.log.Error("activation event publish failed",
			zap.String("order_ref", orderRef),
			zap.Error(err),
		)
	}

	targetID := order.OrderRef
	if err := s.audit.AuditLog(ctx, auditdomain.ActorTypeSystem, "activation",
		"order.activated", "order", &targetID,
		map[string]any{"contract_id": contractID}); err != nil {
		s.log.Error("audit write failed", zap.Error(err))
	}

	s.log.Info("order activated", zap.String("order_ref", order.OrderRef))
	return order, nil
}

func firstName(full string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(full), " ")
	return first
}

func lastName(full string) string {
	_, rest, _ := strings.Cut(strings.TrimSpace(full), " ")
	return rest
}
