package activation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/jdeweedata/circletel-sub013/internal/audit/domain"
	billingdomain "github.com/jdeweedata/circletel-sub013/internal/billingcycle/domain"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	contractdomain "github.com/jdeweedata/circletel-sub013/internal/contract/domain"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	portaldomain "github.com/jdeweedata/circletel-sub013/internal/portal/domain"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
	"github.com/jdeweedata/circletel-sub013/internal/sla"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestActivateBlockedWhenRicaPending(t *testing.T) {
	svc, fakes := setupActivator(t)
	fakes.rica.approved = false

	_, err := svc.Activate(context.Background(), "ORD-1001")
	if !errors.Is(err, ErrRICANotApproved) {
		t.Fatalf("expected rica gate error, got %v", err)
	}
	if fakes.orders.transitioned != 0 {
		t.Fatal("order must not transition when rica is pending")
	}
}

func TestActivateRunsFullSequence(t *testing.T) {
	svc, fakes := setupActivator(t)
	fakes.rica.approved = true

	order, err := svc.Activate(context.Background(), "ORD-1001")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if order.Status != orderdomain.OrderStatusActive {
		t.Fatalf("expected active order, got %s", order.Status)
	}
	if fakes.contracts.updated != 1 {
		t.Fatalf("expected contract update, got %d", fakes.contracts.updated)
	}
	if fakes.billing.opened != 1 {
		t.Fatalf("expected billing cycle open, got %d", fakes.billing.opened)
	}
	if fakes.portal.ensured != 1 {
		t.Fatalf("expected portal account provisioning, got %d", fakes.portal.ensured)
	}
}

func TestActivateContinuesPastBillingFailure(t *testing.T) {
	svc, fakes := setupActivator(t)
	fakes.rica.approved = true
	fakes.billing.err = errors.New("billing down")

	if _, err := svc.Activate(context.Background(), "ORD-1001"); err != nil {
		t.Fatalf("billing failure must not fail activation: %v", err)
	}
	if fakes.portal.ensured != 1 {
		t.Fatal("portal provisioning must still run after billing failure")
	}
}

func TestActivateFatalOnTransitionFailure(t *testing.T) {
	svc, fakes := setupActivator(t)
	fakes.rica.approved = true
	fakes.orders.transitionErr = orderdomain.ErrInvalidTransition

	_, err := svc.Activate(context.Background(), "ORD-1001")
	if !errors.Is(err, orderdomain.ErrInvalidTransition) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if fakes.contracts.updated != 0 {
		t.Fatal("later steps must not run when the order transition fails")
	}
}

type activatorFakes struct {
	orders    *fakeOrderService
	contracts *fakeContractService
	rica      *fakeRicaService
	billing   *fakeBillingService
	portal    *fakePortalService
}

func setupActivator(t *testing.T) (Activator, *activatorFakes) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&sla.Record{}, &events.OutboxRow{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	contractID := snowflake.ID(77)
	fakes := &activatorFakes{
		orders: &fakeOrderService{order: &orderdomain.Order{
			ID:            node.Generate(),
			OrderRef:      "ORD-1001",
			ContractID:    &contractID,
			CustomerName:  "Lerato Dlamini",
			CustomerEmail: "lerato@example.com",
			PackageName:   "Fibre 50/25",
			MonthlyAmount: 69900,
			Currency:      "ZAR",
			Status:        orderdomain.OrderStatusInstallationCompleted,
		}},
		contracts: &fakeContractService{},
		rica:      &fakeRicaService{},
		billing:   &fakeBillingService{},
		portal:    &fakePortalService{},
	}

	fixed := clock.Fixed(time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC))
	svc := NewService(Params{
		Log:       zap.NewNop(),
		Clock:     fixed,
		Orders:    fakes.orders,
		Contracts: fakes.contracts,
		Rica:      fakes.rica,
		Billing:   fakes.billing,
		Portal:    fakes.portal,
		SLA: sla.NewTracker(sla.Params{
			DB:    db,
			Log:   zap.NewNop(),
			GenID: node,
			Clock: fixed,
		}),
		Outbox: events.NewOutbox(db, node),
		Audit:  &fakeAuditService{},
	})
	return svc, fakes
}

type fakeOrderService struct {
	order         *orderdomain.Order
	transitioned  int
	transitionErr error
}

func (f *fakeOrderService) Create(context.Context, orderdomain.CreateOrderRequest) (*orderdomain.Order, error) {
	return nil, orderdomain.ErrOrderExists
}

func (f *fakeOrderService) GetByRef(_ context.Context, orderRef string) (*orderdomain.Order, error) {
	if f.order == nil || f.order.OrderRef != orderRef {
		return nil, orderdomain.ErrOrderNotFound
	}
	return f.order, nil
}

func (f *fakeOrderService) List(context.Context, orderdomain.ListOrderRequest) (orderdomain.ListOrderResponse, error) {
	return orderdomain.ListOrderResponse{}, nil
}

func (f *fakeOrderService) ScheduleInstallation(context.Context, string, time.Time) (*orderdomain.Order, error) {
	return nil, orderdomain.ErrOrderNotFound
}

func (f *fakeOrderService) CompleteInstallation(context.Context, string) (*orderdomain.Order, error) {
	return nil, orderdomain.ErrOrderNotFound
}

func (f *fakeOrderService) Transition(_ context.Context, orderRef string, to orderdomain.OrderStatus) (*orderdomain.Order, error) {
	if f.transitionErr != nil {
		return nil, f.transitionErr
	}
	f.transitioned++
	f.order.Status = to
	return f.order, nil
}

type fakeContractService struct {
	updated int
}

func (f *fakeContractService) GetByID(context.Context, int64) (*contractdomain.Contract, error) {
	return nil, contractdomain.ErrContractNotFound
}

func (f *fakeContractService) GetQuote(context.Context, int64) (*contractdomain.Quote, error) {
	return nil, contractdomain.ErrQuoteNotFound
}

func (f *fakeContractService) MaterializeOrder(context.Context, int64, string) (*orderdomain.Order, error) {
	return nil, contractdomain.ErrContractNotFound
}

func (f *fakeContractService) UpdateStatus(context.Context, int64, contractdomain.ContractStatus) error {
	f.updated++
	return nil
}

type fakeRicaService struct {
	approved bool
}

func (f *fakeRicaService) Submit(context.Context, snowflake.ID, string, string) (*ricadomain.Submission, error) {
	return nil, nil
}

func (f *fakeRicaService) UpdateStatus(context.Context, string, ricadomain.SubmissionStatus, string) (*ricadomain.Submission, error) {
	return nil, nil
}

func (f *fakeRicaService) ApprovedForContract(context.Context, snowflake.ID) (bool, error) {
	return f.approved, nil
}

func (f *fakeRicaService) TriggerActivation(context.Context, string) error { return nil }

type fakeBillingService struct {
	opened int
	err    error
}

func (f *fakeBillingService) Open(context.Context, billingdomain.OpenCycleRequest) (*billingdomain.BillingCycle, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.opened++
	return &billingdomain.BillingCycle{}, nil
}

func (f *fakeBillingService) Active(context.Context, snowflake.ID) (*billingdomain.BillingCycle, error) {
	return nil, billingdomain.ErrCycleNotFound
}

func (f *fakeBillingService) CloseActive(context.Context, snowflake.ID) error { return nil }

type fakePortalService struct {
	ensured int
}

func (f *fakePortalService) EnsureAccount(context.Context, portaldomain.EnsureAccountRequest) (*portaldomain.EnsureAccountResult, error) {
	f.ensured++
	return &portaldomain.EnsureAccountResult{Created: true}, nil
}

func (f *fakePortalService) FindByEmail(context.Context, string) (*portaldomain.PortalAccount, error) {
	return nil, portaldomain.ErrAccountNotFound
}

func (f *fakePortalService) VerifyPassword(context.Context, string, string) (*portaldomain.PortalAccount, error) {
	return nil, portaldomain.ErrAccountNotFound
}

func (f *fakePortalService) ResetPassword(context.Context, string) (string, error) {
	return "", portaldomain.ErrAccountNotFound
}

func (f *fakePortalService) Suspend(context.Context, string) error    { return nil }
func (f *fakePortalService) Reactivate(context.Context, string) error { return nil }

type fakeAuditService struct{}

func (fakeAuditService) AuditLog(context.Context, auditdomain.ActorType, string, string, string, *string, map[string]any) error {
	return nil
}

func (fakeAuditService) List(context.Context, auditdomain.ListFilter) ([]*auditdomain.AuditLog, error) {
	return nil, nil
}
