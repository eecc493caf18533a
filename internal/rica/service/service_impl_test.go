package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	contractdomain "github.com/jdeweedata/circletel-sub013/internal/contract/domain"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
	"github.com/jdeweedata/circletel-sub013/internal/rica/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testInternalKey = "svc-internal-key"

func newTestService(t *testing.T, baseURL string) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&ricadomain.Submission{},
		&contractdomain.Contract{},
		&orderdomain.Order{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := &Service{
		db:      db,
		log:     zap.NewNop(),
		genID:   node,
		clock:   clock.Fixed(time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)),
		repo:    repository.Provide(),
		baseURL: baseURL,
		apiKey:  testInternalKey,
		client:  &http.Client{Timeout: 2 * time.Second},
	}
	return svc, db, node
}

type activationStub struct {
	calls  atomic.Int64
	auth   atomic.Value
	path   atomic.Value
	status int
}

func newActivationStub(status int) (*activationStub, *httptest.Server) {
	stub := &activationStub{status: status}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls.Add(1)
		stub.auth.Store(r.Header.Get("Authorization"))
		stub.path.Store(r.URL.Path)
		w.WriteHeader(stub.status)
	}))
	return stub, server
}

func TestTriggerActivationSendsBearerKey(t *testing.T) {
	stub, server := newActivationStub(http.StatusOK)
	defer server.Close()

	svc, _, _ := newTestService(t, server.URL)

	if err := svc.TriggerActivation(context.Background(), "ORD-2026-0007"); err != nil {
		t.Fatalf("trigger activation: %v", err)
	}
	if got := stub.calls.Load(); got != 1 {
		t.Fatalf("expected 1 call, got %d", got)
	}
	if got := stub.auth.Load(); got != "Bearer "+testInternalKey {
		t.Fatalf("expected bearer key, got %q", got)
	}
	if got := stub.path.Load(); got != "/api/orders/ORD-2026-0007/activate" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestTriggerActivationSurfacesRejection(t *testing.T) {
	_, server := newActivationStub(http.StatusBadRequest)
	defer server.Close()

	svc, _, _ := newTestService(t, server.URL)

	if err := svc.TriggerActivation(context.Background(), "ORD-2026-0008"); err == nil {
		t.Fatal("expected error for rejected activation")
	}
}

func TestTriggerActivationSkipsWhenUnconfigured(t *testing.T) {
	stub, server := newActivationStub(http.StatusOK)
	defer server.Close()

	svc, _, _ := newTestService(t, "")
	if err := svc.TriggerActivation(context.Background(), "ORD-2026-0009"); err != nil {
		t.Fatalf("expected skip without base url, got %v", err)
	}

	svc, _, _ = newTestService(t, server.URL)
	svc.apiKey = ""
	if err := svc.TriggerActivation(context.Background(), "ORD-2026-0010"); err != nil {
		t.Fatalf("expected skip without api key, got %v", err)
	}
	if got := stub.calls.Load(); got != 0 {
		t.Fatalf("expected no calls when unconfigured, got %d", got)
	}
}

func TestApprovedForContract(t *testing.T) {
	svc, _, node := newTestService(t, "")
	contractID := node.Generate()

	if _, err := svc.Submit(context.Background(), contractID, "RICA-TRK-1", "8001015009087"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	approved, err := svc.ApprovedForContract(context.Background(), contractID)
	if err != nil {
		t.Fatalf("approved check: %v", err)
	}
	if approved {
		t.Fatal("pending submission must not count as approved")
	}

	if _, err := svc.UpdateStatus(context.Background(), "RICA-TRK-1", ricadomain.StatusApproved, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}

	approved, err = svc.ApprovedForContract(context.Background(), contractID)
	if err != nil {
		t.Fatalf("approved check: %v", err)
	}
	if !approved {
		t.Fatal("approved submission must open the gate")
	}
}

func TestApprovalTriggersActivationForInstalledOrder(t *testing.T) {
	stub, server := newActivationStub(http.StatusOK)
	defer server.Close()

	svc, db, node := newTestService(t, server.URL)

	order := &orderdomain.Order{
		ID:            node.Generate(),
		OrderRef:      "ORD-2026-0042",
		CustomerName:  "Sipho Ndlovu",
		CustomerEmail: "sipho@example.co.za",
		PackageCode:   "FIBRE-100",
		MonthlyAmount: 79900,
		Currency:      "ZAR",
		Status:        orderdomain.OrderStatusInstallationCompleted,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	contract := &contractdomain.Contract{
		ID:      node.Generate(),
		QuoteID: node.Generate(),
		OrderID: &order.ID,
		Status:  contractdomain.ContractStatusPaid,
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	if _, err := svc.Submit(context.Background(), contract.ID, "RICA-TRK-2", ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), "RICA-TRK-2", ricadomain.StatusApproved, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}

	if got := stub.calls.Load(); got != 1 {
		t.Fatalf("expected approval to fire the activation hand-off, got %d calls", got)
	}
	if got := stub.path.Load(); got != "/api/orders/ORD-2026-0042/activate" {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestApprovalSkipsOrderStillAwaitingInstallation(t *testing.T) {
	stub, server := newActivationStub(http.StatusOK)
	defer server.Close()

	svc, db, node := newTestService(t, server.URL)

	order := &orderdomain.Order{
		ID:            node.Generate(),
		OrderRef:      "ORD-2026-0043",
		CustomerName:  "Sipho Ndlovu",
		CustomerEmail: "sipho@example.co.za",
		PackageCode:   "FIBRE-100",
		MonthlyAmount: 79900,
		Currency:      "ZAR",
		Status:        orderdomain.OrderStatusPaymentReceived,
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	contract := &contractdomain.Contract{
		ID:      node.Generate(),
		QuoteID: node.Generate(),
		OrderID: &order.ID,
		Status:  contractdomain.ContractStatusPaid,
	}
	if err := db.Create(contract).Error; err != nil {
		t.Fatalf("seed contract: %v", err)
	}

	if _, err := svc.Submit(context.Background(), contract.ID, "RICA-TRK-3", ""); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), "RICA-TRK-3", ricadomain.StatusApproved, ""); err != nil {
		t.Fatalf("update status: %v", err)
	}

	if got := stub.calls.Load(); got != 0 {
		t.Fatalf("expected no hand-off before installation completes, got %d calls", got)
	}
}
