package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/jdeweedata/circletel-sub013/internal/activation"
	notificationdomain "github.com/jdeweedata/circletel-sub013/internal/notification/domain"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
	ricadomain "github.com/jdeweedata/circletel-sub013/internal/rica/domain"
	"go.uber.org/zap"
)

func TestPaymentWebhookDuplicateReturnsProcessedMessage(t *testing.T) {
	payments := &fakePaymentService{}
	srv := newTestServer(t, payments)
	router := gin.New()
	router.POST("/api/payments/webhook/:provider", srv.PaymentWebhook)

	body := `{"TransactionId":"NC-1","Amount":100,"TransactionAccepted":"true"}`

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook/netcash", strings.NewReader(body))
	router.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first delivery status %d", first.Code)
	}

	payments.ingestErr = paymentdomain.ErrEventAlreadyProcessed
	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/payments/webhook/netcash", strings.NewReader(body))
	router.ServeHTTP(second, req)

	if second.Code != http.StatusOK {
		t.Fatalf("duplicate delivery status %d", second.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(second.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["message"] != "Webhook already processed" {
		t.Fatalf("unexpected duplicate body: %s", second.Body.String())
	}
}

func TestPaymentWebhookFailureStillReturns200(t *testing.T) {
	payments := &fakePaymentService{ingestErr: paymentdomain.ErrInvalidSignature}
	srv := newTestServer(t, payments)
	router := gin.New()
	router.POST("/api/payments/webhook/:provider", srv.PaymentWebhook)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/webhook/netcash", strings.NewReader(`{}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("provider-facing endpoint must answer 200, got %d", rec.Code)
	}
}

func TestPaymentsHealthStates(t *testing.T) {
	cases := []struct {
		name       string
		configured map[string]bool
		status     string
		healthy    float64
	}{
		{
			name:       "healthy",
			configured: map[string]bool{"netcash": true, "ozow": true, "payfast": true, "stripe": true},
			status:     "healthy",
			healthy:    4,
		},
		{
			name:       "degraded",
			configured: map[string]bool{"netcash": true, "ozow": false, "payfast": true, "stripe": false},
			status:     "degraded",
			healthy:    2,
		},
		{
			name:       "unhealthy",
			configured: map[string]bool{"netcash": false, "ozow": false, "payfast": false, "stripe": false},
			status:     "unhealthy",
			healthy:    0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, &fakePaymentService{configured: tc.configured})
			router := gin.New()
			router.GET("/api/payments/health", srv.PaymentsHealth)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/payments/health", nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("health status %d", rec.Code)
			}
			var resp struct {
				Status  string `json:"status"`
				Summary struct {
					TotalProviders   float64 `json:"total_providers"`
					HealthyProviders float64 `json:"healthy_providers"`
				} `json:"summary"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Status != tc.status {
				t.Fatalf("expected status %q, got %q", tc.status, resp.Status)
			}
			if resp.Summary.TotalProviders != 4 {
				t.Fatalf("expected 4 providers, got %v", resp.Summary.TotalProviders)
			}
			if resp.Summary.HealthyProviders != tc.healthy {
				t.Fatalf("expected %v healthy, got %v", tc.healthy, resp.Summary.HealthyProviders)
			}
		})
	}
}

func TestCreateNotificationReturns201(t *testing.T) {
	srv := newTestServer(t, &fakePaymentService{})
	router := gin.New()
	router.POST("/api/notifications", srv.CreateNotification)

	body := `{"user_id":"admin","type":"system","title":"Maintenance window","message":"Fibre maintenance on Saturday"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/notifications", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Title   string `json:"title"`
			Message string `json:"message"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Title != "Maintenance window" || resp.Data.Message != "Fibre maintenance on Saturday" {
		t.Fatalf("persisted fields not echoed: %s", rec.Body.String())
	}
}

func TestActivateOrderRicaGateReturns400(t *testing.T) {
	srv := newTestServer(t, &fakePaymentService{})
	srv.activator = &fakeActivator{err: activation.ErrRICANotApproved}
	router := gin.New()
	router.POST("/api/orders/:orderRef/activate", srv.ActivateOrder)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/ORD-1/activate", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "RICA not approved" {
		t.Fatalf("unexpected error body: %s", rec.Body.String())
	}
}

func TestCompleteInstallationHandsOffWhenRicaApproved(t *testing.T) {
	contractID := snowflake.ID(42)
	orders := &fakeOrderService{order: &orderdomain.Order{
		OrderRef:      "ORD-2",
		ContractID:    &contractID,
		CustomerName:  "Lerato Dlamini",
		CustomerEmail: "lerato@example.co.za",
		Status:        orderdomain.OrderStatusInstallationCompleted,
	}}
	rica := &recordingRicaService{approved: true}

	srv := newTestServer(t, &fakePaymentService{})
	srv.orderSvc = orders
	srv.ricaSvc = rica
	router := gin.New()
	router.POST("/api/orders/:orderRef/complete-installation", srv.CompleteInstallation)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/ORD-2/complete-installation", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(rica.triggered) != 1 || rica.triggered[0] != "ORD-2" {
		t.Fatalf("expected one activation hand-off for ORD-2, got %v", rica.triggered)
	}
}

func TestCompleteInstallationDefersWhileRicaPending(t *testing.T) {
	contractID := snowflake.ID(43)
	orders := &fakeOrderService{order: &orderdomain.Order{
		OrderRef:   "ORD-3",
		ContractID: &contractID,
		Status:     orderdomain.OrderStatusInstallationCompleted,
	}}
	rica := &recordingRicaService{approved: false}

	srv := newTestServer(t, &fakePaymentService{})
	srv.orderSvc = orders
	srv.ricaSvc = rica
	router := gin.New()
	router.POST("/api/orders/:orderRef/complete-installation", srv.CompleteInstallation)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders/ORD-3/complete-installation", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(rica.triggered) != 0 {
		t.Fatalf("expected no hand-off while pending, got %v", rica.triggered)
	}
}

func newTestServer(t *testing.T, payments *fakePaymentService) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return &Server{
		log:             zap.NewNop(),
		paymentSvc:      payments,
		notificationSvc: &echoNotificationService{},
		activator:       &fakeActivator{},
	}
}

type fakePaymentService struct {
	ingestErr  error
	configured map[string]bool
}

func (f *fakePaymentService) IngestWebhook(context.Context, string, []byte, http.Header) error {
	return f.ingestErr
}

func (f *fakePaymentService) ProviderConfigured(provider string) bool {
	return f.configured[provider]
}

func (f *fakePaymentService) Providers() []string {
	return []string{"netcash", "ozow", "payfast", "stripe"}
}

type echoNotificationService struct{}

func (echoNotificationService) Create(_ context.Context, req notificationdomain.CreateRequest) (*notificationdomain.Notification, error) {
	return &notificationdomain.Notification{
		UserID:  req.UserID,
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}, nil
}

func (echoNotificationService) List(context.Context, notificationdomain.ListRequest) ([]*notificationdomain.Notification, error) {
	return nil, nil
}

func (echoNotificationService) MarkRead(context.Context, snowflake.ID) (*notificationdomain.Notification, error) {
	return nil, nil
}

func (echoNotificationService) Dismiss(context.Context, snowflake.ID) (*notificationdomain.Notification, error) {
	return nil, nil
}

func (echoNotificationService) AdminAlert(context.Context, string, string, map[string]any) {}

type fakeActivator struct {
	err error
}

func (f *fakeActivator) Activate(context.Context, string) (*orderdomain.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &orderdomain.Order{OrderRef: "ORD-1", Status: orderdomain.OrderStatusActive}, nil
}

type fakeOrderService struct {
	order *orderdomain.Order
}

func (f *fakeOrderService) Create(context.Context, orderdomain.CreateOrderRequest) (*orderdomain.Order, error) {
	return f.order, nil
}

func (f *fakeOrderService) GetByRef(context.Context, string) (*orderdomain.Order, error) {
	return f.order, nil
}

func (f *fakeOrderService) List(context.Context, orderdomain.ListOrderRequest) (orderdomain.ListOrderResponse, error) {
	return orderdomain.ListOrderResponse{}, nil
}

func (f *fakeOrderService) ScheduleInstallation(context.Context, string, time.Time) (*orderdomain.Order, error) {
	return f.order, nil
}

func (f *fakeOrderService) CompleteInstallation(context.Context, string) (*orderdomain.Order, error) {
	return f.order, nil
}

func (f *fakeOrderService) Transition(context.Context, string, orderdomain.OrderStatus) (*orderdomain.Order, error) {
	return f.order, nil
}

type recordingRicaService struct {
	approved  bool
	triggered []string
}

func (r *recordingRicaService) Submit(context.Context, snowflake.ID, string, string) (*ricadomain.Submission, error) {
	return nil, nil
}

func (r *recordingRicaService) UpdateStatus(context.Context, string, ricadomain.SubmissionStatus, string) (*ricadomain.Submission, error) {
	return nil, nil
}

func (r *recordingRicaService) ApprovedForContract(context.Context, snowflake.ID) (bool, error) {
	return r.approved, nil
}

func (r *recordingRicaService) TriggerActivation(_ context.Context, orderRef string) error {
	r.triggered = append(r.triggered, orderRef)
	return nil
}
