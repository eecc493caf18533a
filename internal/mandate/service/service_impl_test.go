package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	"github.com/jdeweedata/circletel-sub013/internal/events"
	mandatedomain "github.com/jdeweedata/circletel-sub013/internal/mandate/domain"
	"github.com/jdeweedata/circletel-sub013/internal/mandate/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, serviceKey string) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&mandatedomain.EmandateRequest{},
		&mandatedomain.PaymentMethod{},
		&events.OutboxRow{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	return &Service{
		db:         db,
		log:        zap.NewNop(),
		genID:      node,
		clock:      clock.Fixed(time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)),
		repo:       repository.Provide(),
		outbox:     events.NewOutbox(db, node),
		serviceKey: serviceKey,
	}, db
}

func TestHandleNotifySignedCreatesMandateAndPaymentMethod(t *testing.T) {
	svc, db := newTestService(t, "")

	form := url.Values{}
	form.Set("MandateId", "MD-1001")
	form.Set("Status", "Accepted")
	form.Set("Extra1", "ORD-2026-001")
	form.Set("Extra2", "CUST-77")
	form.Set("Extra3", "42")
	form.Set("BankName", "FNB")
	form.Set("AccountNumber", "62001234")

	result, err := svc.HandleNotify(context.Background(), form, "")
	if err != nil {
		t.Fatalf("HandleNotify: %v", err)
	}
	if !result.Created {
		t.Fatal("expected mandate to be created")
	}
	if result.Status != mandatedomain.StatusSigned {
		t.Fatalf("expected signed, got %s", result.Status)
	}

	mandate, err := svc.GetByRef(context.Background(), "MD-1001")
	if err != nil {
		t.Fatalf("GetByRef: %v", err)
	}
	if mandate.OrderRef == nil || *mandate.OrderRef != "ORD-2026-001" {
		t.Fatalf("order ref not mapped from Extra1: %+v", mandate.OrderRef)
	}
	if mandate.CustomerID == nil || *mandate.CustomerID != "CUST-77" {
		t.Fatalf("customer id not mapped from Extra2: %+v", mandate.CustomerID)
	}
	if mandate.ContractID == nil || *mandate.ContractID != snowflake.ID(42) {
		t.Fatalf("contract id not mapped from Extra3: %+v", mandate.ContractID)
	}
	if mandate.SignedAt == nil {
		t.Fatal("signed mandate must carry a signed_at timestamp")
	}

	var methods []mandatedomain.PaymentMethod
	if err := db.Find(&methods).Error; err != nil {
		t.Fatalf("load payment methods: %v", err)
	}
	if len(methods) != 1 {
		t.Fatalf("expected one payment method, got %d", len(methods))
	}
	if methods[0].AccountLast4 == nil || *methods[0].AccountLast4 != "1234" {
		t.Fatalf("expected account last4 1234, got %+v", methods[0].AccountLast4)
	}

	var outbox []events.OutboxRow
	if err := db.Find(&outbox).Error; err != nil {
		t.Fatalf("load outbox: %v", err)
	}
	if len(outbox) != 1 || outbox[0].EventType != events.EventMandateSigned {
		t.Fatalf("expected one mandate.signed event, got %+v", outbox)
	}
}

func TestHandleNotifyDeclinedUsesRequestTraceFallback(t *testing.T) {
	svc, db := newTestService(t, "")

	form := url.Values{}
	form.Set("RequestTrace", "RT-555")
	form.Set("Status", "Rejected")
	form.Set("Reason", "insufficient funds history")

	result, err := svc.HandleNotify(context.Background(), form, "")
	if err != nil {
		t.Fatalf("HandleNotify: %v", err)
	}
	if result.MandateRef != "RT-555" {
		t.Fatalf("expected RequestTrace fallback ref, got %s", result.MandateRef)
	}
	if result.Status != mandatedomain.StatusDeclined {
		t.Fatalf("expected declined, got %s", result.Status)
	}

	mandate, err := svc.GetByRef(context.Background(), "RT-555")
	if err != nil {
		t.Fatalf("GetByRef: %v", err)
	}
	if mandate.Reason == nil || *mandate.Reason != "insufficient funds history" {
		t.Fatalf("reason not captured: %+v", mandate.Reason)
	}

	var outbox []events.OutboxRow
	if err := db.Find(&outbox).Error; err != nil {
		t.Fatalf("load outbox: %v", err)
	}
	if len(outbox) != 1 || outbox[0].EventType != events.EventMandateDeclined {
		t.Fatalf("expected one mandate.declined event, got %+v", outbox)
	}
}

func TestHandleNotifyRedeliveryUpdatesInPlace(t *testing.T) {
	svc, db := newTestService(t, "")

	form := url.Values{}
	form.Set("MandateId", "MD-2002")
	form.Set("Status", "Sent")

	if _, err := svc.HandleNotify(context.Background(), form, ""); err != nil {
		t.Fatalf("first notify: %v", err)
	}

	form.Set("Status", "Accepted")
	result, err := svc.HandleNotify(context.Background(), form, "")
	if err != nil {
		t.Fatalf("second notify: %v", err)
	}
	if result.Created {
		t.Fatal("redelivery must not create a second row")
	}
	if result.Status != mandatedomain.StatusSigned {
		t.Fatalf("expected signed after update, got %s", result.Status)
	}

	var count int64
	if err := db.Model(&mandatedomain.EmandateRequest{}).Count(&count).Error; err != nil {
		t.Fatalf("count mandates: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single mandate row, got %d", count)
	}
}

func TestHandleNotifyServiceKeyMismatch(t *testing.T) {
	svc, _ := newTestService(t, "secret-key")

	form := url.Values{}
	form.Set("MandateId", "MD-3003")

	if _, err := svc.HandleNotify(context.Background(), form, "wrong-key"); err != mandatedomain.ErrInvalidNotify {
		t.Fatalf("expected ErrInvalidNotify, got %v", err)
	}

	// The form path carries no signature, so an absent key is accepted.
	if _, err := svc.HandleNotify(context.Background(), form, ""); err != nil {
		t.Fatalf("missing key should be accepted: %v", err)
	}
}

func TestHandleNotifyMissingRef(t *testing.T) {
	svc, _ := newTestService(t, "")

	if _, err := svc.HandleNotify(context.Background(), url.Values{}, ""); err != mandatedomain.ErrInvalidMandateRef {
		t.Fatalf("expected ErrInvalidMandateRef, got %v", err)
	}
}

func TestMapNotifyStatus(t *testing.T) {
	cases := map[string]mandatedomain.MandateStatus{
		"Accepted":  mandatedomain.StatusSigned,
		"signed":    mandatedomain.StatusSigned,
		"Declined":  mandatedomain.StatusDeclined,
		"cancelled": mandatedomain.StatusDeclined,
		"":          mandatedomain.StatusPending,
		"Sent":      mandatedomain.StatusPending,
		"garbled":   mandatedomain.StatusFailed,
	}
	for raw, want := range cases {
		if got := mapNotifyStatus(raw); got != want {
			t.Errorf("mapNotifyStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}
