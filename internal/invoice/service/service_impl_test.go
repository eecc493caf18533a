package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	invoicedomain "github.com/jdeweedata/circletel-sub013/internal/invoice/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.CustomerInvoice{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	svc := &Service{
		db:    db,
		log:   zap.NewNop(),
		clock: clock.Fixed(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)),
	}
	return svc, db, node
}

func seedBusinessInvoice(t *testing.T, db *gorm.DB, node *snowflake.Node, ref string, amount int64) *invoicedomain.Invoice {
	t.Helper()

	contractID := node.Generate()
	invoice := &invoicedomain.Invoice{
		ID:            node.Generate(),
		InvoiceRef:    ref,
		ContractID:    &contractID,
		Amount:        amount,
		Currency:      "ZAR",
		PaymentStatus: invoicedomain.PaymentStatusPending,
		Metadata:      datatypes.JSONMap{},
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}
	return invoice
}

func TestApplyPaymentAccumulatesPartialPayments(t *testing.T) {
	svc, db, node := newTestService(t)
	seedBusinessInvoice(t, db, node, "INV-2026-0100", 100000)

	first, err := svc.ApplyPayment(context.Background(), "INV-2026-0100", 60000, "TXN-A")
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}
	if first.FullyPaid {
		t.Fatal("expected first partial payment to leave the invoice open")
	}
	if first.AmountPaid != 60000 {
		t.Fatalf("expected 60000 paid, got %d", first.AmountPaid)
	}

	second, err := svc.ApplyPayment(context.Background(), "INV-2026-0100", 40000, "TXN-B")
	if err != nil {
		t.Fatalf("second payment: %v", err)
	}
	if !second.FullyPaid {
		t.Fatal("expected second payment to settle the invoice")
	}
	if second.AmountPaid != 100000 {
		t.Fatalf("expected both increments to count, got %d", second.AmountPaid)
	}

	var invoice invoicedomain.Invoice
	if err := db.Where("invoice_ref = ?", "INV-2026-0100").First(&invoice).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if invoice.AmountPaid != 100000 {
		t.Fatalf("expected amount_paid 100000, got %d", invoice.AmountPaid)
	}
	if invoice.PaymentStatus != invoicedomain.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", invoice.PaymentStatus)
	}
	if invoice.PaidAt == nil {
		t.Fatal("expected paid_at to be stamped")
	}
}

func TestApplyPaymentReportsBusinessContract(t *testing.T) {
	svc, db, node := newTestService(t)
	seeded := seedBusinessInvoice(t, db, node, "INV-2026-0101", 50000)

	settlement, err := svc.ApplyPayment(context.Background(), "INV-2026-0101", 50000, "TXN-C")
	if err != nil {
		t.Fatalf("apply payment: %v", err)
	}
	if settlement.Kind != invoicedomain.SettlementKindBusiness {
		t.Fatalf("expected business settlement, got %s", settlement.Kind)
	}
	if settlement.ContractID != int64(*seeded.ContractID) {
		t.Fatalf("expected contract %d, got %d", int64(*seeded.ContractID), settlement.ContractID)
	}
}

func TestApplyPaymentFallsBackToRecurring(t *testing.T) {
	svc, db, node := newTestService(t)

	orderID := node.Generate()
	recurring := &invoicedomain.CustomerInvoice{
		ID:            node.Generate(),
		InvoiceRef:    "RINV-2026-0001",
		OrderID:       &orderID,
		Amount:        79900,
		Currency:      "ZAR",
		PaymentStatus: invoicedomain.PaymentStatusPending,
	}
	if err := db.Create(recurring).Error; err != nil {
		t.Fatalf("seed recurring invoice: %v", err)
	}

	settlement, err := svc.ApplyPayment(context.Background(), "RINV-2026-0001", 79900, "TXN-D")
	if err != nil {
		t.Fatalf("apply payment: %v", err)
	}
	if settlement.Kind != invoicedomain.SettlementKindRecurring {
		t.Fatalf("expected recurring settlement, got %s", settlement.Kind)
	}
	if !settlement.FullyPaid {
		t.Fatal("expected exact payment to settle the invoice")
	}
	if settlement.OrderID != int64(orderID) {
		t.Fatalf("expected order %d, got %d", int64(orderID), settlement.OrderID)
	}
}

func TestApplyPaymentUnknownReference(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ApplyPayment(context.Background(), "INV-MISSING", 1000, "TXN-E")
	if !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
		t.Fatalf("expected invoice not found, got %v", err)
	}
}

func TestApplyRefundClampsAtZero(t *testing.T) {
	svc, db, node := newTestService(t)
	seedBusinessInvoice(t, db, node, "INV-2026-0102", 100000)

	if _, err := svc.ApplyPayment(context.Background(), "INV-2026-0102", 30000, "TXN-F"); err != nil {
		t.Fatalf("apply payment: %v", err)
	}
	if err := svc.ApplyRefund(context.Background(), "INV-2026-0102", 50000); err != nil {
		t.Fatalf("apply refund: %v", err)
	}

	var invoice invoicedomain.Invoice
	if err := db.Where("invoice_ref = ?", "INV-2026-0102").First(&invoice).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if invoice.AmountPaid != 0 {
		t.Fatalf("expected amount_paid clamped to 0, got %d", invoice.AmountPaid)
	}
	if invoice.PaymentStatus != invoicedomain.PaymentStatusPending {
		t.Fatalf("expected pending after refund, got %s", invoice.PaymentStatus)
	}
}

func TestMarkFailedOnlyTouchesPending(t *testing.T) {
	svc, db, node := newTestService(t)
	seedBusinessInvoice(t, db, node, "INV-2026-0103", 50000)

	if _, err := svc.ApplyPayment(context.Background(), "INV-2026-0103", 50000, "TXN-G"); err != nil {
		t.Fatalf("apply payment: %v", err)
	}

	err := svc.MarkFailed(context.Background(), "INV-2026-0103")
	if !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
		t.Fatalf("expected not found for settled invoice, got %v", err)
	}

	var invoice invoicedomain.Invoice
	if err := db.Where("invoice_ref = ?", "INV-2026-0103").First(&invoice).Error; err != nil {
		t.Fatalf("reload invoice: %v", err)
	}
	if invoice.PaymentStatus != invoicedomain.PaymentStatusPaid {
		t.Fatalf("expected paid to be untouched, got %s", invoice.PaymentStatus)
	}
}
