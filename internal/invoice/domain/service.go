package domain

import (
	"context"
	"errors"
)

// SettlementKind tells the caller which ledger branch a payment settled.
type SettlementKind string

const (
	SettlementKindBusiness  SettlementKind = "business"
	SettlementKindRecurring SettlementKind = "recurring"
)

// Settlement reports the outcome of applying a payment to an invoice.
type Settlement struct {
	Kind       SettlementKind
	InvoiceRef string
	ContractID int64
	OrderID    int64
	FullyPaid  bool
	AmountPaid int64
}

// Service applies provider payments to invoices. References are matched
// against B2B invoices first, then recurring customer invoices.
type Service interface {
	ApplyPayment(ctx context.Context, reference string, amount int64, paymentRef string) (*Settlement, error)
	ApplyRefund(ctx context.Context, reference string, amount int64) error
	MarkFailed(ctx context.Context, reference string) error
}

var (
	ErrInvalidReference = errors.New("invalid_invoice_reference")
	ErrInvalidAmount    = errors.New("invalid_invoice_amount")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
)
