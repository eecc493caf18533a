package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jdeweedata/circletel-sub013/internal/clock"
	invoicedomain "github.com/jdeweedata/circletel-sub013/internal/invoice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		clock: p.Clock,
	}
}

func (s *Service) ApplyPayment(ctx context.Context, reference string, amount int64, paymentRef string) (*invoicedomain.Settlement, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, invoicedomain.ErrInvalidReference
	}
	if amount <= 0 {
		return nil, invoicedomain.ErrInvalidAmount
	}

	var settlement *invoicedomain.Settlement
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		settlement, err = s.settleBusiness(ctx, tx, reference, amount, paymentRef)
		if err != nil && !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
			return err
		}
		if settlement != nil {
			return nil
		}
		settlement, err = s.settleRecurring(ctx, tx, reference, amount, paymentRef)
		return err
	})
	if err != nil {
		return nil, err
	}
	return settlement, nil
}

// settleBusiness increments amount_paid in SQL so two distinct deliveries
// landing together both count; a read-then-write here would lose one.
func (s *Service) settleBusiness(ctx context.Context, tx *gorm.DB, reference string, amount int64, paymentRef string) (*invoicedomain.Settlement, error) {
	now := s.clock.Now()
	result := tx.WithContext(ctx).Exec(
		`UPDATE invoices
		 SET amount_paid = amount_paid + ?,
		     payment_reference = ?,
		     payment_status = CASE WHEN amount_paid + ? >= amount THEN ? ELSE payment_status END,
		     paid_at = CASE WHEN amount_paid + ? >= amount THEN ? ELSE paid_at END,
		     updated_at = ?
		 WHERE invoice_ref = ?`,
		amount, strings.TrimSpace(paymentRef),
		amount, invoicedomain.PaymentStatusPaid,
		amount, now,
		now, reference,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, invoicedomain.ErrInvoiceNotFound
	}

	var invoice invoicedomain.Invoice
	if err := tx.WithContext(ctx).
		Where("invoice_ref = ?", reference).
		First(&invoice).Error; err != nil {
		return nil, err
	}

	settlement := &invoicedomain.Settlement{
		Kind:       invoicedomain.SettlementKindBusiness,
		InvoiceRef: invoice.InvoiceRef,
		FullyPaid:  invoice.AmountPaid >= invoice.Amount,
		AmountPaid: invoice.AmountPaid,
	}
	if invoice.ContractID != nil {
		settlement.ContractID = int64(*invoice.ContractID)
	}
	return settlement, nil
}

func (s *Service) settleRecurring(ctx context.Context, tx *gorm.DB, reference string, amount int64, paymentRef string) (*invoicedomain.Settlement, error) {
	now := s.clock.Now()
	result := tx.WithContext(ctx).Exec(
		`UPDATE customer_invoices
		 SET amount_paid = amount_paid + ?,
		     payment_reference = ?,
		     payment_status = CASE WHEN amount_paid + ? >= amount THEN ? ELSE payment_status END,
		     paid_at = CASE WHEN amount_paid + ? >= amount THEN ? ELSE paid_at END,
		     updated_at = ?
		 WHERE invoice_ref = ?`,
		amount, strings.TrimSpace(paymentRef),
		amount, invoicedomain.PaymentStatusPaid,
		amount, now,
		now, reference,
	)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, invoicedomain.ErrInvoiceNotFound
	}

	var invoice invoicedomain.CustomerInvoice
	if err := tx.WithContext(ctx).
		Where("invoice_ref = ?", reference).
		First(&invoice).Error; err != nil {
		return nil, err
	}

	settlement := &invoicedomain.Settlement{
		Kind:       invoicedomain.SettlementKindRecurring,
		InvoiceRef: invoice.InvoiceRef,
		FullyPaid:  invoice.AmountPaid >= invoice.Amount,
		AmountPaid: invoice.AmountPaid,
	}
	if invoice.OrderID != nil {
		settlement.OrderID = int64(*invoice.OrderID)
	}
	return settlement, nil
}

func (s *Service) ApplyRefund(ctx context.Context, reference string, amount int64) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return invoicedomain.ErrInvalidReference
	}
	if amount <= 0 {
		return invoicedomain.ErrInvalidAmount
	}

	now := s.clock.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).Exec(
			`UPDATE invoices
			 SET amount_paid = CASE WHEN amount_paid - ? < 0 THEN 0 ELSE amount_paid - ? END,
			     payment_status = ?,
			     paid_at = NULL,
			     updated_at = ?
			 WHERE invoice_ref = ?`,
			amount, amount, invoicedomain.PaymentStatusPending, now, reference,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		result = tx.WithContext(ctx).Exec(
			`UPDATE customer_invoices
			 SET amount_paid = CASE WHEN amount_paid - ? < 0 THEN 0 ELSE amount_paid - ? END,
			     payment_status = ?,
			     paid_at = NULL,
			     updated_at = ?
			 WHERE invoice_ref = ?`,
			amount, amount, invoicedomain.PaymentStatusPending, now, reference,
		)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return invoicedomain.ErrInvoiceNotFound
		}
		return nil
	})
}

func (s *Service) MarkFailed(ctx context.Context, reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return invoicedomain.ErrInvalidReference
	}

	now := s.clock.Now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.markFailedIn(ctx, tx, "invoices", reference, now); err == nil {
			return nil
		} else if !errors.Is(err, invoicedomain.ErrInvoiceNotFound) {
			return err
		}
		return s.markFailedIn(ctx, tx, "customer_invoices", reference, now)
	})
}

func (s *Service) markFailedIn(ctx context.Context, tx *gorm.DB, table, reference string, now time.Time) error {
	result := tx.WithContext(ctx).Table(table).
		Where("invoice_ref = ? AND payment_status = ?", reference, invoicedomain.PaymentStatusPending).
		Updates(map[string]any{
			"payment_status": invoicedomain.PaymentStatusFailed,
			"updated_at":     now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return invoicedomain.ErrInvoiceNotFound
	}
	return nil
}
