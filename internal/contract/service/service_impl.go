package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/jdeweedata/circletel-sub013/internal/clock"
	contractdomain "github.com/jdeweedata/circletel-sub013/internal/contract/domain"
	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	OrderSvc orderdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	orderSvc orderdomain.Service
}

func NewService(p Params) contractdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("contract.service"),
		clock:    p.Clock,
		orderSvc: p.OrderSvc,
	}
}

func (s *Service) GetByID(ctx context.Context, contractID int64) (*contractdomain.Contract, error) {
	if contractID == 0 {
		return nil, contractdomain.ErrInvalidContractID
	}
	var contract contractdomain.Contract
	err := s.db.WithContext(ctx).
		Where("id = ?", contractID).
		First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contractdomain.ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (s *Service) GetQuote(ctx context.Context, quoteID int64) (*contractdomain.Quote, error) {
	var quote contractdomain.Quote
	err := s.db.WithContext(ctx).
		Where("id = ?", quoteID).
		First(&quote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, contractdomain.ErrQuoteNotFound
		}
		return nil, err
	}
	return &quote, nil
}

func (s *Service) MaterializeOrder(ctx context.Context, contractID int64, paymentRef string) (*orderdomain.Order, error) {
	contract, err := s.GetByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	if contract.OrderID != nil && *contract.OrderID != 0 {
		return s.existingOrder(ctx, *contract.OrderID)
	}

	quote, err := s.GetQuote(ctx, int64(contract.QuoteID))
	if err != nil {
		return nil, err
	}

	order, err := s.orderSvc.Create(ctx, orderdomain.CreateOrderRequest{
		OrderRef:       orderRefForQuote(quote.QuoteRef),
		ContractID:     int64(contract.ID),
		CustomerName:   quote.CustomerName,
		CustomerEmail:  quote.CustomerEmail,
		CustomerPhone:  quote.CustomerPhone,
		PackageCode:    quote.PackageCode,
		PackageName:    quote.PackageName,
		MonthlyAmount:  quote.MonthlyAmount,
		Currency:       quote.Currency,
		InstallAddress: quote.InstallAddress,
		PaymentRef:     paymentRef,
	})
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := s.db.WithContext(ctx).Exec(
		`UPDATE contracts SET order_id = ?, status = ?, updated_at = ? WHERE id = ?`,
		order.ID,
		contractdomain.ContractStatusPaid,
		now,
		contract.ID,
	).Error; err != nil {
		// The order exists but the back-link failed; surface it so the
		// caller can log for manual remediation.
		return order, err
	}

	s.log.Info("order materialized from quote",
		zap.String("order_ref", order.OrderRef),
		zap.Int64("contract_id", int64(contract.ID)),
	)
	return order, nil
}

func (s *Service) UpdateStatus(ctx context.Context, contractID int64, status contractdomain.ContractStatus) error {
	if contractID == 0 {
		return contractdomain.ErrInvalidContractID
	}
	switch status {
	case contractdomain.ContractStatusDraft,
		contractdomain.ContractStatusPendingPayment,
		contractdomain.ContractStatusPaid,
		contractdomain.ContractStatusActive,
		contractdomain.ContractStatusCancelled:
	default:
		return contractdomain.ErrInvalidStatus
	}
	return s.db.WithContext(ctx).Exec(
		`UPDATE contracts SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		s.clock.Now(),
		contractID,
	).Error
}

func (s *Service) existingOrder(ctx context.Context, orderID snowflake.ID) (*orderdomain.Order, error) {
	var order orderdomain.Order
	err := s.db.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orderdomain.ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func orderRefForQuote(quoteRef string) string {
	return fmt.Sprintf("ORD-%s", quoteRef)
}
