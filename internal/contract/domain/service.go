package domain

import (
	"context"
	"errors"

	orderdomain "github.com/jdeweedata/circletel-sub013/internal/order/domain"
)

// Service resolves contracts and materializes orders from their quotes.
type Service interface {
	GetByID(ctx context.Context, contractID int64) (*Contract, error)
	GetQuote(ctx context.Context, quoteID int64) (*Quote, error)
	// MaterializeOrder creates the consumer order for a contract from its
	// quote on first successful payment and marks it payment_received. It is
	// a no-op returning the existing order when one is already linked.
	MaterializeOrder(ctx context.Context, contractID int64, paymentRef string) (*orderdomain.Order, error)
	UpdateStatus(ctx context.Context, contractID int64, status ContractStatus) error
}

var (
	ErrInvalidContractID = errors.New("invalid_contract_id")
	ErrContractNotFound  = errors.New("contract_not_found")
	ErrQuoteNotFound     = errors.New("quote_not_found")
	ErrInvalidStatus     = errors.New("invalid_contract_status")
)
