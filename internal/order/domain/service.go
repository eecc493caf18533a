package domain

import (
	"context"
	"errors"
	"time"

	"github.com/jdeweedata/circletel-sub013/pkg/db/pagination"
)

// CreateOrderRequest carries the fields needed to materialize an order.
type CreateOrderRequest struct {
	OrderRef       string
	ContractID     int64
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
	PackageCode    string
	PackageName    string
	MonthlyAmount  int64
	Currency       string
	InstallAddress string
	PaymentRef     string
}

// ListOrderRequest filters the order listing.
type ListOrderRequest struct {
	PageToken string
	PageSize  int32
	Status    OrderStatus
	Email     string
}

// ListOrderResponse is a page of orders.
type ListOrderResponse struct {
	pagination.PageInfo
	Orders []Order `json:"orders"`
}

// Service owns order lifecycle transitions. Every status change is
// validated against the forward-only pipeline before it is persisted.
type Service interface {
	Create(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetByRef(ctx context.Context, orderRef string) (*Order, error)
	List(ctx context.Context, req ListOrderRequest) (ListOrderResponse, error)
	ScheduleInstallation(ctx context.Context, orderRef string, scheduledFor time.Time) (*Order, error)
	CompleteInstallation(ctx context.Context, orderRef string) (*Order, error)
	Transition(ctx context.Context, orderRef string, to OrderStatus) (*Order, error)
}

var (
	ErrInvalidOrderRef   = errors.New("invalid_order_ref")
	ErrInvalidCustomer   = errors.New("invalid_customer")
	ErrInvalidPackage    = errors.New("invalid_package")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrOrderNotFound     = errors.New("order_not_found")
	ErrOrderExists       = errors.New("order_exists")
	ErrInvalidTransition = errors.New("invalid_transition")
)
