package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrInvalidContract = errors.New("invalid_contract")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrInvalidPeriod   = errors.New("invalid_period")
	ErrCycleNotFound   = errors.New("billing_cycle_not_found")
)

type OpenCycleRequest struct {
	ContractID      snowflake.ID
	OrderID         *snowflake.ID
	PeriodStart     time.Time
	RecurringAmount int64
	Currency        string
}

type Service interface {
	// Open creates a new OPEN cycle for the contract spanning one month
	// from PeriodStart. If an OPEN cycle already exists it is returned
	// unchanged.
	Open(ctx context.Context, req OpenCycleRequest) (*BillingCycle, error)

	// Active returns the contract's OPEN cycle.
	Active(ctx context.Context, contractID snowflake.ID) (*BillingCycle, error)

	// CloseActive closes the contract's OPEN cycle. Closing when no cycle
	// is open is a no-op.
	CloseActive(ctx context.Context, contractID snowflake.ID) error
}
