package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/jdeweedata/circletel-sub013/internal/billingcycle/domain"
	"gorm.io/gorm"
)

type repository struct{}

// Provide constructs the gorm-backed billing cycle repository.
func Provide() billingdomain.Repository {
	return repository{}
}

// InsertOpen relies on the partial unique index on (contract_id) WHERE
// status = 'OPEN' to keep a single open cycle per contract.
func (repository) InsertOpen(ctx context.Context, db *gorm.DB, cycle *billingdomain.BillingCycle) (bool, error) {
	if cycle == nil {
		return false, errors.New("missing_billing_cycle")
	}

	result := db.WithContext(ctx).Exec(
		`INSERT INTO billing_cycles
			(id, contract_id, order_id, status, period_start, period_end, recurring_amount, currency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (contract_id) WHERE status = 'OPEN' DO NOTHING`,
		cycle.ID,
		cycle.ContractID,
		cycle.OrderID,
		cycle.Status,
		cycle.PeriodStart,
		cycle.PeriodEnd,
		cycle.RecurringAmount,
		cycle.Currency,
		cycle.CreatedAt,
		cycle.UpdatedAt,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repository) FindOpen(ctx context.Context, db *gorm.DB, contractID snowflake.ID) (*billingdomain.BillingCycle, error) {
	var cycle billingdomain.BillingCycle
	err := db.WithContext(ctx).
		Where("contract_id = ? AND status = ?", contractID, string(billingdomain.StatusOpen)).
		First(&cycle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, billingdomain.ErrCycleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

func (repository) Close(ctx context.Context, db *gorm.DB, contractID snowflake.ID, closedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE billing_cycles
		 SET status = ?, closed_at = ?, updated_at = ?
		 WHERE contract_id = ? AND status = ?`,
		string(billingdomain.StatusClosed),
		closedAt,
		closedAt,
		contractID,
		string(billingdomain.StatusOpen),
	).Error
}
