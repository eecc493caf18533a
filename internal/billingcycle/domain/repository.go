package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// InsertOpen inserts a new OPEN cycle. Returns false without error
	// when the contract already has an OPEN cycle.
	InsertOpen(ctx context.Context, db *gorm.DB, cycle *BillingCycle) (bool, error)
	FindOpen(ctx context.Context, db *gorm.DB, contractID snowflake.ID) (*BillingCycle, error)
	Close(ctx context.Context, db *gorm.DB, contractID snowflake.ID, closedAt time.Time) error
}
