package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindEvent(ctx context.Context, db *gorm.DB, transactionID string) (*WebhookEvent, error)
	// InsertEvent attempts the idempotent insert; it returns false when the
	// transaction id already exists.
	InsertEvent(ctx context.Context, db *gorm.DB, event *WebhookEvent) (bool, error)
	MarkProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, processedAt time.Time) error
	// InsertTransaction inserts the transaction row, racing safely on the
	// unique transaction id.
	InsertTransaction(ctx context.Context, db *gorm.DB, txn *PaymentTransaction) (bool, error)
}
