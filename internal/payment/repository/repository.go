package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/jdeweedata/circletel-sub013/internal/payment/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct{}

// Provide constructs the gorm-backed payment repository.
func Provide() paymentdomain.Repository {
	return repository{}
}

func (repository) FindEvent(ctx context.Context, db *gorm.DB, transactionID string) (*paymentdomain.WebhookEvent, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return nil, nil
	}
	var event paymentdomain.WebhookEvent
	err := db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (repository) InsertEvent(ctx context.Context, db *gorm.DB, event *paymentdomain.WebhookEvent) (bool, error) {
	if event == nil {
		return false, errors.New("missing_event")
	}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repository) MarkProcessed(ctx context.Context, db *gorm.DB, id snowflake.ID, processedAt time.Time) error {
	return db.WithContext(ctx).
		Model(&paymentdomain.WebhookEvent{}).
		Where("id = ?", id).
		Update("processed_at", processedAt).Error
}

func (repository) InsertTransaction(ctx context.Context, db *gorm.DB, txn *paymentdomain.PaymentTransaction) (bool, error) {
	if txn == nil {
		return false, errors.New("missing_transaction")
	}
	result := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).
		Create(txn)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
