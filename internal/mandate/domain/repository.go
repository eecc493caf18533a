package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, mandate *EmandateRequest) error
	FindByRef(ctx context.Context, db *gorm.DB, mandateRef string) (*EmandateRequest, error)
	Save(ctx context.Context, db *gorm.DB, mandate *EmandateRequest) error
	InsertPaymentMethod(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
}
