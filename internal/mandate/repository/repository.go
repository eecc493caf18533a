package repository

import (
	"context"
	"errors"
	"strings"

	mandatedomain "github.com/jdeweedata/circletel-sub013/internal/mandate/domain"
	"gorm.io/gorm"
)

type repository struct{}

// Provide constructs the gorm-backed mandate repository.
func Provide() mandatedomain.Repository {
	return repository{}
}

func (repository) Insert(ctx context.Context, db *gorm.DB, mandate *mandatedomain.EmandateRequest) error {
	if mandate == nil {
		return errors.New("missing_mandate")
	}
	return db.WithContext(ctx).Create(mandate).Error
}

func (repository) FindByRef(ctx context.Context, db *gorm.DB, mandateRef string) (*mandatedomain.EmandateRequest, error) {
	mandateRef = strings.TrimSpace(mandateRef)
	if mandateRef == "" {
		return nil, mandatedomain.ErrInvalidMandateRef
	}

	var mandate mandatedomain.EmandateRequest
	err := db.WithContext(ctx).
		Where("mandate_ref = ?", mandateRef).
		First(&mandate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mandatedomain.ErrMandateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &mandate, nil
}

func (repository) Save(ctx context.Context, db *gorm.DB, mandate *mandatedomain.EmandateRequest) error {
	if mandate == nil {
		return errors.New("missing_mandate")
	}
	return db.WithContext(ctx).Save(mandate).Error
}

func (repository) InsertPaymentMethod(ctx context.Context, db *gorm.DB, method *mandatedomain.PaymentMethod) error {
	if method == nil {
		return errors.New("missing_payment_method")
	}
	return db.WithContext(ctx).Create(method).Error
}
