package repository

import (
	"context"
	"errors"

	portaldomain "github.com/jdeweedata/circletel-sub013/internal/portal/domain"
	"gorm.io/gorm"
)

type repository struct{}

// Provide constructs the gorm-backed portal account repository.
func Provide() portaldomain.Repository {
	return repository{}
}

func (repository) Insert(ctx context.Context, db *gorm.DB, account *portaldomain.PortalAccount) error {
	if account == nil {
		return errors.New("missing_portal_account")
	}
	return db.WithContext(ctx).Create(account).Error
}

func (repository) Save(ctx context.Context, db *gorm.DB, account *portaldomain.PortalAccount) error {
	if account == nil {
		return errors.New("missing_portal_account")
	}
	return db.WithContext(ctx).Save(account).Error
}

func (repository) ListAll(ctx context.Context, db *gorm.DB) ([]*portaldomain.PortalAccount, error) {
	var accounts []*portaldomain.PortalAccount
	if err := db.WithContext(ctx).Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
