package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, account *PortalAccount) error
	Save(ctx context.Context, db *gorm.DB, account *PortalAccount) error
	// ListAll returns every account ordered by id. Lookup by email walks
	// this list rather than filtering in SQL.
	ListAll(ctx context.Context, db *gorm.DB) ([]*PortalAccount, error)
}
