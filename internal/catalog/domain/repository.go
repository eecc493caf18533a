package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrInvalidPackageCode = errors.New("invalid_package_code")
	ErrProductNotFound    = errors.New("product_not_found")
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, products []*Product) (int64, error)
	FindByCode(ctx context.Context, db *gorm.DB, packageCode string) (*Product, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]*Product, error)
}
